// Package export writes the dashboard tables as CSV files.
package export

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

type AbundanceRow struct {
	Sample string  `csv:"sample"`
	Taxon  string  `csv:"taxon"`
	Value  float64 `csv:"relative_abundance"`
}

type AlphaRow struct {
	Sample          string  `csv:"sample"`
	SpeciesRichness float64 `csv:"species_richness"`
	Shannon         float64 `csv:"shannon_diversity"`
	Simpson         float64 `csv:"simpson_diversity"`
	Evenness        float64 `csv:"evenness"`
	DominantKingdom string  `csv:"dominant_kingdom"`
	TotalSequences  int     `csv:"total_sequences"`
	RareTaxaCount   int     `csv:"rare_taxa_count"`
}

type PredictionRow struct {
	Sample            string  `csv:"sample"`
	SequenceID        string  `csv:"sequence_id"`
	Kingdom           string  `csv:"kingdom"`
	Phylum            string  `csv:"phylum"`
	Genus             string  `csv:"genus"`
	Species           string  `csv:"species"`
	SequenceCount     int     `csv:"sequence_count"`
	OverallConfidence float64 `csv:"overall_confidence"`
	NovelCandidate    bool    `csv:"novel_candidate"`
}

type CandidateRow struct {
	Sample            string  `csv:"sample"`
	ClusterID         string  `csv:"cluster_id"`
	PredictedKingdom  string  `csv:"predicted_kingdom"`
	PredictedPhylum   string  `csv:"predicted_phylum"`
	ClosestKnownTaxa  string  `csv:"closest_known_taxa"`
	OverallConfidence float64 `csv:"overall_confidence"`
	GeneticDistance   float64 `csv:"genetic_distance"`
}

// AbundanceRows flattens one level, sorted by sample then taxon.
func AbundanceRows(a *fixture.Analysis, level string) []AbundanceRow {
	table := a.Level(level)
	var rows []AbundanceRow
	for _, s := range slices.Sorted(maps.Keys(table)) {
		for _, taxon := range slices.Sorted(maps.Keys(table[s])) {
			rows = append(rows, AbundanceRow{Sample: s, Taxon: taxon, Value: table[s][taxon]})
		}
	}
	return rows
}

func AlphaRows(a *fixture.Analysis) []AlphaRow {
	alpha := a.Diversity.Alpha
	var rows []AlphaRow
	for _, s := range a.Samples() {
		sum := a.Diversity.SampleSummary[s]
		rows = append(rows, AlphaRow{
			Sample:          s,
			SpeciesRichness: alpha.SpeciesRichness[s],
			Shannon:         alpha.Shannon[s],
			Simpson:         alpha.Simpson[s],
			Evenness:        alpha.Evenness[s],
			DominantKingdom: sum.DominantKingdom,
			TotalSequences:  sum.TotalSequences,
			RareTaxaCount:   sum.RareTaxaCount,
		})
	}
	return rows
}

func PredictionRows(a *fixture.Analysis) []PredictionRow {
	var rows []PredictionRow
	for _, p := range dashboard.Predictions(a) {
		rows = append(rows, PredictionRow{
			Sample:            p.SampleID,
			SequenceID:        p.SequenceID,
			Kingdom:           p.Kingdom,
			Phylum:            p.Phylum,
			Genus:             p.Genus,
			Species:           p.Species,
			SequenceCount:     p.SequenceCount,
			OverallConfidence: p.OverallConfidence,
			NovelCandidate:    p.NovelCandidate,
		})
	}
	return rows
}

func CandidateRows(a *fixture.Analysis) []CandidateRow {
	var rows []CandidateRow
	for _, c := range dashboard.NovelCandidates(a) {
		rows = append(rows, CandidateRow{
			Sample:            c.SampleID,
			ClusterID:         c.ClusterID,
			PredictedKingdom:  c.PredictedKingdom,
			PredictedPhylum:   c.PredictedPhylum,
			ClosestKnownTaxa:  c.ClosestKnownTaxa,
			OverallConfidence: c.OverallConfidence,
			GeneticDistance:   c.GeneticDistance,
		})
	}
	return rows
}

// WriteAll writes every table into dir concurrently and returns the paths
// written, sorted.
func WriteAll(ctx context.Context, dir string, a *fixture.Analysis) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	jobs := map[string]any{
		"alpha_diversity.csv":  AlphaRows(a),
		"predictions.csv":      PredictionRows(a),
		"novel_candidates.csv": CandidateRows(a),
	}
	for _, level := range fixture.Levels {
		jobs["abundance_"+level+".csv"] = AbundanceRows(a, level)
	}

	g, ctx := errgroup.WithContext(ctx)
	for name, rows := range jobs {
		path := filepath.Join(dir, name)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeCSV(path, rows)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(jobs))
	for name := range jobs {
		paths = append(paths, filepath.Join(dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
