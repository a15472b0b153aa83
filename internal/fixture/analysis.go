// Package fixture holds the eDNA analysis document the dashboard renders,
// plus loading, validation and live reload of it.
package fixture

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNoData is returned when a document has no samples to show.
var ErrNoData = errors.New("fixture: analysis has no samples")

// Abundance levels, coarsest first.
const (
	LevelKingdom = "kingdom"
	LevelPhylum  = "phylum"
	LevelGenus   = "genus"
	LevelSpecies = "species"
)

// Levels lists every abundance level in display order.
var Levels = []string{LevelKingdom, LevelPhylum, LevelGenus, LevelSpecies}

// Analysis is one processed eDNA run.
type Analysis struct {
	ID              string                      `json:"id"`
	Title           string                      `json:"title,omitempty"`
	Overview        Overview                    `json:"overview"`
	Abundance       Abundance                   `json:"abundance_data"`
	Diversity       Diversity                   `json:"diversity_data"`
	Predictions     map[string][]Prediction     `json:"taxonomic_predictions"`
	NovelCandidates map[string][]NovelCandidate `json:"novel_candidates"`
}

type Overview struct {
	TotalSamplesProcessed int    `json:"total_samples_processed"`
	TotalSequences        int    `json:"total_sequences"`
	AnalysisDate          string `json:"analysis_date,omitempty"`
	PipelineVersion       string `json:"pipeline_version,omitempty"`
	ReferenceDatabase     string `json:"reference_database,omitempty"`
}

// LevelTable maps sample → taxon → relative abundance.
type LevelTable map[string]map[string]float64

type Abundance struct {
	Kingdom LevelTable `json:"kingdom_level"`
	Phylum  LevelTable `json:"phylum_level"`
	Genus   LevelTable `json:"genus_level"`
	Species LevelTable `json:"species_level"`
}

type Diversity struct {
	Alpha         AlphaDiversity           `json:"alpha_diversity"`
	Beta          map[string]BetaPair      `json:"beta_diversity"`
	SampleSummary map[string]SampleSummary `json:"sample_summary"`
}

// AlphaDiversity holds one sample → value map per metric.
type AlphaDiversity struct {
	SpeciesRichness map[string]float64 `json:"species_richness"`
	Shannon         map[string]float64 `json:"shannon_diversity"`
	Simpson         map[string]float64 `json:"simpson_diversity"`
	Evenness        map[string]float64 `json:"evenness"`
}

type BetaPair struct {
	JaccardSimilarity float64 `json:"jaccard_similarity"`
	JaccardDistance   float64 `json:"jaccard_distance"`
}

type SampleSummary struct {
	DominantKingdom string `json:"dominant_kingdom"`
	TotalSequences  int    `json:"total_sequences"`
	RareTaxaCount   int    `json:"rare_taxa_count"`
}

// Prediction is one classified sequence.
type Prediction struct {
	SequenceID        string  `json:"sequence_id"`
	Kingdom           string  `json:"kingdom"`
	Phylum            string  `json:"phylum"`
	Genus             string  `json:"genus"`
	Species           string  `json:"species"`
	SequenceCount     int     `json:"sequence_count"`
	OverallConfidence float64 `json:"overall_confidence"`
	NovelCandidate    bool    `json:"novel_candidate"`
}

// NovelCandidate is a sequence cluster with no confident match in the reference set.
type NovelCandidate struct {
	ClusterID         string  `json:"cluster_id"`
	PredictedKingdom  string  `json:"predicted_kingdom"`
	PredictedPhylum   string  `json:"predicted_phylum"`
	ClosestKnownTaxa  string  `json:"closest_known_taxa"`
	OverallConfidence float64 `json:"overall_confidence"`
	GeneticDistance   float64 `json:"genetic_distance"`
}

// Level returns the abundance table for a level name, or nil.
func (a *Analysis) Level(name string) LevelTable {
	switch name {
	case LevelKingdom:
		return a.Abundance.Kingdom
	case LevelPhylum:
		return a.Abundance.Phylum
	case LevelGenus:
		return a.Abundance.Genus
	case LevelSpecies:
		return a.Abundance.Species
	}
	return nil
}

// Samples returns every sample id mentioned by the summary, abundance or
// alpha diversity sections, sorted.
func (a *Analysis) Samples() []string {
	var out []string
	out = slices.AppendSeq(out, maps.Keys(a.Diversity.SampleSummary))
	out = slices.AppendSeq(out, maps.Keys(a.Abundance.Kingdom))
	out = slices.AppendSeq(out, maps.Keys(a.Diversity.Alpha.Shannon))
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate rejects documents the dashboard cannot render.
func (a *Analysis) Validate() error {
	if a.ID == "" {
		return errors.New("fixture: missing id")
	}
	if len(a.Samples()) == 0 {
		return ErrNoData
	}
	for _, level := range Levels {
		for sample, row := range a.Level(level) {
			for taxon, v := range row {
				if v < 0 {
					return fmt.Errorf("fixture: %s abundance of %s in %s is negative", level, taxon, sample)
				}
			}
		}
	}
	for sample, preds := range a.Predictions {
		for _, p := range preds {
			if p.OverallConfidence < 0 || p.OverallConfidence > 1 {
				return fmt.Errorf("fixture: prediction %s in %s has confidence %v outside [0,1]", p.SequenceID, sample, p.OverallConfidence)
			}
		}
	}
	for sample, cands := range a.NovelCandidates {
		for _, c := range cands {
			if c.OverallConfidence < 0 || c.OverallConfidence > 1 {
				return fmt.Errorf("fixture: candidate %s in %s has confidence %v outside [0,1]", c.ClusterID, sample, c.OverallConfidence)
			}
		}
	}
	return nil
}
