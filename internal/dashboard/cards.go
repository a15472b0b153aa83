package dashboard

import (
	"cmp"
	"maps"
	"slices"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

// Card is one sample tile.
type Card struct {
	SampleID string
	fixture.SampleSummary
	Theme int // index into CardThemes
}

// SampleCards returns one card per sample, sorted by id.
func SampleCards(a *fixture.Analysis) []Card {
	samples := a.Samples()
	out := make([]Card, 0, len(samples))
	for i, s := range samples {
		out = append(out, Card{
			SampleID:      s,
			SampleSummary: a.Diversity.SampleSummary[s],
			Theme:         i % len(CardThemes),
		})
	}
	return out
}

// TaxonValue is one row of the detail modal.
type TaxonValue struct {
	Taxon string
	Value float64
}

// LevelDetail holds the rows of one level for a sample, largest first.
type LevelDetail struct {
	Level string
	Rows  []TaxonValue
}

// SampleDetail returns the per-level breakdown of one sample. Levels with no
// data for the sample are omitted. ok is false for an unknown sample.
func SampleDetail(a *fixture.Analysis, sample string) (details []LevelDetail, ok bool) {
	if !slices.Contains(a.Samples(), sample) {
		return nil, false
	}
	for _, level := range fixture.Levels {
		row := a.Level(level)[sample]
		if len(row) == 0 {
			continue
		}
		d := LevelDetail{Level: level}
		for _, taxon := range slices.Sorted(maps.Keys(row)) {
			d.Rows = append(d.Rows, TaxonValue{Taxon: taxon, Value: row[taxon]})
		}
		slices.SortStableFunc(d.Rows, func(x, y TaxonValue) int {
			return cmp.Compare(y.Value, x.Value)
		})
		details = append(details, d)
	}
	return details, true
}

// Candidate is a novel candidate with its sample attached.
type Candidate struct {
	SampleID string
	fixture.NovelCandidate
}

// NovelCandidates flattens candidates, sorted by sample then cluster id.
func NovelCandidates(a *fixture.Analysis) []Candidate {
	var out []Candidate
	for _, s := range slices.Sorted(maps.Keys(a.NovelCandidates)) {
		for _, c := range a.NovelCandidates[s] {
			out = append(out, Candidate{SampleID: s, NovelCandidate: c})
		}
	}
	slices.SortStableFunc(out, func(x, y Candidate) int {
		return cmp.Or(cmp.Compare(x.SampleID, y.SampleID), cmp.Compare(x.ClusterID, y.ClusterID))
	})
	return out
}

// PredictionRow is a prediction with its sample attached.
type PredictionRow struct {
	SampleID string
	fixture.Prediction
}

// Predictions flattens predictions, sorted by sample and keeping document order
// within a sample.
func Predictions(a *fixture.Analysis) []PredictionRow {
	var out []PredictionRow
	for _, s := range slices.Sorted(maps.Keys(a.Predictions)) {
		for _, p := range a.Predictions[s] {
			out = append(out, PredictionRow{SampleID: s, Prediction: p})
		}
	}
	return out
}

// ConfidenceClass picks the icon for a confidence score.
func ConfidenceClass(c float64) string {
	if c > 0.6 {
		return "high"
	}
	return "low"
}
