// Package dashboard turns an analysis document into the rows, series and
// summaries the views draw.
package dashboard

import (
	"maps"
	"slices"
	"strings"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

// KingdomOrder is the fixed stacking order of the kingdom chart.
var KingdomOrder = []string{"Eukaryota", "Archaea", "Bacteria"}

// Dataset is one stacked bar series.
type Dataset struct {
	Label  string
	Values []float64 // one per sample label
}

// Series is the input of a stacked bar chart.
type Series struct {
	Level    string
	Labels   []string
	Datasets []Dataset
}

// Empty reports whether there is nothing to plot.
func (s Series) Empty() bool {
	return len(s.Labels) == 0 || len(s.Datasets) == 0
}

// Total returns the stacked sum for the sample at index i.
func (s Series) Total(i int) float64 {
	var sum float64
	for _, d := range s.Datasets {
		sum += d.Values[i]
	}
	return sum
}

// LevelSeries builds the stacked series for one abundance level. Missing
// values are zero.
func LevelSeries(a *fixture.Analysis, level string) Series {
	table := a.Level(level)
	s := Series{Level: level}
	if len(table) == 0 {
		return s
	}
	s.Labels = slices.Sorted(maps.Keys(table))

	var taxa []string
	if level == fixture.LevelKingdom {
		taxa = KingdomOrder
	} else {
		seen := map[string]struct{}{}
		for _, row := range table {
			for taxon := range row {
				seen[taxon] = struct{}{}
			}
		}
		taxa = slices.Sorted(maps.Keys(seen))
	}

	for _, taxon := range taxa {
		d := Dataset{Label: taxon, Values: make([]float64, len(s.Labels))}
		for i, sample := range s.Labels {
			d.Values[i] = table[sample][taxon]
		}
		s.Datasets = append(s.Datasets, d)
	}
	return s
}

// LevelTitle is the chart heading for a level.
func LevelTitle(level string) string {
	if level == "" {
		return ""
	}
	return strings.ToUpper(level[:1]) + level[1:] + " Level"
}

// MetricSeries is one alpha diversity metric over the sorted samples.
type MetricSeries struct {
	Key    string
	Label  string
	Values []float64
}

var alphaMetrics = []struct{ key, label string }{
	{"species_richness", "Species Richness"},
	{"shannon_diversity", "Shannon Diversity"},
	{"simpson_diversity", "Simpson Diversity"},
	{"evenness", "Evenness"},
}

func alphaMap(a *fixture.Analysis, key string) map[string]float64 {
	switch key {
	case "species_richness":
		return a.Diversity.Alpha.SpeciesRichness
	case "shannon_diversity":
		return a.Diversity.Alpha.Shannon
	case "simpson_diversity":
		return a.Diversity.Alpha.Simpson
	case "evenness":
		return a.Diversity.Alpha.Evenness
	}
	return nil
}

// AlphaSeries returns the sorted sample labels and one series per metric.
func AlphaSeries(a *fixture.Analysis) ([]string, []MetricSeries) {
	samples := a.Samples()
	out := make([]MetricSeries, 0, len(alphaMetrics))
	for _, m := range alphaMetrics {
		values := alphaMap(a, m.key)
		ms := MetricSeries{Key: m.key, Label: m.label, Values: make([]float64, len(samples))}
		for i, s := range samples {
			ms.Values[i] = values[s]
		}
		out = append(out, ms)
	}
	return samples, out
}

// BetaRow is one sample pair.
type BetaRow struct {
	Pair       string
	Similarity float64
	Distance   float64
}

// BetaSeries returns the Jaccard rows sorted by pair key, with "_vs_"
// shown as " vs ".
func BetaSeries(a *fixture.Analysis) []BetaRow {
	keys := slices.Sorted(maps.Keys(a.Diversity.Beta))
	out := make([]BetaRow, 0, len(keys))
	for _, k := range keys {
		p := a.Diversity.Beta[k]
		out = append(out, BetaRow{
			Pair:       strings.ReplaceAll(k, "_vs_", " vs "),
			Similarity: p.JaccardSimilarity,
			Distance:   p.JaccardDistance,
		})
	}
	return out
}
