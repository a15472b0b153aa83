package dashboard

import (
	"cmp"
	"maps"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

// Summary is the headline block of the home view.
type Summary struct {
	ID              string
	Title           string
	Samples         int
	TotalSequences  int
	Predictions     int
	NovelCandidates int
	ShannonMean     float64
	ShannonStdDev   float64 // zero with fewer than two samples
	DominantKingdom string  // most common dominant kingdom, ties broken by name
}

// Overview summarises an analysis.
func Overview(a *fixture.Analysis) Summary {
	s := Summary{
		ID:             a.ID,
		Title:          a.Title,
		Samples:        len(a.Samples()),
		TotalSequences: a.Overview.TotalSequences,
	}
	if a.Overview.TotalSamplesProcessed > 0 {
		s.Samples = a.Overview.TotalSamplesProcessed
	}
	for _, ps := range a.Predictions {
		s.Predictions += len(ps)
	}
	for _, cs := range a.NovelCandidates {
		s.NovelCandidates += len(cs)
	}

	shannon := make([]float64, 0, len(a.Diversity.Alpha.Shannon))
	for _, k := range slices.Sorted(maps.Keys(a.Diversity.Alpha.Shannon)) {
		shannon = append(shannon, a.Diversity.Alpha.Shannon[k])
	}
	switch len(shannon) {
	case 0:
	case 1:
		s.ShannonMean = shannon[0]
	default:
		s.ShannonMean, s.ShannonStdDev = stat.MeanStdDev(shannon, nil)
	}

	counts := map[string]int{}
	for _, sum := range a.Diversity.SampleSummary {
		if sum.DominantKingdom != "" {
			counts[sum.DominantKingdom]++
		}
	}
	kingdoms := slices.Collect(maps.Keys(counts))
	slices.SortFunc(kingdoms, func(x, y string) int {
		return cmp.Or(cmp.Compare(counts[y], counts[x]), cmp.Compare(x, y))
	})
	if len(kingdoms) > 0 {
		s.DominantKingdom = kingdoms[0]
	}
	return s
}
