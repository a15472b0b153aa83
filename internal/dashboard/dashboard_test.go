package dashboard

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

func small() *fixture.Analysis {
	return &fixture.Analysis{
		ID: "t",
		Overview: fixture.Overview{
			TotalSamplesProcessed: 2,
			TotalSequences:        300,
		},
		Abundance: fixture.Abundance{
			Kingdom: fixture.LevelTable{
				"S2": {"Bacteria": 0.7, "Eukaryota": 0.3},
				"S1": {"Eukaryota": 0.5, "Archaea": 0.1, "Bacteria": 0.4},
			},
			Phylum: fixture.LevelTable{
				"S1": {"Chordata": 0.2, "Arthropoda": 0.8},
				"S2": {"Proteobacteria": 1},
			},
		},
		Diversity: fixture.Diversity{
			Alpha: fixture.AlphaDiversity{
				SpeciesRichness: map[string]float64{"S1": 120, "S2": 80},
				Shannon:         map[string]float64{"S1": 3, "S2": 2},
			},
			Beta: map[string]fixture.BetaPair{
				"S1_vs_S2": {JaccardSimilarity: 0.4, JaccardDistance: 0.6},
			},
			SampleSummary: map[string]fixture.SampleSummary{
				"S1": {DominantKingdom: "Eukaryota", TotalSequences: 100, RareTaxaCount: 3},
				"S2": {DominantKingdom: "Bacteria", TotalSequences: 200, RareTaxaCount: 5},
			},
		},
		Predictions: map[string][]fixture.Prediction{
			"S2": {{SequenceID: "b1"}, {SequenceID: "a1"}},
			"S1": {{SequenceID: "c1"}},
		},
		NovelCandidates: map[string][]fixture.NovelCandidate{
			"S2": {{ClusterID: "NC_2"}, {ClusterID: "NC_1"}},
			"S1": {{ClusterID: "NC_9"}},
		},
	}
}

func TestLevelSeriesKingdomOrder(t *testing.T) {
	s := LevelSeries(small(), fixture.LevelKingdom)

	want := Series{
		Level:  "kingdom",
		Labels: []string{"S1", "S2"},
		Datasets: []Dataset{
			{Label: "Eukaryota", Values: []float64{0.5, 0.3}},
			{Label: "Archaea", Values: []float64{0.1, 0}},
			{Label: "Bacteria", Values: []float64{0.4, 0.7}},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("kingdom series (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 1.0, s.Total(0), 1e-12)
}

func TestLevelSeriesSortedTaxa(t *testing.T) {
	s := LevelSeries(small(), fixture.LevelPhylum)
	labels := make([]string, len(s.Datasets))
	for i, d := range s.Datasets {
		labels[i] = d.Label
	}
	assert.Equal(t, []string{"Arthropoda", "Chordata", "Proteobacteria"}, labels)
	assert.Equal(t, []float64{0, 1}, s.Datasets[2].Values)
}

func TestLevelSeriesEmpty(t *testing.T) {
	s := LevelSeries(small(), fixture.LevelSpecies)
	assert.True(t, s.Empty())
	assert.Equal(t, "Species Level", LevelTitle(fixture.LevelSpecies))
}

func TestSampleCards(t *testing.T) {
	cards := SampleCards(small())
	require.Len(t, cards, 2)
	assert.Equal(t, "S1", cards[0].SampleID)
	assert.Equal(t, "Eukaryota", cards[0].DominantKingdom)
	assert.Equal(t, 0, cards[0].Theme)
	assert.Equal(t, 1, cards[1].Theme)
}

func TestSampleDetail(t *testing.T) {
	details, ok := SampleDetail(small(), "S1")
	require.True(t, ok)
	require.Len(t, details, 2)

	assert.Equal(t, "kingdom", details[0].Level)
	assert.Equal(t, TaxonValue{"Eukaryota", 0.5}, details[0].Rows[0])
	assert.Equal(t, TaxonValue{"Archaea", 0.1}, details[0].Rows[2])
	assert.Equal(t, "Arthropoda", details[1].Rows[0].Taxon)

	_, ok = SampleDetail(small(), "nope")
	assert.False(t, ok)
}

func TestAlphaAndBetaSeries(t *testing.T) {
	labels, metrics := AlphaSeries(small())
	assert.Equal(t, []string{"S1", "S2"}, labels)
	require.Len(t, metrics, 4)
	assert.Equal(t, []float64{120, 80}, metrics[0].Values)
	assert.Equal(t, []float64{0, 0}, metrics[2].Values, "missing metric is zero")

	rows := BetaSeries(small())
	assert.Equal(t, []BetaRow{{Pair: "S1 vs S2", Similarity: 0.4, Distance: 0.6}}, rows)
}

func TestOverview(t *testing.T) {
	s := Overview(small())
	assert.Equal(t, 2, s.Samples)
	assert.Equal(t, 300, s.TotalSequences)
	assert.Equal(t, 3, s.Predictions)
	assert.Equal(t, 3, s.NovelCandidates)
	assert.InDelta(t, 2.5, s.ShannonMean, 1e-12)
	assert.InDelta(t, 0.70710678, s.ShannonStdDev, 1e-6)
	assert.Equal(t, "Bacteria", s.DominantKingdom, "tie broken by name")
}

func TestOverviewEmbedded(t *testing.T) {
	a, err := fixture.Load("")
	require.NoError(t, err)
	s := Overview(a)
	assert.Equal(t, 4, s.Samples)
	assert.Equal(t, 24, s.Predictions)
	assert.Equal(t, 16, s.NovelCandidates)
	assert.Positive(t, s.ShannonMean)
}

func TestFlattenedLists(t *testing.T) {
	cands := NovelCandidates(small())
	ids := []string{}
	for _, c := range cands {
		ids = append(ids, c.SampleID+"/"+c.ClusterID)
	}
	assert.Equal(t, []string{"S1/NC_9", "S2/NC_1", "S2/NC_2"}, ids)

	preds := Predictions(small())
	ids = ids[:0]
	for _, p := range preds {
		ids = append(ids, p.SampleID+"/"+p.SequenceID)
	}
	assert.Equal(t, []string{"S1/c1", "S2/b1", "S2/a1"}, ids)
}

func TestPage(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantFirst int
		wantLen   int
	}{
		{"first", 1, 1, 0, 12},
		{"second", 2, 2, 12, 12},
		{"last partial", 3, 3, 24, 1},
		{"past end clamps", 9, 3, 24, 1},
		{"zero clamps", 0, 1, 0, 12},
		{"negative clamps", -4, 1, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Page(items, tt.page, 12)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, 25, p.Total)
			require.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Items[0])
		})
	}

	empty := Page([]string(nil), 2, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())

	exact := Page(items[:24], 2, 12)
	assert.Equal(t, 2, exact.TotalPages)
	assert.True(t, exact.HasPrev())
	assert.False(t, exact.HasNext())
}

func TestConfidenceClass(t *testing.T) {
	assert.Equal(t, "high", ConfidenceClass(0.61))
	assert.Equal(t, "low", ConfidenceClass(0.6))
	assert.Equal(t, "low", ConfidenceClass(0))
}

func TestPickColorDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(3))
	b := rand.New(rand.NewSource(3))
	for range 20 {
		c := PickColor(a)
		assert.Equal(t, c, PickColor(b))
		assert.Contains(t, Palette, c)
	}
	assert.Equal(t, ChartColor(0), ChartColor(len(ChartPalette)))
}
