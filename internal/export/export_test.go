package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

func load(t *testing.T) *fixture.Analysis {
	t.Helper()
	a, err := fixture.Load("")
	require.NoError(t, err)
	return a
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteAll(context.Background(), dir, load(t))
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"abundance_genus.csv",
		"abundance_kingdom.csv",
		"abundance_phylum.csv",
		"abundance_species.csv",
		"alpha_diversity.csv",
		"novel_candidates.csv",
		"predictions.csv",
	}, names)

	data, err := os.ReadFile(filepath.Join(dir, "alpha_diversity.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "sample,species_richness,shannon_diversity,simpson_diversity,evenness,dominant_kingdom,total_sequences,rare_taxa_count", lines[0])
	assert.Len(t, lines, 5)
}

func TestPredictionsRoundTrip(t *testing.T) {
	a := load(t)
	dir := t.TempDir()
	_, err := WriteAll(context.Background(), dir, a)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "predictions.csv"))
	require.NoError(t, err)
	defer f.Close()

	var rows []PredictionRow
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	assert.Equal(t, PredictionRows(a), rows)
}

func TestAbundanceRowsSorted(t *testing.T) {
	a := &fixture.Analysis{Abundance: fixture.Abundance{Kingdom: fixture.LevelTable{
		"S2": {"Bacteria": 1},
		"S1": {"Eukaryota": 0.6, "Archaea": 0.4},
	}}}
	assert.Equal(t, []AbundanceRow{
		{Sample: "S1", Taxon: "Archaea", Value: 0.4},
		{Sample: "S1", Taxon: "Eukaryota", Value: 0.6},
		{Sample: "S2", Taxon: "Bacteria", Value: 1},
	}, AbundanceRows(a, fixture.LevelKingdom))
	assert.Empty(t, AbundanceRows(a, fixture.LevelGenus))
}

func TestWriteAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WriteAll(ctx, t.TempDir(), load(t))
	assert.ErrorIs(t, err, context.Canceled)
}
