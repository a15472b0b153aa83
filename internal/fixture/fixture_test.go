package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoadEmbedded(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "1", a.ID)
	assert.Equal(t, []string{"Sample_Estuary_D", "Sample_Lake_B", "Sample_Pond_A", "Sample_River_C"}, a.Samples())
	assert.Equal(t, 4, a.Overview.TotalSamplesProcessed)

	for _, level := range Levels {
		assert.NotEmpty(t, a.Level(level), level)
	}
	assert.Nil(t, a.Level("order"))
	assert.Len(t, a.Diversity.Beta, 6)

	sum := 0
	for _, s := range a.Diversity.SampleSummary {
		sum += s.TotalSequences
	}
	assert.Equal(t, a.Overview.TotalSequences, sum)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"not json", `{"id":`, nil},
		{"missing id", `{"diversity_data":{"sample_summary":{"S1":{}}}}`, nil},
		{"no samples", `{"id":"x"}`, ErrNoData},
		{"negative abundance", `{"id":"x","abundance_data":{"phylum_level":{"S1":{"P":-0.1}}},"diversity_data":{"sample_summary":{"S1":{}}}}`, nil},
		{"confidence above one", `{"id":"x","diversity_data":{"sample_summary":{"S1":{}}},"taxonomic_predictions":{"S1":[{"sequence_id":"q","overall_confidence":1.5}]}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestSamplesUnion(t *testing.T) {
	a := &Analysis{
		Abundance: Abundance{Kingdom: LevelTable{"B": {}, "A": {}}},
		Diversity: Diversity{
			Alpha:         AlphaDiversity{Shannon: map[string]float64{"C": 1}},
			SampleSummary: map[string]SampleSummary{"A": {}},
		},
	}
	assert.Equal(t, []string{"A", "B", "C"}, a.Samples())
}

func TestJSONRoundTrip(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	doc, err := a.JSON()
	require.NoError(t, err)

	again, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestStoreNotifies(t *testing.T) {
	first := &Analysis{ID: "1"}
	s := NewStore(first)
	assert.Same(t, first, s.Current())
	assert.Equal(t, 1, s.Version())

	var got []string
	s.Subscribe(func(a *Analysis) { got = append(got, a.ID) })
	s.Replace(&Analysis{ID: "2"})
	s.Replace(&Analysis{ID: "3"})

	assert.Equal(t, []string{"2", "3"}, got)
	assert.Equal(t, "3", s.Current().ID)
	assert.Equal(t, 3, s.Version())
}

func writeAnalysis(t *testing.T, path, id string) {
	t.Helper()
	a, err := Load("")
	require.NoError(t, err)
	a.ID = id
	doc, err := a.JSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	writeAnalysis(t, path, "first")

	a, err := Load(path)
	require.NoError(t, err)
	store := NewStore(a)

	var notified atomic.Int32
	store.Subscribe(func(*Analysis) { notified.Add(1) })

	w, err := NewWatcher(path, 20*time.Millisecond, store, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeAnalysis(t, path, "second")
	require.Eventually(t, func() bool { return store.Current().ID == "second" }, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, notified.Load(), int32(1))
}

func TestWatcherKeepsPreviousOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	writeAnalysis(t, path, "good")

	a, err := Load(path)
	require.NoError(t, err)
	store := NewStore(a)

	w, err := NewWatcher(path, 20*time.Millisecond, store, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"id":`), 0644))
	require.Eventually(t, func() bool {
		_, failed := w.Reloads()
		return failed > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "good", store.Current().ID)
	assert.Equal(t, 1, store.Version())
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	writeAnalysis(t, path, "only")

	a, err := Load(path)
	require.NoError(t, err)
	store := NewStore(a)

	w, err := NewWatcher(path, 10*time.Millisecond, store, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	time.Sleep(80 * time.Millisecond)
	w.Stop()

	ok, failed := w.Reloads()
	assert.Zero(t, ok)
	assert.Zero(t, failed)
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	writeAnalysis(t, path, "x")
	store := NewStore(nil)

	w, err := NewWatcher(path, 0, store, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
	w.Stop()
}

func TestNewWatcherNeedsPath(t *testing.T) {
	_, err := NewWatcher("", time.Second, NewStore(nil), zap.NewNop())
	assert.Error(t, err)
}
