package em

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve() LightCurve {
	return LightCurve{
		"g": {{Time: 0, Mag: -16}, {Time: 0.1, Mag: -16.05}},
		"r": {{Time: 0, Mag: -15.5}, {Time: 0.1, Mag: -15.6}},
	}
}

func TestGetOrCompute_SynthesizesOnceAndReturnsEqualResults(t *testing.T) {
	cache := NewInjectionCache(t.TempDir(), "hash-a")

	calls := 0
	synthesize := func() (LightCurve, error) {
		calls++
		return testCurve(), nil
	}

	first, err := cache.GetOrCompute(0, synthesize)
	require.NoError(t, err)
	second, err := cache.GetOrCompute(0, synthesize)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestGetOrCompute_RoundTripPreservesSamples(t *testing.T) {
	cache := NewInjectionCache(t.TempDir(), "hash-a")

	original := testCurve()
	_, err := cache.GetOrCompute(3, func() (LightCurve, error) { return original, nil })
	require.NoError(t, err)

	loaded, err := cache.GetOrCompute(3, func() (LightCurve, error) {
		t.Fatal("artifact should have satisfied the lookup")
		return nil, nil
	})
	require.NoError(t, err)

	require.ElementsMatch(t, original.Filters(), loaded.Filters())
	for _, name := range original.Filters() {
		require.Len(t, loaded[name], len(original[name]))
		for i, s := range original[name] {
			assert.InDelta(t, s.Time, loaded[name][i].Time, 1e-12)
			assert.InDelta(t, s.Mag, loaded[name][i].Mag, 1e-12)
		}
	}
}

func TestGetOrCompute_ConfigHashMismatchRecomputes(t *testing.T) {
	dir := t.TempDir()

	stale := NewInjectionCache(dir, "hash-a")
	_, err := stale.GetOrCompute(0, func() (LightCurve, error) { return testCurve(), nil })
	require.NoError(t, err)

	fresh := NewInjectionCache(dir, "hash-b")
	calls := 0
	_, err = fresh.GetOrCompute(0, func() (LightCurve, error) {
		calls++
		return testCurve(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_CorruptArtifactRecomputes(t *testing.T) {
	dir := t.TempDir()
	cache := NewInjectionCache(dir, "hash-a")
	require.NoError(t, os.WriteFile(cache.ArtifactPath(5), []byte("{not json"), 0o644))

	calls := 0
	curve, err := cache.GetOrCompute(5, func() (LightCurve, error) {
		calls++
		return testCurve(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, curve)

	// The corrupt artifact was overwritten with a valid one.
	calls = 0
	_, err = cache.GetOrCompute(5, func() (LightCurve, error) {
		calls++
		return testCurve(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestGetOrCompute_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	cache := NewInjectionCache(dir, "hash-a")

	_, err := cache.GetOrCompute(0, func() (LightCurve, error) { return testCurve(), nil })
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0.dat", entries[0].Name())
}

func TestGetOrCompute_SynthesisErrorPropagatesWithoutArtifact(t *testing.T) {
	dir := t.TempDir()
	cache := NewInjectionCache(dir, "hash-a")

	_, err := cache.GetOrCompute(0, func() (LightCurve, error) {
		return nil, modelErrorf("bad parameter set")
	})
	assert.ErrorIs(t, err, ErrModelEvaluation)
	assert.NoFileExists(t, cache.ArtifactPath(0))
}

func TestGetOrCompute_UnwritableDirIsCacheIOError(t *testing.T) {
	cache := NewInjectionCache(filepath.Join(t.TempDir(), "missing"), "hash-a")

	_, err := cache.GetOrCompute(0, func() (LightCurve, error) { return testCurve(), nil })
	assert.ErrorIs(t, err, ErrCacheIO)
}

func TestLoadCachedResults_ReadsAllIndices(t *testing.T) {
	dir := t.TempDir()
	cache := NewInjectionCache(dir, "hash-a")
	for index := 0; index < 3; index++ {
		_, err := cache.GetOrCompute(index, func() (LightCurve, error) { return testCurve(), nil })
		require.NoError(t, err)
	}

	results, err := LoadCachedResults(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, results.Indices())
}

func TestHashConfig_Deterministic(t *testing.T) {
	type cfg struct{ A, B float64 }

	h1, err := HashConfig(cfg{1, 2})
	require.NoError(t, err)
	h2, err := HashConfig(cfg{1, 2})
	require.NoError(t, err)
	h3, err := HashConfig(cfg{1, 3})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
