package em

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRunSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validSpec() *RunSpec {
	return &RunSpec{
		Model:     SupernovaNugentHyper,
		Outdir:    "out",
		Injection: "injection.json",
		TMin:      0, TMax: 14, Dt: 0.1,
		Filters: []string{"g", "r"},
	}
}

func TestLoadRunSpec_ValidYAML(t *testing.T) {
	path := writeRunSpec(t, `
model: nugent-hyper
outdir: outdir
label: run1
tmin: 0.0
tmax: 14.0
dt: 0.1
filters: [g, r, i]
generation_seed: 42
injection: injection.json
ztf_sampling: true
ztf_too: "180"
photometry_augmentation:
  seed: 7
  n_points: 10
  filters: [g]
`)

	spec, err := LoadRunSpec(path)
	require.NoError(t, err)

	assert.Equal(t, SupernovaNugentHyper, spec.Model)
	assert.Equal(t, int64(42), spec.GenerationSeed)
	assert.Equal(t, []string{"g", "r", "i"}, spec.Filters)
	assert.True(t, spec.ZTFSampling)
	require.NotNil(t, spec.Augmentation)
	assert.Equal(t, 10, spec.Augmentation.NPoints)
	assert.NoError(t, spec.Validate())
}

func TestLoadRunSpec_UnknownKeyRejected(t *testing.T) {
	path := writeRunSpec(t, "model: salt2\nunknown_knob: 3\n")

	_, err := LoadRunSpec(path)
	assert.Error(t, err)
}

func TestRunSpec_ValidateRejectsMissingModel(t *testing.T) {
	spec := validSpec()
	spec.Model = ""
	assert.ErrorIs(t, spec.Validate(), ErrConfiguration)
}

func TestRunSpec_ValidateRejectsNonPositiveStep(t *testing.T) {
	spec := validSpec()
	spec.Dt = 0
	assert.ErrorIs(t, spec.Validate(), ErrConfiguration)
}

func TestRunSpec_ValidateRejectsInvertedWindow(t *testing.T) {
	spec := validSpec()
	spec.TMin, spec.TMax = 10, 1
	assert.ErrorIs(t, spec.Validate(), ErrConfiguration)
}

func TestRunSpec_ValidateRejectsMismatchedDetectionLimits(t *testing.T) {
	spec := validSpec()
	spec.DetectionLimits = []float64{22, 21, 23}
	assert.ErrorIs(t, spec.Validate(), ErrConfiguration)
}

func TestRunSpec_ValidateRejectsToOWithoutSampling(t *testing.T) {
	spec := validSpec()
	spec.ZTFToO = ZTFToO180
	assert.ErrorIs(t, spec.Validate(), ErrConfiguration)
}

func TestRunSpec_DetectionLimitMap_SharedValue(t *testing.T) {
	spec := validSpec()
	spec.DetectionLimits = []float64{22}

	limits := spec.DetectionLimitMap()
	assert.Equal(t, map[string]float64{"g": 22, "r": 22}, limits)
}

func TestRunSpec_DetectionLimitMap_PerFilter(t *testing.T) {
	spec := validSpec()
	spec.DetectionLimits = []float64{22, 21}

	limits := spec.DetectionLimitMap()
	assert.Equal(t, map[string]float64{"g": 22, "r": 21}, limits)
}

func TestRunSpec_ModelConfigCarriesGrid(t *testing.T) {
	spec := validSpec()

	cfg := spec.ModelConfig()
	assert.Len(t, cfg.SampleTimes, 141)
}
