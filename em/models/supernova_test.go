package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightcurve-sim/lightcurve-sim/em"
)

func snModel(t *testing.T, name string) em.LightCurveModel {
	t.Helper()
	model, err := NewSupernovaTemplate(em.SupernovaConfig{
		Model:       name,
		SampleTimes: em.SampleTimes(0, 30, 0.5),
	})
	require.NoError(t, err)
	return model
}

func TestNewSupernovaTemplate_UnknownTemplate(t *testing.T) {
	_, err := NewSupernovaTemplate(em.SupernovaConfig{Model: "salt3"})
	assert.ErrorIs(t, err, em.ErrConfiguration)
}

func TestSupernovaTemplate_PeaksNearTemplateEpoch(t *testing.T) {
	model := snModel(t, em.SupernovaNugentHyper)

	curve, err := model.Evaluate(map[string]float64{})
	require.NoError(t, err)

	brightest, brightestTime := 99.0, -1.0
	for _, s := range curve["g"] {
		if s.Mag < brightest {
			brightest, brightestTime = s.Mag, s.Time
		}
	}
	assert.InDelta(t, 16.0, brightestTime, 0.5)
	assert.InDelta(t, -19.1, brightest, 0.05)
}

func TestSupernovaTemplate_DeclinesAfterPeak(t *testing.T) {
	model := snModel(t, em.SupernovaSALT2)

	curve, err := model.Evaluate(map[string]float64{})
	require.NoError(t, err)

	samples := curve["g"]
	last := samples[len(samples)-1]
	assert.Greater(t, last.Mag, -19.35)
}

func TestSupernovaTemplate_MagBoostShiftsAllBands(t *testing.T) {
	model := snModel(t, em.SupernovaNugentHyper)

	base, err := model.Evaluate(map[string]float64{})
	require.NoError(t, err)
	boosted, err := model.Evaluate(map[string]float64{"supernova_mag_boost": 1.5})
	require.NoError(t, err)

	for _, name := range base.Filters() {
		for i := range base[name] {
			assert.InDelta(t, base[name][i].Mag+1.5, boosted[name][i].Mag, 1e-12)
		}
	}
}

func TestSupernovaTemplate_NonPositiveStretchRejected(t *testing.T) {
	model := snModel(t, em.SupernovaNugentHyper)

	_, err := model.Evaluate(map[string]float64{"stretch": 0})
	assert.ErrorIs(t, err, em.ErrConfiguration)
}

func TestSupernovaTemplate_TemplatesDiffer(t *testing.T) {
	hyper, err := snModel(t, em.SupernovaNugentHyper).Evaluate(map[string]float64{})
	require.NoError(t, err)
	salt2, err := snModel(t, em.SupernovaSALT2).Evaluate(map[string]float64{})
	require.NoError(t, err)

	assert.NotEqual(t, hyper["g"], salt2["g"])
}
