package em

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel records Evaluate calls and returns a fixed curve.
type stubModel struct {
	calls      int
	lastParams map[string]float64
	curve      LightCurve
	err        error
}

func (m *stubModel) Evaluate(params map[string]float64) (LightCurve, error) {
	m.calls++
	m.lastParams = params
	return m.curve, m.err
}

func TestSynthesize_MissingTriggerTimeFailsBeforeEvaluation(t *testing.T) {
	model := &stubModel{curve: testCurve()}
	row := InjectionRow{"luminosity_distance": 40}

	_, err := Synthesize(row, SynthesisConfig{Absolute: true}, model)

	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 0, model.calls)
}

func TestSynthesize_MergesTriggerTimeWithoutMutatingRow(t *testing.T) {
	model := &stubModel{curve: testCurve()}
	row := InjectionRow{TriggerTimeKey: 1000, "luminosity_distance": 40}

	_, err := Synthesize(row, SynthesisConfig{Absolute: true}, model)
	require.NoError(t, err)

	assert.Equal(t, GPSToMJD(1000), model.lastParams[DerivedTriggerTimeKey])
	assert.NotContains(t, row, DerivedTriggerTimeKey)
	assert.Len(t, row, 2)
}

func TestSynthesize_AbsoluteSkipsDistanceModulus(t *testing.T) {
	model := &stubModel{curve: LightCurve{"g": {{Time: 0, Mag: -16}}}}
	row := InjectionRow{TriggerTimeKey: 1000}

	curve, err := Synthesize(row, SynthesisConfig{Absolute: true}, model)
	require.NoError(t, err)
	assert.Equal(t, -16.0, curve["g"][0].Mag)
}

func TestSynthesize_ApparentAppliesDistanceModulus(t *testing.T) {
	model := &stubModel{curve: LightCurve{"g": {{Time: 0, Mag: -16}}}}
	row := InjectionRow{TriggerTimeKey: 1000, "luminosity_distance": 40}

	curve, err := Synthesize(row, SynthesisConfig{}, model)
	require.NoError(t, err)

	mu := 5*math.Log10(40) + 25
	assert.InDelta(t, -16+mu, curve["g"][0].Mag, 1e-12)
}

func TestSynthesize_ApparentWithoutDistanceIsMissingFieldError(t *testing.T) {
	model := &stubModel{curve: testCurve()}
	row := InjectionRow{TriggerTimeKey: 1000}

	_, err := Synthesize(row, SynthesisConfig{}, model)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSynthesize_RestrictsToRequestedFilters(t *testing.T) {
	model := &stubModel{curve: testCurve()}
	row := InjectionRow{TriggerTimeKey: 1000}

	curve, err := Synthesize(row, SynthesisConfig{Filters: []string{"g"}, Absolute: true}, model)
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, curve.Filters())
}

func TestSynthesize_ModelErrorPropagates(t *testing.T) {
	model := &stubModel{err: modelErrorf("surrogate out of range")}
	row := InjectionRow{TriggerTimeKey: 1000}

	_, err := Synthesize(row, SynthesisConfig{Absolute: true}, model)
	assert.ErrorIs(t, err, ErrModelEvaluation)
}
