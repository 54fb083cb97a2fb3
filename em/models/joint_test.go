package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightcurve-sim/lightcurve-sim/em"
)

type fixedModel struct {
	curve em.LightCurve
	err   error
}

func (m *fixedModel) Evaluate(map[string]float64) (em.LightCurve, error) {
	return m.curve, m.err
}

func TestJoint_AddsComponentFluxes(t *testing.T) {
	transient := &fixedModel{curve: em.LightCurve{"g": {{Time: 0, Mag: -16}}}}
	afterglow := &fixedModel{curve: em.LightCurve{"g": {{Time: 0, Mag: -16}}}}

	joint := NewJoint(transient, afterglow)
	curve, err := joint.Evaluate(nil)
	require.NoError(t, err)

	assert.InDelta(t, -16-2.5*math.Log10(2), curve["g"][0].Mag, 1e-12)
}

func TestJoint_ComponentErrorPropagates(t *testing.T) {
	transient := &fixedModel{err: em.NewConfigError("broken")}
	afterglow := &fixedModel{curve: em.LightCurve{}}

	_, err := NewJoint(transient, afterglow).Evaluate(nil)
	assert.Error(t, err)
}
