package models

import (
	"github.com/lightcurve-sim/lightcurve-sim/em"
)

// Joint is the additive combination of a transient emission model
// (kilonova or supernova) and a GRB afterglow: per filter, per sample time,
// the sub-model fluxes add.
type Joint struct {
	transient em.LightCurveModel
	afterglow em.LightCurveModel
}

// NewJoint combines a transient model with an afterglow model.
func NewJoint(transient, afterglow em.LightCurveModel) em.LightCurveModel {
	return &Joint{transient: transient, afterglow: afterglow}
}

// Evaluate evaluates both sub-models on the shared parameter set and adds
// their fluxes. Filters emitted by only one sub-model pass through.
func (m *Joint) Evaluate(params map[string]float64) (em.LightCurve, error) {
	a, err := m.transient.Evaluate(params)
	if err != nil {
		return nil, err
	}
	b, err := m.afterglow.Evaluate(params)
	if err != nil {
		return nil, err
	}
	return em.AddFluxes(a, b), nil
}
