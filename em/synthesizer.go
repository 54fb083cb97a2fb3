package em

import (
	"math"

	"github.com/sirupsen/logrus"
)

// SynthesisConfig is the per-run configuration consumed by Synthesize. It is
// passed by value and never mutated; derived per-injection fields live in a
// copy of the row's parameter map, so the caller's table stays untouched.
type SynthesisConfig struct {
	Filters  []string // filters to keep; empty keeps everything the model emits
	Absolute bool     // emit absolute magnitudes instead of apparent
}

// Synthesize produces the per-filter light curve for one injection row.
//
// The trigger time is read from the row (primary key, then fallback alias),
// converted from GPS seconds to MJD, and merged into a copy of the row under
// DerivedTriggerTimeKey. Models emit absolute magnitudes; unless
// cfg.Absolute is set, the distance modulus from the row's
// luminosity_distance (Mpc) is applied to every sample.
//
// Pure given its inputs: no hidden state beyond the model's own parameters,
// which are fixed at construction.
func Synthesize(row InjectionRow, cfg SynthesisConfig, model LightCurveModel) (LightCurve, error) {
	triggerTime, err := row.TriggerTimeMJD()
	if err != nil {
		return nil, err
	}

	params := make(map[string]float64, len(row)+1)
	for k, v := range row {
		params[k] = v
	}
	params[DerivedTriggerTimeKey] = triggerTime

	curve, err := model.Evaluate(params)
	if err != nil {
		return nil, err
	}

	if !cfg.Absolute {
		dL, ok := params["luminosity_distance"]
		if !ok || dL <= 0 {
			return nil, missingFieldErrorf("apparent magnitudes need a positive luminosity_distance")
		}
		curve = applyDistanceModulus(curve, dL)
	}

	curve = curve.Restrict(cfg.Filters)
	logrus.Debugf("synthesized %d filters at trigger time MJD %.5f", len(curve), triggerTime)
	return curve, nil
}

// applyDistanceModulus shifts absolute magnitudes to apparent ones for a
// luminosity distance in Mpc: mu = 5 log10(dL) + 25.
func applyDistanceModulus(curve LightCurve, dLMpc float64) LightCurve {
	mu := 5*math.Log10(dLMpc) + 25
	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		shifted := make([]Sample, len(samples))
		for i, s := range samples {
			shifted[i] = Sample{Time: s.Time, Mag: s.Mag + mu}
		}
		out[name] = shifted
	}
	return out
}
