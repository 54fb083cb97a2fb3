package models

import (
	"math"

	"github.com/lightcurve-sim/lightcurve-sim/em"
)

// snTemplate is a parametric supernova template: peak epoch and absolute
// magnitude, rise and decline timescales, and per-filter color offsets.
type snTemplate struct {
	peakTime    float64 // days post trigger
	peakMag     float64 // g-band absolute magnitude at peak
	riseTau     float64 // days
	declineRate float64 // mag per day past peak
	colors      map[string]float64
}

// Built-in templates. nugent-hyper is the broad-lined Ic hypernova
// template; salt2 approximates the SN Ia spectral surface at its default
// stretch and color.
var snTemplates = map[string]snTemplate{
	em.SupernovaNugentHyper: {
		peakTime:    16.0,
		peakMag:     -19.1,
		riseTau:     5.5,
		declineRate: 0.045,
		colors: map[string]float64{
			"u": 1.1, "g": 0.0, "r": -0.25, "i": -0.35, "z": -0.45,
			"y": -0.5, "J": -0.55, "H": -0.6, "K": -0.65,
		},
	},
	em.SupernovaSALT2: {
		peakTime:    18.0,
		peakMag:     -19.35,
		riseTau:     6.0,
		declineRate: 0.03,
		colors: map[string]float64{
			"u": 0.8, "g": 0.0, "r": -0.1, "i": 0.1, "z": 0.0,
			"y": -0.05, "J": -0.1, "H": -0.15, "K": -0.2,
		},
	},
}

// SupernovaTemplate evaluates a built-in supernova template, amplitude-
// scaled per injection. Magnitudes are absolute (10 pc).
type SupernovaTemplate struct {
	name        string
	template    snTemplate
	sampleTimes []float64
}

// NewSupernovaTemplate looks up the named template.
func NewSupernovaTemplate(cfg em.SupernovaConfig) (em.LightCurveModel, error) {
	template, ok := snTemplates[cfg.Model]
	if !ok {
		return nil, em.NewConfigError("unknown supernova template %q", cfg.Model)
	}
	return &SupernovaTemplate{
		name:        cfg.Model,
		template:    template,
		sampleTimes: cfg.SampleTimes,
	}, nil
}

// Evaluate computes the template light curve. Optional parameters:
// supernova_mag_boost shifts every band (positive = fainter), stretch
// scales the time axis around the peak.
func (m *SupernovaTemplate) Evaluate(params map[string]float64) (em.LightCurve, error) {
	boost := paramOr(params, "supernova_mag_boost", 0)
	stretch := paramOr(params, "stretch", 1)
	if stretch <= 0 {
		return nil, em.NewConfigError("stretch must be positive, got %f", stretch)
	}

	tpl := m.template
	curve := make(em.LightCurve, len(tpl.colors))
	for name, color := range tpl.colors {
		samples := make([]em.Sample, len(m.sampleTimes))
		for i, t := range m.sampleTimes {
			phase := (math.Max(t, 1e-3) - tpl.peakTime) / stretch
			var dim float64
			if phase < 0 {
				// Exponential flux rise toward peak: m - mPeak = -2.5 log10 e^(phase/tau).
				dim = -2.5 / math.Ln10 * phase / tpl.riseTau
			} else {
				// Linear-in-magnitude decline past peak.
				dim = tpl.declineRate * phase
			}
			samples[i] = em.Sample{Time: t, Mag: tpl.peakMag + dim + color + boost}
		}
		curve[name] = samples
	}
	return curve, nil
}
