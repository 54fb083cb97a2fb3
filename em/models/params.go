package models

import (
	"fmt"

	"github.com/lightcurve-sim/lightcurve-sim/em"
)

// Filter effective wavelengths in nm, used for spectral color terms.
var filterWavelengths = map[string]float64{
	"u": 365, "g": 477, "r": 623, "i": 762, "z": 913,
	"y": 1020, "J": 1220, "H": 1630, "K": 2190,
}

// FilterNames returns the filters every built-in model emits.
func FilterNames() []string {
	return []string{"u", "g", "r", "i", "z", "y", "J", "H", "K"}
}

// requireParam reads a named parameter, failing with the model-evaluation
// error category when it is absent.
func requireParam(params map[string]float64, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q not in injection row", em.ErrModelEvaluation, name)
	}
	return v, nil
}

// paramOr reads a named parameter with a fallback default.
func paramOr(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// interpLinear evaluates the piecewise-linear interpolant through (xs, ys)
// at x, extending the edge segments linearly outside the span. xs must be
// strictly increasing.
func interpLinear(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return ys[0]
	}
	lo, hi := 0, n-1
	switch {
	case x <= xs[0]:
		lo, hi = 0, 1
	case x >= xs[n-1]:
		lo, hi = n-2, n-1
	default:
		for lo+1 < hi {
			mid := (lo + hi) / 2
			if xs[mid] <= x {
				lo = mid
			} else {
				hi = mid
			}
		}
	}
	t := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo])
}
