package em

// interpExtrap evaluates the piecewise-linear interpolant through
// (xs, ys) at x, extending the first and last segments linearly beyond the
// data span. The interpolant is linear-in-time globally: values outside the
// span are extrapolated, never clamped to the endpoints. xs must be strictly
// increasing with at least one point; a single point extends as a constant.
func interpExtrap(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return ys[0]
	}

	// Locate the segment: i such that xs[i] <= x < xs[i+1], with the edge
	// segments reused for extrapolation.
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

// resample evaluates a sample series at every grid time via interpExtrap.
func resample(samples []Sample, grid []float64) []float64 {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Time
		ys[i] = s.Mag
	}
	out := make([]float64, len(grid))
	for i, t := range grid {
		out[i] = interpExtrap(xs, ys, t)
	}
	return out
}
