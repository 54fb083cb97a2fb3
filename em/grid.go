package em

import "math"

// SampleTimes returns the evaluation time grid for (tmin, tmax, dt), in days
// post trigger. Semantics follow numpy.arange(tmin, tmax+dt, dt): the grid
// has ceil((tmax+dt-tmin)/dt) points at tmin + i*dt, which for an exact
// division yields floor((tmax-tmin)/dt)+1 points ending at tmax. The last
// point may land slightly past tmax due to floating-point step accumulation;
// callers must not assume an exact endpoint.
func SampleTimes(tmin, tmax, dt float64) []float64 {
	n := int(math.Ceil((tmax + dt - tmin) / dt))
	if n <= 0 {
		return nil
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = tmin + float64(i)*dt
	}
	return times
}
