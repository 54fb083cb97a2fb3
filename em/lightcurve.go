package em

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Sample is one photometric point: time in days post trigger (or MJD after
// cadence sampling shifts to observed epochs) and AB magnitude.
//
// Samples serialize as two-element JSON arrays [time, mag] so artifacts stay
// interchangeable with column-stacked numeric arrays from other tooling.
type Sample struct {
	Time float64
	Mag  float64
}

// MarshalJSON encodes the sample as [time, mag].
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{s.Time, s.Mag})
}

// UnmarshalJSON decodes a [time, mag] pair.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding sample pair: %w", err)
	}
	s.Time, s.Mag = pair[0], pair[1]
	return nil
}

// LightCurve maps filter name to its time-ordered photometric samples.
// A LightCurve is write-once: after synthesis (or cache load) it is never
// mutated, only read.
type LightCurve map[string][]Sample

// Filters returns the filter names present, sorted for deterministic output.
func (lc LightCurve) Filters() []string {
	names := make([]string, 0, len(lc))
	for name := range lc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Restrict returns a light curve containing only the requested filters.
// Filters absent from the curve are skipped. An empty request returns the
// curve unchanged.
func (lc LightCurve) Restrict(filters []string) LightCurve {
	if len(filters) == 0 {
		return lc
	}
	out := make(LightCurve, len(filters))
	for _, name := range filters {
		if samples, ok := lc[name]; ok {
			out[name] = samples
		}
	}
	return out
}

// AddFluxes combines two light curves additively in flux space, per filter,
// per sample: m = -2.5 log10(10^(-0.4 a) + 10^(-0.4 b)). Both curves must
// share sample times for the filters they have in common; filters present in
// only one curve pass through unchanged.
func AddFluxes(a, b LightCurve) LightCurve {
	out := make(LightCurve, len(a)+len(b))
	for name, samples := range a {
		other, ok := b[name]
		if !ok {
			out[name] = samples
			continue
		}
		combined := make([]Sample, len(samples))
		for i, s := range samples {
			combined[i] = Sample{Time: s.Time, Mag: addMags(s.Mag, other[i].Mag)}
		}
		out[name] = combined
	}
	for name, samples := range b {
		if _, ok := a[name]; !ok {
			out[name] = samples
		}
	}
	return out
}

func addMags(m1, m2 float64) float64 {
	return -2.5 * math.Log10(math.Pow(10, -0.4*m1)+math.Pow(10, -0.4*m2))
}
