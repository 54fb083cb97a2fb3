package em

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
)

// ZTF ToO exposure codes: 180s for skymaps under 1000 sq deg, 300s above.
const (
	ZTFToO180 = "180"
	ZTFToO300 = "300"
)

// Rubin ToO strategy types.
const (
	RubinToOBNS  = "BNS"
	RubinToONSBH = "NSBH"
)

// Follow-up epoch offsets in days post trigger for the Rubin ToO strategies.
var rubinToOEpochs = map[string][]float64{
	RubinToOBNS:  {0.1, 0.35, 0.6, 1.1, 2.1, 3.1},
	RubinToONSBH: {0.1, 0.6, 1.1, 2.1, 4.1},
}

// Serendipitous ZTF revisit cadence per filter, in days. Filters outside
// the ZTF bands keep their full grid.
var ztfCadence = map[string]float64{
	"g": 2.0,
	"r": 2.0,
	"i": 4.0,
}

// AugmentationConfig parameterizes photometric augmentation: sparse extra
// samples injected to probe inference robustness to denser coverage.
type AugmentationConfig struct {
	NPoints int       // number of points to add per filter
	Filters []string  // filter subset; empty augments every filter present
	Times   []float64 // chosen times, days post trigger; empty draws uniform in the grid span
	Seed    int64     // dedicated seed, independent of the generation seed
}

// RealismConfig selects the observational-realism transforms applied to a
// synthesized light curve before it is cached.
type RealismConfig struct {
	// DetectionLimits maps filter name to the faintest mAB recorded;
	// fainter magnitudes are written at the limit as non-detections.
	DetectionLimits map[string]float64

	ZTFSampling      bool   // serendipitous ZTF cadence subsampling
	ZTFUncertainties bool   // realistic per-band photometric scatter
	ZTFToO           string // "", ZTFToO180, or ZTFToO300; needs ZTFSampling
	RubinToO         bool
	RubinToOType     string // RubinToOBNS or RubinToONSBH

	Augmentation *AugmentationConfig
}

// Active reports whether any transform that moves samples off the common
// time grid is enabled. AggregationView resamples onto the grid only when
// this is true.
func (rc RealismConfig) Active() bool {
	return rc.ZTFSampling || rc.ZTFToO != "" || rc.RubinToO || rc.Augmentation != nil || len(rc.DetectionLimits) > 0
}

// Validate rejects contradictory realism selections.
func (rc RealismConfig) Validate() error {
	if rc.ZTFToO != "" {
		if !rc.ZTFSampling {
			return configErrorf("ztf ToO needs ztf sampling enabled")
		}
		if rc.ZTFToO != ZTFToO180 && rc.ZTFToO != ZTFToO300 {
			return configErrorf("unknown ztf ToO exposure %q, want %s or %s", rc.ZTFToO, ZTFToO180, ZTFToO300)
		}
	}
	if rc.RubinToO {
		if _, ok := rubinToOEpochs[rc.RubinToOType]; !ok {
			return configErrorf("unknown rubin ToO type %q, want %s or %s", rc.RubinToOType, RubinToOBNS, RubinToONSBH)
		}
	}
	return nil
}

// ApplyRealism transforms a synthesized curve according to cfg, drawing all
// randomness from explicit subsystem streams of rng. The input curve is
// never mutated. Order: cadence sampling, uncertainty scatter, augmentation,
// detection limits (so augmented points respect the limits too).
func ApplyRealism(curve LightCurve, cfg RealismConfig, grid []float64, rng *PartitionedRNG) LightCurve {
	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		out[name] = append([]Sample(nil), samples...)
	}

	if cfg.ZTFSampling {
		out = applyZTFSampling(out, cfg.ZTFToO, grid, rng.ForSubsystem(SubsystemCadence))
	}
	if cfg.RubinToO {
		out = applyRubinToO(out, cfg.RubinToOType)
	}
	if cfg.ZTFUncertainties {
		out = applyUncertainties(out, rng.ForSubsystem(SubsystemUncertainty))
	}
	if cfg.Augmentation != nil {
		out = applyAugmentation(out, *cfg.Augmentation, grid)
	}
	if len(cfg.DetectionLimits) > 0 {
		out = applyDetectionLimits(out, cfg.DetectionLimits)
	}
	return out
}

// applyZTFSampling keeps, per ZTF band, the synthesized sample nearest each
// survey visit. Visits repeat at the band cadence with uniform jitter of up
// to half a cadence; a ToO exposure adds denser visits over the first two
// days (180s: three per night, 300s: two per night).
func applyZTFSampling(curve LightCurve, too string, grid []float64, rng *rand.Rand) LightCurve {
	if len(grid) == 0 {
		return curve
	}
	tmin, tmax := grid[0], grid[len(grid)-1]

	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		cadence, ok := ztfCadence[name]
		if !ok {
			out[name] = samples
			continue
		}

		var visits []float64
		for t := tmin + rng.Float64()*cadence; t <= tmax; t += cadence {
			visits = append(visits, t+rng.Float64()*cadence/2)
		}
		switch too {
		case ZTFToO180:
			visits = append(visits, tooNightVisits(tmin, 3, rng)...)
		case ZTFToO300:
			visits = append(visits, tooNightVisits(tmin, 2, rng)...)
		}
		sort.Float64s(visits)

		out[name] = nearestSamples(samples, visits)
	}
	return out
}

// tooNightVisits spreads perNight visit times over the first two nights.
func tooNightVisits(tmin float64, perNight int, rng *rand.Rand) []float64 {
	visits := make([]float64, 0, 2*perNight)
	for night := 0; night < 2; night++ {
		for v := 0; v < perNight; v++ {
			visits = append(visits, tmin+float64(night)+rng.Float64())
		}
	}
	return visits
}

// applyRubinToO keeps only the samples nearest the fixed strategy epochs.
func applyRubinToO(curve LightCurve, tooType string) LightCurve {
	epochs := rubinToOEpochs[tooType]
	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		out[name] = nearestSamples(samples, epochs)
	}
	return out
}

// nearestSamples picks, for each visit time, the sample closest in time.
// Duplicate picks collapse, so the result stays sorted and unique.
func nearestSamples(samples []Sample, visits []float64) []Sample {
	if len(samples) == 0 {
		return samples
	}
	picked := make(map[int]struct{}, len(visits))
	for _, t := range visits {
		best, bestDist := 0, math.Inf(1)
		for i, s := range samples {
			if d := math.Abs(s.Time - t); d < bestDist {
				best, bestDist = i, d
			}
		}
		picked[best] = struct{}{}
	}
	indices := make([]int, 0, len(picked))
	for i := range picked {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	out := make([]Sample, len(indices))
	for j, i := range indices {
		out[j] = samples[i]
	}
	return out
}

// applyUncertainties adds gaussian scatter with a magnitude-dependent sigma
// rising toward the faint end, floored at the bright-end calibration limit.
func applyUncertainties(curve LightCurve, rng *rand.Rand) LightCurve {
	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		scattered := make([]Sample, len(samples))
		for i, s := range samples {
			sigma := photometricSigma(s.Mag)
			scattered[i] = Sample{Time: s.Time, Mag: s.Mag + rng.NormFloat64()*sigma}
		}
		out[name] = scattered
	}
	return out
}

func photometricSigma(mag float64) float64 {
	sigma := math.Hypot(0.02, 0.05*math.Pow(10, 0.3*(mag-20)))
	return math.Min(sigma, 0.5)
}

// applyAugmentation injects cfg.NPoints extra samples per selected filter,
// valued by linear interpolation/extrapolation of the existing series. Times
// come from cfg.Times when given, otherwise uniform draws over the grid
// span from the augmentation-seeded stream.
func applyAugmentation(curve LightCurve, cfg AugmentationConfig, grid []float64) LightCurve {
	if cfg.NPoints <= 0 || len(grid) == 0 {
		return curve
	}
	augRNG := NewPartitionedRNG(NewGenerationKey(cfg.Seed)).ForSubsystem(SubsystemAugmentation)
	tmin, tmax := grid[0], grid[len(grid)-1]

	selected := cfg.Filters
	if len(selected) == 0 {
		selected = curve.Filters()
	}
	keep := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		keep[name] = struct{}{}
	}

	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		if _, ok := keep[name]; !ok || len(samples) == 0 {
			out[name] = samples
			continue
		}
		times := cfg.Times
		if len(times) == 0 {
			times = make([]float64, cfg.NPoints)
			for i := range times {
				times[i] = tmin + augRNG.Float64()*(tmax-tmin)
			}
		} else if len(times) > cfg.NPoints {
			times = times[:cfg.NPoints]
		}

		augmented := append([]Sample(nil), samples...)
		for _, t := range times {
			augmented = append(augmented, Sample{Time: t, Mag: interpSample(samples, t)})
		}
		sort.Slice(augmented, func(i, j int) bool { return augmented[i].Time < augmented[j].Time })
		out[name] = augmented
	}
	logrus.Debugf("augmented %d filters with up to %d points", len(selected), cfg.NPoints)
	return out
}

func interpSample(samples []Sample, t float64) float64 {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Time
		ys[i] = s.Mag
	}
	return interpExtrap(xs, ys, t)
}

// applyDetectionLimits records everything fainter than a filter's limit at
// the limit itself: a non-detection, not a measurement.
func applyDetectionLimits(curve LightCurve, limits map[string]float64) LightCurve {
	out := make(LightCurve, len(curve))
	for name, samples := range curve {
		limit, ok := limits[name]
		if !ok {
			out[name] = samples
			continue
		}
		limited := make([]Sample, len(samples))
		for i, s := range samples {
			mag := s.Mag
			if mag > limit {
				mag = limit
			}
			limited[i] = Sample{Time: s.Time, Mag: mag}
		}
		out[name] = limited
	}
	return out
}
