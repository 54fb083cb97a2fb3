package models

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/lightcurve-sim/lightcurve-sim/em"
)

// Coefficient interpolation schemes over the training grid. Gaussian-process
// schemes from the training tooling collapse onto inverse-distance weighting
// here; "nearest" snaps to the closest training sample.
const (
	InterpIDW     = "idw"
	InterpNearest = "nearest"
)

// svdGrid is the on-disk reduced-basis artifact, {model}_mag.json under the
// surrogate directory: per filter, the SVD mean and basis over the native
// phase grid, plus projected coefficients for every training sample.
type svdGrid struct {
	Model          string                    `json:"model"`
	ParameterNames []string                  `json:"parameter_names"`
	ParameterMins  []float64                 `json:"parameter_mins"`
	ParameterMaxs  []float64                 `json:"parameter_maxs"`
	Times          []float64                 `json:"times"`
	Filters        map[string]svdFilterBasis `json:"filters"`
}

type svdFilterBasis struct {
	Mean           []float64   `json:"mean"`            // [nTimes]
	Basis          [][]float64 `json:"basis"`           // [nCoeff][nTimes]
	TrainingParams [][]float64 `json:"training_params"` // [nTrain][nParams], normalized to [0,1]
	TrainingCoeffs [][]float64 `json:"training_coeffs"` // [nTrain][nCoeff]
}

// SVDSurrogate reconstructs kilonova magnitudes from a reduced basis fitted
// to a simulation grid: injection parameters select basis coefficients by
// interpolation over the training samples, the basis maps coefficients back
// to a magnitude series, and the series is resampled onto the evaluation
// grid. Magnitudes are absolute (10 pc).
type SVDSurrogate struct {
	grid        svdGrid
	nCoeff      int
	nearest     bool
	sampleTimes []float64
}

// NewSVDSurrogate loads {model}_mag.json from cfg.SVDPath.
func NewSVDSurrogate(cfg em.SVDConfig) (em.LightCurveModel, error) {
	if cfg.SVDPath == "" {
		return nil, em.NewConfigError("svd path required for surrogate model %q", cfg.Model)
	}
	path := filepath.Join(cfg.SVDPath, cfg.Model+"_mag.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, em.NewConfigError("reading surrogate grid %s: %v", path, err)
	}
	var grid svdGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, em.NewConfigError("parsing surrogate grid %s: %v", path, err)
	}
	if err := grid.validate(); err != nil {
		return nil, em.NewConfigError("surrogate grid %s: %v", path, err)
	}

	nCoeff := cfg.MagNCoeff
	if nCoeff <= 0 {
		nCoeff = 10
	}
	logrus.Debugf("loaded surrogate %s: %d filters, %d phases, %d parameters",
		cfg.Model, len(grid.Filters), len(grid.Times), len(grid.ParameterNames))

	return &SVDSurrogate{
		grid:        grid,
		nCoeff:      nCoeff,
		nearest:     cfg.InterpolationType == InterpNearest,
		sampleTimes: cfg.SampleTimes,
	}, nil
}

func (g *svdGrid) validate() error {
	if len(g.ParameterNames) == 0 {
		return fmt.Errorf("no parameter names")
	}
	if len(g.ParameterMins) != len(g.ParameterNames) || len(g.ParameterMaxs) != len(g.ParameterNames) {
		return fmt.Errorf("parameter bounds do not match parameter names")
	}
	if len(g.Times) == 0 {
		return fmt.Errorf("empty phase grid")
	}
	for name, basis := range g.Filters {
		if len(basis.Mean) != len(g.Times) {
			return fmt.Errorf("filter %s: mean length %d, want %d", name, len(basis.Mean), len(g.Times))
		}
		for _, row := range basis.Basis {
			if len(row) != len(g.Times) {
				return fmt.Errorf("filter %s: basis row length %d, want %d", name, len(row), len(g.Times))
			}
		}
		if len(basis.TrainingParams) != len(basis.TrainingCoeffs) {
			return fmt.Errorf("filter %s: %d training params vs %d coefficient rows",
				name, len(basis.TrainingParams), len(basis.TrainingCoeffs))
		}
		if len(basis.TrainingParams) == 0 {
			return fmt.Errorf("filter %s: no training samples", name)
		}
		for _, row := range basis.TrainingParams {
			if len(row) != len(g.ParameterNames) {
				return fmt.Errorf("filter %s: training sample has %d parameters, want %d",
					name, len(row), len(g.ParameterNames))
			}
		}
		for _, row := range basis.TrainingCoeffs {
			if len(row) != len(basis.Basis) {
				return fmt.Errorf("filter %s: coefficient row length %d, want %d basis rows",
					name, len(row), len(basis.Basis))
			}
		}
	}
	return nil
}

// Evaluate reconstructs the per-filter light curve for one parameter set.
// Every name in the grid's parameter_names must be present in params.
func (m *SVDSurrogate) Evaluate(params map[string]float64) (em.LightCurve, error) {
	point, err := m.normalizedPoint(params)
	if err != nil {
		return nil, err
	}

	curve := make(em.LightCurve, len(m.grid.Filters))
	for name, basis := range m.grid.Filters {
		coeffs := m.interpolateCoeffs(&basis, point)
		mags := reconstruct(&basis, coeffs, len(m.grid.Times))
		samples := make([]em.Sample, len(m.sampleTimes))
		for i, t := range m.sampleTimes {
			samples[i] = em.Sample{Time: t, Mag: interpLinear(m.grid.Times, mags, t)}
		}
		curve[name] = samples
	}
	return curve, nil
}

// normalizedPoint maps the injection parameters onto the training grid's
// unit cube. Out-of-range values extrapolate rather than clamp; distance
// weighting degrades gracefully.
func (m *SVDSurrogate) normalizedPoint(params map[string]float64) ([]float64, error) {
	point := make([]float64, len(m.grid.ParameterNames))
	for i, name := range m.grid.ParameterNames {
		v, err := requireParam(params, name)
		if err != nil {
			return nil, err
		}
		span := m.grid.ParameterMaxs[i] - m.grid.ParameterMins[i]
		if span == 0 {
			span = 1
		}
		point[i] = (v - m.grid.ParameterMins[i]) / span
	}
	return point, nil
}

// interpolateCoeffs blends training coefficients by inverse squared distance
// in normalized parameter space, truncated to the configured count. A point
// sitting on a training sample returns that sample's coefficients exactly.
func (m *SVDSurrogate) interpolateCoeffs(basis *svdFilterBasis, point []float64) []float64 {
	n := min(m.nCoeff, len(basis.TrainingCoeffs[0]))
	coeffs := make([]float64, n)

	if m.nearest {
		best, bestDist := 0, math.Inf(1)
		for i, train := range basis.TrainingParams {
			if d := sqDist(point, train); d < bestDist {
				best, bestDist = i, d
			}
		}
		copy(coeffs, basis.TrainingCoeffs[best][:n])
		return coeffs
	}

	var weightSum float64
	for i, train := range basis.TrainingParams {
		d := sqDist(point, train)
		if d < 1e-12 {
			copy(coeffs, basis.TrainingCoeffs[i][:n])
			return coeffs
		}
		w := 1 / d
		weightSum += w
		for j := 0; j < n; j++ {
			coeffs[j] += w * basis.TrainingCoeffs[i][j]
		}
	}
	for j := range coeffs {
		coeffs[j] /= weightSum
	}
	return coeffs
}

// reconstruct maps truncated coefficients back through the basis:
// mag = mean + basis^T coeffs.
func reconstruct(basis *svdFilterBasis, coeffs []float64, nTimes int) []float64 {
	n := len(coeffs)
	flat := make([]float64, 0, n*nTimes)
	for i := 0; i < n; i++ {
		flat = append(flat, basis.Basis[i]...)
	}
	b := mat.NewDense(n, nTimes, flat)
	c := mat.NewVecDense(n, coeffs)

	var projected mat.VecDense
	projected.MulVec(b.T(), c)

	mags := make([]float64, nTimes)
	for i := range mags {
		mags[i] = basis.Mean[i] + projected.AtVec(i)
	}
	return mags
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
