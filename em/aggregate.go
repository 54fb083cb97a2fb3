package em

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Default magnitude binning for the per-time-column histograms, matching
// the injection plots: 50 edges (49 bins) spanning [-20, 1].
const (
	DefaultHistMin   = -20.0
	DefaultHistMax   = 1.0
	DefaultHistEdges = 50
)

// AggregateOptions configures AggregateFilter.
type AggregateOptions struct {
	// Realism mirrors the flags the light curves were generated under. When
	// any flag is active the per-injection series are irregular and are
	// resampled onto the grid; otherwise raw values are trusted to share it.
	Realism RealismConfig

	// Histogram binning. Zero values take the defaults above.
	HistMin   float64
	HistMax   float64
	HistEdges int

	// Percentile levels. Empty takes {10, 50, 90}.
	Percentiles []float64
}

// FilterSummary is the aggregation product for one filter: the data shape
// the light-curve panels render. Not persisted per injection; rebuilt from
// the ResultCollection on demand.
type FilterSummary struct {
	Filter      string               `json:"filter"`
	Times       []float64            `json:"times"`
	BinCenters  []float64            `json:"bin_centers"`
	Counts      [][]float64          `json:"counts"`      // [time column][bin]
	Percentiles map[string][]float64 `json:"percentiles"` // level (e.g. "50") -> per-column values
}

// ResultCollection maps injection index to its light curve. Accumulate-only
// during the batch loop, read only after every injection has completed.
type ResultCollection map[int]LightCurve

// Indices returns the injection indices in ascending order.
func (rc ResultCollection) Indices() []int {
	indices := make([]int, 0, len(rc))
	for index := range rc {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// AggregateFilter stacks every injection's series for one filter onto the
// common grid and computes per-time-column histograms and percentile bands.
//
// Under an active realism flag each series is resampled by linear
// interpolation with linear extrapolation beyond its recorded span (the
// interpolant is linear-in-time globally; flat continuation is not the
// policy). Percentiles use numpy-style linear rank interpolation and ignore
// NaN values.
func AggregateFilter(results ResultCollection, filter string, grid []float64, opts AggregateOptions) *FilterSummary {
	if opts.HistEdges < 2 {
		opts.HistEdges = DefaultHistEdges
	}
	if opts.HistMin == 0 && opts.HistMax == 0 {
		opts.HistMin, opts.HistMax = DefaultHistMin, DefaultHistMax
	}
	if len(opts.Percentiles) == 0 {
		opts.Percentiles = []float64{10, 50, 90}
	}

	// Stack: one row per injection, one column per grid time.
	var rows [][]float64
	for _, index := range results.Indices() {
		samples, ok := results[index][filter]
		if !ok || len(samples) == 0 {
			continue
		}
		if opts.Realism.Active() {
			rows = append(rows, resample(samples, grid))
		} else {
			row := make([]float64, len(samples))
			for i, s := range samples {
				row[i] = s.Mag
			}
			rows = append(rows, row)
		}
	}

	edges := make([]float64, opts.HistEdges)
	floats.Span(edges, opts.HistMin, opts.HistMax)
	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	summary := &FilterSummary{
		Filter:      filter,
		Times:       grid,
		BinCenters:  centers,
		Counts:      make([][]float64, len(grid)),
		Percentiles: make(map[string][]float64, len(opts.Percentiles)),
	}
	for _, p := range opts.Percentiles {
		summary.Percentiles[percentileKey(p)] = make([]float64, len(grid))
	}

	for col := range grid {
		column := make([]float64, 0, len(rows))
		for _, row := range rows {
			if col < len(row) && !math.IsNaN(row[col]) {
				column = append(column, row[col])
			}
		}
		sort.Float64s(column)

		summary.Counts[col] = histogramColumn(column, edges)
		for _, p := range opts.Percentiles {
			summary.Percentiles[percentileKey(p)][col] = percentile(column, p)
		}
	}
	return summary
}

// histogramColumn bins sorted values with gonum's stat.Histogram. Values
// outside the edge range are dropped (stat.Histogram panics on them); a
// value landing exactly on the top edge counts into the last bin.
func histogramColumn(sorted []float64, edges []float64) []float64 {
	lo, hi := edges[0], edges[len(edges)-1]
	inRange := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		switch {
		case v < lo || v > hi:
			continue
		case v == hi:
			inRange = append(inRange, math.Nextafter(hi, lo))
		default:
			inRange = append(inRange, v)
		}
	}
	counts := make([]float64, len(edges)-1)
	return stat.Histogram(counts, edges, inRange, nil)
}

func percentileKey(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// percentile computes the p-th percentile of ascending-sorted data with
// numpy's linear interpolation between closest ranks. Empty data yields NaN.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	lowerVal := sorted[lowerIdx]
	upperVal := sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}
