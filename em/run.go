package em

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// generatingConfig is the fingerprint of everything that shapes cached
// light-curve data. Presentation-only knobs (outdir, label) stay out so
// moving or relabeling a run does not invalidate its artifacts.
type generatingConfig struct {
	Model             string    `json:"model"`
	Joint             bool      `json:"joint"`
	SVDPath           string    `json:"svd_path"`
	MagNCoeff         int       `json:"mag_ncoeff"`
	LbolNCoeff        int       `json:"lbol_ncoeff"`
	InterpolationType string    `json:"interpolation_type"`
	GRBResolution     float64   `json:"grb_resolution"`
	JetType           int       `json:"jet_type"`
	TMin              float64   `json:"tmin"`
	TMax              float64   `json:"tmax"`
	Dt                float64   `json:"dt"`
	Filters           []string  `json:"filters"`
	Absolute          bool      `json:"absolute"`
	GenerationSeed    int64     `json:"generation_seed"`
	DetectionLimits   []float64 `json:"detection_limits"`
	ZTFSampling       bool      `json:"ztf_sampling"`
	ZTFUncertainties  bool      `json:"ztf_uncertainties"`
	ZTFToO            string    `json:"ztf_too"`
	RubinToO          bool      `json:"rubin_too"`
	RubinToOType      string    `json:"rubin_too_type"`
	Augmentation      *AugmentationSpec `json:"augmentation"`
}

func (s *RunSpec) generatingConfig() generatingConfig {
	return generatingConfig{
		Model:             s.Model,
		Joint:             s.Joint,
		SVDPath:           s.SVDPath,
		MagNCoeff:         s.MagNCoeff,
		LbolNCoeff:        s.LbolNCoeff,
		InterpolationType: s.InterpolationType,
		GRBResolution:     s.GRBResolution,
		JetType:           s.JetType,
		TMin:              s.TMin,
		TMax:              s.TMax,
		Dt:                s.Dt,
		Filters:           s.Filters,
		Absolute:          s.Absolute,
		GenerationSeed:    s.GenerationSeed,
		DetectionLimits:   s.DetectionLimits,
		ZTFSampling:       s.ZTFSampling,
		ZTFUncertainties:  s.ZTFUncertainties,
		ZTFToO:            s.ZTFToO,
		RubinToO:          s.RubinToO,
		RubinToOType:      s.RubinToOType,
		Augmentation:      s.Augmentation,
	}
}

// Run executes one full injection batch: build the model composition, load
// the injection table, and fill the per-index cache, synthesizing only the
// indices without a valid artifact. All injections complete before any
// aggregation. Errors abort the batch; resumability across runs comes from
// the cache, not from in-run recovery.
func Run(spec *RunSpec) (ResultCollection, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(spec.Outdir, 0o755); err != nil {
		return nil, cacheIOError("creating output directory", err)
	}

	model, err := BuildModel(spec.Model, spec.Joint, spec.ModelConfig())
	if err != nil {
		return nil, err
	}

	table, err := LoadInjectionTable(spec.Injection)
	if err != nil {
		return nil, err
	}

	configHash, err := HashConfig(spec.generatingConfig())
	if err != nil {
		return nil, err
	}
	cache := NewInjectionCache(spec.Outdir, configHash)

	rng := NewPartitionedRNG(NewGenerationKey(spec.GenerationSeed))
	grid := SampleTimes(spec.TMin, spec.TMax, spec.Dt)
	synthCfg := SynthesisConfig{Filters: spec.Filters, Absolute: spec.Absolute}
	realism := spec.RealismConfig()

	logrus.Infof("run %s: model=%s joint=%v injections=%d grid=%d points",
		spec.Label, spec.Model, spec.Joint, len(table.Rows), len(grid))

	results := make(ResultCollection, len(table.Rows))
	for index, row := range table.Rows {
		curve, err := cache.GetOrCompute(index, func() (LightCurve, error) {
			curve, err := Synthesize(row, synthCfg, model)
			if err != nil {
				return nil, fmt.Errorf("injection %d: %w", index, err)
			}
			return ApplyRealism(curve, realism, grid, rng), nil
		})
		if err != nil {
			return nil, err
		}
		results[index] = curve
	}

	logrus.Infof("run %s: %d injections complete", spec.Label, len(results))
	return results, nil
}

// AggregateAll builds one FilterSummary per requested filter.
func AggregateAll(results ResultCollection, filters []string, grid []float64, opts AggregateOptions) []*FilterSummary {
	summaries := make([]*FilterSummary, 0, len(filters))
	for _, name := range filters {
		summaries = append(summaries, AggregateFilter(results, name, grid, opts))
	}
	return summaries
}

// WriteSummary persists aggregation summaries next to the artifacts, named
// "injection_<model>_summary.json". Consumed by plot rendering.
func WriteSummary(spec *RunSpec, summaries []*FilterSummary) (string, error) {
	path := filepath.Join(spec.Outdir, fmt.Sprintf("injection_%s_summary.json", spec.Model))
	data, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", cacheIOError("writing summary", err)
	}
	return path, nil
}
