package em

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunSpec is the YAML form of a full injection run: everything the CLI
// flags express, loadable as one file via `create --spec run.yaml`.
type RunSpec struct {
	Model   string `yaml:"model"`
	SVDPath string `yaml:"svd_path,omitempty"`
	Outdir  string `yaml:"outdir"`
	Label   string `yaml:"label"`

	TMin float64 `yaml:"tmin"`
	TMax float64 `yaml:"tmax"`
	Dt   float64 `yaml:"dt"`

	MagNCoeff         int    `yaml:"svd_mag_ncoeff,omitempty"`
	LbolNCoeff        int    `yaml:"svd_lbol_ncoeff,omitempty"`
	InterpolationType string `yaml:"interpolation_type,omitempty"`

	Filters []string `yaml:"filters,omitempty"`

	GRBResolution float64 `yaml:"grb_resolution,omitempty"`
	JetType       int     `yaml:"jet_type,omitempty"`

	GenerationSeed int64  `yaml:"generation_seed"`
	Injection      string `yaml:"injection"`
	Joint          bool   `yaml:"joint_light_curve,omitempty"`
	Absolute       bool   `yaml:"absolute,omitempty"`

	DetectionLimits []float64 `yaml:"detection_limits,omitempty"` // one per filter, or a single shared value

	ZTFSampling      bool   `yaml:"ztf_sampling,omitempty"`
	ZTFUncertainties bool   `yaml:"ztf_uncertainties,omitempty"`
	ZTFToO           string `yaml:"ztf_too,omitempty"`
	RubinToO         bool   `yaml:"rubin_too,omitempty"`
	RubinToOType     string `yaml:"rubin_too_type,omitempty"`

	Augmentation *AugmentationSpec `yaml:"photometry_augmentation,omitempty"`
}

// AugmentationSpec is the YAML form of AugmentationConfig.
type AugmentationSpec struct {
	Seed    int64     `yaml:"seed"`
	NPoints int       `yaml:"n_points"`
	Filters []string  `yaml:"filters,omitempty"`
	Times   []float64 `yaml:"times,omitempty"`
}

// LoadRunSpec reads and parses a YAML run specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	var spec RunSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are consistent.
func (s *RunSpec) Validate() error {
	if s.Model == "" {
		return configErrorf("model name required")
	}
	if s.Outdir == "" {
		return configErrorf("outdir required")
	}
	if s.Injection == "" {
		return configErrorf("injection file path required")
	}
	if s.Dt <= 0 {
		return configErrorf("dt must be positive, got %f", s.Dt)
	}
	if s.TMax < s.TMin {
		return configErrorf("tmax %f precedes tmin %f", s.TMax, s.TMin)
	}
	if n := len(s.DetectionLimits); n > 1 && n != len(s.Filters) {
		return configErrorf("detection limits count %d does not match filter count %d", n, len(s.Filters))
	}
	realism := s.RealismConfig()
	if err := realism.Validate(); err != nil {
		return err
	}
	return nil
}

// DetectionLimitMap expands the detection-limit list against the filter
// list: a single value applies to every filter, a full list pairs up
// positionally.
func (s *RunSpec) DetectionLimitMap() map[string]float64 {
	if len(s.DetectionLimits) == 0 {
		return nil
	}
	limits := make(map[string]float64, len(s.Filters))
	for i, name := range s.Filters {
		if len(s.DetectionLimits) == 1 {
			limits[name] = s.DetectionLimits[0]
		} else {
			limits[name] = s.DetectionLimits[i]
		}
	}
	return limits
}

// RealismConfig assembles the observational-realism selection from the spec.
func (s *RunSpec) RealismConfig() RealismConfig {
	cfg := RealismConfig{
		DetectionLimits:  s.DetectionLimitMap(),
		ZTFSampling:      s.ZTFSampling,
		ZTFUncertainties: s.ZTFUncertainties,
		ZTFToO:           s.ZTFToO,
		RubinToO:         s.RubinToO,
		RubinToOType:     s.RubinToOType,
	}
	if s.Augmentation != nil {
		cfg.Augmentation = &AugmentationConfig{
			NPoints: s.Augmentation.NPoints,
			Filters: s.Augmentation.Filters,
			Times:   s.Augmentation.Times,
			Seed:    s.Augmentation.Seed,
		}
	}
	return cfg
}

// ModelConfig assembles the model-selection configuration from the spec.
func (s *RunSpec) ModelConfig() ModelConfig {
	return ModelConfig{
		SVDPath:           s.SVDPath,
		MagNCoeff:         s.MagNCoeff,
		LbolNCoeff:        s.LbolNCoeff,
		InterpolationType: s.InterpolationType,
		GRBResolution:     s.GRBResolution,
		JetType:           s.JetType,
		SampleTimes:       SampleTimes(s.TMin, s.TMax, s.Dt),
	}
}
