package em

// LightCurveModel is the emission-model capability consumed by the pipeline.
// Implementations live in em/models; compositions are selected by BuildModel.
// Evaluate must be deterministic given identical parameters and the sample
// times fixed at construction.
type LightCurveModel interface {
	// Evaluate computes per-filter magnitude series over the model's sample
	// times for one parameter set. Parameters the model does not recognize
	// are ignored; parameters it requires but cannot find are an error.
	Evaluate(params map[string]float64) (LightCurve, error)
}

// Model identifiers with dedicated compositions. Any other name selects the
// SVD-surrogate kilonova model.
const (
	// GRBModelName is the GRB-afterglow-only model. Not a transient
	// emission model: forbidden in joint mode.
	GRBModelName = "TrPi2018"

	// Supernova template identifiers.
	SupernovaNugentHyper = "nugent-hyper"
	SupernovaSALT2       = "salt2"
)

// IsSupernovaModel reports whether name is a recognized supernova template.
func IsSupernovaModel(name string) bool {
	return name == SupernovaNugentHyper || name == SupernovaSALT2
}

// SVDConfig groups SVD-surrogate kilonova model parameters.
type SVDConfig struct {
	Model             string    // surrogate grid name (e.g. "Bu2019lm")
	SVDPath           string    // directory holding {model}_mag.json and {model}_lbol.json
	MagNCoeff         int       // basis truncation for magnitude reconstruction
	LbolNCoeff        int       // basis truncation for bolometric luminosity
	InterpolationType string    // coefficient interpolation scheme over the training grid
	SampleTimes       []float64 // evaluation grid, days post trigger
}

// GRBConfig groups GRB-afterglow model parameters.
type GRBConfig struct {
	Resolution  float64   // upper bound on thetaWing/thetaCore
	JetType     int       // jet structure code (0 = Gaussian, -1 = top-hat, 4 = power law)
	SampleTimes []float64 // evaluation grid, days post trigger
}

// SupernovaConfig groups supernova template model parameters.
type SupernovaConfig struct {
	Model       string    // template name ("nugent-hyper" or "salt2")
	SampleTimes []float64 // evaluation grid, days post trigger
}

// ModelConfig is the full model-selection configuration handed to BuildModel.
type ModelConfig struct {
	SVDPath           string
	MagNCoeff         int
	LbolNCoeff        int
	InterpolationType string
	GRBResolution     float64
	JetType           int
	SampleTimes       []float64
}

// Registration variables set by em/models' init(). The em package owns the
// LightCurveModel interface; em/models owns the implementations. Importing
// em/models (blank import in tests, direct import in cmd) wires these up,
// breaking the import cycle between interface owner and implementations.
var (
	NewSVDModelFunc       func(cfg SVDConfig) (LightCurveModel, error)
	NewGRBModelFunc       func(cfg GRBConfig) (LightCurveModel, error)
	NewSupernovaModelFunc func(cfg SupernovaConfig) (LightCurveModel, error)
	// NewJointModelFunc combines a transient emission model with a GRB
	// afterglow additively in flux space.
	NewJointModelFunc func(transient, afterglow LightCurveModel) LightCurveModel
)
