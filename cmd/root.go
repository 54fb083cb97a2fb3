package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lightcurve-sim/lightcurve-sim/em"
	_ "github.com/lightcurve-sim/lightcurve-sim/em/models"
)

var (
	// CLI flags for model selection
	modelName         string  // light-curve model name (TrPi2018, nugent-hyper, salt2, or an SVD grid)
	svdPath           string  // path to the SVD surrogate directory
	svdMagNCoeff      int     // basis truncation for magnitude reconstruction
	svdLbolNCoeff     int     // basis truncation for bolometric luminosity
	interpolationType string  // SVD coefficient interpolation scheme
	grbResolution     float64 // upper bound on thetaWing/thetaCore
	jetType           int     // jet structure code for the GRB afterglow
	jointLightCurve   bool    // combine transient emission with a GRB afterglow

	// CLI flags for the run
	specPath       string // YAML run spec; flags below fill one in when absent
	outdir         string // output directory for per-injection artifacts
	label          string // label for the run
	tmin           float64 // days post trigger to start evaluating
	tmax           float64 // days post trigger to stop evaluating
	dt             float64 // time step in days
	filters        string  // comma-separated filter list
	generationSeed int64   // injection generation seed
	injectionPath  string  // path to the injection json file
	absolute       bool    // emit absolute instead of apparent magnitudes
	logLevel       string  // log verbosity level

	// CLI flags for observational realism
	detectionLimit   string // mAB limit: single value or comma list matching the filters
	ztfSampling      bool   // realistic ZTF serendipitous sampling
	ztfUncertainties bool   // realistic ZTF photometric scatter
	ztfToO           string // ToO exposure: 180 (<1000 sq deg) or 300 (>1000 sq deg)
	rubinToO         bool   // Rubin ToO follow-up epochs
	rubinToOType     string // Rubin ToO strategy: BNS or NSBH

	// CLI flags for photometric augmentation
	augment        bool
	augmentSeed    int64
	augmentNPoints int
	augmentFilters string // filter subset for augmentation
	augmentTimes   string // comma-separated times in days post trigger

	summarize bool // write the aggregation summary after the batch
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lightcurve-sim",
	Short: "Synthetic light-curve injection pipeline for astrophysical transients",
}

// createCmd runs the injection batch using parameters from CLI flags or a
// YAML run spec.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate per-injection light curves",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		spec := specFromFlags(cmd)
		startTime := time.Now()

		results, err := em.Run(spec)
		if err != nil {
			logrus.Fatalf("Injection run failed: %v", err)
		}
		logrus.Infof("Generated %d injections in %v", len(results), time.Since(startTime))

		if summarize {
			grid := em.SampleTimes(spec.TMin, spec.TMax, spec.Dt)
			opts := em.AggregateOptions{Realism: spec.RealismConfig()}
			summaries := em.AggregateAll(results, spec.Filters, grid, opts)
			path, err := em.WriteSummary(spec, summaries)
			if err != nil {
				logrus.Fatalf("Writing summary failed: %v", err)
			}
			logrus.Infof("Summary written to %s", path)
		}
	},
}

// specFromFlags assembles the run spec, starting from --spec when given and
// letting explicitly-set flags win over it.
func specFromFlags(cmd *cobra.Command) *em.RunSpec {
	spec := &em.RunSpec{}
	if specPath != "" {
		loaded, err := em.LoadRunSpec(specPath)
		if err != nil {
			logrus.Fatalf("Loading run spec failed: %v", err)
		}
		spec = loaded
	}

	set := func(name string) bool { return specPath == "" || cmd.Flags().Changed(name) }

	if set("model") {
		spec.Model = modelName
	}
	if set("svd-path") {
		spec.SVDPath = svdPath
	}
	if set("outdir") {
		spec.Outdir = outdir
	}
	if set("label") {
		spec.Label = label
	}
	if set("tmin") {
		spec.TMin = tmin
	}
	if set("tmax") {
		spec.TMax = tmax
	}
	if set("dt") {
		spec.Dt = dt
	}
	if set("svd-mag-ncoeff") {
		spec.MagNCoeff = svdMagNCoeff
	}
	if set("svd-lbol-ncoeff") {
		spec.LbolNCoeff = svdLbolNCoeff
	}
	if set("interpolation-type") {
		spec.InterpolationType = interpolationType
	}
	if set("filters") {
		spec.Filters = splitList(filters)
	}
	if set("grb-resolution") {
		spec.GRBResolution = grbResolution
	}
	if set("jet-type") {
		spec.JetType = jetType
	}
	if set("generation-seed") {
		spec.GenerationSeed = generationSeed
	}
	if set("injection") {
		spec.Injection = injectionPath
	}
	if set("joint-light-curve") {
		spec.Joint = jointLightCurve
	}
	if set("absolute") {
		spec.Absolute = absolute
	}
	if set("injection-detection-limit") {
		spec.DetectionLimits = parseFloatList(detectionLimit)
	}
	if set("ztf-sampling") {
		spec.ZTFSampling = ztfSampling
	}
	if set("ztf-uncertainties") {
		spec.ZTFUncertainties = ztfUncertainties
	}
	if set("ztf-too") {
		spec.ZTFToO = ztfToO
	}
	if set("rubin-too") {
		spec.RubinToO = rubinToO
	}
	if set("rubin-too-type") {
		spec.RubinToOType = rubinToOType
	}
	if augment {
		spec.Augmentation = &em.AugmentationSpec{
			Seed:    augmentSeed,
			NPoints: augmentNPoints,
			Filters: splitList(augmentFilters),
			Times:   parseFloatList(augmentTimes),
		}
	}
	return spec
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloatList(s string) []float64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			logrus.Fatalf("Invalid numeric list entry %q: %v", part, err)
		}
		values[i] = v
	}
	return values
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	createCmd.Flags().StringVar(&specPath, "spec", "", "YAML run spec; flags override its fields")
	createCmd.Flags().StringVar(&modelName, "model", "", "Name of the light-curve model to be used")
	createCmd.Flags().StringVar(&svdPath, "svd-path", "", "Path to the SVD directory, with {model}_mag.json grids")
	createCmd.Flags().StringVar(&outdir, "outdir", "", "Path to the output directory")
	createCmd.Flags().StringVar(&label, "label", "injection", "Label for the run")
	createCmd.Flags().Float64Var(&tmin, "tmin", 0.0, "Days post trigger to start evaluating")
	createCmd.Flags().Float64Var(&tmax, "tmax", 14.0, "Days post trigger to stop evaluating")
	createCmd.Flags().Float64Var(&dt, "dt", 0.1, "Time step in days")
	createCmd.Flags().IntVar(&svdMagNCoeff, "svd-mag-ncoeff", 10, "Number of eigenvalues for mag evaluation")
	createCmd.Flags().IntVar(&svdLbolNCoeff, "svd-lbol-ncoeff", 10, "Number of eigenvalues for lbol evaluation")
	createCmd.Flags().StringVar(&filters, "filters", "u,g,r,i,z,y,J,H,K", "Comma-separated list of filters")
	createCmd.Flags().Float64Var(&grbResolution, "grb-resolution", 5, "Upper bound on the ratio between thetaWing and thetaCore")
	createCmd.Flags().IntVar(&jetType, "jet-type", 0, "Jet type for the GRB afterglow light curve")
	createCmd.Flags().Int64Var(&generationSeed, "generation-seed", 42, "Injection generation seed")
	createCmd.Flags().StringVar(&injectionPath, "injection", "", "Path to the injection json file")
	createCmd.Flags().BoolVar(&jointLightCurve, "joint-light-curve", false, "Use both transient emission and GRB afterglow light curves")
	createCmd.Flags().StringVar(&detectionLimit, "injection-detection-limit", "", "Highest mAB recorded: single value or comma list matching the filters")
	createCmd.Flags().StringVar(&interpolationType, "interpolation-type", "idw", "SVD interpolation scheme (idw, nearest)")
	createCmd.Flags().BoolVar(&absolute, "absolute", false, "Absolute magnitude")
	createCmd.Flags().BoolVar(&ztfSampling, "ztf-sampling", false, "Use realistic ZTF sampling")
	createCmd.Flags().BoolVar(&ztfUncertainties, "ztf-uncertainties", false, "Use realistic ZTF uncertainties")
	createCmd.Flags().StringVar(&ztfToO, "ztf-too", "", "ZTF ToO exposure during the first two days: 180 (<1000 sq deg) or 300; needs --ztf-sampling")
	createCmd.Flags().BoolVar(&rubinToO, "rubin-too", false, "Rubin ToO follow-up epochs")
	createCmd.Flags().StringVar(&rubinToOType, "rubin-too-type", "", "Rubin ToO strategy: BNS or NSBH; needs --rubin-too")
	createCmd.Flags().BoolVar(&augment, "photometry-augmentation", false, "Augment photometry to improve parameter recovery")
	createCmd.Flags().Int64Var(&augmentSeed, "photometry-augmentation-seed", 0, "Augmentation generation seed")
	createCmd.Flags().IntVar(&augmentNPoints, "photometry-augmentation-n-points", 10, "Number of augmented points to include")
	createCmd.Flags().StringVar(&augmentFilters, "photometry-augmentation-filters", "", "Comma-separated filters to augment; empty augments all")
	createCmd.Flags().StringVar(&augmentTimes, "photometry-augmentation-times", "", "Comma-separated augmentation times in days post trigger; empty draws random times")
	createCmd.Flags().BoolVar(&summarize, "summary", false, "Write the aggregation summary after the batch")
	createCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(createCmd)
}
