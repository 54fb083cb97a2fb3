package em_test

// Blank import triggers em/models' init(), which registers the model
// constructors. This allows package em's internal test files to build model
// compositions without directly importing em/models (which would create an
// import cycle).
import _ "github.com/lightcurve-sim/lightcurve-sim/em/models"
