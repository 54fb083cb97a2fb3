// register.go wires em/models constructors into the em package's
// registration variables (NewSVDModelFunc and friends). This init() runs
// when any package imports em/models, breaking the import cycle between em/
// (interface owner) and em/models/ (implementations). Production code in
// cmd/ imports em/models directly; test code in package em uses
// models_import_test.go for the blank import.
package models

import "github.com/lightcurve-sim/lightcurve-sim/em"

func init() {
	em.NewSVDModelFunc = NewSVDSurrogate
	em.NewGRBModelFunc = NewGRBAfterglow
	em.NewSupernovaModelFunc = NewSupernovaTemplate
	em.NewJointModelFunc = NewJoint
}
