package em

// BuildModel selects and constructs the light-curve model composition for
// (name, joint). Decision rule, first match wins:
//
//	joint: name == GRBModelName            -> ErrConfiguration
//	joint: name is a supernova template    -> supernova + GRB afterglow
//	joint: otherwise                       -> SVD kilonova + GRB afterglow
//	single: name == GRBModelName           -> bare GRB afterglow
//	single: name is a supernova template   -> supernova template
//	single: otherwise                      -> SVD kilonova surrogate
//
// Joint compositions add sub-model fluxes; the transient sub-model receives
// the SVD or template configuration, the afterglow sub-model the jet
// resolution and type.
func BuildModel(name string, joint bool, cfg ModelConfig) (LightCurveModel, error) {
	if !joint {
		switch {
		case name == GRBModelName:
			return NewGRBModelFunc(GRBConfig{
				Resolution:  cfg.GRBResolution,
				JetType:     cfg.JetType,
				SampleTimes: cfg.SampleTimes,
			})
		case IsSupernovaModel(name):
			return NewSupernovaModelFunc(SupernovaConfig{
				Model:       name,
				SampleTimes: cfg.SampleTimes,
			})
		default:
			return NewSVDModelFunc(SVDConfig{
				Model:             name,
				SVDPath:           cfg.SVDPath,
				MagNCoeff:         cfg.MagNCoeff,
				LbolNCoeff:        cfg.LbolNCoeff,
				InterpolationType: cfg.InterpolationType,
				SampleTimes:       cfg.SampleTimes,
			})
		}
	}

	if name == GRBModelName {
		return nil, configErrorf("%s is not a kilonova / supernova model: joint mode needs a transient emission component", name)
	}

	afterglow, err := NewGRBModelFunc(GRBConfig{
		Resolution:  cfg.GRBResolution,
		JetType:     cfg.JetType,
		SampleTimes: cfg.SampleTimes,
	})
	if err != nil {
		return nil, err
	}

	var transient LightCurveModel
	if IsSupernovaModel(name) {
		transient, err = NewSupernovaModelFunc(SupernovaConfig{
			Model:       name,
			SampleTimes: cfg.SampleTimes,
		})
	} else {
		transient, err = NewSVDModelFunc(SVDConfig{
			Model:             name,
			SVDPath:           cfg.SVDPath,
			MagNCoeff:         cfg.MagNCoeff,
			LbolNCoeff:        cfg.LbolNCoeff,
			InterpolationType: cfg.InterpolationType,
			SampleTimes:       cfg.SampleTimes,
		})
	}
	if err != nil {
		return nil, err
	}
	return NewJointModelFunc(transient, afterglow), nil
}
