// Package em orchestrates electromagnetic light-curve injection for
// astrophysical transients: model selection, per-injection synthesis,
// resumable artifact caching, observational-realism transforms, and
// aggregation for plotting.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - run.go: the batch driver (model -> injections -> cache -> results)
//   - factory.go: model composition rules (single vs. joint, kilonova /
//     GRB afterglow / supernova template)
//   - cache.go: per-index artifacts, config-hash invalidation, atomic writes
//
// # Architecture
//
// The em package owns the LightCurveModel interface and the orchestration
// logic; emission-model implementations live in em/models and register
// themselves via init() functions that set package-level factory variables
// (NewSVDModelFunc, NewGRBModelFunc, NewSupernovaModelFunc,
// NewJointModelFunc).
//
// Randomized components (cadence sampling, photometric augmentation,
// uncertainty draws) never touch global RNG state: they draw from explicit
// per-subsystem streams of a PartitionedRNG seeded by the generation seed
// (rng.go), so a run is reproducible from its spec alone.
package em
