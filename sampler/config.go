package sampler

// Config holds the sampler's tuning constants (spec.md §4.4).
type Config struct {
	NBinSamples      int // n_bin_samples
	NFocussedSamples int // n_focussed_samples
	NCoordDescents   int // n_coord_descents

	ExploreStddevRatio float64 // EXPLORE_SOL_DISTR_STDDEV, × item_min_dim

	// Coordinate-descent step ratios, × item_min_dim.
	InitStepRatio  float64 // PRE_REF_CD_RATIOS.0 or FIN_REF_CD_RATIOS.0
	FloorStepRatio float64 // PRE_REF_CD_RATIOS.1 or FIN_REF_CD_RATIOS.1
	MaxCDIters     int     // iteration cap for the descent

	UniqueSampleThresholdRatio float64 // × item_min_dim
	UniqueSampleRotThreshold   float64 // radians

	Seed int64
}

// Coordinate-descent step adaptation constants (spec.md §4.4).
const (
	CDStepSuccess = 1.1
	CDStepFail    = 0.5
)

// DefaultConfig returns the pre-refinement configuration from spec.md §4.4:
// 50 bin-uniform samples, 25 focussed samples, 3 coordinate descents,
// PRE_REF_CD_RATIOS = (0.25, 0.02).
func DefaultConfig() Config {
	return Config{
		NBinSamples:                50,
		NFocussedSamples:           25,
		NCoordDescents:             3,
		ExploreStddevRatio:         0.15,
		InitStepRatio:              0.25,
		FloorStepRatio:             0.02,
		MaxCDIters:                 60,
		UniqueSampleThresholdRatio: 0.05,
		UniqueSampleRotThreshold:   0.05,
	}
}

// FinalRefinementConfig is DefaultConfig with FIN_REF_CD_RATIOS = (0.01,
// 0.001), the finer descent spec.md §4.4 reserves for the compress phase.
func FinalRefinementConfig() Config {
	c := DefaultConfig()
	c.InitStepRatio = 0.01
	c.FloorStepRatio = 0.001
	return c
}

// LBFConfig is LBF_SAMPLE_CONFIG from spec.md §4.5: 1000 bin samples, no
// focussed phase, used only for the optimiser driver's initial
// left-bottom-fill placement of every item, before the first shrink.
func LBFConfig() Config {
	c := DefaultConfig()
	c.NBinSamples = 1000
	c.NFocussedSamples = 0
	return c
}
