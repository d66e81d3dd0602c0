package bocd

const (
	DefaultHazard        = 2 / 1000.0
	DefaultThreshold     = 0.75
	DefaultObserveWindow = 5

	// MinBurnInDraws is the shortest trace DetectBurnIn accepts.
	MinBurnInDraws = 8
)
