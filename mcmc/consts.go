package mcmc

const (
	// MinDraws is the smallest chain length the diagnostics are defined
	// for.
	MinDraws = 4

	TailLowerQuantile = 0.05
	TailUpperQuantile = 0.95

	// draws spanning less than this are treated as constant
	constantResolution = 1e-15
)
