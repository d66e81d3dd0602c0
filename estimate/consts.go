package estimate

const (
	DefaultAlpha   = 0.05
	DefaultRoundTo = 2

	// MAPName labels the maximum a posteriori point estimate.
	MAPName = "MAP"
)
