package kde

const (
	// DefaultCut extends the evaluation grid cut*bw past the extreme samples
	// so that the kernel goes to zero.
	DefaultCut = 3.0

	DefaultMinGridSize = 100

	// IQR of the standard normal distribution.
	normalIQR = 1.349
)
