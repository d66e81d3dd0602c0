package common

import "github.com/cockroachdb/errors"

// Error categories. Call sites wrap these with errors.Wrapf so that
// errors.Is still reports the category.
var (
	// ErrorInvalidValue is returned for malformed input data: non finite
	// samples, ragged columns, duplicate parameter names.
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorInvalidParameter is returned for caller supplied settings out of
	// range, like alpha outside (0, 1) or a negative rounding precision.
	ErrorInvalidParameter = errors.New("invalid parameter")

	// ErrorDegenerateInput is returned when density estimation is ill
	// defined: empty input, fewer than two distinct values, singular
	// covariance.
	ErrorDegenerateInput = errors.New("degenerate input")

	// ErrorUnknownFeature is returned when a parameter name is not a column
	// of the table.
	ErrorUnknownFeature = errors.New("unknown feature")
)

// ValidateAlpha checks the significance level of an interval.
func ValidateAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return errors.Wrapf(ErrorInvalidParameter, "alpha must be in (0, 1), got %v", alpha)
	}
	return nil
}
