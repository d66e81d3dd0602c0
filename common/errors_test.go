package common

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateAlpha(t *testing.T) {
	for _, alpha := range []float64{0.001, 0.05, 0.5, 0.999} {
		require.NoError(t, ValidateAlpha(alpha))
	}
	for _, alpha := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		err := ValidateAlpha(alpha)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrorInvalidParameter))
		require.False(t, errors.Is(err, ErrorDegenerateInput))
	}
}
