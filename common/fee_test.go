package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProportional(t *testing.T) {
	// multiply-first branch, small amounts keep a non-zero cut
	require.Equal(t, 69, Proportional(1000, 690))
	require.Equal(t, 0, Proportional(1, 690))
	require.Equal(t, 1, Proportional(15, 690))

	// divide-first branch
	require.Equal(t, 690, Proportional(10_000, 690))
	require.Equal(t, 690, Proportional(15_000, 690)) // remainder is dropped
	require.Equal(t, 1380, Proportional(20_000, 690))

	require.Equal(t, 0, Proportional(0, 690))
	require.Equal(t, 0, Proportional(12345, 0))
}

func TestProportionalBound(t *testing.T) {
	for _, amount := range []int{0, 1, 9999, 10_000, 10_001, 123_456_789} {
		for _, rate := range []int{0, 1, 690, 9999, 10_000} {
			require.LessOrEqual(t, Proportional(amount, rate), amount,
				"amount=%d rate=%d", amount, rate)
		}
	}

	// full rate takes everything that is divisible
	require.Equal(t, 10_000, Proportional(10_000, 10_000))
	require.Equal(t, 999, Proportional(999, 10_000))
}
