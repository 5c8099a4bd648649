package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharge_Conversions(t *testing.T) {
	// Exact boundaries
	assert.InDelta(t, 1.0, Charge(1_000_000).AmpSeconds(), 1e-12)
	assert.InDelta(t, 1.0, Charge(3_600_000_000).AmpHours(), 1e-12)
	assert.InDelta(t, 1.0, Charge(3_600_000).MilliampHours(), 1e-12)

	// Non-integers
	c := Charge(1_500_000) // 1.5 A·s
	assert.InDelta(t, 1.5, c.AmpSeconds(), 1e-12)
	assert.InDelta(t, 1.5/3600.0, c.AmpHours(), 1e-12)

	// Large pack: 100 Ah
	c = FromAmpHours(100)
	assert.Equal(t, Charge(360_000_000_000), c)
	assert.InDelta(t, 100.0, c.AmpHours(), 1e-9)
}

func TestCharge_FromAmpSeconds_Rounding(t *testing.T) {
	cases := []struct {
		in   float64
		want Charge
	}{
		{0, 0},
		{1e-6, 1},              // one µA·s exactly
		{0.4e-6, 0},            // rounds down
		{0.5e-6, 1},            // half rounds away from zero
		{-0.5e-6, -1},          // negative half rounds away from zero
		{5 * 0.1, 500_000},     // 5 A for 0.1 s
		{-5 * 0.1, -500_000},   // discharge tick
		{250 * 0.1, 25_000_000}, // spike current tick
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			require.Equal(t, tc.want, FromAmpSeconds(tc.in))
		})
	}
}

func TestCharge_Humanized(t *testing.T) {
	cases := []struct {
		in   Charge
		want string
	}{
		{Charge(0), "0 uAs"},
		{Charge(500), "500 uAs"},
		{Charge(3_600_000), "1.000 mAh"},
		{Charge(1_800_000), "0.500 mAh"},
		{Charge(3_600_000_000), "1.000 Ah"},
		{FromAmpHours(100), "100.000 Ah"},
		{FromAmpHours(-2.5), "-2.500 Ah"},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d_%d", i, int64(tc.in)), func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Humanized())
		})
	}
}

func TestCharge_RoundTrip(t *testing.T) {
	for _, ah := range []float64{0, 0.001, 1, 55, 100, 1200} {
		c := FromAmpHours(ah)
		assert.InDelta(t, ah, c.AmpHours(), 1e-9, "ah=%v", ah)
	}
}
