package bms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSOC_Boundaries(t *testing.T) {
	t.Run("low_voltage", func(t *testing.T) {
		soc := LookupSOC(12.06, 293.0)
		t.Logf("12.06V @ 293K -> %.2f%%", soc)
		require.GreaterOrEqual(t, soc, 0.0)
		require.LessOrEqual(t, soc, 5.0)
	})
	t.Run("high_voltage", func(t *testing.T) {
		soc := LookupSOC(13.41, 293.0)
		t.Logf("13.41V @ 293K -> %.2f%%", soc)
		require.GreaterOrEqual(t, soc, 95.0)
		require.LessOrEqual(t, soc, 100.0)
	})
	t.Run("mid_voltage", func(t *testing.T) {
		soc := LookupSOC(12.75, 293.0)
		t.Logf("12.75V @ 293K -> %.2f%%", soc)
		require.GreaterOrEqual(t, soc, 40.0)
		require.LessOrEqual(t, soc, 60.0)
	})
}

func TestLookupSOC_ClampsOutOfRange(t *testing.T) {
	for _, tempK := range []float64{253.15, 293.0, 313.15} {
		// Below the voltage grid: identical to the first row.
		assert.Equal(t, LookupSOC(vAxis[0], tempK), LookupSOC(10.0, tempK), "low clamp at T=%v", tempK)
		// Above the voltage grid: identical to the last row.
		assert.Equal(t, LookupSOC(vAxis[99], tempK), LookupSOC(20.0, tempK), "high clamp at T=%v", tempK)
	}
	for _, v := range []float64{12.1, 12.75, 13.3} {
		// Outside the temperature grid: identical to the edge columns.
		assert.Equal(t, LookupSOC(v, tAxis[0]), LookupSOC(v, 100.0), "cold clamp at V=%v", v)
		assert.Equal(t, LookupSOC(v, tAxis[6]), LookupSOC(v, 400.0), "hot clamp at V=%v", v)
	}
}

func TestLookupSOC_MonotoneInVoltage(t *testing.T) {
	for _, tempK := range []float64{253.15, 268.0, 283.15, 293.0, 313.15} {
		prev := -1.0
		for v := 11.9; v <= 13.6; v += 0.005 {
			soc := LookupSOC(v, tempK)
			require.GreaterOrEqual(t, soc, prev, "not monotone at V=%.3f T=%.1f", v, tempK)
			require.GreaterOrEqual(t, soc, 0.0)
			require.LessOrEqual(t, soc, 100.0)
			prev = soc
		}
	}
}

func TestLookupSOC_GridPointsExact(t *testing.T) {
	cases := []struct{ i, j int }{
		{0, 0}, {0, 6}, {50, 3}, {99, 0}, {99, 6}, {33, 2},
	}
	for _, tc := range cases {
		got := LookupSOC(vAxis[tc.i], tAxis[tc.j])
		assert.InDelta(t, socTable[tc.i][tc.j], got, 1e-9, "grid point (%d,%d)", tc.i, tc.j)
	}
}

func TestLookupResistance_Extremes(t *testing.T) {
	cold := LookupResistance(5, 263.0)
	t.Logf("5%% @ 263K -> %.4f Ohm", cold)
	require.Greater(t, cold, 0.020)

	warm := LookupResistance(95, 313.0)
	t.Logf("95%% @ 313K -> %.4f Ohm", warm)
	require.Less(t, warm, 0.005)

	mid := LookupResistance(50, 298.15)
	require.Greater(t, mid, 0.005)
	require.Less(t, mid, 0.012)
}

func TestLookupResistance_Monotone(t *testing.T) {
	t.Run("non_increasing_in_soc", func(t *testing.T) {
		for _, tempK := range []float64{253.15, 293.0, 313.15} {
			prev := math.Inf(1)
			for soc := 0.0; soc <= 100.0; soc += 1.0 {
				r := LookupResistance(soc, tempK)
				require.LessOrEqual(t, r, prev+1e-12, "soc=%v T=%v", soc, tempK)
				require.Greater(t, r, 0.0)
				prev = r
			}
		}
	})
	t.Run("non_increasing_in_temp", func(t *testing.T) {
		for _, soc := range []float64{5.0, 35.0, 65.0, 95.0} {
			prev := math.Inf(1)
			for tempK := 250.0; tempK <= 320.0; tempK += 2.5 {
				r := LookupResistance(soc, tempK)
				require.LessOrEqual(t, r, prev+1e-12, "soc=%v T=%v", soc, tempK)
				prev = r
			}
		}
	})
}

func TestPredictCurrent(t *testing.T) {
	t.Run("zero_at_open_circuit", func(t *testing.T) {
		// A voltage inside the table IS an OCV reading; the residual current
		// is zero up to interpolation rounding.
		for _, v := range []float64{12.2, 12.75, 13.1} {
			for _, tempK := range []float64{263.0, 293.0, 308.0} {
				assert.InDelta(t, 0.0, PredictCurrent(v, tempK), 1e-6, "V=%v T=%v", v, tempK)
			}
		}
	})
	t.Run("sign_of_out_of_range_residual", func(t *testing.T) {
		// Above the table the excess voltage reads as charging current.
		assert.Greater(t, PredictCurrent(13.6, 293.0), 0.0)
		// Below the table it reads as discharge.
		assert.Less(t, PredictCurrent(11.8, 293.0), 0.0)
	})
}
