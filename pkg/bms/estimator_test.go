package bms

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnlyNandan/Coulomb-Counter/pkg/types"
)

// coulombOnlyConfig disables the voltage corrector (P0=0, Q=0 keeps the gain
// at zero forever), isolating the coulomb-counting component.
func coulombOnlyConfig() *Config {
	return &Config{
		ProcessNoise:      0,
		MeasurementNoise:  1e-2,
		InitialCovariance: 0,
		AdaptationRate:    0.02,
		RestCurrentA:      0.5,
		RestPeriodSec:     5.0,
	}
}

func TestNew_Defaults(t *testing.T) {
	est, err := New(50, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, 50.0, est.SOC())
	assert.Equal(t, 100.0, est.SOH())
	assert.Equal(t, 100.0, est.Capacity())
	assert.Equal(t, 100.0, est.NominalCapacity())
	assert.Equal(t, types.FromAmpHours(50), est.CoulombCount())
	assert.Zero(t, est.UpdateCount())
	assert.Zero(t, est.SOHUpdateCount())
	assert.False(t, est.RestActive())
	assert.Zero(t, est.KalmanGain())
}

func TestNew_Refuses(t *testing.T) {
	cases := []struct {
		name string
		soc  float64
		cap  float64
		cfg  *Config
		want error
	}{
		{"zero_capacity", 50, 0, nil, ErrBadCapacity},
		{"negative_capacity", 50, -10, nil, ErrBadCapacity},
		{"nan_capacity", 50, math.NaN(), nil, ErrBadCapacity},
		{"soc_below_zero", -0.1, 100, nil, ErrBadSOC},
		{"soc_above_hundred", 100.1, 100, nil, ErrBadSOC},
		{"nan_soc", math.NaN(), 100, nil, ErrBadSOC},
		{"zero_adapt_rate", 50, 100, &Config{MeasurementNoise: 1e-2, RestPeriodSec: 5}, ErrBadConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.soc, tc.cap, tc.cfg)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdate_RefusesInvalidTicks(t *testing.T) {
	est, err := New(50, 100, nil)
	require.NoError(t, err)
	before := est.Snapshot()

	cases := []struct {
		name       string
		v, i, c, d float64
		want       error
	}{
		{"zero_dt", 12.5, 5, 25, 0, ErrBadDt},
		{"negative_dt", 12.5, 5, 25, -0.1, ErrBadDt},
		{"nan_dt", 12.5, 5, 25, math.NaN(), ErrBadDt},
		{"nan_voltage", math.NaN(), 5, 25, 0.1, ErrNotFinite},
		{"inf_current", 12.5, math.Inf(1), 25, 0.1, ErrNotFinite},
		{"nan_temp", 12.5, 5, math.NaN(), 0.1, ErrNotFinite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, est.Update(tc.v, tc.i, tc.c, tc.d), tc.want)
			// A refused tick mutates nothing, update_count included.
			assert.Equal(t, before, est.Snapshot())
		})
	}
}

func TestChargeHour(t *testing.T) {
	est, err := New(50, 100, coulombOnlyConfig())
	require.NoError(t, err)

	const dt = 0.1
	for i := 0; i < 36000; i++ {
		v := 12.5 + 0.5*math.Sin(2*math.Pi*float64(i)*dt/3600)
		require.NoError(t, est.Update(v, 5.0, 25.0, dt))
		if (i+1)%6000 == 0 {
			t.Logf("t=%5.0fs soc=%.3f%%", float64(i+1)*dt, est.SOC())
		}
	}

	// +5 A for one hour on a 100 Ah pack is +5%.
	assert.InDelta(t, 55.0, est.SOC(), 0.5)
	assert.Zero(t, est.SOHUpdateCount(), "no rest window at 5A load")
	assert.Zero(t, est.KalmanGain())
}

func TestDischargeHour(t *testing.T) {
	est, err := New(50, 100, coulombOnlyConfig())
	require.NoError(t, err)

	const dt = 0.1
	for i := 0; i < 36000; i++ {
		v := 12.5 - 0.5*math.Sin(2*math.Pi*float64(i)*dt/3600)
		require.NoError(t, est.Update(v, -5.0, 25.0, dt))
	}

	assert.InDelta(t, 45.0, est.SOC(), 0.5)
	assert.Zero(t, est.SOHUpdateCount())
}

func TestConstantCharge_Monotone(t *testing.T) {
	est, err := New(20, 100, coulombOnlyConfig())
	require.NoError(t, err)

	prev := est.SOC()
	for i := 0; i < 2000; i++ {
		require.NoError(t, est.Update(12.6, 2.0, 25.0, 0.5))
		require.GreaterOrEqual(t, est.SOC(), prev, "tick %d", i)
		prev = est.SOC()
	}
}

func TestInvariants_RandomTraces(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	est, err := New(50, 100, nil)
	require.NoError(t, err)

	for i := 0; i < 20000; i++ {
		var current float64
		if rng.Float64() < 0.2 {
			current = rng.Float64()*0.8 - 0.4 // rest regime
		} else {
			current = rng.Float64()*300 - 150
		}
		voltage := 11.8 + rng.Float64()*1.8
		temp := -25 + rng.Float64()*70
		dt := 0.01 + rng.Float64()*0.49

		require.NoError(t, est.Update(voltage, current, temp, dt))

		s := est.Snapshot()
		require.GreaterOrEqual(t, s.SOCPercent, 0.0, "tick %d", i)
		require.LessOrEqual(t, s.SOCPercent, 100.0, "tick %d", i)
		require.GreaterOrEqual(t, s.CapacityAh, 50.0, "tick %d", i)
		require.LessOrEqual(t, s.CapacityAh, 105.0, "tick %d", i)
		require.GreaterOrEqual(t, s.SOHPercent, 0.0, "tick %d", i)
		require.LessOrEqual(t, s.SOHPercent, 105.0, "tick %d", i)

		// Accumulator/SOC consistency after every return.
		want := s.SOCPercent / 100 * s.CapacityAh * 3600 * 1e6
		require.LessOrEqual(t, math.Abs(float64(s.CoulombCount)-want), 1.0, "tick %d", i)
	}
	t.Logf("final: soc=%.2f%% soh=%.2f%% adapts=%d", est.SOC(), est.SOH(), est.SOHUpdateCount())
}

func TestRestAdaptation(t *testing.T) {
	cfg := _defaultConfig()
	cfg.RestPeriodSec = 30.0 // production rest window
	est, err := New(50, 100, cfg)
	require.NoError(t, err)

	// 10 s of charge against a misleadingly low terminal voltage builds a
	// SOC error for the rest window to repair.
	const dt = 0.1
	for i := 0; i < 100; i++ {
		require.NoError(t, est.Update(12.0, 10.0, 25.0, dt))
	}
	t.Logf("soc after load: %.2f%%", est.SOC())

	// 35 s at open circuit: 12.75 V at 293 K (19.85 C).
	lookup := LookupSOC(12.75, 293.0)
	sawAdapt := false
	for i := 0; i < 350; i++ {
		require.NoError(t, est.Update(12.75, 0.0, 19.85, dt))
		if !sawAdapt && est.SOHUpdateCount() == 1 {
			sawAdapt = true
			// Immediately after the adaptation the snap holds exactly.
			assert.InDelta(t, lookup, est.SOC(), 1e-3)
			assert.InDelta(t, 30.0, float64(i+1)*dt, dt+1e-9, "adapt should fire at the rest threshold")
		}
	}

	require.True(t, sawAdapt)
	assert.EqualValues(t, 1, est.SOHUpdateCount(), "35s window holds exactly one adapt")
	assert.InDelta(t, lookup, est.SOC(), 5.0)
}

func TestRestTimer_Hysteresis(t *testing.T) {
	cfg := _defaultConfig()
	cfg.RestPeriodSec = 10.0
	est, err := New(50, 100, cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, est.Update(12.75, 0.0, 20.0, 1.0))
	}
	assert.True(t, est.RestActive())
	assert.InDelta(t, 5.0, est.RestTimer(), 1e-9)

	// One loaded tick clears the candidate window.
	require.NoError(t, est.Update(12.75, 5.0, 20.0, 1.0))
	assert.False(t, est.RestActive())
	assert.Zero(t, est.RestTimer())

	for i := 0; i < 9; i++ {
		require.NoError(t, est.Update(12.75, 0.0, 20.0, 1.0))
	}
	assert.Zero(t, est.SOHUpdateCount(), "timer must restart from zero")

	require.NoError(t, est.Update(12.75, 0.0, 20.0, 1.0))
	assert.EqualValues(t, 1, est.SOHUpdateCount())
	assert.False(t, est.RestActive(), "state machine re-arms after the adapt")
	assert.Zero(t, est.RestTimer())
}

func TestCapacityAdaptation_Clamped(t *testing.T) {
	cfg := coulombOnlyConfig()
	cfg.AdaptationRate = 1.0
	cfg.RestPeriodSec = 1.0

	t.Run("upper_bound", func(t *testing.T) {
		est, err := New(100, 100, cfg)
		require.NoError(t, err)
		// Resting at a near-empty OCV while believing 100% forces a huge
		// negative SOC error; the capacity step clamps at 1.05x nominal.
		require.NoError(t, est.Update(12.06, 0.0, 19.85, 1.0))
		assert.InDelta(t, 105.0, est.Capacity(), 1e-9)
		assert.InDelta(t, 105.0, est.SOH(), 1e-9)

		s := est.Snapshot()
		want := s.SOCPercent / 100 * s.CapacityAh * 3600 * 1e6
		assert.LessOrEqual(t, math.Abs(float64(s.CoulombCount)-want), 1.0)
	})

	t.Run("lower_bound", func(t *testing.T) {
		est, err := New(0, 100, cfg)
		require.NoError(t, err)
		// Resting at a near-full OCV while believing 0% clamps at 0.5x.
		require.NoError(t, est.Update(13.41, 0.0, 19.85, 1.0))
		assert.InDelta(t, 50.0, est.Capacity(), 1e-9)
		assert.InDelta(t, 50.0, est.SOH(), 1e-9)
	})
}

func TestAccumulator_Saturates(t *testing.T) {
	cfg := coulombOnlyConfig()

	t.Run("floor", func(t *testing.T) {
		est, err := New(1, 10, cfg)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			require.NoError(t, est.Update(12.2, -100.0, 25.0, 60.0))
		}
		assert.Zero(t, est.SOC())
		assert.Zero(t, est.CoulombCount())
	})

	t.Run("ceiling", func(t *testing.T) {
		est, err := New(99, 10, cfg)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			require.NoError(t, est.Update(13.3, 100.0, 25.0, 60.0))
		}
		assert.Equal(t, 100.0, est.SOC())
		assert.Equal(t, types.FromAmpHours(10), est.CoulombCount())
	})
}

func TestUpdate_CountsTicks(t *testing.T) {
	est, err := New(50, 100, nil)
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		require.NoError(t, est.Update(12.7, -1.0, 20.0, 0.1))
	}
	assert.EqualValues(t, 25, est.UpdateCount())
}
