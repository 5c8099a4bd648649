// Package bms implements the core estimator of a battery management system:
// integer coulomb counting fused with an OCV-driven scalar Kalman correction,
// plus rest-period recalibration that adapts the pack's effective capacity
// and derives state of health from it.
//
// The estimator is a fixed-step compute kernel. The host calls Update once
// per control tick with the latest terminal voltage, pack current (positive =
// charging), temperature in Celsius and the tick duration. Update allocates
// nothing and does no I/O. An Estimator must not be shared between
// goroutines; distinct instances are fully independent.
package bms

import (
	"math"

	"github.com/OnlyNandan/Coulomb-Counter/pkg/types"
)

const kelvinOffset = 273.15

// Estimator tracks SOC and SOH for a single battery pack.
type Estimator struct {
	socPercent float64

	// Charge accumulator in µA·s; positive current charges.
	coulombCount types.Charge

	currentCapacityAh float64
	nominalCapacityAh float64

	kalmanGain       float64
	processNoise     float64
	measurementNoise float64
	errorCovariance  float64

	sohPercent     float64
	adaptationRate float64

	// Running sum of rest-period SOC errors. Diagnostic only; nothing in the
	// update cycle reads it back.
	socErrorAccumulator float64

	sohUpdateCount uint32
	updateCount    uint32

	restActive   bool
	restTimer    float64
	restCurrentA float64
	restPeriod   float64

	// Simulation-time clock in µs, advanced by dt each tick. Diagnostic only.
	lastUpdateTimeUs float64
}

// New initializes an estimator at the given SOC (%) with the given nominal
// pack capacity (Ah). A nil cfg uses the default tuning. New refuses
// out-of-range inputs with ErrBadSOC / ErrBadCapacity.
func New(initialSOCPercent, nominalCapacityAh float64, cfg *Config) (*Estimator, error) {
	if !finite(nominalCapacityAh) || nominalCapacityAh <= 0 {
		return nil, ErrBadCapacity
	}
	if !finite(initialSOCPercent) || initialSOCPercent < 0 || initialSOCPercent > 100 {
		return nil, ErrBadSOC
	}
	if cfg == nil {
		cfg = _defaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Estimator{
		socPercent:        initialSOCPercent,
		currentCapacityAh: nominalCapacityAh,
		nominalCapacityAh: nominalCapacityAh,
		processNoise:      cfg.ProcessNoise,
		measurementNoise:  cfg.MeasurementNoise,
		errorCovariance:   cfg.InitialCovariance,
		sohPercent:        100,
		adaptationRate:    cfg.AdaptationRate,
		restCurrentA:      cfg.RestCurrentA,
		restPeriod:        cfg.RestPeriodSec,
	}
	e.syncCoulombCount()
	return e, nil
}

// Update runs one estimation tick: coulomb-counter integration, the Kalman
// predict/correct step against the OCV lookup, and the rest-period state
// machine. Temperature is in Celsius; lookups internally use Kelvin.
//
// Error policy: a non-finite measurement or dt <= 0 REFUSES the tick — the
// call returns ErrNotFinite / ErrBadDt and no state changes, update_count
// included.
func (e *Estimator) Update(voltageV, currentA, tempC, dtSec float64) error {
	if !finite(dtSec) || dtSec <= 0 {
		return ErrBadDt
	}
	if !finite(voltageV, currentA, tempC) {
		return ErrNotFinite
	}
	tempK := tempC + kelvinOffset

	// Coulomb counter: integrate current into the µA·s accumulator, clamp to
	// the physical charge range, derive the predicted SOC.
	e.coulombCount += types.FromAmpSeconds(currentA * dtSec)
	full := types.FromAmpHours(e.currentCapacityAh)
	if e.coulombCount < 0 {
		e.coulombCount = 0
	}
	if e.coulombCount > full {
		e.coulombCount = full
	}
	socPredicted := float64(e.coulombCount) / float64(full) * 100

	// Scalar Kalman predict/correct against the voltage-derived SOC.
	socMeasured := LookupSOC(voltageV, tempK)
	e.errorCovariance += e.processNoise
	if den := e.errorCovariance + e.measurementNoise; den > 0 {
		e.kalmanGain = e.errorCovariance / den
	} else {
		e.kalmanGain = 0
	}
	e.socPercent = clampPercent(socPredicted + e.kalmanGain*(socMeasured-socPredicted))
	e.errorCovariance *= 1 - e.kalmanGain
	e.syncCoulombCount()

	// Rest-period state machine. A sustained low-|I| window ends in one
	// recalibration event, after which the timer re-arms from zero.
	if math.Abs(currentA) < e.restCurrentA {
		if !e.restActive {
			e.restActive = true
			e.restTimer = 0
		}
		e.restTimer += dtSec
		if e.restTimer >= e.restPeriod {
			e.recalibrate(voltageV, tempK)
			e.restActive = false
			e.restTimer = 0
		}
	} else {
		e.restActive = false
		e.restTimer = 0
	}

	e.updateCount++
	e.lastUpdateTimeUs += dtSec * 1e6
	return nil
}

// recalibrate snaps SOC to the rest OCV reading and adapts the effective
// capacity by a bounded fraction of the observed SOC error. Only a verified
// rest window calls this: under load the OCV is masked by I*R and
// polarization, so the lookup is an absolute reference only here.
func (e *Estimator) recalibrate(voltageV, tempK float64) {
	socRest := LookupSOC(voltageV, tempK)
	dsoc := socRest - e.socPercent
	e.socErrorAccumulator += dsoc

	e.socPercent = socRest
	e.syncCoulombCount()

	adapted := e.currentCapacityAh * (1 - e.adaptationRate*dsoc/100)
	e.currentCapacityAh = clampRange(adapted, 0.5*e.nominalCapacityAh, 1.05*e.nominalCapacityAh)
	e.sohPercent = clampRange(100*e.currentCapacityAh/e.nominalCapacityAh, 0, 105)

	// The capacity just moved; re-derive the accumulator so charge and SOC
	// stay consistent against the adapted capacity.
	e.syncCoulombCount()

	e.sohUpdateCount++
}

// syncCoulombCount re-derives the accumulator from the corrected SOC so the
// predictor and corrector cannot diverge across ticks.
func (e *Estimator) syncCoulombCount() {
	e.coulombCount = types.FromAmpHours(e.socPercent / 100 * e.currentCapacityAh)
}

// SOC returns the current state-of-charge estimate in percent.
func (e *Estimator) SOC() float64 { return e.socPercent }

// SOH returns the current state-of-health estimate in percent.
func (e *Estimator) SOH() float64 { return e.sohPercent }

// KalmanGain returns the last-computed corrector gain.
func (e *Estimator) KalmanGain() float64 { return e.kalmanGain }

// ErrorCovariance returns the corrector covariance P.
func (e *Estimator) ErrorCovariance() float64 { return e.errorCovariance }

// Capacity returns the effective (degradation-adapted) capacity in Ah.
func (e *Estimator) Capacity() float64 { return e.currentCapacityAh }

// NominalCapacity returns the as-new capacity in Ah.
func (e *Estimator) NominalCapacity() float64 { return e.nominalCapacityAh }

// CoulombCount returns the charge accumulator.
func (e *Estimator) CoulombCount() types.Charge { return e.coulombCount }

// UpdateCount returns the number of ticks processed.
func (e *Estimator) UpdateCount() uint32 { return e.updateCount }

// SOHUpdateCount returns the number of rest-period adaptations performed.
func (e *Estimator) SOHUpdateCount() uint32 { return e.sohUpdateCount }

// RestActive reports whether the rest-period timer is armed.
func (e *Estimator) RestActive() bool { return e.restActive }

// RestTimer returns the accumulated rest duration in seconds.
func (e *Estimator) RestTimer() float64 { return e.restTimer }

// State is a read-only snapshot of the estimator for host telemetry rows.
type State struct {
	SOCPercent      float64
	SOHPercent      float64
	CapacityAh      float64
	KalmanGain      float64
	ErrorCovariance float64
	CoulombCount    types.Charge
	UpdateCount     uint32
	SOHUpdateCount  uint32
	RestActive      bool
	RestTimerSec    float64
}

// Snapshot returns a copy of the observable estimator state.
func (e *Estimator) Snapshot() State {
	return State{
		SOCPercent:      e.socPercent,
		SOHPercent:      e.sohPercent,
		CapacityAh:      e.currentCapacityAh,
		KalmanGain:      e.kalmanGain,
		ErrorCovariance: e.errorCovariance,
		CoulombCount:    e.coulombCount,
		UpdateCount:     e.updateCount,
		SOHUpdateCount:  e.sohUpdateCount,
		RestActive:      e.restActive,
		RestTimerSec:    e.restTimer,
	}
}
