package types

import (
	"fmt"
	"math"
)

// Charge is an int64 wrapper representing electric charge in micro-amp-seconds.
// The integer unit keeps long coulomb-counting runs free of float cancellation;
// a signed 64-bit range covers years of operation at realistic pack currents.
type Charge int64

const (
	// MicroAmpSecondsPerAmpSecond is the accumulator scale: 1 A·s = 1e6 µA·s.
	MicroAmpSecondsPerAmpSecond = 1e6

	// MicroAmpSecondsPerAmpHour is 1 Ah = 3600 A·s = 3.6e9 µA·s.
	MicroAmpSecondsPerAmpHour = 3600 * MicroAmpSecondsPerAmpSecond
)

// FromAmpSeconds converts amp-seconds to a Charge, rounding to the nearest µA·s.
func FromAmpSeconds(as float64) Charge {
	return Charge(math.Round(as * MicroAmpSecondsPerAmpSecond))
}

// FromAmpHours converts amp-hours to a Charge, rounding to the nearest µA·s.
func FromAmpHours(ah float64) Charge {
	return Charge(math.Round(ah * MicroAmpSecondsPerAmpHour))
}

// AmpSeconds returns the charge in amp-seconds.
func (c Charge) AmpSeconds() float64 { return float64(c) / MicroAmpSecondsPerAmpSecond }

// MilliampHours returns the charge in milliamp-hours.
func (c Charge) MilliampHours() float64 { return float64(c) / (MicroAmpSecondsPerAmpHour / 1000) }

// AmpHours returns the charge in amp-hours.
func (c Charge) AmpHours() float64 { return float64(c) / MicroAmpSecondsPerAmpHour }

// Humanized returns a human-readable string with automatic unit (µAs, mAh, Ah).
func (c Charge) Humanized() string {
	v := float64(c)
	abs := math.Abs(v)
	switch {
	case abs >= MicroAmpSecondsPerAmpHour:
		return fmt.Sprintf("%.3f Ah", v/MicroAmpSecondsPerAmpHour)
	case abs >= MicroAmpSecondsPerAmpHour/1000:
		return fmt.Sprintf("%.3f mAh", v/(MicroAmpSecondsPerAmpHour/1000))
	default:
		return fmt.Sprintf("%d uAs", int64(c))
	}
}
