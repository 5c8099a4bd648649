package sim

import (
	"math"
	"math/rand"
)

// CurrentProfile maps simulation time (seconds) to demanded pack current
// (Amps, positive = charging).
type CurrentProfile func(tSec float64) float64

// Constant returns a fixed-current profile.
func Constant(amps float64) CurrentProfile {
	return func(float64) float64 { return amps }
}

// Rest returns a zero-current profile.
func Rest() CurrentProfile {
	return Constant(0)
}

// RaceLap returns a 60-second race-lap demand profile:
// a hard-acceleration discharge spike settling to cruise, a regen-braking
// charge spike, low-current cornering and a final straight, with 2 A of
// Gaussian demand noise on every sample.
func RaceLap(rng *rand.Rand) CurrentProfile {
	const lapDuration = 60.0
	return func(tSec float64) float64 {
		lap := math.Mod(tSec, lapDuration)

		var amps float64
		switch {
		case lap < 2.0:
			// Acceleration spike to -250 A
			amps = -250.0 + 150.0*(lap/2.0)
		case lap < 10.0:
			// Settle to -100 A with variation
			amps = -100.0 + 20.0*math.Sin(2*math.Pi*(lap-2)/8)
		case lap < 30.0:
			// Cruise near -95 A
			amps = -95.0 + 10.0*math.Sin(2*math.Pi*(lap-10)/20)
		case lap < 32.0:
			// Regen spike to +150 A
			amps = 150.0 - 50.0*((lap-30)/2)
		case lap < 35.0:
			// Regen decay from +100 A toward +80 A
			amps = 100.0 - 20.0*((lap-32)/3)
		case lap < 50.0:
			// Cornering near -20 A
			amps = -20.0 + 5.0*math.Sin(2*math.Pi*(lap-35)/15)
		default:
			// Straight near -60 A
			amps = -60.0 + 20.0*math.Sin(2*math.Pi*(lap-50)/10)
		}

		return amps + rng.NormFloat64()*2.0
	}
}
