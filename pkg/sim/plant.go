// Package sim provides the simulation driver for the estimator: a
// high-fidelity battery plant with dynamic internal resistance and sensor
// noise, plus the current profiles the harness replays against it.
package sim

import (
	"math"
	"math/rand"

	"github.com/OnlyNandan/Coulomb-Counter/pkg/bms"
)

// OCV span of the simulated pack, matching the estimator's lookup range.
const (
	ocvEmptyV = 12.05844
	ocvFullV  = 13.41786
)

// OCV returns the open-circuit voltage of the plant at a true SOC (%).
func OCV(socPercent float64) float64 {
	return ocvEmptyV + socPercent/100*(ocvFullV-ocvEmptyV)
}

// Measurement is one tick of noisy sensor data, the input tuple of
// bms.Estimator.Update. Current sign convention: positive = charging.
type Measurement struct {
	TimeSec  float64
	VoltageV float64
	CurrentA float64
	TempC    float64
	DtSec    float64
}

// PlantConfig describes the simulated pack and its sensors.
// Noise sigmas of zero yield a deterministic, noise-free plant.
type PlantConfig struct {
	NominalCapacityAh float64
	InitialSOCPercent float64

	// Sinusoidal ambient temperature profile (Celsius).
	TempBaseC     float64
	TempSwingC    float64
	TempPeriodSec float64

	// Gaussian sensor noise sigmas.
	VoltageNoiseV float64
	CurrentNoiseA float64
	TempNoiseC    float64
}

// DefaultPlantConfig returns the simulated 100 Ah pack:
// 10 mV voltage noise, 0.5 A current noise, a 2-minute thermal swing.
func DefaultPlantConfig() PlantConfig {
	return PlantConfig{
		NominalCapacityAh: 100.0,
		InitialSOCPercent: 50.0,
		TempBaseC:         20.0,
		TempSwingC:        15.0,
		TempPeriodSec:     120.0,
		VoltageNoiseV:     0.01,
		CurrentNoiseA:     0.5,
		TempNoiseC:        1.5,
	}
}

// Plant simulates the true battery. It tracks an ideal coulomb-counted true
// SOC and produces terminal-voltage measurements via V = OCV + I*R, with R
// interpolated from the pack's resistance characteristic at the true
// operating point.
type Plant struct {
	cfg PlantConfig
	rng *rand.Rand

	trueCapacityAh float64
	trueSOC        float64
	now            float64
}

// NewPlant creates a plant seeded for reproducible noise.
func NewPlant(cfg PlantConfig, seed int64) *Plant {
	return &Plant{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		trueCapacityAh: cfg.NominalCapacityAh,
		trueSOC:        cfg.InitialSOCPercent,
	}
}

// Step advances the plant by dt under the demanded current and returns the
// noisy sensor tuple for the tick.
func (p *Plant) Step(currentA, dtSec float64) Measurement {
	p.trueSOC += currentA * dtSec / (p.trueCapacityAh * 3600) * 100
	if p.trueSOC < 0 {
		p.trueSOC = 0
	}
	if p.trueSOC > 100 {
		p.trueSOC = 100
	}
	p.now += dtSec

	tempC := p.cfg.TempBaseC
	if p.cfg.TempPeriodSec > 0 {
		tempC += p.cfg.TempSwingC * math.Sin(2*math.Pi*p.now/p.cfg.TempPeriodSec)
	}
	tempC += p.rng.NormFloat64() * p.cfg.TempNoiseC

	r := bms.LookupResistance(p.trueSOC, tempC+273.15)
	voltage := OCV(p.trueSOC) + currentA*r + p.rng.NormFloat64()*p.cfg.VoltageNoiseV
	measured := currentA + p.rng.NormFloat64()*p.cfg.CurrentNoiseA

	return Measurement{
		TimeSec:  p.now,
		VoltageV: voltage,
		CurrentA: measured,
		TempC:    tempC,
		DtSec:    dtSec,
	}
}

// TrueSOC returns the plant's ideal-coulomb-counted SOC (%).
func (p *Plant) TrueSOC() float64 { return p.trueSOC }

// TrueCapacity returns the plant's true capacity in Ah.
func (p *Plant) TrueCapacity() float64 { return p.trueCapacityAh }

// SetTrueCapacity overrides the true capacity; the lifecycle scenario uses it
// to model cycle-by-cycle degradation.
func (p *Plant) SetTrueCapacity(ah float64) {
	if ah > 0 {
		p.trueCapacityAh = ah
	}
}

// InternalResistance returns the plant's dynamic resistance at its present
// true SOC and the given temperature.
func (p *Plant) InternalResistance(tempC float64) float64 {
	return bms.LookupResistance(p.trueSOC, tempC+273.15)
}
