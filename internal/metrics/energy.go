package metrics

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

// Energy averages one half of the field energy over the observed frames.
type Energy struct {
	name     string
	magnetic bool
	total    float64
	samples  int
}

func NewElectricEnergy() *Energy { return &Energy{name: "electric_energy"} }
func NewMagneticEnergy() *Energy { return &Energy{name: "magnetic_energy", magnetic: true} }

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(em *field.EMField, t float64) {
	electric, magnetic := em.Energy()
	if e.magnetic {
		e.total += magnetic
	} else {
		e.total += electric
	}
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation of the total energy
// from its value at the first observed frame.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(em *field.EMField, t float64) {
	electric, magnetic := em.Energy()
	energy := electric + magnetic

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
