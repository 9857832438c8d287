package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/emsim/internal/sim"
)

type Summary struct {
	Min, Max     float64
	Mean, StdDev float64
	First, Last  float64
}

// Summarize describes a per-frame series. An empty series gives the zero Summary.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return Summary{
		Min:    floats.Min(series),
		Max:    floats.Max(series),
		Mean:   mean,
		StdDev: std,
		First:  series[0],
		Last:   series[len(series)-1],
	}
}

// Default returns the metric set recorded by headless runs.
func Default(workers int) []sim.Metric {
	return []sim.Metric{
		NewElectricEnergy(),
		NewMagneticEnergy(),
		NewEnergyDrift(),
		NewPeakMagnitude(),
		NewStability(StabilityThreshold),
		NewDivergence(workers),
	}
}

// StabilityThreshold is the field magnitude treated as a blow-up.
const StabilityThreshold = 1e6
