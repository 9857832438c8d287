package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

// SweepPoint is the growth rate measured at one timestep.
type SweepPoint struct {
	Dt     float64
	Growth float64
}

// StabilitySweep measures GrowthRate at n evenly spaced timesteps in
// [dtMin, dtMax].
func StabilitySweep(base *field.EMField, kernel updater.Kernel, dtMin, dtMax float64, n, steps int) ([]SweepPoint, error) {
	if n < 2 {
		n = 2
	}
	dts := floats.Span(make([]float64, n), dtMin, dtMax)

	points := make([]SweepPoint, 0, n)
	for _, dt := range dts {
		g, err := GrowthRate(base, kernel, float32(dt), steps, 1e-3)
		if err != nil {
			return points, err
		}
		points = append(points, SweepPoint{Dt: dt, Growth: g})
	}
	return points, nil
}

// CriticalTimestep returns the first swept timestep whose growth exceeds
// threshold, or zero when every point stayed below it.
func CriticalTimestep(points []SweepPoint, threshold float64) float64 {
	for _, p := range points {
		if p.Growth > threshold {
			return p.Dt
		}
	}
	return 0
}

// SweepToASCII plots growth against timestep, one column per point.
func SweepToASCII(points []SweepPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if math.IsInf(p.Growth, 0) || math.IsNaN(p.Growth) {
			continue
		}
		minVal = math.Min(minVal, p.Growth)
		maxVal = math.Max(maxVal, p.Growth)
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		col := i * width / len(points)
		v := p.Growth
		switch {
		case math.IsInf(v, 1):
			v = maxVal
		case math.IsInf(v, -1):
			v = minVal
		}
		if math.IsNaN(v) {
			continue
		}
		row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
