package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two series sampled at the same frames.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// PortraitFromSeries pairs two per-frame series, for example the electric
// and magnetic energy, into a portrait. The shorter series bounds the length.
func PortraitFromSeries(xLabel string, xs []float64, yLabel string, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, 0, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points = append(portrait.Points, Point{X: xs[i], Y: ys[i]})
	}
	return portrait
}

// PhasePortraitToASCII plots the portrait as a density map. The first row
// names the y axis and the last row the x axis, each with its range. Cells
// hit far more often than average are drawn heavier.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 1 || height < 3 {
		return ""
	}

	xs := make([]float64, len(portrait.Points))
	ys := make([]float64, len(portrait.Points))
	for i, p := range portrait.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	minX, maxX := padded(floats.Min(xs), floats.Max(xs))
	minY, maxY := padded(floats.Min(ys), floats.Max(ys))

	rows := height - 2
	hits := make([][]int, rows)
	for i := range hits {
		hits[i] = make([]int, width)
	}
	occupied, total := 0, 0
	for i := range xs {
		col := int((xs[i] - minX) / (maxX - minX) * float64(width-1))
		row := rows - 1 - int((ys[i]-minY)/(maxY-minY)*float64(rows-1))
		if row < 0 || row >= rows || col < 0 || col >= width {
			continue
		}
		if hits[row][col] == 0 {
			occupied++
		}
		hits[row][col]++
		total++
	}
	heavy := math.MaxInt
	if occupied > 0 {
		heavy = 3 * total / occupied
	}

	var sb strings.Builder
	sb.WriteString(fit(fmt.Sprintf("%s [%.3g, %.3g]", portrait.YLabel, minY, maxY), width))
	sb.WriteRune('\n')
	for _, row := range hits {
		for _, n := range row {
			switch {
			case n == 0:
				sb.WriteRune(' ')
			case n >= heavy && heavy > 1:
				sb.WriteRune('●')
			default:
				sb.WriteRune('•')
			}
		}
		sb.WriteRune('\n')
	}
	sb.WriteString(fit(fmt.Sprintf("%s [%.3g, %.3g]", portrait.XLabel, minX, maxX), width))
	sb.WriteRune('\n')
	return sb.String()
}

// padded widens [lo, hi] by a tenth on each side. An empty range becomes
// one unit wide.
func padded(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}

// fit truncates or right-pads s to width runes.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// Crossings returns the interpolated times at which series rises through
// threshold.
func Crossings(times, series []float64, threshold float64) []float64 {
	n := min(len(times), len(series))
	var out []float64
	for i := 1; i < n; i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// Period is the mean spacing between successive crossings, or zero with
// fewer than two.
func Period(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}
