package export

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
	"github.com/san-kum/emsim/internal/viz"
)

var ErrSliceRange = errors.New("export: slice index out of range")

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// SliceOptions control SliceToSVG.
type SliceOptions struct {
	CellSize float64
	Color    sim.Color
	// Arrows overlays the in-plane (x, y) component of every cell.
	Arrows bool
}

func DefaultSliceOptions(kind sim.FieldKind) SliceOptions {
	c := sim.ElectricColor
	if kind == sim.Magnetic {
		c = sim.MagneticColor
	}
	return SliceOptions{CellSize: 8, Color: c, Arrows: true}
}

// SliceToSVG draws the z-slice of a field as a heatmap of |v|, normalized to
// the largest magnitude in the slice. Rows run top to bottom in +y.
func SliceToSVG(f field.View, z int, opts SliceOptions) (string, error) {
	size := f.Size()
	if z < 0 || z >= size.Z {
		return "", fmt.Errorf("%w: z=%d, grid %s", ErrSliceRange, z, size)
	}
	scale := opts.CellSize
	if scale <= 0 {
		scale = 8
	}

	peak := float32(0)
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			peak = max(peak, f.Cell(x, y, z).Len())
		}
	}
	if peak == 0 {
		peak = 1
	}

	width, height := float64(size.X)*scale, float64(size.Y)*scale
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))

	// Full brightness maps the strongest channel of the base color to 1.
	gain := 1 / max(opts.Color[0], opts.Color[1], opts.Color[2], 1e-6)
	sb.WriteString("<g stroke=\"none\">\n")
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			norm := f.Cell(x, y, z).Len() / peak
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x)*scale, float64(y)*scale, scale, scale, hex(opts.Color.Scale(gain*norm))))
		}
	}
	sb.WriteString("</g>\n")

	if opts.Arrows {
		sb.WriteString(fmt.Sprintf("<g stroke=\"%s\" stroke-width=\"%.1f\">\n", hex(sim.BorderColor), scale/8))
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				v := f.Cell(x, y, z)
				l := float32(math.Hypot(float64(v[0]), float64(v[1])))
				if l/peak < 0.05 {
					continue
				}
				k := float64(min(l, sim.MaxArrowLength)/l) * scale * 0.5
				cx, cy := (float64(x)+0.5)*scale, (float64(y)+0.5)*scale
				sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, cx, cy, cx+float64(v[0])*k, cy+float64(v[1])*k))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot,
// colored by the cell's ink.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.Pixels()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))

	fills := map[viz.Ink]string{
		viz.InkNone:     string(theme.Muted),
		viz.InkElectric: string(theme.Electric),
		viz.InkMagnetic: string(theme.Magnetic),
		viz.InkBorder:   string(theme.Border),
	}
	dotRadius := scale * 0.4

	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			ink := canvas.Ink[y/4][x/2]
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fills[ink]))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Series is one line of a SeriesToSVG chart.
type Series struct {
	Name   string
	Values []float64
	Color  string
}

// SeriesToSVG plots series against a shared time axis with shared bounds.
func SeriesToSVG(times []float64, series []Series, width, height int) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 0) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	w, h := float64(width), float64(height)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, w, h, w, h))

	for i, s := range series {
		n := min(len(s.Values), len(times))
		if n < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		for j := 0; j < n; j++ {
			x := (times[j] - minX) / rangeX * w
			y := h - (s.Values[j]-minY)/rangeY*h
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		if s.Name != "" {
			sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), s.Color, s.Name))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// EnergySeries returns the electric, magnetic and total energy lines of a run.
func EnergySeries(electric, magnetic []float64) []Series {
	total := make([]float64, min(len(electric), len(magnetic)))
	for i := range total {
		total[i] = electric[i] + magnetic[i]
	}
	return []Series{
		{Name: "electric", Values: electric, Color: hex(sim.ElectricColor.Scale(2))},
		{Name: "magnetic", Values: magnetic, Color: hex(sim.MagneticColor.Scale(2))},
		{Name: "total", Values: total, Color: hex(sim.BorderColor)},
	}
}

func hex(c sim.Color) string { return string(viz.SimColor(c)) }
