package viz

import (
	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
)

// DefaultCutoff hides arrows shorter than this in the terminal view.
const DefaultCutoff = 0.05

// TermSurface rasterizes field arrows into a braille canvas. It implements
// sim.Surface.
type TermSurface struct {
	canvas *Canvas
	// Stride draws every Stride-th cell along each axis.
	Stride int
	Cutoff float32
	drawn  int
}

var _ sim.Surface = (*TermSurface)(nil)

func NewTermSurface(c *Canvas) *TermSurface {
	return &TermSurface{canvas: c, Stride: 4, Cutoff: DefaultCutoff}
}

func (s *TermSurface) Canvas() *Canvas { return s.canvas }

// Aspect is the width/height ratio of the canvas in dots.
func (s *TermSurface) Aspect() float32 {
	w, h := s.canvas.Pixels()
	return float32(w) / float32(h)
}

// Drawn counts the arrows rasterized since the last Clear.
func (s *TermSurface) Drawn() int { return s.drawn }

func (s *TermSurface) Clear() {
	s.canvas.Clear()
	s.drawn = 0
}

func (s *TermSurface) DrawField(kind sim.FieldKind, f field.View, base sim.Color, viewProj camera.Mat4) {
	ink := InkElectric
	if kind == sim.Magnetic {
		ink = InkMagnetic
	}
	stride := max(s.Stride, 1)
	size := f.Size()
	for z := 0; z < size.Z; z += stride {
		for y := 0; y < size.Y; y += stride {
			for x := 0; x < size.X; x += stride {
				a := sim.ArrowAt(f, size.Index(x, y, z), base)
				if a.Magnitude < s.Cutoff {
					continue
				}
				if s.segment(viewProj, a.From, a.To, ink) {
					s.drawn++
				}
			}
		}
	}
}

func (s *TermSurface) DrawBorder(size field.Size, viewProj camera.Mat4) {
	for _, e := range sim.BorderEdges(size) {
		s.segment(viewProj, e[0], e[1], InkBorder)
	}
}

// segment projects a world segment, clips it against the near plane and
// draws it. It reports whether any part was in front of the camera.
func (s *TermSurface) segment(viewProj camera.Mat4, a, b field.Vec4, ink Ink) bool {
	ca := viewProj.Transform([4]float32{a[0], a[1], a[2], 1})
	cb := viewProj.Transform([4]float32{b[0], b[1], b[2], 1})

	const near = camera.NearPlane
	if ca[3] < near && cb[3] < near {
		return false
	}
	if ca[3] < near || cb[3] < near {
		t := (near - ca[3]) / (cb[3] - ca[3])
		p := lerp4(ca, cb, t)
		if ca[3] < near {
			ca = p
		} else {
			cb = p
		}
	}

	w, h := s.canvas.Pixels()
	x0, y0 := toDots(ca, w, h)
	x1, y1 := toDots(cb, w, h)
	s.canvas.DrawSegment(x0, y0, x1, y1, ink)
	return true
}

func toDots(c [4]float32, w, h int) (float64, float64) {
	nx, ny := float64(c[0]/c[3]), float64(c[1]/c[3])
	return (nx + 1) / 2 * float64(w-1), (1 - ny) / 2 * float64(h-1)
}

func lerp4(a, b [4]float32, t float32) [4]float32 {
	var r [4]float32
	for i := range r {
		r[i] = a[i] + (b[i]-a[i])*t
	}
	return r
}
