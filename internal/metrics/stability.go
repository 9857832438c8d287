package metrics

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

// Stability is the fraction of frames whose fields stayed finite and below
// threshold in magnitude.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(em *field.EMField, t float64) {
	s.samples++
	if !em.Finite() || math.Max(peak(em.Electric), peak(em.Magnetic)) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// PeakMagnitude records the largest electric or magnetic sample seen.
type PeakMagnitude struct {
	name string
	peak float64
}

func NewPeakMagnitude() *PeakMagnitude { return &PeakMagnitude{name: "peak_magnitude"} }

func (p *PeakMagnitude) Name() string { return p.name }

func (p *PeakMagnitude) Observe(em *field.EMField, t float64) {
	p.peak = math.Max(p.peak, math.Max(peak(em.Electric), peak(em.Magnetic)))
}

func (p *PeakMagnitude) Value() float64 { return p.peak }
func (p *PeakMagnitude) Reset()         { p.peak = 0 }

func peak(f *field.VectorField) float64 {
	var m float32
	for _, v := range f.Data() {
		if l := v.Len2(); l > m {
			m = l
		}
	}
	return math.Sqrt(float64(m))
}
