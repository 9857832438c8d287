package metrics

import (
	"fmt"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
)

// Probe reports one component of a single electric sample at the last
// observed frame.
type Probe struct {
	name      string
	x, y, z   int
	component int
	value     float64
}

func NewProbe(x, y, z, component int) *Probe {
	return &Probe{
		name:      fmt.Sprintf("probe_%c", "xyz"[component%3]),
		x:         x,
		y:         y,
		z:         z,
		component: component % 3,
	}
}

// ProbeSet returns one Probe per component of the electric sample at
// (x, y, z), named probe_x, probe_y and probe_z.
func ProbeSet(x, y, z int) []sim.Metric {
	return []sim.Metric{NewProbe(x, y, z, 0), NewProbe(x, y, z, 1), NewProbe(x, y, z, 2)}
}

func (p *Probe) Name() string { return p.name }

func (p *Probe) Observe(em *field.EMField, t float64) {
	p.value = float64(em.Electric.At(p.x, p.y, p.z)[p.component])
}

func (p *Probe) Value() float64 { return p.value }
func (p *Probe) Reset()         { p.value = 0 }
