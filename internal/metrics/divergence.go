package metrics

import (
	"math"

	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

// Divergence averages the mean |∇·E| per cell over the observed frames,
// using the same clamped central differences as the updater.
type Divergence struct {
	name    string
	workers int
	sum     float64
	samples int
}

func NewDivergence(workers int) *Divergence {
	return &Divergence{name: "divergence", workers: workers}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(em *field.EMField, t float64) {
	d.sum += MeanDivergence(em.Electric, d.workers)
	d.samples++
}

func (d *Divergence) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Divergence) Reset() {
	d.sum = 0
	d.samples = 0
}

// DivergenceAt is the discrete divergence of f at (x, y, z).
func DivergenceAt(f *field.VectorField, x, y, z int) float32 {
	size, data := f.Size(), f.Data()
	xm, xp := updater.Neighbors(x, size.X)
	ym, yp := updater.Neighbors(y, size.Y)
	zm, zp := updater.Neighbors(z, size.Z)

	dx := (data[size.Index(xp, y, z)][0] - data[size.Index(xm, y, z)][0]) * 0.5
	dy := (data[size.Index(x, yp, z)][1] - data[size.Index(x, ym, z)][1]) * 0.5
	dz := (data[size.Index(x, y, zp)][2] - data[size.Index(x, y, zm)][2]) * 0.5
	return dx + dy + dz
}

// MeanDivergence reduces |∇·f| over the grid in parallel.
func MeanDivergence(f *field.VectorField, workers int) float64 {
	size := f.Size()
	total := compute.ParallelSum(size.Cells(), 4096, workers, func(start, end int) float64 {
		sum := 0.0
		for idx := start; idx < end; idx++ {
			x, y, z := size.Coord(idx)
			sum += math.Abs(float64(DivergenceAt(f, x, y, z)))
		}
		return sum
	})
	return total / float64(size.Cells())
}
