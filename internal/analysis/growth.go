package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

// GrowthRate estimates the exponential growth rate of a perturbation of one
// electric sample at the grid center. Two copies of base are stepped side
// by side and their separation is renormalized to the initial size after
// every step. base is not modified. A perturbation that vanishes entirely
// gives -Inf and one that overflows gives +Inf.
func GrowthRate(base *field.EMField, kernel updater.Kernel, dt float32, steps int, perturbation float32) (float64, error) {
	if steps <= 0 || dt == 0 || perturbation <= 0 {
		return 0, fmt.Errorf("growth rate: need positive steps and perturbation, non-zero dt")
	}

	ref := base.Clone()
	pert := base.Clone()
	size := base.Size()
	cx, cy, cz := size.X/2, size.Y/2, size.Z/2
	pert.Electric.Set(cx, cy, cz, pert.Electric.At(cx, cy, cz).Add(field.V(perturbation, 0, 0)))

	d0 := float64(perturbation)
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		if err := kernel.Step(ref, dt); err != nil {
			return 0, err
		}
		if err := kernel.Step(pert, dt); err != nil {
			return 0, err
		}

		sep := separation(ref, pert)
		if sep == 0 {
			return math.Inf(-1), nil
		}
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return math.Inf(1), nil
		}
		sumLog += math.Log(sep / d0)

		// Renormalize to prevent overflow
		scale := float32(d0 / sep)
		rescale(ref.Electric, pert.Electric, scale)
		rescale(ref.Magnetic, pert.Magnetic, scale)
	}

	return sumLog / (float64(steps) * math.Abs(float64(dt))), nil
}

func separation(a, b *field.EMField) float64 {
	sum := 0.0
	for _, pair := range [][2]*field.VectorField{{a.Electric, b.Electric}, {a.Magnetic, b.Magnetic}} {
		av, bv := pair[0].Data(), pair[1].Data()
		for i := range av {
			sum += float64(bv[i].Sub(av[i]).Len2())
		}
	}
	return math.Sqrt(sum)
}

func rescale(ref, pert *field.VectorField, scale float32) {
	rv, pv := ref.Data(), pert.DataMut()
	for i := range pv {
		pv[i] = rv[i].Add(pv[i].Sub(rv[i]).Scale(scale))
	}
}
