package scenario

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

type ChargeParams struct {
	// Scale is divided by the squared distance from the grid center to a
	// corner to give the inverse field strength.
	Scale float32
}

func DefaultChargeParams() ChargeParams { return ChargeParams{Scale: 128} }

// ChargeCell returns the electrostatic field of a point charge at the grid
// center. The cell at the charge itself gets the zero vector.
func ChargeCell(size field.Size, p ChargeParams, x, y, z int) field.Vec4 {
	center := field.V(float32(size.X), float32(size.Y), float32(size.Z)).Scale(0.5)
	invScale := p.Scale / center.Len2()

	r := field.V(float32(x), float32(y), float32(z)).Sub(center)
	r2 := r.Len2()
	if r2 <= 0 {
		return field.Vec4{}
	}
	return r.Scale(1 / (invScale * r2 * float32(math.Sqrt(float64(r2)))))
}

// PointCharge builds a static charge field with no magnetic component.
func PointCharge(size field.Size, p ChargeParams) (*field.EMField, error) {
	em, err := field.NewEMField(size)
	if err != nil {
		return nil, err
	}
	e := em.Electric.DataMut()
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				e[size.Index(x, y, z)] = ChargeCell(size, p, x, y, z)
			}
		}
	}
	return em, nil
}
