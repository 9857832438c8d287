package updater

import "github.com/san-kum/emsim/internal/field"

// Neighbors returns the clamped minus and plus neighbor of coordinate c on an
// axis with dim cells. Both results lie in [0, dim-1].
func Neighbors(c, dim int) (minus, plus int) {
	minus = c - 1
	if minus < 0 {
		minus = 0
	}
	plus = c + 1
	if plus > dim-1 {
		plus = dim - 1
	}
	return minus, plus
}

// Curl returns the discrete curl of f at cell (x, y, z).
func Curl(f *field.VectorField, x, y, z int) field.Vec4 {
	return curlAt(f.Data(), f.Size(), x, y, z)
}

func curlAt(data []field.Vec4, size field.Size, x, y, z int) field.Vec4 {
	xm, xp := Neighbors(x, size.X)
	ym, yp := Neighbors(y, size.Y)
	zm, zp := Neighbors(z, size.Z)

	dX := data[size.Index(xp, y, z)].Sub(data[size.Index(xm, y, z)]).Scale(0.5)
	dY := data[size.Index(x, yp, z)].Sub(data[size.Index(x, ym, z)]).Scale(0.5)
	dZ := data[size.Index(x, y, zp)].Sub(data[size.Index(x, y, zm)]).Scale(0.5)

	return field.Vec4{
		dY[2] - dZ[1],
		dZ[0] - dX[2],
		dX[1] - dY[0],
		0,
	}
}
