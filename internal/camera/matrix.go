package camera

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

// Mat4 is a row-major 4x4 matrix acting on column vectors.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective is the OpenGL-style projection with a vertical field of view.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovy)/2))
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

func Translation(v field.Vec4) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = v[0], v[1], v[2]
	return m
}

func (m Mat4) At(row, col int) float32 { return m[row*4+col] }

func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

func (m Mat4) Transform(v [4]float32) [4]float32 {
	var r [4]float32
	for row := 0; row < 4; row++ {
		r[row] = m[row*4]*v[0] + m[row*4+1]*v[1] + m[row*4+2]*v[2] + m[row*4+3]*v[3]
	}
	return r
}

// Project maps a world point to normalized device coordinates. ok is false
// for points at or behind the eye plane.
func (m Mat4) Project(p field.Vec4) (x, y, depth float32, ok bool) {
	c := m.Transform([4]float32{p[0], p[1], p[2], 1})
	if c[3] <= 1e-6 {
		return 0, 0, 0, false
	}
	return c[0] / c[3], c[1] / c[3], c[2] / c[3], true
}
