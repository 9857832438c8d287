package field

import (
	"fmt"
	"math"
)

// Size is the cell count of a grid along each axis.
type Size struct {
	X, Y, Z int
}

func NewSize(x, y, z int) Size { return Size{X: x, Y: y, Z: z} }

// Valid reports whether every dimension holds at least one cell.
func (s Size) Valid() bool { return s.X >= 1 && s.Y >= 1 && s.Z >= 1 }

func (s Size) Cells() int { return s.X * s.Y * s.Z }

// Index linearizes a cell coordinate. The coordinate is not bounds checked.
func (s Size) Index(x, y, z int) int { return x + y*s.X + z*s.X*s.Y }

// Coord is the inverse of Index.
func (s Size) Coord(idx int) (x, y, z int) {
	layer := s.X * s.Y
	z = idx / layer
	rem := idx - z*layer
	y = rem / s.X
	x = rem % s.X
	return x, y, z
}

// Contains reports whether (x, y, z) addresses a cell of the grid.
func (s Size) Contains(x, y, z int) bool {
	return x >= 0 && x < s.X && y >= 0 && y < s.Y && z >= 0 && z < s.Z
}

func (s Size) Array() [3]int { return [3]int{s.X, s.Y, s.Z} }

func (s Size) String() string { return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z) }

// Vec4 is one grid sample. Only the first three components carry data; the
// fourth is padding and stays zero.
type Vec4 [4]float32

func V(x, y, z float32) Vec4 { return Vec4{x, y, z, 0} }

func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], 0} }
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v[0] - o[0], v[1] - o[1], v[2] - o[2], 0} }
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, 0}
}
func (v Vec4) Dot(o Vec4) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec4) Cross(o Vec4) Vec4 {
	return Vec4{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
		0,
	}
}
func (v Vec4) Len2() float32 { return v.Dot(v) }
func (v Vec4) Len() float32  { return float32(math.Sqrt(float64(v.Len2()))) }

// IsFinite reports whether no component is NaN or infinite.
func (v Vec4) IsFinite() bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
