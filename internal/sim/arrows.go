package sim

import "github.com/san-kum/emsim/internal/field"

// MaxArrowLength caps the drawn length of a field arrow in cell units.
const MaxArrowLength = 1.5

type Arrow struct {
	From, To           field.Vec4
	FromColor, ToColor Color
	Magnitude          float32
}

// ArrowAt builds the arrow for cell idx: it starts at the cell center, its
// length is clamped to MaxArrowLength, and its tail brightens with the
// field magnitude.
func ArrowAt(f field.View, idx int, base Color) Arrow {
	x, y, z := f.Size().Coord(idx)
	from := field.V(float32(x)+0.5, float32(y)+0.5, float32(z)+0.5)

	v := f.At(idx)
	l := v.Len()
	clamped := v.Scale(min(l, MaxArrowLength) / max(l, 1e-7))

	return Arrow{
		From:      from,
		To:        from.Add(clamped),
		FromColor: base.Scale(0.02 + l),
		ToColor:   base.Scale(0.02),
		Magnitude: l,
	}
}

// BorderEdges returns the twelve edges of the grid's bounding box.
func BorderEdges(size field.Size) [12][2]field.Vec4 {
	sx, sy, sz := float32(size.X), float32(size.Y), float32(size.Z)
	c := func(i int) field.Vec4 {
		return field.V(sx*float32(i>>2&1), sy*float32(i>>1&1), sz*float32(i&1))
	}
	pairs := [12][2]int{
		{0, 1}, {0, 2}, {1, 3}, {2, 3},
		{4, 5}, {4, 6}, {5, 7}, {6, 7},
		{0, 4}, {2, 6}, {3, 7}, {1, 5},
	}
	var edges [12][2]field.Vec4
	for i, p := range pairs {
		edges[i] = [2]field.Vec4{c(p[0]), c(p[1])}
	}
	return edges
}
