package field

import "fmt"

// VectorField is a fixed-size 3-D grid of vectors stored in one contiguous
// slice. Dimensions never change after construction.
type VectorField struct {
	size Size
	data []Vec4
}

// New allocates a zero-initialized field.
func New(size Size) (*VectorField, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrDegenerateGrid, size)
	}
	return &VectorField{size: size, data: make([]Vec4, size.Cells())}, nil
}

// NewWithData allocates a field seeded with a copy of data.
func NewWithData(size Size, data []Vec4) (*VectorField, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrDegenerateGrid, size)
	}
	if len(data) != size.Cells() {
		return nil, fmt.Errorf("%w: want %d vectors, got %d", ErrDataLength, size.Cells(), len(data))
	}
	buf := make([]Vec4, len(data))
	copy(buf, data)
	for i := range buf {
		buf[i][3] = 0
	}
	return &VectorField{size: size, data: buf}, nil
}

func (f *VectorField) Size() Size { return f.size }

// Data exposes the backing buffer for reading. Callers must not write to it.
func (f *VectorField) Data() []Vec4 { return f.data }

// DataMut exposes the backing buffer for the updater and initializers.
func (f *VectorField) DataMut() []Vec4 { return f.data }

func (f *VectorField) At(x, y, z int) Vec4 { return f.data[f.size.Index(x, y, z)] }

func (f *VectorField) Set(x, y, z int, v Vec4) {
	v[3] = 0
	f.data[f.size.Index(x, y, z)] = v
}

// Fill overwrites every cell with v.
func (f *VectorField) Fill(v Vec4) {
	v[3] = 0
	for i := range f.data {
		f.data[i] = v
	}
}

func (f *VectorField) Clone() *VectorField {
	buf := make([]Vec4, len(f.data))
	copy(buf, f.data)
	return &VectorField{size: f.size, data: buf}
}

// Equal reports whether both fields have the same size and identical samples.
func (f *VectorField) Equal(o *VectorField) bool {
	if f.size != o.size {
		return false
	}
	for i := range f.data {
		if f.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// SumSquares returns Σ|v|² over the grid, accumulated in float64.
func (f *VectorField) SumSquares() float64 {
	sum := 0.0
	for _, v := range f.data {
		sum += float64(v.Len2())
	}
	return sum
}

func (f *VectorField) View() View { return View{f: f} }

// View is a read-only handle on a VectorField, handed to renderers.
type View struct {
	f *VectorField
}

func (v View) Size() Size       { return v.f.size }
func (v View) Len() int         { return len(v.f.data) }
func (v View) At(idx int) Vec4  { return v.f.data[idx] }
func (v View) Cell(x, y, z int) Vec4 {
	return v.f.data[v.f.size.Index(x, y, z)]
}

// Valid reports whether the view is backed by a field.
func (v View) Valid() bool { return v.f != nil }
