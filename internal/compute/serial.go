package compute

import "github.com/san-kum/emsim/internal/field"

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) ForEachCell(size field.Size, fn CellFunc) {
	idx := 0
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				fn(x, y, z, idx)
				idx++
			}
		}
	}
}
