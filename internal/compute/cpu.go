package compute

import (
	"runtime"

	"github.com/san-kum/emsim/internal/field"
)

// minCellsPerWorker keeps tiny grids on a single goroutine.
const minCellsPerWorker = 512

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) ForEachCell(size field.Size, fn CellFunc) {
	n := size.Cells()
	if n <= 0 {
		return
	}

	// Work is split on whole rows so the inner loop walks x without dividing.
	rows := size.Y * size.Z
	minRows := minCellsPerWorker / size.X
	if minRows < 1 {
		minRows = 1
	}

	ParallelFor(rows, minRows, c.workers, func(start, end int) {
		for row := start; row < end; row++ {
			y := row % size.Y
			z := row / size.Y
			base := row * size.X
			for x := 0; x < size.X; x++ {
				fn(x, y, z, base+x)
			}
		}
	})
}
