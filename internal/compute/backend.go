package compute

import (
	"fmt"

	"github.com/san-kum/emsim/internal/field"
)

// CellFunc is invoked once per grid cell with its coordinate and linear index.
type CellFunc func(x, y, z, idx int)

type Backend interface {
	Name() string
	Available() bool
	// ForEachCell runs fn for every cell of size and returns after all calls
	// completed. Calls for different cells may run concurrently.
	ForEachCell(size field.Size, fn CellFunc)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend(0)
}

// GetBackend returns the process-wide default backend used by kernels built
// without one.
func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend returns the parallel CPU backend. workers <= 0 uses one
// worker per CPU.
func AutoSelectBackend(workers int) Backend {
	return NewCPUBackend(workers)
}

// ByName resolves a backend from its configuration name.
func ByName(name string, workers int) (Backend, error) {
	switch name {
	case "", "auto", "cpu":
		return NewCPUBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	default:
		return nil, fmt.Errorf("unknown compute backend: %s", name)
	}
}
