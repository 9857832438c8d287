package updater

import (
	"errors"
	"fmt"

	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
)

// ErrOpenCLUnavailable is returned by NewOpenCL in builds without the opencl tag.
var ErrOpenCLUnavailable = errors.New("updater: OpenCL support is not enabled; rebuild with -tags opencl")

// Kernel performs one full two-phase update of an EMField.
type Kernel interface {
	Name() string
	Step(em *field.EMField, dt float32) error
	Close()
}

// NewKernel resolves a kernel from its configuration name: "cpu", "serial",
// "opencl", or "auto" (OpenCL when available, otherwise CPU).
func NewKernel(name string, workers int) (Kernel, error) {
	switch name {
	case "opencl":
		k, err := NewOpenCL()
		if err != nil {
			return nil, err
		}
		return k, nil
	case "auto":
		if k, err := NewOpenCL(); err == nil {
			return k, nil
		}
		return New(compute.NewCPUBackend(workers)), nil
	default:
		backend, err := compute.ByName(name, workers)
		if err != nil {
			return nil, fmt.Errorf("kernel %q: %w", name, err)
		}
		return New(backend), nil
	}
}
