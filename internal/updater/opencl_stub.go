//go:build !opencl

package updater

import "github.com/san-kum/emsim/internal/field"

type OpenCLKernel struct{}

func NewOpenCL() (*OpenCLKernel, error) {
	return nil, ErrOpenCLUnavailable
}

func (k *OpenCLKernel) Name() string { return "opencl (not available)" }

func (k *OpenCLKernel) Step(em *field.EMField, dt float32) error {
	return ErrOpenCLUnavailable
}

func (k *OpenCLKernel) Close() {}

func (k *OpenCLKernel) DeviceName() string { return "" }
