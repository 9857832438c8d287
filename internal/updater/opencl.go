//go:build opencl

package updater

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/san-kum/emsim/internal/field"
)

const fieldKernelSource = `
int clamp_lo(int c) { return c > 0 ? c - 1 : 0; }
int clamp_hi(int c, int dim) { return c + 1 < dim ? c + 1 : dim - 1; }

float4 curl_at(__global const float4* f, int nx, int ny, int nz, int x, int y, int z)
{
    int row = nx;
    int layer = nx * ny;
    int base = y * row + z * layer;
    float4 dX = (f[clamp_hi(x, nx) + base] - f[clamp_lo(x) + base]) * 0.5f;
    float4 dY = (f[x + clamp_hi(y, ny) * row + z * layer] - f[x + clamp_lo(y) * row + z * layer]) * 0.5f;
    float4 dZ = (f[x + y * row + clamp_hi(z, nz) * layer] - f[x + y * row + clamp_lo(z) * layer]) * 0.5f;
    return (float4)(dY.z - dZ.y, dZ.x - dX.z, dX.y - dY.x, 0.0f);
}

__kernel void update_electric(
    const int nx,
    const int ny,
    const int nz,
    const float dt,
    __global const float4* magnetic,
    __global float4* electric)
{
    int idx = get_global_id(0);
    if (idx >= nx * ny * nz) {
        return;
    }
    int x = idx % nx;
    int y = (idx / nx) % ny;
    int z = idx / (nx * ny);
    electric[idx] += curl_at(magnetic, nx, ny, nz, x, y, z) * dt;
}

__kernel void update_magnetic(
    const int nx,
    const int ny,
    const int nz,
    const float dt,
    __global const float4* electric,
    __global float4* magnetic)
{
    int idx = get_global_id(0);
    if (idx >= nx * ny * nz) {
        return;
    }
    int x = idx % nx;
    int y = (idx / nx) % ny;
    int z = idx / (nx * ny);
    magnetic[idx] -= curl_at(electric, nx, ny, nz, x, y, z) * dt;
}`

// OpenCLKernel runs both phases on an OpenCL device. The command queue is
// in order, so the magnetic launch observes the finished electric launch.
type OpenCLKernel struct {
	context        *cl.Context
	queue          *cl.CommandQueue
	program        *cl.Program
	electricKernel *cl.Kernel
	magneticKernel *cl.Kernel
	electricBuf    *cl.MemObject
	magneticBuf    *cl.MemObject
	size           field.Size
	deviceName     string
}

func NewOpenCL() (*OpenCLKernel, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}

	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	k := &OpenCLKernel{deviceName: device.Name()}

	k.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	k.queue, err = k.context.CreateCommandQueue(device, 0)
	if err != nil {
		k.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	k.program, err = k.context.CreateProgramWithSource([]string{fieldKernelSource})
	if err != nil {
		k.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := k.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		k.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if k.electricKernel, err = k.program.CreateKernel("update_electric"); err != nil {
		k.Close()
		return nil, fmt.Errorf("creating electric kernel: %w", err)
	}
	if k.magneticKernel, err = k.program.CreateKernel("update_magnetic"); err != nil {
		k.Close()
		return nil, fmt.Errorf("creating magnetic kernel: %w", err)
	}
	return k, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (k *OpenCLKernel) Name() string { return "opencl" }

func (k *OpenCLKernel) DeviceName() string { return k.deviceName }

// ensureBuffers (re)allocates device storage when the grid size changes.
func (k *OpenCLKernel) ensureBuffers(size field.Size) error {
	if k.electricBuf != nil && k.size == size {
		return nil
	}
	k.releaseBuffers()

	bytes := size.Cells() * int(unsafe.Sizeof(field.Vec4{}))
	var err error
	if k.electricBuf, err = k.context.CreateEmptyBuffer(cl.MemReadWrite, bytes); err != nil {
		return fmt.Errorf("allocating electric buffer: %w", err)
	}
	if k.magneticBuf, err = k.context.CreateEmptyBuffer(cl.MemReadWrite, bytes); err != nil {
		k.releaseBuffers()
		return fmt.Errorf("allocating magnetic buffer: %w", err)
	}
	k.size = size
	return nil
}

func (k *OpenCLKernel) Step(em *field.EMField, dt float32) error {
	if err := em.CheckCongruent(); err != nil {
		return fmt.Errorf("opencl step: %w", err)
	}
	size := em.Size()
	if err := k.ensureBuffers(size); err != nil {
		return err
	}

	e := flatten(em.Electric.DataMut())
	h := flatten(em.Magnetic.DataMut())

	if _, err := k.queue.EnqueueWriteBufferFloat32(k.electricBuf, false, 0, e, nil); err != nil {
		return fmt.Errorf("uploading electric field: %w", err)
	}
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.magneticBuf, false, 0, h, nil); err != nil {
		return fmt.Errorf("uploading magnetic field: %w", err)
	}

	nx, ny, nz := int32(size.X), int32(size.Y), int32(size.Z)
	if err := k.electricKernel.SetArgs(nx, ny, nz, dt, k.magneticBuf, k.electricBuf); err != nil {
		return fmt.Errorf("setting electric kernel arguments: %w", err)
	}
	if err := k.magneticKernel.SetArgs(nx, ny, nz, dt, k.electricBuf, k.magneticBuf); err != nil {
		return fmt.Errorf("setting magnetic kernel arguments: %w", err)
	}

	global := []int{size.Cells()}
	if _, err := k.queue.EnqueueNDRangeKernel(k.electricKernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueue electric kernel: %w", err)
	}
	if _, err := k.queue.EnqueueNDRangeKernel(k.magneticKernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueue magnetic kernel: %w", err)
	}

	if _, err := k.queue.EnqueueReadBufferFloat32(k.electricBuf, false, 0, e, nil); err != nil {
		return fmt.Errorf("reading electric field: %w", err)
	}
	if _, err := k.queue.EnqueueReadBufferFloat32(k.magneticBuf, true, 0, h, nil); err != nil {
		return fmt.Errorf("reading magnetic field: %w", err)
	}
	return nil
}

func flatten(v []field.Vec4) []float32 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice(&v[0][0], len(v)*4)
}

func (k *OpenCLKernel) releaseBuffers() {
	if k.electricBuf != nil {
		k.electricBuf.Release()
		k.electricBuf = nil
	}
	if k.magneticBuf != nil {
		k.magneticBuf.Release()
		k.magneticBuf = nil
	}
}

func (k *OpenCLKernel) Close() {
	k.releaseBuffers()
	if k.magneticKernel != nil {
		k.magneticKernel.Release()
		k.magneticKernel = nil
	}
	if k.electricKernel != nil {
		k.electricKernel.Release()
		k.electricKernel = nil
	}
	if k.program != nil {
		k.program.Release()
		k.program = nil
	}
	if k.queue != nil {
		k.queue.Release()
		k.queue = nil
	}
	if k.context != nil {
		k.context.Release()
		k.context = nil
	}
}
