package sim

import (
	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/field"
)

// Options control how a frame is split into kernel steps. Each of the
// SubSteps steps advances by frameDt*TimeScale.
type Options struct {
	SubSteps  int
	TimeScale float32
}

func DefaultOptions() Options { return Options{SubSteps: 4, TimeScale: 1} }

type Metric interface {
	Name() string
	Observe(em *field.EMField, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, t float64, em *field.EMField)
}

type RunConfig struct {
	Frames  int
	FrameDt float32
	// Probe is the cell recorded in Result.Probe every frame.
	Probe [3]int
	// Validate stops the run with ErrUnstable on the first non-finite sample.
	Validate bool
}

// Result holds per-frame series. Index 0 is the initial state.
type Result struct {
	Times          []float64
	ElectricEnergy []float64
	MagneticEnergy []float64
	Probe          []field.Vec4
	Metrics        map[string]float64
	StepsTaken     int
	EnergyDrift    float64
	Errors         []error
}

func (r *Result) TotalEnergy() []float64 {
	total := make([]float64, len(r.ElectricEnergy))
	for i := range total {
		total[i] = r.ElectricEnergy[i] + r.MagneticEnergy[i]
	}
	return total
}

type FieldKind int

const (
	Electric FieldKind = iota
	Magnetic
)

func (k FieldKind) String() string {
	if k == Magnetic {
		return "magnetic"
	}
	return "electric"
}

type Color [3]float32

var (
	ElectricColor = Color{0.5, 0.1, 0.1}
	MagneticColor = Color{0.1, 0.1, 0.5}
	BorderColor   = Color{0.8, 0.8, 0.8}
)

func (c Color) Scale(s float32) Color { return Color{c[0] * s, c[1] * s, c[2] * s} }

// Surface is a render target. Implementations only ever receive read-only
// views of the fields.
type Surface interface {
	Clear()
	DrawField(kind FieldKind, f field.View, base Color, viewProj camera.Mat4)
	DrawBorder(size field.Size, viewProj camera.Mat4)
}
