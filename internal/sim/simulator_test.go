package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

type recordingKernel struct {
	steps  []float32
	err    error
	poison bool
}

func (k *recordingKernel) Name() string { return "recording" }
func (k *recordingKernel) Close()       {}

func (k *recordingKernel) Step(em *field.EMField, dt float32) error {
	if k.err != nil {
		return k.err
	}
	k.steps = append(k.steps, dt)
	if k.poison {
		em.Electric.Set(0, 0, 0, field.V(float32(math.NaN()), 0, 0))
	}
	return nil
}

type countingMetric struct {
	observed int
	resets   int
}

func (m *countingMetric) Name() string                         { return "count" }
func (m *countingMetric) Observe(em *field.EMField, t float64) { m.observed++ }
func (m *countingMetric) Value() float64                       { return float64(m.observed) }
func (m *countingMetric) Reset()                               { m.observed = 0; m.resets++ }

type frameObserver struct{ frames []int }

func (o *frameObserver) OnFrame(frame int, t float64, em *field.EMField) {
	o.frames = append(o.frames, frame)
}

func newField(t *testing.T, size field.Size) *field.EMField {
	t.Helper()
	em, err := field.NewEMField(size)
	if err != nil {
		t.Fatalf("NewEMField failed: %v", err)
	}
	return em
}

func TestNew_InvalidOptions(t *testing.T) {
	em := newField(t, field.NewSize(2, 2, 2))

	tests := []struct {
		name string
		opts Options
	}{
		{"zero sub-steps", Options{SubSteps: 0, TimeScale: 1}},
		{"negative sub-steps", Options{SubSteps: -2, TimeScale: 1}},
		{"zero time scale", Options{SubSteps: 1, TimeScale: 0}},
		{"negative time scale", Options{SubSteps: 1, TimeScale: -0.5}},
		{"nan time scale", Options{SubSteps: 1, TimeScale: float32(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(em, nil, tt.opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestNew_MismatchedField(t *testing.T) {
	e, _ := field.New(field.NewSize(2, 2, 2))
	m, _ := field.New(field.NewSize(2, 2, 3))
	_, err := New(&field.EMField{Electric: e, Magnetic: m}, nil, DefaultOptions())
	if !errors.Is(err, field.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestUpdate_SubStepsAndScale(t *testing.T) {
	k := &recordingKernel{}
	s, err := New(newField(t, field.NewSize(2, 2, 2)), k, Options{SubSteps: 4, TimeScale: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Update(0.1); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(k.steps) != 4 {
		t.Fatalf("expected 4 kernel steps, got %d", len(k.steps))
	}
	for i, dt := range k.steps {
		if dt != float32(0.1)*0.5 {
			t.Errorf("step %d dt = %v", i, dt)
		}
	}
	if s.Frame() != 1 {
		t.Errorf("frame = %d", s.Frame())
	}
	if math.Abs(s.Time()-0.2) > 1e-6 {
		t.Errorf("time = %v, want 0.2", s.Time())
	}
}

func TestUpdate_RejectsBadTimestep(t *testing.T) {
	k := &recordingKernel{}
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), k, DefaultOptions())

	for _, dt := range []float32{0, -1, float32(math.NaN())} {
		if err := s.Update(dt); !errors.Is(err, ErrInvalidTimestep) {
			t.Errorf("dt=%v: expected ErrInvalidTimestep, got %v", dt, err)
		}
	}
	if len(k.steps) != 0 || s.Frame() != 0 {
		t.Error("rejected update did work")
	}
}

func TestUpdate_UniformFieldIsStationary(t *testing.T) {
	em := newField(t, field.NewSize(4, 4, 4))
	em.Magnetic.Fill(field.V(1, 0, 0))
	s, _ := New(em, updater.New(compute.NewCPUBackend(2)), DefaultOptions())

	for i := 0; i < 3; i++ {
		if err := s.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < s.Magnetic().Len(); i++ {
		if s.Electric().At(i) != (field.Vec4{}) || s.Magnetic().At(i) != field.V(1, 0, 0) {
			t.Fatalf("cell %d changed", i)
		}
	}
}

type drawCall struct {
	op    string
	kind  FieldKind
	color Color
	size  field.Size
}

type recordingSurface struct{ calls []drawCall }

func (r *recordingSurface) Clear() { r.calls = append(r.calls, drawCall{op: "clear"}) }

func (r *recordingSurface) DrawField(kind FieldKind, f field.View, base Color, viewProj camera.Mat4) {
	r.calls = append(r.calls, drawCall{op: "field", kind: kind, color: base, size: f.Size()})
}

func (r *recordingSurface) DrawBorder(size field.Size, viewProj camera.Mat4) {
	r.calls = append(r.calls, drawCall{op: "border", size: size})
}

func TestDraw_Order(t *testing.T) {
	size := field.NewSize(3, 2, 1)
	s, _ := New(newField(t, size), &recordingKernel{}, DefaultOptions())
	surface := &recordingSurface{}

	s.Draw(surface, camera.Identity())

	want := []drawCall{
		{op: "clear"},
		{op: "field", kind: Electric, color: ElectricColor, size: size},
		{op: "field", kind: Magnetic, color: MagneticColor, size: size},
		{op: "border", size: size},
	}
	if len(surface.calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(surface.calls), len(want))
	}
	for i := range want {
		if surface.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, surface.calls[i], want[i])
		}
	}
}

func TestRun(t *testing.T) {
	k := &recordingKernel{}
	s, _ := New(newField(t, field.NewSize(4, 4, 4)), k, Options{SubSteps: 2, TimeScale: 1})
	metric := &countingMetric{}
	obs := &frameObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), RunConfig{Frames: 10, FrameDt: 0.1, Probe: [3]int{1, 2, 3}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Times) != 11 || len(result.ElectricEnergy) != 11 || len(result.Probe) != 11 {
		t.Errorf("expected 11 samples, got times=%d energy=%d probe=%d",
			len(result.Times), len(result.ElectricEnergy), len(result.Probe))
	}
	if result.StepsTaken != 20 || len(k.steps) != 20 {
		t.Errorf("steps = %d, kernel steps = %d", result.StepsTaken, len(k.steps))
	}
	if result.Metrics["count"] != 11 || metric.resets != 1 {
		t.Errorf("metric observed %v times, reset %d times", result.Metrics["count"], metric.resets)
	}
	if len(obs.frames) != 11 || obs.frames[0] != 0 || obs.frames[10] != 10 {
		t.Errorf("observer frames = %v", obs.frames)
	}
	if math.Abs(result.Times[10]-2.0) > 1e-6 {
		t.Errorf("final time = %v, want 2", result.Times[10])
	}
}

func TestRun_EnergyDrift(t *testing.T) {
	em := newField(t, field.NewSize(4, 4, 4))
	em.Electric.Fill(field.V(1, 0, 0))
	s, _ := New(em, &recordingKernel{}, DefaultOptions())

	result, err := s.Run(context.Background(), RunConfig{Frames: 3, FrameDt: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if result.EnergyDrift != 0 {
		t.Errorf("drift = %v for a no-op kernel", result.EnergyDrift)
	}
	if result.ElectricEnergy[0] != 32 {
		t.Errorf("electric energy = %v, want 32", result.ElectricEnergy[0])
	}
}

func TestRun_Canceled(t *testing.T) {
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), &recordingKernel{}, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, RunConfig{Frames: 100, FrameDt: 0.1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Times) != 1 {
		t.Error("expected the initial sample in the partial result")
	}
}

func TestRun_DetectsInstability(t *testing.T) {
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), &recordingKernel{poison: true}, DefaultOptions())

	result, err := s.Run(context.Background(), RunConfig{Frames: 5, FrameDt: 0.1, Validate: true})
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	var simErr *SimError
	if !errors.As(err, &simErr) || simErr.Frame != 1 {
		t.Errorf("expected SimError at frame 1, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestRun_KernelError(t *testing.T) {
	boom := errors.New("device lost")
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), &recordingKernel{err: boom}, DefaultOptions())

	if _, err := s.Run(context.Background(), RunConfig{Frames: 5, FrameDt: 0.1}); !errors.Is(err, boom) {
		t.Errorf("expected kernel error, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), &recordingKernel{}, DefaultOptions())

	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero dt", RunConfig{Frames: 1, FrameDt: 0}},
		{"negative frames", RunConfig{Frames: -1, FrameDt: 0.1}},
		{"probe outside", RunConfig{Frames: 1, FrameDt: 0.1, Probe: [3]int{2, 0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunWithCallback(t *testing.T) {
	k := &recordingKernel{}
	s, _ := New(newField(t, field.NewSize(2, 2, 2)), k, Options{SubSteps: 1, TimeScale: 1})

	calls := 0
	err := s.RunWithCallback(context.Background(), RunConfig{FrameDt: 0.1}, func(s *FieldsSimulator) bool {
		calls++
		return calls < 7
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 7 || s.Frame() != 7 {
		t.Errorf("calls = %d, frame = %d", calls, s.Frame())
	}

	calls = 0
	err = s.RunWithCallback(context.Background(), RunConfig{Frames: 3, FrameDt: 0.1}, func(*FieldsSimulator) bool {
		calls++
		return true
	})
	if err != nil || calls != 3 {
		t.Errorf("bounded run: calls=%d err=%v", calls, err)
	}
}

func TestArrowAt(t *testing.T) {
	f, _ := field.New(field.NewSize(2, 1, 1))
	f.Set(0, 0, 0, field.V(3, 0, 0))
	f.Set(1, 0, 0, field.V(0, 0.5, 0))
	view := f.View()

	long := ArrowAt(view, 0, ElectricColor)
	if long.From != field.V(0.5, 0.5, 0.5) {
		t.Errorf("from = %v", long.From)
	}
	if long.To != field.V(2, 0.5, 0.5) {
		t.Errorf("long arrow not clamped: to = %v", long.To)
	}
	if long.Magnitude != 3 {
		t.Errorf("magnitude = %v", long.Magnitude)
	}
	if long.ToColor != ElectricColor.Scale(0.02) {
		t.Errorf("tip color = %v", long.ToColor)
	}

	short := ArrowAt(view, 1, MagneticColor)
	if short.To != field.V(1.5, 1.0, 0.5) {
		t.Errorf("short arrow = %v", short.To)
	}
	if short.FromColor != MagneticColor.Scale(0.52) {
		t.Errorf("tail color = %v", short.FromColor)
	}

	zero, _ := field.New(field.NewSize(1, 1, 1))
	if a := ArrowAt(zero.View(), 0, ElectricColor); a.To != a.From {
		t.Error("zero vector should produce a degenerate arrow")
	}
}

func TestBorderEdges(t *testing.T) {
	size := field.NewSize(3, 4, 5)
	var total float32
	for _, e := range BorderEdges(size) {
		total += e[1].Sub(e[0]).Len()
	}
	if total != 4*(3+4+5) {
		t.Errorf("edge length sum = %v", total)
	}
}
