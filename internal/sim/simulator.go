package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

// FieldsSimulator owns an EMField and advances it frame by frame.
type FieldsSimulator struct {
	em        *field.EMField
	kernel    updater.Kernel
	opts      Options
	frame     int
	time      float64
	metrics   []Metric
	observers []Observer
}

func New(em *field.EMField, kernel updater.Kernel, opts Options) (*FieldsSimulator, error) {
	if opts.SubSteps < 1 {
		return nil, fmt.Errorf("%w: sub-steps must be >= 1, got %d", ErrInvalidOptions, opts.SubSteps)
	}
	if !(opts.TimeScale > 0) {
		return nil, fmt.Errorf("%w: time scale must be positive, got %g", ErrInvalidOptions, opts.TimeScale)
	}
	if err := em.CheckCongruent(); err != nil {
		return nil, err
	}
	if kernel == nil {
		kernel = updater.New(nil)
	}
	return &FieldsSimulator{em: em, kernel: kernel, opts: opts}, nil
}

func (s *FieldsSimulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *FieldsSimulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *FieldsSimulator) Size() field.Size     { return s.em.Size() }
func (s *FieldsSimulator) Electric() field.View { return s.em.Electric.View() }
func (s *FieldsSimulator) Magnetic() field.View { return s.em.Magnetic.View() }
func (s *FieldsSimulator) Frame() int           { return s.frame }
func (s *FieldsSimulator) Time() float64        { return s.time }
func (s *FieldsSimulator) Options() Options     { return s.opts }

func (s *FieldsSimulator) Kernel() updater.Kernel { return s.kernel }

// Field returns the live field. Only the simulator goroutine may use it.
func (s *FieldsSimulator) Field() *field.EMField { return s.em }

// Update advances one frame of length dt.
func (s *FieldsSimulator) Update(dt float32) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidTimestep, dt)
	}
	step := dt * s.opts.TimeScale
	for i := 0; i < s.opts.SubSteps; i++ {
		if err := s.kernel.Step(s.em, step); err != nil {
			return err
		}
	}
	s.frame++
	s.time += float64(step) * float64(s.opts.SubSteps)
	return nil
}

// Draw renders electric arrows, magnetic arrows, then the grid border.
func (s *FieldsSimulator) Draw(surface Surface, viewProj camera.Mat4) {
	surface.Clear()
	surface.DrawField(Electric, s.Electric(), ElectricColor, viewProj)
	surface.DrawField(Magnetic, s.Magnetic(), MagneticColor, viewProj)
	surface.DrawBorder(s.Size(), viewProj)
}

func (s *FieldsSimulator) validateRun(cfg RunConfig) error {
	if !(cfg.FrameDt > 0) {
		return fmt.Errorf("%w: frame dt %g", ErrInvalidTimestep, cfg.FrameDt)
	}
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}
	if !s.Size().Contains(cfg.Probe[0], cfg.Probe[1], cfg.Probe[2]) {
		return fmt.Errorf("probe %v outside grid %s", cfg.Probe, s.Size())
	}
	return nil
}

func (s *FieldsSimulator) record(r *Result, cfg RunConfig) {
	e, m := s.em.Energy()
	r.Times = append(r.Times, s.time)
	r.ElectricEnergy = append(r.ElectricEnergy, e)
	r.MagneticEnergy = append(r.MagneticEnergy, m)
	r.Probe = append(r.Probe, s.em.Electric.At(cfg.Probe[0], cfg.Probe[1], cfg.Probe[2]))

	for _, mt := range s.metrics {
		mt.Observe(s.em, s.time)
	}
	for _, obs := range s.observers {
		obs.OnFrame(s.frame, s.time, s.em)
	}
}

// Run advances cfg.Frames frames headlessly, recording energies and the
// probe sample after every frame. On cancellation the partial result is
// returned together with the context error.
func (s *FieldsSimulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateRun(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:          make([]float64, 0, cfg.Frames+1),
		ElectricEnergy: make([]float64, 0, cfg.Frames+1),
		MagneticEnergy: make([]float64, 0, cfg.Frames+1),
		Probe:          make([]field.Vec4, 0, cfg.Frames+1),
		Metrics:        make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.record(result, cfg)

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := s.Update(cfg.FrameDt); err != nil {
			s.finish(result)
			return result, &SimError{Frame: s.frame, Time: s.time, Wrapped: err}
		}
		result.StepsTaken += s.opts.SubSteps

		if cfg.Validate && !s.em.Finite() {
			err := &SimError{Frame: s.frame, Time: s.time, Wrapped: ErrUnstable}
			result.Errors = append(result.Errors, err)
			s.finish(result)
			return result, err
		}

		s.record(result, cfg)
	}

	s.finish(result)
	return result, nil
}

func (s *FieldsSimulator) finish(r *Result) {
	total := r.TotalEnergy()
	if len(total) > 1 && total[0] != 0 {
		r.EnergyDrift = math.Abs(total[len(total)-1]-total[0]) / math.Abs(total[0])
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback advances frames until the callback returns false, the
// context ends, or cfg.Frames frames ran (zero means unbounded). The
// callback runs on the caller's goroutine after each frame.
func (s *FieldsSimulator) RunWithCallback(ctx context.Context, cfg RunConfig, callback func(s *FieldsSimulator) bool) error {
	if err := s.validateRun(cfg); err != nil {
		return err
	}

	for i := 0; cfg.Frames == 0 || i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Update(cfg.FrameDt); err != nil {
			return &SimError{Frame: s.frame, Time: s.time, Wrapped: err}
		}
		if cfg.Validate && !s.em.Finite() {
			return &SimError{Frame: s.frame, Time: s.time, Wrapped: ErrUnstable}
		}
		if !callback(s) {
			return nil
		}
	}
	return nil
}
