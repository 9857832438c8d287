package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/metrics"
	"github.com/san-kum/emsim/internal/scenario"
	"github.com/san-kum/emsim/internal/sim"
	"github.com/san-kum/emsim/internal/updater"
)

// Experiment wires a configuration to a scenario, a kernel and a simulator.
type Experiment struct {
	cfg       *config.Config
	scenarios *scenario.Registry
	kernel    updater.Kernel
	simulator *sim.FieldsSimulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg, scenarios: scenario.NewRegistry()}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Setup validates the configuration, builds the initial field and selects
// the kernel. extra metrics are attached after the default set.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	if err := e.cfg.Check(); err != nil {
		return err
	}
	em, err := e.scenarios.Build(e.cfg)
	if err != nil {
		return err
	}
	kernel, err := updater.NewKernel(e.cfg.Backend, e.cfg.Workers)
	if err != nil {
		return fmt.Errorf("backend %s: %w", e.cfg.Backend, err)
	}
	s, err := sim.New(em, kernel, sim.Options{
		SubSteps:  e.cfg.SubSteps,
		TimeScale: float32(e.cfg.TimeScale),
	})
	if err != nil {
		kernel.Close()
		return err
	}
	for _, m := range metrics.Default(e.cfg.Workers) {
		s.AddMetric(m)
	}
	px, py, pz := e.cfg.ProbeCell()
	for _, m := range metrics.ProbeSet(px, py, pz) {
		s.AddMetric(m)
	}
	for _, m := range extra {
		s.AddMetric(m)
	}
	e.kernel, e.simulator = kernel, s
	return nil
}

func (e *Experiment) RunConfig() sim.RunConfig {
	px, py, pz := e.cfg.ProbeCell()
	return sim.RunConfig{
		Frames:   e.cfg.Frames,
		FrameDt:  float32(e.cfg.FrameDt),
		Probe:    [3]int{px, py, pz},
		Validate: e.cfg.Validate,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.RunConfig())
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.FieldsSimulator { return e.simulator }

func (e *Experiment) KernelName() string {
	if e.kernel == nil {
		return ""
	}
	return e.kernel.Name()
}

// Field returns the current field, or nil before Setup.
func (e *Experiment) Field() *field.EMField {
	if e.simulator == nil {
		return nil
	}
	return e.simulator.Field()
}

// Close releases kernel resources.
func (e *Experiment) Close() {
	if e.kernel != nil {
		e.kernel.Close()
		e.kernel = nil
	}
}
