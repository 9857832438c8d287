package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/config"
)

func TestExperiment_UniformRun(t *testing.T) {
	cfg := config.GetPreset("uniform")
	cfg.Frames = 3

	exp := New(cfg)
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer exp.Close()

	if exp.KernelName() != "cpu" {
		t.Errorf("kernel = %q, want cpu", exp.KernelName())
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Times) != 4 {
		t.Fatalf("expected 4 records, got %d", len(result.Times))
	}
	for i, m := range result.MagneticEnergy {
		if math.Abs(m-32) > 1e-9 {
			t.Errorf("frame %d: magnetic energy %v, want 32", i, m)
		}
	}
	if _, ok := result.Metrics["energy_drift"]; !ok {
		t.Error("default metrics not attached")
	}
}

func TestExperiment_ProbeDefaultsToCenter(t *testing.T) {
	cfg := config.GetPreset("uniform")
	exp := New(cfg)
	rc := exp.RunConfig()
	if rc.Probe != [3]int{2, 2, 2} {
		t.Errorf("probe = %v, want center", rc.Probe)
	}
	if rc.Frames != cfg.Frames {
		t.Errorf("frames = %d, want %d", rc.Frames, cfg.Frames)
	}
}

func TestExperiment_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SubSteps = 0

	err := New(cfg).Setup()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExperiment_UnknownScenario(t *testing.T) {
	cfg := config.GetPreset("uniform")
	cfg.Scenario = "dipole"

	if err := New(cfg).Setup(); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestExperiment_RunBeforeSetup(t *testing.T) {
	exp := New(config.DefaultConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error running without Setup")
	}
	if exp.Field() != nil {
		t.Error("field should be nil before Setup")
	}
	exp.Close()
}

func TestExperiment_ProbeMetrics(t *testing.T) {
	cfg := config.GetPreset("uniform")
	cfg.Frames = 2
	cfg.Uniform.Electric = [3]float64{0.5, -1, 2}
	cfg.Probe = config.ProbeConfig{X: 1, Y: 0, Z: 3}

	exp := New(cfg)
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer exp.Close()

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := map[string]float64{"probe_x": 0.5, "probe_y": -1, "probe_z": 2}
	for name, v := range want {
		got, ok := result.Metrics[name]
		if !ok {
			t.Errorf("metric %s missing", name)
			continue
		}
		if math.Abs(got-v) > 1e-6 {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
	}
}
