package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/emsim/internal/field"
)

const (
	DefaultScenario   = "wave_packet"
	DefaultSubSteps   = 4
	DefaultTimeScale  = 1.0
	DefaultFrameDt    = 1.0 / 60.0
	DefaultFrames     = 600
	DefaultBackend    = "cpu"
	DefaultAmplitude  = 8.0
	DefaultWavelength = 12.0
	DefaultFalloff    = 64.0
	DefaultSquash     = 0.7
	DefaultChargeMul  = 128.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

var backends = []string{"cpu", "serial", "opencl", "auto"}

type Config struct {
	Scenario  string        `yaml:"scenario"`
	Grid      GridConfig    `yaml:"grid"`
	SubSteps  int           `yaml:"sub_steps"`
	TimeScale float64       `yaml:"time_scale"`
	FrameDt   float64       `yaml:"frame_dt"`
	Frames    int           `yaml:"frames"`
	Backend   string        `yaml:"backend"`
	Workers   int           `yaml:"workers"`
	Wave      WaveConfig    `yaml:"wave"`
	Charge    ChargeConfig  `yaml:"charge"`
	Uniform   UniformConfig `yaml:"uniform"`
	Probe     ProbeConfig   `yaml:"probe"`
	Validate  bool          `yaml:"validate"`
}

type GridConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// WaveConfig shapes the gaussian wave packet. Center is given as fractions
// of the grid extent.
type WaveConfig struct {
	Amplitude  float64    `yaml:"amplitude"`
	Wavelength float64    `yaml:"wavelength"`
	Falloff    float64    `yaml:"falloff"`
	Squash     float64    `yaml:"squash"`
	Center     [3]float64 `yaml:"center,flow"`
}

type ChargeConfig struct {
	Scale float64 `yaml:"scale"`
}

type UniformConfig struct {
	Electric [3]float64 `yaml:"electric,flow"`
	Magnetic [3]float64 `yaml:"magnetic,flow"`
}

// ProbeConfig selects the cell sampled every frame. Negative coordinates
// mean the grid center on that axis.
type ProbeConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  DefaultScenario,
		Grid:      GridConfig{X: 72, Y: 72, Z: 192},
		SubSteps:  DefaultSubSteps,
		TimeScale: DefaultTimeScale,
		FrameDt:   DefaultFrameDt,
		Frames:    DefaultFrames,
		Backend:   DefaultBackend,
		Wave: WaveConfig{
			Amplitude:  DefaultAmplitude,
			Wavelength: DefaultWavelength,
			Falloff:    DefaultFalloff,
			Squash:     DefaultSquash,
			Center:     [3]float64{0.5, 0.5, 0.25},
		},
		Charge: ChargeConfig{Scale: DefaultChargeMul},
		Probe:  ProbeConfig{X: -1, Y: -1, Z: -1},
	}
}

// Load reads a configuration file on top of the defaults. Files ending in
// .gcfg or .ini use the INI syntax; everything else is YAML.
func Load(path string) (*Config, error) {
	if isINI(path) {
		return loadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isINI(path) {
		return saveINI(path, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isINI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gcfg", ".ini":
		return true
	}
	return false
}

func (c *Config) GridSize() field.Size {
	return field.NewSize(c.Grid.X, c.Grid.Y, c.Grid.Z)
}

// ProbeCell resolves the probe coordinates against the grid.
func (c *Config) ProbeCell() (x, y, z int) {
	resolve := func(v, dim int) int {
		if v < 0 {
			return dim / 2
		}
		return v
	}
	return resolve(c.Probe.X, c.Grid.X), resolve(c.Probe.Y, c.Grid.Y), resolve(c.Probe.Z, c.Grid.Z)
}

// Check validates the configuration. All problems are reported, joined.
func (c *Config) Check() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !c.GridSize().Valid() {
		bad("grid %s must have at least one cell per axis", c.GridSize())
	}
	if c.Scenario == "" {
		bad("scenario must be set")
	}
	if c.SubSteps < 1 {
		bad("sub_steps must be >= 1, got %d", c.SubSteps)
	}
	if c.TimeScale <= 0 {
		bad("time_scale must be positive, got %g", c.TimeScale)
	}
	if c.FrameDt <= 0 {
		bad("frame_dt must be positive, got %g", c.FrameDt)
	}
	if c.Frames < 0 {
		bad("frames must not be negative, got %d", c.Frames)
	}
	if c.Workers < 0 {
		bad("workers must not be negative, got %d", c.Workers)
	}
	if !validBackend(c.Backend) {
		bad("backend %q is not one of %s", c.Backend, strings.Join(backends, ", "))
	}
	if c.Wave.Wavelength <= 0 {
		bad("wave.wavelength must be positive, got %g", c.Wave.Wavelength)
	}
	if c.Wave.Falloff <= 0 {
		bad("wave.falloff must be positive, got %g", c.Wave.Falloff)
	}
	if c.Charge.Scale <= 0 {
		bad("charge.scale must be positive, got %g", c.Charge.Scale)
	}
	if px, py, pz := c.ProbeCell(); c.GridSize().Valid() && !c.GridSize().Contains(px, py, pz) {
		bad("probe (%d,%d,%d) lies outside grid %s", px, py, pz, c.GridSize())
	}

	return errors.Join(errs...)
}

func validBackend(name string) bool {
	for _, b := range backends {
		if name == b {
			return true
		}
	}
	return false
}
