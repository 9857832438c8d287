package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/gcfg.v1"
)

// iniFile mirrors Config in the flat section layout gcfg understands.
type iniFile struct {
	Simulation struct {
		Scenario  string
		GridX     int
		GridY     int
		GridZ     int
		SubSteps  int
		TimeScale float64
		FrameDt   float64
		Frames    int
		Backend   string
		Workers   int
		Validate  bool
	}
	Wave struct {
		Amplitude  float64
		Wavelength float64
		Falloff    float64
		Squash     float64
		CenterX    float64
		CenterY    float64
		CenterZ    float64
	}
	Charge struct {
		Scale float64
	}
	Uniform struct {
		ElectricX, ElectricY, ElectricZ float64
		MagneticX, MagneticY, MagneticZ float64
	}
	Probe struct {
		X, Y, Z int
	}
}

func toINI(c *Config) *iniFile {
	f := &iniFile{}
	s := &f.Simulation
	s.Scenario = c.Scenario
	s.GridX, s.GridY, s.GridZ = c.Grid.X, c.Grid.Y, c.Grid.Z
	s.SubSteps = c.SubSteps
	s.TimeScale = c.TimeScale
	s.FrameDt = c.FrameDt
	s.Frames = c.Frames
	s.Backend = c.Backend
	s.Workers = c.Workers
	s.Validate = c.Validate

	w := &f.Wave
	w.Amplitude, w.Wavelength, w.Falloff, w.Squash = c.Wave.Amplitude, c.Wave.Wavelength, c.Wave.Falloff, c.Wave.Squash
	w.CenterX, w.CenterY, w.CenterZ = c.Wave.Center[0], c.Wave.Center[1], c.Wave.Center[2]

	f.Charge.Scale = c.Charge.Scale

	u := &f.Uniform
	u.ElectricX, u.ElectricY, u.ElectricZ = c.Uniform.Electric[0], c.Uniform.Electric[1], c.Uniform.Electric[2]
	u.MagneticX, u.MagneticY, u.MagneticZ = c.Uniform.Magnetic[0], c.Uniform.Magnetic[1], c.Uniform.Magnetic[2]

	f.Probe.X, f.Probe.Y, f.Probe.Z = c.Probe.X, c.Probe.Y, c.Probe.Z
	return f
}

func (f *iniFile) config() *Config {
	s, w, u := f.Simulation, f.Wave, f.Uniform
	return &Config{
		Scenario:  s.Scenario,
		Grid:      GridConfig{X: s.GridX, Y: s.GridY, Z: s.GridZ},
		SubSteps:  s.SubSteps,
		TimeScale: s.TimeScale,
		FrameDt:   s.FrameDt,
		Frames:    s.Frames,
		Backend:   s.Backend,
		Workers:   s.Workers,
		Validate:  s.Validate,
		Wave: WaveConfig{
			Amplitude:  w.Amplitude,
			Wavelength: w.Wavelength,
			Falloff:    w.Falloff,
			Squash:     w.Squash,
			Center:     [3]float64{w.CenterX, w.CenterY, w.CenterZ},
		},
		Charge: ChargeConfig{Scale: f.Charge.Scale},
		Uniform: UniformConfig{
			Electric: [3]float64{u.ElectricX, u.ElectricY, u.ElectricZ},
			Magnetic: [3]float64{u.MagneticX, u.MagneticY, u.MagneticZ},
		},
		Probe: ProbeConfig{X: f.Probe.X, Y: f.Probe.Y, Z: f.Probe.Z},
	}
}

func loadINI(path string) (*Config, error) {
	f := toINI(DefaultConfig())
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.config(), nil
}

func saveINI(path string, c *Config) error {
	f := toINI(c)
	s, w, u, p := f.Simulation, f.Wave, f.Uniform, f.Probe

	var b strings.Builder
	b.WriteString("[Simulation]\n")
	fmt.Fprintf(&b, "Scenario = %s\n", s.Scenario)
	fmt.Fprintf(&b, "GridX = %d\nGridY = %d\nGridZ = %d\n", s.GridX, s.GridY, s.GridZ)
	fmt.Fprintf(&b, "SubSteps = %d\n", s.SubSteps)
	fmt.Fprintf(&b, "TimeScale = %g\n", s.TimeScale)
	fmt.Fprintf(&b, "FrameDt = %g\n", s.FrameDt)
	fmt.Fprintf(&b, "Frames = %d\n", s.Frames)
	fmt.Fprintf(&b, "Backend = %s\n", s.Backend)
	fmt.Fprintf(&b, "Workers = %d\n", s.Workers)
	fmt.Fprintf(&b, "Validate = %t\n", s.Validate)

	b.WriteString("\n[Wave]\n")
	fmt.Fprintf(&b, "Amplitude = %g\nWavelength = %g\nFalloff = %g\nSquash = %g\n", w.Amplitude, w.Wavelength, w.Falloff, w.Squash)
	fmt.Fprintf(&b, "CenterX = %g\nCenterY = %g\nCenterZ = %g\n", w.CenterX, w.CenterY, w.CenterZ)

	b.WriteString("\n[Charge]\n")
	fmt.Fprintf(&b, "Scale = %g\n", f.Charge.Scale)

	b.WriteString("\n[Uniform]\n")
	fmt.Fprintf(&b, "ElectricX = %g\nElectricY = %g\nElectricZ = %g\n", u.ElectricX, u.ElectricY, u.ElectricZ)
	fmt.Fprintf(&b, "MagneticX = %g\nMagneticY = %g\nMagneticZ = %g\n", u.MagneticX, u.MagneticY, u.MagneticZ)

	b.WriteString("\n[Probe]\n")
	fmt.Fprintf(&b, "X = %d\nY = %d\nZ = %d\n", p.X, p.Y, p.Z)

	return os.WriteFile(path, []byte(b.String()), 0644)
}
