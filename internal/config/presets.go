package config

import "sort"

var Presets = map[string]*Config{
	"wave_packet": DefaultConfig(),
	"point_charge": func() *Config {
		c := DefaultConfig()
		c.Scenario = "point_charge"
		c.Grid = GridConfig{X: 48, Y: 32, Z: 24}
		c.SubSteps = 1
		c.TimeScale = 0.2
		return c
	}(),
	"uniform": func() *Config {
		c := DefaultConfig()
		c.Scenario = "uniform"
		c.Grid = GridConfig{X: 4, Y: 4, Z: 4}
		c.SubSteps = 1
		c.Frames = 60
		c.Uniform.Magnetic = [3]float64{1, 0, 0}
		return c
	}(),
	"small_wave": func() *Config {
		c := DefaultConfig()
		c.Grid = GridConfig{X: 24, Y: 24, Z: 64}
		c.Wave.Falloff = 16
		c.Frames = 120
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
