package scenario

import (
	"fmt"
	"sort"

	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/field"
)

type Builder func(cfg *config.Config) (*field.EMField, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.Register("wave_packet", func(cfg *config.Config) (*field.EMField, error) {
		return WavePacket(cfg.GridSize(), WaveParamsFrom(cfg.Wave))
	})
	r.Register("point_charge", func(cfg *config.Config) (*field.EMField, error) {
		return PointCharge(cfg.GridSize(), ChargeParams{Scale: float32(cfg.Charge.Scale)})
	})
	r.Register("uniform", func(cfg *config.Config) (*field.EMField, error) {
		return Uniform(cfg.GridSize(), vec(cfg.Uniform.Electric), vec(cfg.Uniform.Magnetic))
	})

	return r
}

// Register adds or replaces the builder for name.
func (r *Registry) Register(name string, b Builder) { r.builders[name] = b }

func (r *Registry) Build(cfg *config.Config) (*field.EMField, error) {
	b, ok := r.builders[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
	em, err := b(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
	}
	return em, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func WaveParamsFrom(w config.WaveConfig) WaveParams {
	return WaveParams{
		Amplitude:  float32(w.Amplitude),
		Wavelength: float32(w.Wavelength),
		Falloff:    float32(w.Falloff),
		Squash:     float32(w.Squash),
		Center:     [3]float32{float32(w.Center[0]), float32(w.Center[1]), float32(w.Center[2])},
	}
}

func vec(v [3]float64) field.Vec4 {
	return field.V(float32(v[0]), float32(v[1]), float32(v[2]))
}
