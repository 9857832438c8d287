package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
)

func uniformField(t *testing.T, e, h field.Vec4) *field.EMField {
	t.Helper()
	em, err := field.NewEMField(field.NewSize(4, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	em.Electric.Fill(e)
	em.Magnetic.Fill(h)
	return em
}

func TestEnergyHalves(t *testing.T) {
	em := uniformField(t, field.V(1, 0, 0), field.V(0, 2, 0))

	e, m := NewElectricEnergy(), NewMagneticEnergy()
	e.Observe(em, 0)
	m.Observe(em, 0)

	if e.Value() != 32 {
		t.Errorf("electric energy = %v, want 32", e.Value())
	}
	if m.Value() != 128 {
		t.Errorf("magnetic energy = %v, want 128", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewElectricEnergy()
	m.Observe(uniformField(t, field.V(1, 1, 1), field.Vec4{}), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	d := NewEnergyDrift()
	d.Observe(uniformField(t, field.V(1, 0, 0), field.Vec4{}), 0)
	d.Observe(uniformField(t, field.V(1.1, 0, 0), field.Vec4{}), 1)
	d.Observe(uniformField(t, field.V(1, 0, 0), field.Vec4{}), 2)

	want := 1.1*1.1 - 1
	if math.Abs(d.Value()-want) > 1e-5 {
		t.Errorf("drift = %v, want %v", d.Value(), want)
	}

	d.Reset()
	if d.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	s.Observe(uniformField(t, field.V(1, 0, 0), field.Vec4{}), 0)
	s.Observe(uniformField(t, field.V(20, 0, 0), field.Vec4{}), 1)

	if s.Value() != 0.5 {
		t.Errorf("stability = %v, want 0.5", s.Value())
	}

	nan := uniformField(t, field.Vec4{}, field.Vec4{})
	nan.Magnetic.Set(1, 1, 1, field.V(float32(math.NaN()), 0, 0))
	s.Reset()
	s.Observe(nan, 0)
	if s.Value() != 0 {
		t.Errorf("NaN frame counted as stable: %v", s.Value())
	}
}

func TestPeakMagnitude(t *testing.T) {
	p := NewPeakMagnitude()
	em := uniformField(t, field.Vec4{}, field.Vec4{})
	em.Magnetic.Set(2, 2, 2, field.V(3, 4, 0))
	p.Observe(em, 0)
	p.Observe(uniformField(t, field.V(1, 0, 0), field.Vec4{}), 1)

	if p.Value() != 5 {
		t.Errorf("peak = %v, want 5", p.Value())
	}
}

func TestProbe(t *testing.T) {
	em := uniformField(t, field.Vec4{}, field.Vec4{})
	em.Electric.Set(1, 2, 3, field.V(0, -7, 0))

	p := NewProbe(1, 2, 3, 1)
	if p.Name() != "probe_y" {
		t.Errorf("name = %s", p.Name())
	}
	p.Observe(em, 0)
	if p.Value() != -7 {
		t.Errorf("probe = %v", p.Value())
	}
}

func TestProbeSet(t *testing.T) {
	em := uniformField(t, field.V(4, 5, 6), field.Vec4{})
	want := map[string]float64{"probe_x": 4, "probe_y": 5, "probe_z": 6}
	for _, m := range ProbeSet(0, 1, 2) {
		m.Observe(em, 0)
		if m.Value() != want[m.Name()] {
			t.Errorf("%s = %v, want %v", m.Name(), m.Value(), want[m.Name()])
		}
		delete(want, m.Name())
	}
	if len(want) != 0 {
		t.Errorf("missing components: %v", want)
	}
}

func TestDivergence(t *testing.T) {
	size := field.NewSize(6, 5, 4)
	f, _ := field.New(size)
	if MeanDivergence(f, 2) != 0 {
		t.Error("zero field has divergence")
	}

	// E = (x, 0, 0) has unit divergence in the interior and one half on
	// the x faces.
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				f.Set(x, y, z, field.V(float32(x), 0, 0))
			}
		}
	}
	if got := DivergenceAt(f, 2, 2, 2); got != 1 {
		t.Errorf("interior divergence = %v", got)
	}
	if got := DivergenceAt(f, 0, 2, 2); got != 0.5 {
		t.Errorf("face divergence = %v", got)
	}

	want := (4.0*1 + 2*0.5) / 6
	if got := MeanDivergence(f, 3); math.Abs(got-want) > 1e-6 {
		t.Errorf("mean divergence = %v, want %v", got, want)
	}
}

func TestDivergenceFreeWave(t *testing.T) {
	// A transverse field varying only along z is divergence free.
	size := field.NewSize(3, 3, 16)
	f, _ := field.New(size)
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				f.Set(x, y, z, field.V(float32(math.Sin(float64(z))), 0, 0))
			}
		}
	}
	if MeanDivergence(f, 1) != 0 {
		t.Error("transverse wave reported divergence")
	}
}

func TestDefaultMetrics(t *testing.T) {
	ms := Default(2)
	seen := map[string]bool{}
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	var _ sim.Metric = NewProbe(0, 0, 0, 0)
	if !seen["energy_drift"] || !seen["divergence"] {
		t.Errorf("missing defaults: %v", seen)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{3, 1, 4, 1, 5})
	if s.Min != 1 || s.Max != 5 || s.First != 3 || s.Last != 5 {
		t.Errorf("summary = %+v", s)
	}
	if math.Abs(s.Mean-2.8) > 1e-12 {
		t.Errorf("mean = %v", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("stddev = %v", s.StdDev)
	}

	if one := Summarize([]float64{2}); one.StdDev != 0 || one.Mean != 2 {
		t.Errorf("single sample summary = %+v", one)
	}
	if (Summarize(nil) != Summary{}) {
		t.Error("empty series should give zero summary")
	}
}
