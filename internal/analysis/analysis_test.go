package analysis

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/updater"
)

func sine(n int, cycles float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	ps := PowerSpectrum(Detrend(sine(64, 4)))
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	for k, v := range ps {
		if k != 4 && v > ps[4]*0.01 {
			t.Errorf("bin %d = %v rivals the peak %v", k, v, ps[4])
		}
	}

	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestPowerSpectrumOddLength(t *testing.T) {
	if ps := PowerSpectrum(sine(45, 5)); len(ps) != 22 {
		t.Errorf("expected 22 bins, got %d", len(ps))
	}
}

func TestDominantFrequency(t *testing.T) {
	freq, mag := DominantFrequency(sine(64, 4), 0.1)
	if math.Abs(freq-0.625) > 1e-9 {
		t.Errorf("frequency = %v, want 0.625", freq)
	}
	if mag <= 0 {
		t.Error("expected positive magnitude")
	}

	if f, _ := DominantFrequency([]float64{1, 2}, 0.1); f != 0 {
		t.Error("short series should give zero")
	}
}

func TestDetrend(t *testing.T) {
	d := Detrend([]float64{1, 2, 3, 6})
	sum := 0.0
	for _, v := range d {
		sum += v
	}
	if math.Abs(sum) > 1e-12 || d[0] != -2 {
		t.Errorf("detrended = %v", d)
	}
}

func randomField(size field.Size) *field.EMField {
	rng := rand.New(rand.NewSource(5))
	em, _ := field.NewEMField(size)
	for _, f := range []*field.VectorField{em.Electric, em.Magnetic} {
		data := f.DataMut()
		for i := range data {
			data[i] = field.V(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()-0.5)
		}
	}
	return em
}

func TestGrowthRate_SingleCell(t *testing.T) {
	em, _ := field.NewEMField(field.NewSize(1, 1, 1))
	k := updater.New(compute.NewSerialBackend())

	g, err := GrowthRate(em, k, 0.5, 20, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g) > 1e-4 {
		t.Errorf("single cell growth = %v, want 0", g)
	}
}

func TestGrowthRate_LargeTimestepIsUnstable(t *testing.T) {
	em := randomField(field.NewSize(8, 8, 8))
	before := em.Clone()
	k := updater.New(compute.NewCPUBackend(2))

	small, err := GrowthRate(em, k, 0.05, 40, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	large, err := GrowthRate(em, k, 4, 40, 1e-3)
	if err != nil {
		t.Fatal(err)
	}

	if large <= small {
		t.Errorf("growth at dt=4 (%v) not above dt=0.05 (%v)", large, small)
	}
	if large <= 0 {
		t.Errorf("dt=4 should grow, got %v", large)
	}
	if !em.Electric.Equal(before.Electric) || !em.Magnetic.Equal(before.Magnetic) {
		t.Error("GrowthRate modified its input")
	}
}

func TestGrowthRate_InvalidArgs(t *testing.T) {
	em, _ := field.NewEMField(field.NewSize(2, 2, 2))
	k := updater.New(compute.NewSerialBackend())
	if _, err := GrowthRate(em, k, 0.1, 0, 1e-3); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := GrowthRate(em, k, 0.1, 10, 0); err == nil {
		t.Error("expected error for zero perturbation")
	}
}

func TestStabilitySweep(t *testing.T) {
	em := randomField(field.NewSize(6, 6, 6))
	k := updater.New(compute.NewCPUBackend(2))

	points, err := StabilitySweep(em, k, 0.05, 4, 5, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 || points[0].Dt != 0.05 || points[4].Dt != 4 {
		t.Fatalf("unexpected sweep grid: %+v", points)
	}

	if crit := CriticalTimestep(points, 0.5); crit == 0 || crit > 4 {
		t.Errorf("critical timestep = %v", crit)
	}
	if CriticalTimestep(points, math.Inf(1)) != 0 {
		t.Error("expected zero when nothing exceeds the threshold")
	}

	plot := SweepToASCII(points, 20, 5)
	if strings.Count(plot, "\n") != 5 || !strings.Contains(plot, "•") {
		t.Errorf("unexpected plot:\n%s", plot)
	}
}

func TestPhasePortrait(t *testing.T) {
	n := 200
	xs, ys := make([]float64, n), make([]float64, n+10)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		xs[i], ys[i] = math.Cos(a), math.Sin(a)
	}

	p := PortraitFromSeries("electric", xs, "magnetic", ys)
	if len(p.Points) != n {
		t.Fatalf("expected %d points, got %d", n, len(p.Points))
	}

	art := PhasePortraitToASCII(p, 40, 20)
	if !strings.Contains(art, "•") || strings.Count(art, "\n") != 20 {
		t.Errorf("unexpected portrait:\n%s", art)
	}
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}

func TestCrossingsAndPeriod(t *testing.T) {
	n := 3000
	times, series := make([]float64, n), make([]float64, n)
	for i := range times {
		times[i] = float64(i) * 0.01
		series[i] = math.Sin(times[i])
	}

	c := Crossings(times, series, 0)
	if len(c) == 0 {
		t.Fatal("no crossings")
	}
	if p := Period(c); math.Abs(p-2*math.Pi) > 0.01 {
		t.Errorf("period = %v, want 2π", p)
	}
	if Period(c[:1]) != 0 {
		t.Error("one crossing should give zero period")
	}
}

// dampKernel zeroes both halves, so any two fields collapse onto each other.
type dampKernel struct{}

func (dampKernel) Name() string { return "damp" }
func (dampKernel) Close()       {}
func (dampKernel) Step(em *field.EMField, _ float32) error {
	em.Electric.Fill(field.Vec4{})
	em.Magnetic.Fill(field.Vec4{})
	return nil
}

func TestGrowthRate_VanishingSeparation(t *testing.T) {
	em := randomField(field.NewSize(3, 3, 3))
	g, err := GrowthRate(em, dampKernel{}, 0.1, 10, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(g, -1) {
		t.Errorf("growth of a vanished perturbation = %v, want -Inf", g)
	}
}

func TestSweepToASCII_NegativeInfinity(t *testing.T) {
	points := []SweepPoint{{Dt: 0.1, Growth: math.Inf(-1)}, {Dt: 0.2, Growth: 0.5}, {Dt: 0.3, Growth: 1}}
	out := SweepToASCII(points, 3, 4)
	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 4 {
		t.Fatalf("got %d rows", len(rows))
	}
	if []rune(rows[3])[0] != '•' {
		t.Errorf("-Inf point not drawn on the bottom row:\n%s", out)
	}
}
