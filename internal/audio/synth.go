package audio

import (
	"math"
	"sync"
)

// G2, Bb2, D3, F3, A3
var chord = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth is a stereo pad whose loudness and brightness follow the field
// energy. Electric energy leans left, magnetic energy leans right.
type Synth struct {
	sampleRate float64

	mu                 sync.Mutex
	electric, magnetic float64
	reference          float64

	// Audio goroutine state.
	time        float64
	eSmooth     float64
	hSmooth     float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int
}

func NewSynth(sampleRate float64) *Synth {
	delayLen := int(sampleRate * 0.6)
	return &Synth{
		sampleRate: sampleRate,
		delayLine:  [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// SetEnergy updates the energies the next buffer is rendered from. The
// first non-zero total becomes the loudness reference.
func (s *Synth) SetEnergy(electric, magnetic float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.electric, s.magnetic = electric, magnetic
	if s.reference == 0 && electric+magnetic > 0 {
		s.reference = electric + magnetic
	}
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One pole low pass.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Render fills both channels. len(left) must equal len(right).
func (s *Synth) Render(left, right []float32) {
	s.mu.Lock()
	e, h, ref := s.electric, s.magnetic, s.reference
	s.mu.Unlock()
	if ref > 0 {
		e, h = e/ref, h/ref
	}

	dt := 1.0 / s.sampleRate
	const vol = 0.25

	for i := range left {
		s.eSmooth = s.eSmooth*0.9995 + e*0.0005
		s.hSmooth = s.hSmooth*0.9995 + h*0.0005
		level := math.Tanh(s.eSmooth + s.hSmooth)
		cutoff := 300.0 + 900.0*level

		var sampleL, sampleR float64
		for j, f := range chord {
			lfo := math.Sin(s.time*0.2 + float64(j))
			g := (0.7 + 0.3*lfo) / float64(len(chord))
			sampleL += triangle(s.time*f*0.999) * g * math.Tanh(2*s.eSmooth+s.hSmooth)
			sampleR += triangle(s.time*f*1.001) * g * math.Tanh(2*s.hSmooth+s.eSmooth)
		}

		s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])

		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]
		mixL := s.filterState[0] + delayL*0.3 + delayR*0.1
		mixR := s.filterState[1] + delayR*0.3 + delayL*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		left[i] = float32(mixL * vol)
		right[i] = float32(mixR * vol)
		s.time += dt
	}
}
