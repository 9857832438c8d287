package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Detrend returns a copy of data with its mean removed.
func Detrend(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	mean := stat.Mean(data, nil)
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-DC bin of a
// series sampled every dt, and that bin's magnitude.
func DominantFrequency(data []float64, dt float64) (freq, magnitude float64) {
	if len(data) < 4 || dt <= 0 {
		return 0, 0
	}
	ps := PowerSpectrum(Detrend(data))
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(data)) * dt), ps[best]
}
