package scenario

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

// WaveParams describes a gaussian-enveloped plane wave travelling along z.
// Center is expressed as fractions of the grid extent per axis.
type WaveParams struct {
	Amplitude  float32
	Wavelength float32
	Falloff    float32
	Squash     float32
	Center     [3]float32
}

func DefaultWaveParams() WaveParams {
	return WaveParams{
		Amplitude:  8,
		Wavelength: 12,
		Falloff:    64,
		Squash:     0.7,
		Center:     [3]float32{0.5, 0.5, 0.25},
	}
}

// WaveCell returns the electric and magnetic sample of cell (x, y, z).
// The electric field points along x, the magnetic field is ẑ × E.
func WaveCell(size field.Size, p WaveParams, x, y, z int) (e, h field.Vec4) {
	cx := float32(size.X) * p.Center[0]
	cy := float32(size.Y) * p.Center[1]
	cz := float32(size.Z) * p.Center[2]

	d := field.V((float32(x)-cx)*p.Squash, (float32(y)-cy)*p.Squash, float32(z)-cz)
	envelope := p.Amplitude * float32(math.Exp(float64(-d.Len2()/p.Falloff)))

	phase := float32(z) * (2 * math.Pi / p.Wavelength)
	e = field.V(envelope*float32(math.Sin(float64(phase))), 0, 0)
	h = field.V(0, 0, 1).Cross(e)
	return e, h
}

func WavePacket(size field.Size, p WaveParams) (*field.EMField, error) {
	em, err := field.NewEMField(size)
	if err != nil {
		return nil, err
	}
	e, h := em.Electric.DataMut(), em.Magnetic.DataMut()
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				idx := size.Index(x, y, z)
				e[idx], h[idx] = WaveCell(size, p, x, y, z)
			}
		}
	}
	return em, nil
}
