package scenario

import "github.com/san-kum/emsim/internal/field"

// Uniform builds spatially constant fields.
func Uniform(size field.Size, electric, magnetic field.Vec4) (*field.EMField, error) {
	em, err := field.NewEMField(size)
	if err != nil {
		return nil, err
	}
	em.Electric.Fill(electric)
	em.Magnetic.Fill(magnetic)
	return em, nil
}
