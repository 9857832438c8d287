package field

import "fmt"

// EMField pairs the electric and magnetic samples of one grid. Both halves
// share dimensions for the lifetime of the pair.
type EMField struct {
	Electric *VectorField
	Magnetic *VectorField
}

// NewEMField allocates a zeroed pair.
func NewEMField(size Size) (*EMField, error) {
	e, err := New(size)
	if err != nil {
		return nil, err
	}
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	return &EMField{Electric: e, Magnetic: m}, nil
}

// NewEMFieldFrom pairs two existing fields after checking they are congruent.
func NewEMFieldFrom(electric, magnetic *VectorField) (*EMField, error) {
	em := &EMField{Electric: electric, Magnetic: magnetic}
	if err := em.CheckCongruent(); err != nil {
		return nil, err
	}
	return em, nil
}

// CheckCongruent returns ErrDimensionMismatch when the halves differ in size.
func (em *EMField) CheckCongruent() error {
	if em.Electric == nil || em.Magnetic == nil {
		return fmt.Errorf("%w: missing half", ErrDimensionMismatch)
	}
	if em.Electric.Size() != em.Magnetic.Size() {
		return fmt.Errorf("%w: electric %s, magnetic %s", ErrDimensionMismatch, em.Electric.Size(), em.Magnetic.Size())
	}
	return nil
}

func (em *EMField) Size() Size { return em.Electric.Size() }

// Energy returns 0.5*Σ|E|² and 0.5*Σ|H|² in natural grid units.
func (em *EMField) Energy() (electric, magnetic float64) {
	return 0.5 * em.Electric.SumSquares(), 0.5 * em.Magnetic.SumSquares()
}

// Finite reports whether every sample of both halves is finite.
func (em *EMField) Finite() bool {
	for _, v := range em.Electric.Data() {
		if !v.IsFinite() {
			return false
		}
	}
	for _, v := range em.Magnetic.Data() {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}

func (em *EMField) Clone() *EMField {
	return &EMField{Electric: em.Electric.Clone(), Magnetic: em.Magnetic.Clone()}
}
