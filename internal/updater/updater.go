package updater

import (
	"fmt"

	"github.com/san-kum/emsim/internal/compute"
	"github.com/san-kum/emsim/internal/field"
)

// Updater is the CPU kernel. It holds no field state of its own.
type Updater struct {
	backend compute.Backend
}

// New returns an updater dispatching on backend, or on the package default
// backend when backend is nil.
func New(backend compute.Backend) *Updater {
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &Updater{backend: backend}
}

func (u *Updater) Name() string { return u.backend.Name() }

func (u *Updater) Close() {}

// Step applies one electric phase followed by one magnetic phase. Mismatched
// field dimensions are rejected before any cell is touched.
func (u *Updater) Step(em *field.EMField, dt float32) error {
	if err := em.CheckCongruent(); err != nil {
		return fmt.Errorf("updater step: %w", err)
	}

	size := em.Size()
	e := em.Electric.DataMut()
	h := em.Magnetic.DataMut()

	u.backend.ForEachCell(size, func(x, y, z, idx int) {
		c := curlAt(h, size, x, y, z)
		e[idx] = e[idx].Add(c.Scale(dt))
	})

	u.backend.ForEachCell(size, func(x, y, z, idx int) {
		c := curlAt(e, size, x, y, z)
		h[idx] = h[idx].Sub(c.Scale(dt))
	})

	return nil
}
