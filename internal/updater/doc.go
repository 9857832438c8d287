// Package updater advances an electromagnetic field by one leapfrog step.
//
// Each step has two phases over the whole grid:
//
//   - electric: E += curl(H) * dt
//   - magnetic: H -= curl(E) * dt, reading the electric field written by
//     the first phase
//
// The curl is a central difference over the six axis neighbors of a cell.
// Neighbors outside the grid are clamped to the nearest valid cell, so edge
// cells see a one-sided half difference and an axis with a single cell has
// zero derivative.
//
// Phases run cell-parallel on a [compute.Backend]; the backend's barrier
// separates the electric phase from the magnetic phase and one step from the
// next. The update is done in place without double buffering: within a
// phase no cell reads a value written in that same phase.
//
// Build with -tags opencl to enable the GPU kernel ([NewOpenCL]).
package updater
