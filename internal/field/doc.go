// Package field provides the grid storage for electromagnetic simulation.
//
// A [VectorField] is a flat array of 3-component vectors padded to four
// floats, addressed by cell coordinate:
//
//	index = x + y*nx + z*nx*ny
//
// An [EMField] pairs an electric and a magnetic [VectorField] of identical
// dimensions. Renderers receive read-only [View] handles and never the
// backing slices.
//
// # Thread Safety
//
// Fields are not synchronized. The updater writes them from many goroutines
// but never the same cell twice within a phase; callers must not read a
// field while an update is in flight.
package field
