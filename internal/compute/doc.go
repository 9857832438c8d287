// Package compute provides execution backends for per-cell grid work.
//
// A [Backend] runs a function once for every cell of a grid and returns only
// after all cells have finished, so consecutive ForEachCell calls are
// separated by a full barrier:
//
//	backend := compute.GetBackend()
//	backend.ForEachCell(size, func(x, y, z, idx int) {
//	    out[idx] = step(in, x, y, z)
//	})
//
// The CPU backend partitions the grid into contiguous index ranges, one per
// worker goroutine. The serial backend runs everything on the caller's
// goroutine and serves as the reference implementation in tests.
package compute
