package field

import "errors"

// Precondition errors for field construction and pairing.
var (
	// ErrDegenerateGrid indicates a grid with a zero (or negative) dimension.
	ErrDegenerateGrid = errors.New("field: grid dimension must be at least 1")

	// ErrDataLength indicates seed data that does not cover the grid exactly.
	ErrDataLength = errors.New("field: data length does not match grid size")

	// ErrDimensionMismatch indicates electric and magnetic fields of different sizes.
	ErrDimensionMismatch = errors.New("field: electric and magnetic dimensions differ")
)
