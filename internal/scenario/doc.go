// Package scenario builds initial electromagnetic fields from closed-form
// expressions. Every builder is pure: the value of a cell depends only on
// the grid size, the cell coordinates and the parameters.
package scenario
