// Package viz renders a running field simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of a [sim.FieldsSimulator] with a stats panel
//   - [TermSurface]: a sim.Surface that projects field arrows through the
//     camera matrix into a [Canvas]
//   - [Canvas]: Braille-based pixel canvas with a per-cell ink layer
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	Arrows  - Turn the camera
//	W/A/S/D - Move the camera
//	E/C     - Move up/down
//	+/-     - Arrow density
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// The G key records the canvas as a GIF animation, written to emsim.gif in
// the current directory when recording stops.
package viz
