// Package analysis characterizes simulation runs after the fact.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectra of per-frame series
//   - [GrowthRate]: exponential growth of a small perturbation, positive
//     when the timestep is beyond the scheme's stability limit
//   - [StabilitySweep]: growth over a range of timesteps
//   - [PortraitFromSeries]: 2-D phase portraits of two series
//
// # Stability
//
// The leapfrog update is conditionally stable. A sweep locates the largest
// usable timestep for a grid:
//
//	points, err := analysis.StabilitySweep(em, kernel, 0.05, 2, 20, 50)
//	dtMax := analysis.CriticalTimestep(points, 0.01)
package analysis
