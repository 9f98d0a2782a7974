// Package field computes a stylized near field around a driven antenna.
//
// The package is built from three pieces:
//
//   - [Grid]: static observation points on spherical shells around the origin
//   - [Engine]: advances simulation time and recomputes the field over the grid
//   - [Envelope]: optional amplitude sequence that replaces the synthetic current
//
// # Example
//
//	grid, _ := field.DefaultGridSpec().Build()
//	eng, _ := field.New(grid)
//	frame, err := eng.Step(field.DefaultParams())
//
// The field is a sinusoidal approximation, not a Maxwell solver. Its z component,
// cos(phase)·cos(atan2(d, z)), is kept exactly as the visualization has always drawn it.
//
// # Thread Safety
//
// Step and LoadEnvelope may be called from different goroutines; the engine
// serializes them so a new envelope only takes effect between steps. The
// returned [Frame] is reused by the next Step; use [Frame.Clone] to keep it.
package field
