// Package analysis inspects recorded run series.
//
// [PowerSpectrum] turns a uniformly sampled series (amplitude, peak or mean
// intensity per step) into a one-sided magnitude spectrum and
// [DominantFrequency] picks its strongest non-DC component. With a synthetic
// drive the amplitude |sin(2πft)| peaks at 2f.
package analysis
