package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrTooShort is returned for series with fewer than MinSamples values.
var ErrTooShort = errors.New("analysis: series too short")

const MinSamples = 4

// Spectrum is a one-sided magnitude spectrum. Freqs are in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum transforms samples taken every dt seconds. The mean is
// removed first so the DC bin only holds rounding noise.
func PowerSpectrum(samples []float64, dt float64) (Spectrum, error) {
	if len(samples) < MinSamples {
		return Spectrum{}, fmt.Errorf("%w: %d samples", ErrTooShort, len(samples))
	}
	if !(dt > 0) {
		return Spectrum{}, fmt.Errorf("analysis: sample interval must be positive, got %v", dt)
	}

	mean := stat.Mean(samples, nil)
	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	s := Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for k, c := range coeffs {
		s.Freqs[k] = fft.Freq(k) / dt
		s.Power[k] = cmplx.Abs(c)
	}
	return s, nil
}

// Peak returns the frequency and magnitude of the strongest non-DC bin.
func (s Spectrum) Peak() (freq, power float64) {
	if len(s.Power) < 2 {
		return 0, 0
	}
	k := floats.MaxIdx(s.Power[1:]) + 1
	return s.Freqs[k], s.Power[k]
}

// DominantFrequency is PowerSpectrum followed by Peak.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	s, err := PowerSpectrum(samples, dt)
	if err != nil {
		return 0, err
	}
	f, _ := s.Peak()
	return f, nil
}
