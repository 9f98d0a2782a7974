package metrics

import (
	"math"

	"github.com/san-kum/nearfield/internal/field"
)

// AmplitudeRMS is the root mean square of the drive current over all frames.
type AmplitudeRMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewAmplitudeRMS() *AmplitudeRMS {
	return &AmplitudeRMS{name: "amplitude_rms"}
}

func (a *AmplitudeRMS) Name() string { return a.name }

func (a *AmplitudeRMS) Observe(f *field.Frame) {
	a.sumSq += f.Amplitude * f.Amplitude
	a.samples++
}

func (a *AmplitudeRMS) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return math.Sqrt(a.sumSq / float64(a.samples))
}

func (a *AmplitudeRMS) Reset() {
	a.sumSq = 0
	a.samples = 0
}
