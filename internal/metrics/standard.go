package metrics

import "github.com/san-kum/nearfield/internal/sim"

// Standard is the metric set recorded for saved and compared runs.
func Standard(saturationThreshold float64) []sim.Metric {
	return []sim.Metric{
		NewPeakIntensity(),
		NewMeanIntensity(),
		NewAmplitudeRMS(),
		NewSaturation(saturationThreshold),
	}
}
