package field

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Amplitude source", func() {
	var (
		eng *Engine
		p   Params
	)

	derived := func(sample float64) float64 {
		return p.MinCurrent + (p.MaxCurrent-p.MinCurrent)*sample
	}

	step := func() float64 {
		frame, err := eng.Step(p)
		Expect(err).NotTo(HaveOccurred())
		return frame.Amplitude
	}

	BeforeEach(func() {
		grid, err := GenerateGrid([]float64{0.5, 1}, []float64{0, 1}, []float64{0, 2})
		Expect(err).NotTo(HaveOccurred())
		eng, err = New(grid)
		Expect(err).NotTo(HaveOccurred())
		p = DefaultParams()
	})

	Context("without an envelope", func() {
		It("is synthetic", func() {
			Expect(eng.AmplitudeState()).To(Equal(Synthetic))
			amp := step()
			Expect(amp).To(Equal(SyntheticAmplitude(p, eng.Time())))
		})

		It("stays within the current bounds", func() {
			p.Frequency = 3.7
			for i := 0; i < 200; i++ {
				Expect(step()).To(And(BeNumerically(">=", p.MinCurrent), BeNumerically("<=", p.MaxCurrent)))
			}
		})
	})

	Context("with a non-repeating envelope", func() {
		samples := []float64{0.1, 0.4, 0.7, 0.9}

		BeforeEach(func() {
			Expect(eng.LoadEnvelope(Envelope{Samples: samples})).To(Succeed())
		})

		It("consumes one sample per step", func() {
			for _, s := range samples {
				Expect(step()).To(Equal(derived(s)))
			}
		})

		It("holds the last sample once exhausted", func() {
			for range samples {
				step()
			}
			Expect(eng.AmplitudeState()).To(Equal(Exhausted))
			for i := 0; i < 5; i++ {
				Expect(step()).To(Equal(derived(samples[3])))
			}
			Expect(eng.AmplitudeState()).To(Equal(Exhausted))
		})

		It("returns to the first sample when a new envelope is loaded", func() {
			for i := 0; i < 6; i++ {
				step()
			}
			Expect(eng.LoadEnvelope(Envelope{Samples: []float64{0.5, 1}})).To(Succeed())
			Expect(eng.AmplitudeState()).To(Equal(Active))
			Expect(step()).To(Equal(derived(0.5)))
		})
	})

	Context("with a repeating envelope", func() {
		It("wraps the cursor to the start", func() {
			samples := []float64{0.2, 0.5, 0.8}
			Expect(eng.LoadEnvelope(Envelope{Samples: samples, Repeat: true})).To(Succeed())

			var got []float64
			for i := 0; i < 4; i++ {
				got = append(got, step())
			}
			Expect(got).To(Equal([]float64{derived(0.2), derived(0.5), derived(0.8), derived(0.2)}))
			Expect(eng.AmplitudeState()).To(Equal(Active))
		})
	})

	Context("when an envelope is rejected", func() {
		It("keeps synthetic mode", func() {
			err := eng.LoadEnvelope(Envelope{})
			Expect(err).To(MatchError(ErrInvalidEnvelope))
			Expect(eng.AmplitudeState()).To(Equal(Synthetic))
		})

		It("keeps the previous envelope and cursor", func() {
			Expect(eng.LoadEnvelope(Envelope{Samples: []float64{0.3, 0.6, 0.9}})).To(Succeed())
			step()
			Expect(eng.LoadEnvelope(Envelope{Samples: []float64{0.5, 1.5}})).To(MatchError(ErrInvalidEnvelope))
			cursor, n := eng.EnvelopeCursor()
			Expect(cursor).To(Equal(1))
			Expect(n).To(Equal(3))
			Expect(step()).To(Equal(derived(0.6)))
		})
	})

	It("does not alias the caller's samples", func() {
		samples := []float64{0.25, 0.75}
		Expect(eng.LoadEnvelope(Envelope{Samples: samples})).To(Succeed())
		samples[0] = 1
		Expect(step()).To(Equal(derived(0.25)))
	})

	It("goes back to synthetic after ClearEnvelope", func() {
		Expect(eng.LoadEnvelope(Envelope{Samples: []float64{1}})).To(Succeed())
		eng.ClearEnvelope()
		Expect(eng.AmplitudeState()).To(Equal(Synthetic))
	})
})
