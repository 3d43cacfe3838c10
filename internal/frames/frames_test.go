package frames_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/tlc"
)

func ramp(n int, lane float64, solvent bool) tlc.Entry {
	s := tlc.Series{X: make([]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		s.X[i] = lane
		s.Y[i] = float64(i)
	}
	return tlc.Entry{Name: "c", Lane: int(lane), Solvent: solvent, Series: s}
}

var _ = Describe("Extents", func() {
	It("spans one unit per lane plus a ten percent margin", func() {
		axes := frames.Extents(6, 100)

		Expect(axes.X.Min).To(Equal(0.0))
		Expect(axes.X.Max).To(BeNumerically("~", 5.6, 1e-9))
		Expect(axes.Y.Min).To(Equal(0.0))
		Expect(axes.Y.Max).To(BeNumerically("~", 110.0, 1e-9))
	})

	It("keeps a non-zero span for a single compound", func() {
		axes := frames.Extents(1, 10)

		Expect(axes.X.Span()).To(BeNumerically(">", 0))
		Expect(axes.Y.Span()).To(BeNumerically("~", 11.0, 1e-9))
	})
})

var _ = Describe("TotalFrames", func() {
	It("adds the fixed buffer", func() {
		Expect(frames.TotalFrames(100)).To(Equal(125))
		Expect(frames.TotalFrames(8)).To(Equal(33))
	})
})

var _ = Describe("Window", func() {
	var solvent, analyte tlc.Entry

	BeforeEach(func() {
		solvent = ramp(125, 0, true)
		analyte = ramp(125, 1, false)
	})

	It("reveals the solvent from the start", func() {
		_, y := frames.Window(solvent, 40, frames.Trail)

		Expect(y).To(HaveLen(40))
		Expect(y[0]).To(Equal(0.0))
		Expect(y[39]).To(Equal(39.0))
	})

	It("reveals only the trailing points of an analyte", func() {
		x, y := frames.Window(analyte, 40, frames.Trail)

		Expect(y).To(HaveLen(10))
		Expect(x).To(HaveLen(10))
		Expect(y[0]).To(Equal(30.0))
		Expect(y[9]).To(Equal(39.0))
	})

	// Analytes are visible from frame 1; a trail reaching before the first
	// sample starts at 0 instead of hiding the spot for the first frames.
	It("clamps the analyte window at the first frames", func() {
		_, y := frames.Window(analyte, 3, frames.Trail)

		Expect(y).To(Equal([]float64{0, 1, 2}))
	})

	It("clamps frames past the end of the series", func() {
		short := ramp(12, 1, false)

		_, y := frames.Window(short, 30, frames.Trail)
		Expect(y).To(BeEmpty())

		_, y = frames.Window(short, 15, frames.Trail)
		Expect(y).To(Equal([]float64{5, 6, 7, 8, 9, 10, 11}))

		_, sy := frames.Window(ramp(12, 0, true), 30, frames.Trail)
		Expect(sy).To(HaveLen(12))
	})
})

var _ = Describe("Sequence", func() {
	It("yields every display frame with one point set per entry", func() {
		entries := []tlc.Entry{ramp(12, 0, true), ramp(12, 1, false), ramp(12, 2, false)}

		seq := frames.Sequence(entries, 10, frames.Trail)

		Expect(seq).To(HaveLen(35))
		Expect(seq[0].Index).To(Equal(1))
		Expect(seq[34].Index).To(Equal(35))
		for _, f := range seq {
			Expect(f.Points).To(HaveLen(3))
			Expect(f.Points[2].Index).To(Equal(2))
		}
		Expect(seq[0].Points[0].Y).To(Equal([]float64{0}))
	})
})
