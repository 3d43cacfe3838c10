package render_test

import (
	"bytes"
	"context"
	"image/gif"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/sim"
	"github.com/san-kum/chromasim/internal/tlc"
)

func plate(frameCount int) []tlc.Entry {
	compounds := []compound.Compound{
		compound.Solvent(),
		compound.Analyte("caffeine", 1, 0.8),
		compound.Analyte("aspirin", 2, 0.4),
	}
	entries, err := sim.New(rand.New(rand.NewSource(11))).Run(context.Background(), compounds, frameCount)
	Expect(err).NotTo(HaveOccurred())
	return entries
}

var _ = Describe("SetTicks", func() {
	var r *render.Renderer

	BeforeEach(func() {
		r = render.New()
	})

	It("starts with the default labels", func() {
		Expect(r.Ticks()).To(Equal(render.DefaultTicks))
	})

	It("accepts exactly six labels", func() {
		labels := []string{"solvent", "a", "b", "c", "d", "e"}
		Expect(r.SetTicks(labels)).To(Succeed())
		Expect(r.Ticks()).To(Equal(labels))

		labels[1] = "changed"
		Expect(r.Ticks()[1]).To(Equal("a"))
	})

	DescribeTable("rejects any other count",
		func(labels []string) {
			err := r.SetTicks(labels)
			Expect(err).To(MatchError(tlc.ErrInvalidArgument))
			Expect(r.Ticks()).To(Equal(render.DefaultTicks))
		},
		Entry("nil", []string(nil)),
		Entry("five", []string{"solvent", "a", "b", "c", "d"}),
		Entry("seven", []string{"solvent", "a", "b", "c", "d", "e", "f"}),
	)
})

var _ = Describe("Palette", func() {
	It("has at least six distinguishable colors", func() {
		Expect(len(render.Palette)).To(BeNumerically(">=", 6))
		seen := map[uint32]bool{}
		for _, c := range render.Palette {
			seen[uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B)] = true
		}
		Expect(seen).To(HaveLen(len(render.Palette)))
	})

	It("cycles for extra entries", func() {
		n := len(render.Palette)
		Expect(render.Color(n)).To(Equal(render.Color(0)))
		Expect(render.Color(n + 2)).To(Equal(render.Color(2)))
	})
})

var _ = Describe("Renderer", func() {
	var r *render.Renderer

	BeforeEach(func() {
		r = render.New(render.WithSize(320, 240), render.WithDelay(2))
	})

	It("draws a frame at the configured size", func() {
		img, err := r.Frame(plate(8), 8, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(320))
		Expect(img.Bounds().Dy()).To(Equal(240))
	})

	It("draws the first frame before any analyte has moved", func() {
		_, err := r.Frame(plate(8), 8, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("encodes every display frame into a looping gif", func() {
		data, err := r.Render(context.Background(), plate(4), 4)
		Expect(err).NotTo(HaveOccurred())

		anim, err := gif.DecodeAll(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Image).To(HaveLen(4 + 25))
		Expect(anim.Delay).To(HaveEach(2))
		Expect(anim.LoopCount).To(Equal(0))
	})

	It("rejects an empty run", func() {
		_, err := r.Render(context.Background(), nil, 10)
		Expect(err).To(MatchError(tlc.ErrInvalidArgument))

		_, err = r.Frame(plate(4), 0, 1)
		Expect(err).To(MatchError(tlc.ErrInvalidArgument))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Render(ctx, plate(4), 4)
		Expect(err).To(MatchError(context.Canceled))
	})
})
