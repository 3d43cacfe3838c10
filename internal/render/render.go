// Package render draws simulated migration series as an animated GIF of a
// TLC plate.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/tlc"
)

const (
	// TickCount is the number of lane labels the plate carries: the
	// solvent plus five analyte slots.
	TickCount = 6

	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultDelay    = 4
	DefaultDotWidth = 5.0
	DefaultTitle    = "Thin Layer Chromatography Simulation"

	xAxisName = "Compounds"
	yAxisName = "Distance"
)

// DefaultTicks labels the lanes until SetTicks is called.
var DefaultTicks = []string{"solvent", "comp1", "comp2", "comp3", "comp4", "comp5"}

type Renderer struct {
	width, height int
	delay         int
	trail         int
	dotWidth      float64
	title         string
	ticks         []string
}

type Option func(*Renderer)

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithDelay sets the per-frame delay in hundredths of a second.
func WithDelay(delay int) Option {
	return func(r *Renderer) {
		if delay >= 0 {
			r.delay = delay
		}
	}
}

func WithTrail(trail int) Option {
	return func(r *Renderer) {
		if trail > 0 {
			r.trail = trail
		}
	}
}

func WithDotWidth(w float64) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.dotWidth = w
		}
	}
}

func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:    DefaultWidth,
		height:   DefaultHeight,
		delay:    DefaultDelay,
		trail:    frames.Trail,
		dotWidth: DefaultDotWidth,
		title:    DefaultTitle,
		ticks:    append([]string(nil), DefaultTicks...),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTicks replaces the lane labels. Exactly TickCount labels are required,
// the solvent included.
func (r *Renderer) SetTicks(labels []string) error {
	if len(labels) != TickCount {
		return tlc.Invalid("render.SetTicks", "labels", len(labels),
			fmt.Sprintf("exactly %d x-ticks required, solvent inclusive", TickCount))
	}
	r.ticks = append([]string(nil), labels...)
	return nil
}

func (r *Renderer) Ticks() []string {
	return append([]string(nil), r.ticks...)
}

// Frame draws display frame (1-based) of a run.
func (r *Renderer) Frame(entries []tlc.Entry, frameCount, frame int) (image.Image, error) {
	if err := validate(entries, frameCount); err != nil {
		return nil, err
	}

	axes := frames.Extents(len(entries), frameCount)
	ch := chart.Chart{
		Title:  r.title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  xAxisName,
			Range: &chart.ContinuousRange{Min: axes.X.Min, Max: axes.X.Max},
			Ticks: r.xTicks(axes.X),
		},
		YAxis: chart.YAxis{
			Name:  yAxisName,
			Range: &chart.ContinuousRange{Min: axes.Y.Min, Max: axes.Y.Max},
		},
		Series: r.series(entries, frame, axes),
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render frame %d: %w", frame, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", frame, err)
	}
	return img, nil
}

// series returns one dot series per non-empty window. A hidden anchor
// spanning the plate comes first so go-chart always has a valid series,
// even on frames where nothing is visible yet.
func (r *Renderer) series(entries []tlc.Entry, frame int, axes frames.Axes) []chart.Series {
	out := []chart.Series{
		chart.ContinuousSeries{
			Name:    "plate",
			Style:   chart.Style{Hidden: true},
			XValues: []float64{axes.X.Min, axes.X.Max},
			YValues: []float64{axes.Y.Min, axes.Y.Max},
		},
	}
	for _, p := range frames.At(entries, frame, r.trail).Points {
		if p.Empty() {
			continue
		}
		out = append(out, chart.ContinuousSeries{
			Name: p.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    r.dotWidth,
				DotColor:    Color(p.Index),
			},
			XValues: p.X,
			YValues: p.Y,
		})
	}
	return out
}

// xTicks places the labels on lanes 0..5, dropping lanes the plate does
// not reach.
func (r *Renderer) xTicks(x frames.Range) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(r.ticks))
	for i, label := range r.ticks {
		v := float64(i)
		if v > x.Max {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: label})
	}
	return ticks
}

// Render encodes every display frame of a run as a looping GIF.
func (r *Renderer) Render(ctx context.Context, entries []tlc.Entry, frameCount int) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(ctx, &buf, entries, frameCount); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) RenderTo(ctx context.Context, w io.Writer, entries []tlc.Entry, frameCount int) error {
	if err := validate(entries, frameCount); err != nil {
		return err
	}

	total := frames.TotalFrames(frameCount)
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, total),
		Delay:     make([]int, 0, total),
		LoopCount: 0,
	}

	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		img, err := r.Frame(entries, frameCount, i)
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, toPaletted(img))
		anim.Delay = append(anim.Delay, r.delay)
	}

	return gif.EncodeAll(w, anim)
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, gifPalette)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}

func validate(entries []tlc.Entry, frameCount int) error {
	if len(entries) == 0 {
		return tlc.Invalid("render", "", nil, "no compound")
	}
	if frameCount <= 0 {
		return tlc.Invalid("render", "frame count", frameCount, "must be positive")
	}
	return nil
}
