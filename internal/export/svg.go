package export

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/tlc"
)

const plotMargin = 40

func hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// PlateSVG draws display frame of entries as an SVG plate: one labelled
// lane per tick and the visible points of every entry. labels defaults to
// render.DefaultTicks when nil.
func PlateSVG(entries []tlc.Entry, frameCount, frame int, labels []string, width, height int) string {
	if len(entries) == 0 || frameCount <= 0 || width <= 2*plotMargin || height <= 2*plotMargin {
		return ""
	}
	if labels == nil {
		labels = render.DefaultTicks
	}

	axes := frames.Extents(len(entries), frameCount)
	plotW := float64(width - 2*plotMargin)
	plotH := float64(height - 2*plotMargin)
	px := func(x float64) float64 {
		return plotMargin + (x-axes.X.Min)/axes.X.Span()*plotW
	}
	py := func(y float64) float64 {
		return float64(height-plotMargin) - (y-axes.Y.Min)/axes.Y.Span()*plotH
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%d" y="%d" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>
`, width, height, width, height, width/2, plotMargin/2, render.DefaultTitle))

	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%.0f" height="%.0f" fill="none" stroke="#000000"/>
`, plotMargin, plotMargin, plotW, plotH))

	// lane ticks
	for i, label := range labels {
		x := float64(i)
		if x > axes.X.Max {
			break
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-family="sans-serif" font-size="10" text-anchor="middle">%s</text>
`, px(x), height-plotMargin/2, escape(label)))
	}

	f := frames.At(entries, frame, frames.Trail)
	for _, p := range f.Points {
		if p.Empty() {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, hex(render.Color(p.Index))))
		for i := range p.Y {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"/>
`, px(p.X[i]), py(p.Y[i])))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG plots the y of one entry against frame index.
func TrajectorySVG(e tlc.Entry, width, height int, strokeColor string) string {
	points := e.Series.Y
	if len(points) < 2 {
		return ""
	}

	minY, maxY := points[0], points[0]
	for _, y := range points {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	rangeX := float64(len(points) - 1)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, y := range points {
		sx := float64(i) / rangeX * float64(width)
		sy := float64(height) - (y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", sx, sy))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", sx, sy))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return svgEscaper.Replace(s)
}
