// Package export renders a computed phase portrait to a standalone SVG
// document: phase plane on the left, population time evolution on the
// right. No raster output; the figure is built directly with
// strings.Builder.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"phaseplane/internal/portrait"
	"phaseplane/internal/solver"
)

const (
	panelW  = 640.0
	panelH  = 560.0
	margin  = 60.0
	gap     = 40.0
	figureW = 2*panelW + 3*margin + gap
	figureH = panelH + 2*margin

	colorBackground = "#ffffff"
	colorMask       = "#c8c8c8"
	colorStream     = "#303030"
	colorIsoX       = "#d62728" // dX/dt = 0
	colorIsoY       = "#2ca02c" // dY/dt = 0
	colorTrajectory = "#5571ff"
	colorEqTrivial  = "#ff5555"
	colorEqCoexist  = "#55caff"
	colorAxis       = "#000000"
	colorGridline   = "#dddddd"
)

// panel maps plane coordinates into one SVG viewport.
type panel struct {
	ox, oy        float64 // top-left corner of the plot area
	xmin, xmax    float64
	ymin, ymax    float64
	width, height float64
}

func (p panel) x(v float64) float64 {
	return p.ox + (v-p.xmin)/(p.xmax-p.xmin)*p.width
}

// y flips: SVG grows downward, the plot grows upward.
func (p panel) y(v float64) float64 {
	return p.oy + p.height - (v-p.ymin)/(p.ymax-p.ymin)*p.height
}

func (p panel) contains(x, y float64) bool {
	return x >= p.xmin && x <= p.xmax && y >= p.ymin && y <= p.ymax
}

// PortraitSVG renders the full two-panel figure.
func PortraitSVG(pr *portrait.Portrait) string {
	b := pr.Grid.Bounds

	left := panel{
		ox: margin, oy: margin,
		xmin: b.XMin, xmax: b.XMax,
		ymin: b.YMin, ymax: b.YMax,
		width: panelW, height: panelH,
	}

	tmax, ymaxPop := timeExtent(pr)
	right := panel{
		ox: 2*margin + panelW + gap, oy: margin,
		xmin: 0, xmax: tmax,
		ymin: 0, ymax: ymaxPop,
		width: panelW, height: panelH,
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, figureW, figureH, figureW, figureH, colorBackground))

	drawMask(&sb, left)
	drawFrame(&sb, left, "Prey population (X)", "Predator population (Y)")
	drawStreams(&sb, left, pr.Streams)
	drawIsoclines(&sb, left, pr.IsoclinesX, colorIsoX)
	drawIsoclines(&sb, left, pr.IsoclinesY, colorIsoY)
	drawTrajectories(&sb, left, pr)
	drawEquilibria(&sb, left, pr.Equilibria)

	drawFrame(&sb, right, "Time (t)", "Population size")
	drawTimeSeries(&sb, right, pr)

	drawLegend(&sb, left)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG renders and writes the figure in one shot.
func WriteSVG(path string, pr *portrait.Portrait) error {
	return os.WriteFile(path, []byte(PortraitSVG(pr)), 0644)
}

// drawMask shades the non-physical region (X <= 0 or Y <= 0).
func drawMask(sb *strings.Builder, p panel) {
	if p.xmin < 0 {
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.7"/>
`, p.x(p.xmin), p.oy, p.x(0)-p.x(p.xmin), p.height, colorMask))
	}
	if p.ymin < 0 {
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.7"/>
`, p.ox, p.y(0), p.width, p.y(p.ymin)-p.y(0), colorMask))
	}
}

func drawFrame(sb *strings.Builder, p panel, xlabel, ylabel string) {
	// Light gridlines at integer ticks.
	for v := math.Ceil(p.xmin); v <= p.xmax; v++ {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1" stroke-dasharray="2,4"/>
`, p.x(v), p.oy, p.x(v), p.oy+p.height, colorGridline))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="13" text-anchor="middle">%g</text>
`, p.x(v), p.oy+p.height+20, v))
	}
	for v := math.Ceil(p.ymin); v <= p.ymax; v++ {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1" stroke-dasharray="2,4"/>
`, p.ox, p.y(v), p.ox+p.width, p.y(v), colorGridline))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="13" text-anchor="end">%g</text>
`, p.ox-8, p.y(v)+4, v))
	}

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5"/>
`, p.ox, p.oy, p.width, p.height, colorAxis))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="16" text-anchor="middle">%s</text>
`, p.ox+p.width/2, p.oy+p.height+45, xlabel))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="16" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>
`, p.ox-40, p.oy+p.height/2, p.ox-40, p.oy+p.height/2, ylabel))
}

func drawStreams(sb *strings.Builder, p panel, streams []portrait.Polyline) {
	for _, line := range streams {
		if len(line) < 2 {
			continue
		}
		writePolyline(sb, p, line, colorStream, 1.0)
		drawArrowhead(sb, p, line)
	}
}

// drawArrowhead places a direction marker at the middle of a streamline.
func drawArrowhead(sb *strings.Builder, p panel, line portrait.Polyline) {
	mid := len(line) / 2
	if mid == 0 || mid >= len(line) {
		return
	}
	a, b := line[mid-1], line[mid]
	x1, y1 := p.x(a.X), p.y(a.Y)
	x2, y2 := p.x(b.X), p.y(b.Y)

	ang := math.Atan2(y2-y1, x2-x1)
	size := 6.0
	lx := x2 - size*math.Cos(ang-0.4)
	ly := y2 - size*math.Sin(ang-0.4)
	rx := x2 - size*math.Cos(ang+0.4)
	ry := y2 - size*math.Sin(ang+0.4)

	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f Z" fill="%s"/>
`, x2, y2, lx, ly, rx, ry, colorStream))
}

func drawIsoclines(sb *strings.Builder, p panel, segs []portrait.Segment, color string) {
	if len(segs) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="4" stroke-linecap="round">
`, color))
	for _, s := range segs {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, p.x(s.A.X), p.y(s.A.Y), p.x(s.B.X), p.y(s.B.Y)))
	}
	sb.WriteString("</g>\n")
}

func drawTrajectories(sb *strings.Builder, p panel, pr *portrait.Portrait) {
	for _, tr := range pr.Trajectories {
		line := make(portrait.Polyline, 0, tr.Len())
		for _, s := range tr.States {
			line = append(line, portrait.Point{X: s[0], Y: s[1]})
		}
		writePolyline(sb, p, line, colorTrajectory, 3.0)

		// Mark the initial condition.
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="%s" stroke="%s" stroke-width="2"/>
`, p.x(tr.Initial[0]), p.y(tr.Initial[1]), colorTrajectory, colorAxis))
	}
}

func drawEquilibria(sb *strings.Builder, p panel, eqs []solver.Equilibrium) {
	for _, eq := range eqs {
		color := colorEqCoexist
		if eq.Kind == solver.Trivial {
			color = colorEqTrivial
		}
		if !p.contains(eq.X, eq.Y) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="9" fill="%s" stroke="%s" stroke-width="2"/>
`, p.x(eq.X), p.y(eq.Y), color, colorAxis))
	}
}

var seriesColors = [2]string{colorIsoX, colorIsoY}

func drawTimeSeries(sb *strings.Builder, p panel, pr *portrait.Portrait) {
	for _, tr := range pr.Trajectories {
		for comp := 0; comp < 2; comp++ {
			line := make(portrait.Polyline, 0, tr.Len())
			for i, s := range tr.States {
				line = append(line, portrait.Point{X: tr.Times[i], Y: s[comp]})
			}
			writePolyline(sb, p, line, seriesColors[comp], 2.5)
		}
	}
}

// writePolyline emits a single SVG path, clipping nothing: callers ensure
// the data lies in the panel range.
func writePolyline(sb *strings.Builder, p panel, line portrait.Polyline, color string, width float64) {
	if len(line) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, color, width))
	for i, pt := range line {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.x(pt.X), p.y(pt.Y)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.x(pt.X), p.y(pt.Y)))
		}
	}
	sb.WriteString("\"/>\n")
}

func drawLegend(sb *strings.Builder, p panel) {
	entries := []struct {
		color, label string
	}{
		{colorIsoX, "dX/dt = 0"},
		{colorIsoY, "dY/dt = 0"},
		{colorEqTrivial, "trivial equilibrium"},
		{colorEqCoexist, "coexistence equilibrium"},
		{colorTrajectory, "trajectory"},
	}

	x := p.ox + p.width - 210
	y := p.oy + 16

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="200" height="%.1f" fill="white" stroke="%s" stroke-width="1"/>
`, x-10, y-12, float64(len(entries))*20+10, colorAxis))

	for i, e := range entries {
		yy := y + float64(i)*20
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="4"/>
`, x, yy, x+24, yy, e.color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="13">%s</text>
`, x+32, yy+4, e.label))
	}
}

// timeExtent finds the time-panel ranges: full time span and 1.1x the
// largest population reached.
func timeExtent(pr *portrait.Portrait) (tmax, ymax float64) {
	tmax, ymax = 1, 1
	for _, tr := range pr.Trajectories {
		if n := tr.Len(); n > 0 {
			tmax = math.Max(tmax, tr.Times[n-1])
		}
		for _, s := range tr.States {
			ymax = math.Max(ymax, math.Max(s[0], s[1]))
		}
	}
	return tmax, ymax * 1.1
}
