package viz

import (
	"fmt"
	"strings"

	"phaseplane/internal/portrait"
	"phaseplane/internal/solver"
)

// RenderPortrait draws the phase plane as braille art: streamlines as faint
// curves, isoclines as dense lines, trajectories on top, and equilibria as
// marker cells.
func RenderPortrait(pr *portrait.Portrait, width, height int) string {
	if width <= 0 {
		width = 78
	}
	if height <= 0 {
		height = 24
	}

	b := pr.Grid.Bounds
	c := NewCanvas(width, height, b.XMin, b.XMax, b.YMin, b.YMax)

	for _, line := range pr.Streams {
		for i := 1; i < len(line); i += 2 {
			c.Plot(line[i].X, line[i].Y)
		}
	}

	for _, s := range pr.IsoclinesX {
		c.PlotLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	for _, s := range pr.IsoclinesY {
		c.PlotLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
	}

	for _, tr := range pr.Trajectories {
		for i := 1; i < tr.Len(); i++ {
			c.PlotLine(tr.States[i-1][0], tr.States[i-1][1], tr.States[i][0], tr.States[i][1])
		}
	}

	for _, eq := range pr.Equilibria {
		marker := '●'
		if eq.Kind == solver.Trivial {
			marker = '○'
		}
		c.Mark(eq.X, eq.Y, marker)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("phase plane  x:[%g, %g]  y:[%g, %g]\n", b.XMin, b.XMax, b.YMin, b.YMax))
	sb.WriteString(c.String())
	sb.WriteString("○ trivial equilibrium   ● coexistence equilibrium\n")
	return sb.String()
}
