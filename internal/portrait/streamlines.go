package portrait

import (
	"math"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/grid"
	"phaseplane/internal/integrators"
	"phaseplane/internal/model"
)

// Polyline is an ordered curve in the population plane, oriented along the
// flow.
type Polyline []Point

// normalized wraps the model so every step advances a fixed arc length:
// streamlines show direction, not speed.
type normalized struct {
	m *model.LotkaVolterra
}

func (n normalized) StateDim() int { return 2 }

func (n normalized) Derive(s dynamo.State, _ float64) dynamo.State {
	dx, dy := n.m.Eval(s[0], s[1])
	mag := math.Hypot(dx, dy)
	if mag < 1e-12 {
		return dynamo.State{0, 0}
	}
	return dynamo.State{dx / mag, dy / mag}
}

// Streamlines traces field-tangent curves from a coarse lattice of seed
// points, integrating the normalized field forward and backward until the
// curve leaves the bounds, stalls at an equilibrium, or runs out of steps.
func Streamlines(m *model.LotkaVolterra, b grid.Bounds, density int) []Polyline {
	if density <= 0 {
		density = 6
	}

	sys := normalized{m: m}
	integ := integrators.NewRK4()
	step := math.Min(b.XMax-b.XMin, b.YMax-b.YMin) / 200
	maxSteps := 400

	dxSeed := (b.XMax - b.XMin) / float64(density+1)
	dySeed := (b.YMax - b.YMin) / float64(density+1)

	var lines []Polyline
	for i := 1; i <= density; i++ {
		for j := 1; j <= density; j++ {
			seed := Point{b.XMin + float64(i)*dxSeed, b.YMin + float64(j)*dySeed}

			back := trace(sys, integ, seed, -step, maxSteps, b)
			fwd := trace(sys, integ, seed, step, maxSteps, b)

			// Join: backward half reversed, then forward half.
			line := make(Polyline, 0, len(back)+len(fwd)+1)
			for k := len(back) - 1; k >= 0; k-- {
				line = append(line, back[k])
			}
			line = append(line, seed)
			line = append(line, fwd...)

			if len(line) >= 2 {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func trace(sys dynamo.System, integ dynamo.Integrator, from Point, step float64, maxSteps int, b grid.Bounds) []Point {
	x := dynamo.State{from.X, from.Y}
	pts := make([]Point, 0, maxSteps)

	for i := 0; i < maxSteps; i++ {
		next := integ.Step(sys, x, 0, step)
		if !next.IsValid() {
			break
		}
		if next[0] < b.XMin || next[0] > b.XMax || next[1] < b.YMin || next[1] > b.YMax {
			break
		}
		// Stalled at a fixed point.
		if math.Hypot(next[0]-x[0], next[1]-x[1]) < math.Abs(step)*1e-3 {
			break
		}
		x = next
		pts = append(pts, Point{x[0], x[1]})
	}
	return pts
}
