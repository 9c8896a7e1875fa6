package grid

import (
	"fmt"
	"math"
)

// Bounds delimits the sampled region of the population plane.
type Bounds struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax"`
}

func (b Bounds) Validate() error {
	if b.XMax <= b.XMin || b.YMax <= b.YMin {
		return fmt.Errorf("degenerate bounds: [%g, %g] x [%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax)
	}
	return nil
}

// Arange samples [min, max] at the given step. A half-step margin on the
// stop value guarantees the upper bound is included even when max−min is
// not an exact multiple of step.
func Arange(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	stop := max + step/2
	n := int(math.Ceil((stop - min) / step))
	out := make([]float64, 0, n)
	for v := min; v < stop; v += step {
		out = append(out, v)
	}
	return out
}

// Grid is a regular rectangular sampling of the plane. Immutable once
// constructed.
type Grid struct {
	Xs, Ys []float64
	Step   float64
	Bounds Bounds
}

func New(b Bounds, step float64) (*Grid, error) {
	if step <= 0 {
		return nil, fmt.Errorf("grid step must be positive, got %g", step)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		Xs:     Arange(b.XMin, b.XMax, step),
		Ys:     Arange(b.YMin, b.YMax, step),
		Step:   step,
		Bounds: b,
	}, nil
}

func (g *Grid) Cols() int { return len(g.Xs) }
func (g *Grid) Rows() int { return len(g.Ys) }

// Field holds per-node derivative components over a grid, indexed
// [row][col] with rows following Ys and cols following Xs.
type Field struct {
	U, V [][]float64
}

// SampleField evaluates f at every grid node.
func (g *Grid) SampleField(f func(x, y float64) (dx, dy float64)) *Field {
	u := make([][]float64, g.Rows())
	v := make([][]float64, g.Rows())
	for r, y := range g.Ys {
		u[r] = make([]float64, g.Cols())
		v[r] = make([]float64, g.Cols())
		for c, x := range g.Xs {
			u[r][c], v[r][c] = f(x, y)
		}
	}
	return &Field{U: u, V: v}
}
