package solver

import (
	"math"

	"phaseplane/internal/dynamo"
)

const (
	defaultTol     = 1e-10
	defaultMaxIter = 100
	fdStep         = 1e-7
)

// Func2 is a planar vector function f(x, y) = (fx, fy).
type Func2 func(x, y float64) (fx, fy float64)

// Jac2 returns the row-major Jacobian of a Func2 at (x, y).
type Jac2 func(x, y float64) (j11, j12, j21, j22 float64)

// Newton solves f(x, y) = (0, 0) by Newton iteration on 2x2 systems.
type Newton struct {
	Tol     float64 // absolute residual tolerance
	MaxIter int
	Jac     Jac2 // optional; finite differences when nil
}

func NewNewton() *Newton {
	return &Newton{Tol: defaultTol, MaxIter: defaultMaxIter}
}

// Solve iterates from the given guess. On success it returns the root and
// the iteration count; otherwise a *dynamo.SolveError with the failing
// guess and final residual.
func (n *Newton) Solve(f Func2, x0, y0 float64) (x, y float64, iters int, err error) {
	tol := n.Tol
	if tol <= 0 {
		tol = defaultTol
	}
	maxIter := n.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}

	x, y = x0, y0
	fx, fy := f(x, y)

	for iters = 0; iters < maxIter; iters++ {
		res := math.Hypot(fx, fy)
		if res < tol {
			return x, y, iters, nil
		}
		if math.IsNaN(res) || math.IsInf(res, 0) {
			break
		}

		var j11, j12, j21, j22 float64
		if n.Jac != nil {
			j11, j12, j21, j22 = n.Jac(x, y)
		} else {
			j11, j12, j21, j22 = numericJacobian(f, x, y)
		}

		det := j11*j22 - j12*j21
		if math.Abs(det) < 1e-14 {
			break
		}

		// Newton update: (x, y) -= J^-1 · f
		dx := (j22*fx - j12*fy) / det
		dy := (j11*fy - j21*fx) / det
		x -= dx
		y -= dy

		fx, fy = f(x, y)
	}

	fx, fy = f(x, y)
	return x, y, iters, &dynamo.SolveError{
		Guess:      dynamo.State{x0, y0},
		Residual:   math.Hypot(fx, fy),
		Iterations: iters,
	}
}

func numericJacobian(f Func2, x, y float64) (j11, j12, j21, j22 float64) {
	hx := fdStep * math.Max(1, math.Abs(x))
	hy := fdStep * math.Max(1, math.Abs(y))

	fx0, fy0 := f(x, y)
	fx1, fy1 := f(x+hx, y)
	fx2, fy2 := f(x, y+hy)

	j11 = (fx1 - fx0) / hx
	j21 = (fy1 - fy0) / hx
	j12 = (fx2 - fx0) / hy
	j22 = (fy2 - fy0) / hy
	return
}
