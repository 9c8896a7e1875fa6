package solver

import (
	"math"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

// Kind classifies a located fixed point.
type Kind int

const (
	// Trivial is the extinction equilibrium (0, 0).
	Trivial Kind = iota
	// Coexistence is the interior equilibrium (r2/beta, r1/alpha).
	Coexistence
	// Other is a root not matching either theoretical point.
	Other
)

func (k Kind) String() string {
	switch k {
	case Trivial:
		return "trivial"
	case Coexistence:
		return "coexistence"
	default:
		return "other"
	}
}

// Equilibrium is a numerically located fixed point of the vector field.
type Equilibrium struct {
	X, Y       float64
	Kind       Kind
	Guess      dynamo.State
	Iterations int
}

func (e Equilibrium) State() dynamo.State { return dynamo.State{e.X, e.Y} }

// DefaultGuesses returns the canonical starting points: just off the origin
// for the trivial equilibrium and (2, 2) for the interior one.
func DefaultGuesses() []dynamo.State {
	return []dynamo.State{{1e-8, 1e-8}, {2.0, 2.0}}
}

// FindEquilibria runs a Newton solve from every guess, using the model's
// analytic Jacobian. The first non-converging guess aborts the search: the
// renderer needs every point, so a partial answer is useless.
func FindEquilibria(m *model.LotkaVolterra, guesses []dynamo.State) ([]Equilibrium, error) {
	if len(guesses) == 0 {
		guesses = DefaultGuesses()
	}

	n := NewNewton()
	n.Jac = m.Jacobian

	out := make([]Equilibrium, 0, len(guesses))
	for _, g := range guesses {
		x, y, iters, err := n.Solve(m.Eval, g[0], g[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Equilibrium{
			X: x, Y: y,
			Kind:       classify(m, x, y),
			Guess:      g.Clone(),
			Iterations: iters,
		})
	}
	return out, nil
}

// classify matches a root against the theoretical points within a loose
// absolute tolerance; roots of neither family are reported as Other.
func classify(m *model.LotkaVolterra, x, y float64) Kind {
	trivial, coex := m.Equilibria()
	if near(x, y, trivial) {
		return Trivial
	}
	if near(x, y, coex) {
		return Coexistence
	}
	return Other
}

func near(x, y float64, p dynamo.State) bool {
	const tol = 1e-6
	return math.Abs(x-p[0]) < tol && math.Abs(y-p[1]) < tol
}
