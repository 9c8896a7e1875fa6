package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

func TestNewton_TrivialEquilibrium(t *testing.T) {
	m := model.New(model.Classic())
	n := NewNewton()
	n.Jac = m.Jacobian

	x, y, iters, err := n.Solve(m.Eval, 1e-8, 1e-8)
	require.NoError(t, err)

	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.Less(t, iters, 50)
}

func TestNewton_CoexistenceEquilibrium(t *testing.T) {
	p := model.Params{R1: 1.0, R2: 1.0, Alpha: 0.5, Beta: 0.5}
	m := model.New(p)
	n := NewNewton()
	n.Jac = m.Jacobian

	x, y, _, err := n.Solve(m.Eval, 2.0, 2.0)
	require.NoError(t, err)

	assert.InDelta(t, p.R2/p.Beta, x, 1e-6)
	assert.InDelta(t, p.R1/p.Alpha, y, 1e-6)
}

func TestNewton_FiniteDifferenceFallback(t *testing.T) {
	m := model.New(model.Params{R1: 0.8, R2: 1.2, Alpha: 0.3, Beta: 0.6})
	n := NewNewton() // no Jacobian set

	x, y, _, err := n.Solve(m.Eval, 1.5, 2.5)
	require.NoError(t, err)

	assert.InDelta(t, 1.2/0.6, x, 1e-6)
	assert.InDelta(t, 0.8/0.3, y, 1e-6)
}

func TestNewton_NoConvergence(t *testing.T) {
	// f has no root; the iteration must give up and report the guess.
	f := func(x, y float64) (float64, float64) { return x*x + 1, y*y + 1 }

	n := NewNewton()
	n.MaxIter = 20
	_, _, _, err := n.Solve(f, 3, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynamo.ErrNoConvergence))

	var se *dynamo.SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, dynamo.State{3, 3}, se.Guess)
	assert.Greater(t, se.Residual, 0.0)
}

func TestFindEquilibria_Defaults(t *testing.T) {
	m := model.New(model.Classic())

	eqs, err := FindEquilibria(m, nil)
	require.NoError(t, err)
	require.Len(t, eqs, 2)

	assert.Equal(t, Trivial, eqs[0].Kind)
	assert.Equal(t, Coexistence, eqs[1].Kind)
	assert.InDelta(t, 2.0, eqs[1].X, 1e-6)
	assert.InDelta(t, 2.0, eqs[1].Y, 1e-6)
}

func TestFindEquilibria_CustomGuessList(t *testing.T) {
	p := model.Params{R1: 2.0, R2: 0.5, Alpha: 0.25, Beta: 0.1}
	m := model.New(p)

	guesses := []dynamo.State{{1e-8, 1e-8}, {p.R2/p.Beta + 0.5, p.R1/p.Alpha - 0.5}}
	eqs, err := FindEquilibria(m, guesses)
	require.NoError(t, err)
	require.Len(t, eqs, 2)

	assert.Equal(t, Coexistence, eqs[1].Kind)
	assert.InDelta(t, 5.0, eqs[1].X, 1e-6)
	assert.InDelta(t, 8.0, eqs[1].Y, 1e-6)
}

func TestClassify_Other(t *testing.T) {
	m := model.New(model.Classic())
	assert.Equal(t, Other, classify(m, 10, 10))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "trivial", Trivial.String())
	assert.Equal(t, "coexistence", Coexistence.String())
	assert.Equal(t, "other", Other.String())
}

func TestNewton_ResidualActuallySmall(t *testing.T) {
	m := model.New(model.Params{R1: 1.7, R2: 0.9, Alpha: 0.45, Beta: 0.35})
	n := NewNewton()
	n.Jac = m.Jacobian

	x, y, _, err := n.Solve(m.Eval, 2, 2)
	require.NoError(t, err)

	fx, fy := m.Eval(x, y)
	assert.Less(t, math.Hypot(fx, fy), 1e-9)
}
