package model

import (
	"fmt"
	"math"

	"phaseplane/internal/dynamo"
)

// Params holds the Lotka–Volterra model coefficients.
//
//	R1    prey intrinsic growth rate
//	R2    predator intrinsic death rate
//	Alpha predation rate
//	Beta  prey-to-predator biomass conversion rate
type Params struct {
	R1    float64 `yaml:"r1"`
	R2    float64 `yaml:"r2"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// Validate rejects non-positive coefficients. Called once before any
// computation so the pipeline fails fast.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if !(v > 0) {
			return fmt.Errorf("%w: %s = %g, must be strictly positive", dynamo.ErrInvalidParams, name, v)
		}
		return nil
	}
	if err := check("r1", p.R1); err != nil {
		return err
	}
	if err := check("r2", p.R2); err != nil {
		return err
	}
	if err := check("alpha", p.Alpha); err != nil {
		return err
	}
	return check("beta", p.Beta)
}

// LotkaVolterra is the two-species predator–prey system
//
//	dX/dt = r1·X − alpha·X·Y
//	dY/dt = beta·X·Y − r2·Y
//
// where X is the prey population and Y the predator population.
type LotkaVolterra struct {
	p Params
}

func New(p Params) *LotkaVolterra { return &LotkaVolterra{p: p} }

// Classic returns the parameter set of the reference portrait.
func Classic() Params { return Params{R1: 1.0, R2: 1.0, Alpha: 0.5, Beta: 0.5} }

func (m *LotkaVolterra) Params() Params { return m.p }
func (m *LotkaVolterra) StateDim() int  { return 2 }

// Eval computes the derivative pair at a single point. NaN and Inf inputs
// propagate unmodified.
func (m *LotkaVolterra) Eval(x, y float64) (dx, dy float64) {
	dx = m.p.R1*x - m.p.Alpha*x*y
	dy = m.p.Beta*x*y - m.p.R2*y
	return dx, dy
}

// Derive implements dynamo.System. The system is autonomous; t is unused.
func (m *LotkaVolterra) Derive(s dynamo.State, _ float64) dynamo.State {
	dx, dy := m.Eval(s[0], s[1])
	return dynamo.State{dx, dy}
}

// Jacobian returns the partial derivatives of the field at (x, y), row-major:
//
//	[ r1 − alpha·y   −alpha·x ]
//	[ beta·y          beta·x − r2 ]
func (m *LotkaVolterra) Jacobian(x, y float64) (j11, j12, j21, j22 float64) {
	j11 = m.p.R1 - m.p.Alpha*y
	j12 = -m.p.Alpha * x
	j21 = m.p.Beta * y
	j22 = m.p.Beta*x - m.p.R2
	return
}

// Equilibria returns the theoretical fixed points: the trivial extinction
// state (0, 0) and the coexistence state (r2/beta, r1/alpha).
func (m *LotkaVolterra) Equilibria() (trivial, coexistence dynamo.State) {
	return dynamo.State{0, 0}, dynamo.State{m.p.R2 / m.p.Beta, m.p.R1 / m.p.Alpha}
}

// Invariant computes the conserved quantity
//
//	H(X, Y) = beta·X − r2·ln X + alpha·Y − r1·ln Y
//
// constant along every closed orbit in the open positive quadrant. Outside
// the quadrant the logarithms are undefined and NaN is returned.
func (m *LotkaVolterra) Invariant(s dynamo.State) float64 {
	x, y := s[0], s[1]
	return m.p.Beta*x - m.p.R2*math.Log(x) + m.p.Alpha*y - m.p.R1*math.Log(y)
}

// Period returns the small-oscillation period 2π/sqrt(r1·r2) around the
// coexistence point, a useful default time horizon.
func (m *LotkaVolterra) Period() float64 {
	return 2 * math.Pi / math.Sqrt(m.p.R1*m.p.R2)
}
