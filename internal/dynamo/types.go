package dynamo

import "math"

// State is the system state vector. For the predator–prey plane it is
// [prey, predator].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an autonomous ODE system dX/dt = f(X).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Conserved is implemented by systems with a first integral, used to
// measure integration drift.
type Conserved interface {
	Invariant(x State) float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator refines its own step size against a local error
// tolerance and reports the step it would take next.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Metric accumulates a scalar observation over a trajectory.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Trajectory is a time series of states sampled on a uniform output grid.
// Read-only after construction.
type Trajectory struct {
	Times   []float64
	States  []State
	Initial State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Component extracts one state component as a flat series, for plotting.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}
