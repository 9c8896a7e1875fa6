package integrators

import (
	"math"
	"testing"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_Solve_HarmonicOscillator(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}

	traj, err := integ.Solve(sys, dynamo.State{1, 0}, 10.0, 0.01, 1e-10)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for i, tv := range traj.Times {
		want := math.Cos(tv)
		if math.Abs(traj.States[i][0]-want) > 1e-6 {
			t.Fatalf("t=%.2f: x=%.8f, want %.8f", tv, traj.States[i][0], want)
		}
	}
}

func TestRK45_Solve_UniformOutputGrid(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}

	traj, err := integ.Solve(sys, dynamo.State{1, 0}, 25.0, 0.01, 0)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	want := int(math.Floor(25.0/0.01)) + 1
	if d := len(traj.Times) - want; d < -1 || d > 1 {
		t.Errorf("output grid length %d, want %d", len(traj.Times), want)
	}
	if last := traj.Times[len(traj.Times)-1]; last < 25.0-0.01 {
		t.Errorf("output grid stops at %.4f, must cover tmax", last)
	}
	if len(traj.Times) != len(traj.States) {
		t.Errorf("times/states length mismatch: %d vs %d", len(traj.Times), len(traj.States))
	}
}

func TestRK45_Solve_StationaryPoint(t *testing.T) {
	// (1,1) is the coexistence equilibrium for unit parameters, so the
	// trajectory must never leave it.
	m := model.New(model.Params{R1: 1, R2: 1, Alpha: 1, Beta: 1})
	integ := NewRK45()

	traj, err := integ.Solve(m, dynamo.State{1, 1}, 25.0, 0.01, 1e-9)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for i := range traj.States {
		if math.Abs(traj.States[i][0]-1) > 1e-7 || math.Abs(traj.States[i][1]-1) > 1e-7 {
			t.Fatalf("left equilibrium at t=%.2f: (%.10f, %.10f)",
				traj.Times[i], traj.States[i][0], traj.States[i][1])
		}
	}
}

func TestRK45_Solve_ClosedOrbit(t *testing.T) {
	// Reference orbit: (1,1) with r1=r2=1, alpha=beta=0.5 circles the
	// coexistence point (2,2). The orbit is closed; the invariant H must
	// hold along it and both populations stay strictly positive.
	p := model.Params{R1: 1, R2: 1, Alpha: 0.5, Beta: 0.5}
	m := model.New(p)
	integ := NewRK45()

	x0 := dynamo.State{1, 1}
	traj, err := integ.Solve(m, x0, 25.0, 0.01, 1e-10)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	h0 := m.Invariant(x0)
	maxDrift := 0.0
	for i, s := range traj.States {
		if s[0] <= 0 || s[1] <= 0 {
			t.Fatalf("population went non-positive at t=%.2f: (%g, %g)", traj.Times[i], s[0], s[1])
		}
		drift := math.Abs(m.Invariant(s)-h0) / math.Abs(h0)
		maxDrift = math.Max(maxDrift, drift)
	}
	if maxDrift > 1e-6 {
		t.Errorf("invariant drift too high: %e", maxDrift)
	}

	// Periodicity: the orbit must return near its start. Scan for the
	// closest revisit after leaving the neighbourhood of x0. Samples are
	// ~7e-3 apart along the orbit, so the revisit can miss by that much.
	best := math.Inf(1)
	for i, s := range traj.States {
		if traj.Times[i] < 1.0 {
			continue
		}
		d := math.Hypot(s[0]-x0[0], s[1]-x0[1])
		best = math.Min(best, d)
	}
	if best > 1e-2 {
		t.Errorf("orbit never returned near initial state, closest approach %e", best)
	}
}

func TestRK45_Solve_BadSpan(t *testing.T) {
	integ := NewRK45()
	if _, err := integ.Solve(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.01, 0); err == nil {
		t.Error("expected error for zero time span")
	}
	if _, err := integ.Solve(&harmonicOscillator{}, dynamo.State{1, 0}, 1, 0, 0); err == nil {
		t.Error("expected error for zero output step")
	}
}

type blowup struct{}

func (blowup) StateDim() int { return 2 }
func (blowup) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[0] * x[0] * 1e3, x[1] * x[1] * 1e3}
}

func TestRK45_Solve_DivergenceIsFatal(t *testing.T) {
	integ := NewRK45()
	_, err := integ.Solve(blowup{}, dynamo.State{1, 1}, 10.0, 0.01, 1e-9)
	if err == nil {
		t.Error("expected integration failure for diverging system")
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integ := NewRK45()
	x, dtNext, err := integ.StepAdaptive(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.1, 1e-8)
	if err != nil {
		t.Errorf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if dtNext <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", dtNext)
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := sys.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	drift := math.Abs(sys.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}
