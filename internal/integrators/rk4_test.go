package integrators

import (
	"math"
	"testing"

	"phaseplane/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4_ScratchReuseAcrossDims(t *testing.T) {
	integ := NewRK4()
	sys := &harmonicOscillator{}

	a := integ.Step(sys, dynamo.State{1, 0}, 0, 0.01)
	b := integ.Step(sys, dynamo.State{1, 0}, 0, 0.01)

	if a[0] != b[0] || a[1] != b[1] {
		t.Error("RK4 step is not deterministic across scratch reuse")
	}
}
