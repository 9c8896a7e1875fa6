package integrators

import (
	"testing"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK45_Solve_LotkaVolterra(b *testing.B) {
	m := model.New(model.Classic())
	integ := NewRK45()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := integ.Solve(m, dynamo.State{1, 1}, 25.0, 0.01, 1e-9); err != nil {
			b.Fatal(err)
		}
	}
}
