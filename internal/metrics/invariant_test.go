package metrics

import (
	"testing"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

func TestInvariantDrift_ZeroOnConstantH(t *testing.T) {
	m := model.New(model.Classic())
	d := NewInvariantDrift(m)

	// Same point observed repeatedly: H identical, drift stays zero.
	for i := 0; i < 10; i++ {
		d.Observe(dynamo.State{2, 2}, float64(i))
	}
	if d.Value() != 0 {
		t.Errorf("expected zero drift, got %e", d.Value())
	}
}

func TestInvariantDrift_DetectsDrift(t *testing.T) {
	m := model.New(model.Classic())
	d := NewInvariantDrift(m)

	d.Observe(dynamo.State{2, 2}, 0)
	d.Observe(dynamo.State{3, 3}, 1) // different orbit, different H

	if d.Value() <= 0 {
		t.Error("expected positive drift for points on different orbits")
	}
}

func TestInvariantDrift_IgnoresNonPhysicalSamples(t *testing.T) {
	m := model.New(model.Classic())
	d := NewInvariantDrift(m)

	d.Observe(dynamo.State{2, 2}, 0)
	d.Observe(dynamo.State{-1, 2}, 1) // H undefined, must be skipped
	if d.Value() != 0 {
		t.Errorf("NaN sample contaminated the drift: %e", d.Value())
	}
}

func TestInvariantDrift_Reset(t *testing.T) {
	m := model.New(model.Classic())
	d := NewInvariantDrift(m)
	d.Observe(dynamo.State{2, 2}, 0)
	d.Observe(dynamo.State{3, 3}, 1)
	d.Reset()
	if d.Value() != 0 {
		t.Error("Reset did not clear drift")
	}
}

func TestPositivity(t *testing.T) {
	p := NewPositivity()
	p.Observe(dynamo.State{1, 1}, 0)
	p.Observe(dynamo.State{0, 1}, 1)
	p.Observe(dynamo.State{2, 3}, 2)
	p.Observe(dynamo.State{1, -1}, 3)

	if got := p.Value(); got != 0.5 {
		t.Errorf("positivity = %v, want 0.5", got)
	}

	p.Reset()
	if p.Value() != 1.0 {
		t.Error("Reset should restore the empty value 1.0")
	}
}

func TestMeasureDrift_Trajectory(t *testing.T) {
	m := model.New(model.Classic())
	traj := &dynamo.Trajectory{
		Times:  []float64{0, 1},
		States: []dynamo.State{{2, 2}, {2, 2}},
	}
	if got := MeasureDrift(m, traj); got != 0 {
		t.Errorf("drift on constant trajectory = %e, want 0", got)
	}
}
