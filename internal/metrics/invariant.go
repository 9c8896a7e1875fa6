package metrics

import (
	"math"

	"phaseplane/internal/dynamo"
)

// InvariantDrift tracks the maximum relative drift of a system's conserved
// quantity along a trajectory. For Lotka-Volterra the quantity is
// H = beta·X − r2·ln X + alpha·Y − r1·ln Y, constant on every closed orbit,
// so drift measures pure integrator error.
type InvariantDrift struct {
	name     string
	sys      dynamo.Conserved
	initial  float64
	maxDrift float64
	samples  int
}

func NewInvariantDrift(sys dynamo.Conserved) *InvariantDrift {
	return &InvariantDrift{name: "invariant_drift", sys: sys}
}

func (d *InvariantDrift) Name() string { return d.name }

func (d *InvariantDrift) Observe(x dynamo.State, t float64) {
	h := d.sys.Invariant(x)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return
	}

	if d.samples == 0 {
		d.initial = h
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(h-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *InvariantDrift) Value() float64 {
	return d.maxDrift
}

func (d *InvariantDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// MeasureDrift runs the metric over a finished trajectory.
func MeasureDrift(sys dynamo.Conserved, traj *dynamo.Trajectory) float64 {
	m := NewInvariantDrift(sys)
	for i, s := range traj.States {
		m.Observe(s, traj.Times[i])
	}
	return m.Value()
}

// Positivity reports the fraction of trajectory samples with both
// populations strictly positive. 1.0 means the orbit never touched an axis.
type Positivity struct {
	name       string
	violations int
	samples    int
}

func NewPositivity() *Positivity {
	return &Positivity{name: "positivity"}
}

func (p *Positivity) Name() string { return p.name }

func (p *Positivity) Observe(x dynamo.State, t float64) {
	p.samples++
	for _, v := range x {
		if v <= 0 {
			p.violations++
			break
		}
	}
}

func (p *Positivity) Value() float64 {
	if p.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(p.violations)/float64(p.samples)
}

func (p *Positivity) Reset() {
	p.violations = 0
	p.samples = 0
}
