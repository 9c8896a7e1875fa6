// Package portrait orchestrates the phase-portrait pipeline: grid build,
// field evaluation, isocline extraction, equilibrium solves, and trajectory
// integration. It is the single entry point the CLI and renderers consume.
package portrait

import (
	"math/rand"
	"sync"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/grid"
	"phaseplane/internal/integrators"
	"phaseplane/internal/metrics"
	"phaseplane/internal/model"
	"phaseplane/internal/solver"
)

// Options configures one pipeline run.
type Options struct {
	Bounds grid.Bounds
	Step   float64

	// Guesses seeds the equilibrium search; nil uses the canonical pair.
	Guesses []dynamo.State

	// Initial conditions to integrate. Empty means no trajectories.
	Initial []dynamo.State

	TMax float64
	Dt   float64
	Tol  float64

	// Extra trajectories from random initial conditions in the positive
	// quadrant, drawn from Seed. Zero disables the ensemble.
	Ensemble int
	Seed     int64

	// StreamDensity controls the streamline seed lattice (per axis).
	StreamDensity int
}

// DefaultOptions mirrors the reference portrait configuration.
func DefaultOptions() Options {
	return Options{
		Bounds:        grid.Bounds{XMin: -0.2, XMax: 5, YMin: -0.2, YMax: 5},
		Step:          0.05,
		Initial:       []dynamo.State{{1.0, 1.0}},
		TMax:          25.0,
		Dt:            0.01,
		Tol:           integrators.DefaultTol,
		StreamDensity: 6,
	}
}

// Portrait is the fully computed phase portrait. Immutable after Build.
type Portrait struct {
	Model      *model.LotkaVolterra
	Grid       *grid.Grid
	Field      *grid.Field
	IsoclinesX []Segment // dX/dt = 0
	IsoclinesY []Segment // dY/dt = 0
	Equilibria []solver.Equilibrium
	Streams    []Polyline

	Trajectories []*dynamo.Trajectory
	// Drift holds the invariant drift of each trajectory, same indexing.
	Drift []float64
}

// Build runs the whole pipeline. Parameter validation happens before any
// other work; a failed equilibrium solve aborts with no partial portrait.
func Build(p model.Params, opts Options) (*Portrait, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := model.New(p)

	g, err := grid.New(opts.Bounds, opts.Step)
	if err != nil {
		return nil, err
	}
	field := g.SampleField(m.Eval)

	eqs, err := solver.FindEquilibria(m, opts.Guesses)
	if err != nil {
		return nil, err
	}

	initial := append([]dynamo.State{}, opts.Initial...)
	if opts.Ensemble > 0 {
		initial = append(initial, randomInitial(opts)...)
	}

	trajs, drift, err := integrate(m, initial, opts)
	if err != nil {
		return nil, err
	}

	return &Portrait{
		Model:        m,
		Grid:         g,
		Field:        field,
		IsoclinesX:   ZeroContour(g, field.U),
		IsoclinesY:   ZeroContour(g, field.V),
		Equilibria:   eqs,
		Streams:      Streamlines(m, opts.Bounds, opts.StreamDensity),
		Trajectories: trajs,
		Drift:        drift,
	}, nil
}

// integrate runs every initial condition concurrently; the solves are
// independent. Any failure discards all trajectories.
func integrate(m *model.LotkaVolterra, initial []dynamo.State, opts Options) ([]*dynamo.Trajectory, []float64, error) {
	trajs := make([]*dynamo.Trajectory, len(initial))
	errs := make([]error, len(initial))

	var wg sync.WaitGroup
	for i, x0 := range initial {
		wg.Add(1)
		go func(idx int, x0 dynamo.State) {
			defer wg.Done()
			integ := integrators.NewRK45()
			trajs[idx], errs[idx] = integ.Solve(m, x0, opts.TMax, opts.Dt, opts.Tol)
		}(i, x0)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	drift := make([]float64, len(trajs))
	for i, tr := range trajs {
		drift[i] = metrics.MeasureDrift(m, tr)
	}
	return trajs, drift, nil
}

// randomInitial draws ensemble starting points from the middle of the
// positive quadrant with a fixed seed, so runs are reproducible.
func randomInitial(opts Options) []dynamo.State {
	rng := rand.New(rand.NewSource(opts.Seed))
	out := make([]dynamo.State, opts.Ensemble)
	for i := range out {
		x := 0.2*opts.Bounds.XMax + rng.Float64()*0.6*opts.Bounds.XMax
		y := 0.2*opts.Bounds.YMax + rng.Float64()*0.6*opts.Bounds.YMax
		out[i] = dynamo.State{x, y}
	}
	return out
}
