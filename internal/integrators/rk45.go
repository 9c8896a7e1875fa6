package integrators

import (
	"fmt"
	"math"

	"phaseplane/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	// DefaultTol is the local error tolerance used when callers pass 0.
	DefaultTol = 1e-9

	minStep = 1e-12
)

// RK45 is an adaptive Dormand-Prince integrator: fifth order with an
// embedded fourth-order error estimate driving step-size control.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	newX, _, _, _ := r.stepOnce(sys, x, t, dt, 1e-6)
	return newX
}

// StepAdaptive advances one trial step and returns the suggested next step
// size. The step is NOT rejected here; callers wanting strict error control
// should use Solve, which retries rejected steps.
func (r *RK45) StepAdaptive(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	newX, dtNext, _, err := r.stepOnce(sys, x, t, dt, tol)
	if err == errTooLarge {
		err = nil
	}
	return newX, dtNext, err
}

// stepOnce performs a single Dormand-Prince step, returning the fifth-order
// result, the recommended next step, and the derivative at the step end
// (FSAL, reused for dense output).
func (r *RK45) stepOnce(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, dynamo.State, error) {
	n := len(x)

	k1 := sys.Derive(x, t)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := sys.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dtNext float64
	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		dtNext = dt * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			dtNext = dt * scale
		} else {
			dtNext = dt * r.maxScale
		}
	}

	if errRatio > 1 {
		return xNew, dtNext, k7, errTooLarge
	}
	return xNew, dtNext, k7, nil
}

// errTooLarge signals a step rejection inside Solve; it never escapes the
// package.
var errTooLarge = &stepRejected{}

type stepRejected struct{}

func (*stepRejected) Error() string { return "local error above tolerance" }

// Solve integrates sys from x0 over [0, tmax], emitting samples on the
// uniform grid defined by dtOut. Internally the step size adapts freely;
// output points are filled by cubic Hermite interpolation across each
// accepted step, so dtOut does not constrain accuracy. Failure to advance
// (step underflow, NaN state) aborts with no partial trajectory.
func (r *RK45) Solve(sys dynamo.System, x0 dynamo.State, tmax, dtOut, tol float64) (*dynamo.Trajectory, error) {
	if tol <= 0 {
		tol = DefaultTol
	}

	times := grid(tmax, dtOut)
	if len(times) < 2 {
		return nil, fmt.Errorf("integrators: bad time span (tmax=%g, dt=%g)", tmax, dtOut)
	}
	nOut := len(times)
	tEnd := times[nOut-1]

	traj := &dynamo.Trajectory{
		Times:   times,
		States:  make([]dynamo.State, 0, nOut),
		Initial: x0.Clone(),
	}
	traj.States = append(traj.States, x0.Clone())
	next := 1 // index of the next output time to fill

	x := x0.Clone()
	dx := sys.Derive(x, 0)
	t := 0.0
	dt := dtOut

	for next < nOut {
		if t+dt > tEnd {
			dt = tEnd - t
		}

		xNew, dtNext, dxNew, stepErr := r.stepOnce(sys, x, t, dt, tol)
		if stepErr != nil {
			// Rejected: retry from the same point with the smaller step.
			if dtNext < minStep {
				return nil, &dynamo.IntegrationError{Time: t, Wrapped: dynamo.ErrStepTooSmall}
			}
			dt = dtNext
			continue
		}
		if !xNew.IsValid() {
			return nil, &dynamo.IntegrationError{Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		tNew := t + dt

		// Dense output: Hermite interpolation over [t, tNew] using the
		// endpoint derivatives.
		for next < nOut && times[next] <= tNew+1e-12 {
			traj.States = append(traj.States, hermite(x, dx, xNew, dxNew, t, tNew, times[next]))
			next++
		}

		x, dx, t = xNew, dxNew, tNew
		dt = dtNext
	}

	return traj, nil
}

// grid builds the output time grid [0, tmax] at dtOut, upper bound
// included (same edge policy as the spatial grid).
func grid(tmax, dtOut float64) []float64 {
	if dtOut <= 0 || tmax <= 0 {
		return nil
	}
	stop := tmax + dtOut/2
	out := make([]float64, 0, int(stop/dtOut)+1)
	for t := 0.0; t < stop; t += dtOut {
		out = append(out, t)
	}
	return out
}

// hermite evaluates the cubic Hermite interpolant through (t0, x0) and
// (t1, x1) with endpoint slopes dx0, dx1 at time t.
func hermite(x0, dx0, x1, dx1 dynamo.State, t0, t1, t float64) dynamo.State {
	h := t1 - t0
	if h == 0 {
		return x1.Clone()
	}
	s := (t - t0) / h

	h00 := (1 + 2*s) * (1 - s) * (1 - s)
	h10 := s * (1 - s) * (1 - s)
	h01 := s * s * (3 - 2*s)
	h11 := s * s * (s - 1)

	out := make(dynamo.State, len(x0))
	for i := range out {
		out[i] = h00*x0[i] + h10*h*dx0[i] + h01*x1[i] + h11*h*dx1[i]
	}
	return out
}
