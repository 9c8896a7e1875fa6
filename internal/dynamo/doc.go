// Package dynamo provides core primitives for planar dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// phase-portrait pipeline:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X))
//   - [Integrator], [AdaptiveIntegrator]: numerical stepper interfaces
//   - [Trajectory]: an integrated time series on a uniform output grid
//
// # Example
//
//	sys := model.New(params)
//	integ := integrators.NewRK45()
//	traj, _ := integ.Solve(sys, x0, tmax, dt, tol)
//
// Sentinel errors ([ErrInvalidParams], [ErrNoConvergence]) distinguish the
// two fatal failure kinds of the pipeline; richer context travels in
// [SolveError] and [IntegrationError] wrappers.
package dynamo
