package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the pipeline.
var (
	// ErrInvalidParams indicates a model parameter outside its valid range.
	ErrInvalidParams = errors.New("dynamo: invalid model parameters")

	// ErrNoConvergence indicates a root solve that did not converge.
	ErrNoConvergence = errors.New("dynamo: equilibrium solve did not converge")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep collapsed below minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")
)

// SolveError carries diagnostics for a failed equilibrium solve: which
// starting guess failed and how far the residual still was.
type SolveError struct {
	Guess      State
	Residual   float64
	Iterations int
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v: guess (%g, %g), residual %.3e after %d iterations",
		ErrNoConvergence, e.Guess[0], e.Guess[1], e.Residual, e.Iterations)
}

func (e *SolveError) Unwrap() error { return ErrNoConvergence }

// IntegrationError wraps a failure during trajectory integration with the
// time at which it occurred.
type IntegrationError struct {
	Time    float64
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.4f: %v", e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error { return e.Wrapped }
