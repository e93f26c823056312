package cegis

import (
	"context"
)

// CheckResult is the outcome of a satisfiability check.
type CheckResult int

const (
	Unknown CheckResult = iota
	Sat
	Unsat
)

// String returns the string representation of the result.
func (r CheckResult) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Solver represents an incremental constraint solver over fixed-width integers.
type Solver interface {
	// Add asserts a boolean (width 1) constraint.
	Add(constraint Expr) error

	// Check decides satisfiability of the asserted constraints. Cancelling ctx
	// interrupts a running check.
	Check(ctx context.Context) (CheckResult, error)

	// Value returns the model value of a variable after a Sat check.
	Value(v *VarExpr) (*ConstantExpr, error)

	Push() error
	Pop() error

	// Interrupt aborts a running check from another goroutine.
	Interrupt()

	Close() error
}

// SolverMode selects how a solver instance is built.
type SolverMode int

const (
	// Incremental solvers keep learned state across repeated checks.
	Incremental SolverMode = iota

	// OneShot solvers are tuned for a single check of a fixed formula.
	OneShot
)

// String returns the string representation of the mode.
func (m SolverMode) String() string {
	switch m {
	case Incremental:
		return "incremental"
	case OneShot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// SolverConfig is passed to a SolverFunc for every solver the synthesizer creates.
type SolverConfig struct {
	Mode       SolverMode
	RandomSeed *int
}

// SolverFunc constructs a new solver.
type SolverFunc func(config SolverConfig) (Solver, error)
