package cegis

import (
	"errors"
	"fmt"
)

// Standard widths.
const (
	WidthBool = 1
	Width8    = 8
	Width16   = 16
	Width32   = 32
	Width64   = 64

	// MaxWidth is the widest value representable by a ConstantExpr.
	MaxWidth = Width64
)

var (
	ErrSolverTimeout       = errors.New("Solver timeout")
	ErrSolverCanceled      = errors.New("Solver canceled")
	ErrSolverResourceLimit = errors.New("Solver resource limit")
	ErrSolverUnknown       = errors.New("Solver unknown error")
)

// ErrTimeout is returned by Synthesize when the deadline expires before a
// verified program or a proof of infeasibility is found.
var ErrTimeout = fmt.Errorf("synthesis timeout: %w", ErrSolverTimeout)

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
