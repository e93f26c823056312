package cegis

import (
	"fmt"
	"strings"
)

// Specification describes the function a synthesized program must match.
type Specification struct {
	InputWidths []uint
	OutputWidth uint

	// Func builds the reference value from the input expressions. It is
	// applied to constants when evaluating examples and to variables when
	// verifying candidates.
	Func func(inputs []Expr) Expr

	// Preconditions restrict the inputs considered during verification.
	// Each must return a boolean (width 1) expression.
	Preconditions []func(inputs []Expr) Expr

	// SizeRestriction bounds the total cost of the program. Zero means no restriction.
	SizeRestriction int
}

// NewSpecification returns a specification over inputs of the given widths.
func NewSpecification(inputWidths []uint, outputWidth uint, fn func(inputs []Expr) Expr) *Specification {
	for i, w := range inputWidths {
		assert(w > 0 && w <= MaxWidth, "input %d width out of range: %d", i, w)
	}
	assert(outputWidth > 0 && outputWidth <= MaxWidth, "output width out of range: %d", outputWidth)
	return &Specification{
		InputWidths: append([]uint(nil), inputWidths...),
		OutputWidth: outputWidth,
		Func:        fn,
	}
}

// NewSpecification32 returns a specification over n 32-bit inputs with a 32-bit output.
func NewSpecification32(n int, fn func(inputs []Expr) Expr) *Specification {
	widths := make([]uint, n)
	for i := range widths {
		widths[i] = Width32
	}
	return NewSpecification(widths, Width32, fn)
}

// AddPrecondition adds a boolean restriction over the inputs.
func (s *Specification) AddPrecondition(fn func(inputs []Expr) Expr) {
	s.Preconditions = append(s.Preconditions, fn)
}

// NumInputs returns the number of inputs of the specification.
func (s *Specification) NumInputs() int {
	return len(s.InputWidths)
}

// InputWidth returns the width of input i.
func (s *Specification) InputWidth(i int) uint {
	return s.InputWidths[i]
}

// HasSizeRestriction returns true if the program cost is bounded.
func (s *Specification) HasSizeRestriction() bool {
	return s.SizeRestriction > 0
}

// Apply builds the reference expression for the given inputs.
func (s *Specification) Apply(inputs []Expr) Expr {
	assert(len(inputs) == len(s.InputWidths), "spec: expected %d inputs, got %d", len(s.InputWidths), len(inputs))
	for i, input := range inputs {
		assert(ExprWidth(input) == s.InputWidths[i], "spec: input %d width mismatch: %d != %d", i, ExprWidth(input), s.InputWidths[i])
	}
	out := s.Func(inputs)
	assert(ExprWidth(out) == s.OutputWidth, "spec: output width mismatch: %d != %d", ExprWidth(out), s.OutputWidth)
	return out
}

// Eval computes the reference output for concrete input values.
func (s *Specification) Eval(example Example) (*ConstantExpr, error) {
	return EvaluateConstant(s.Apply(example.Exprs()))
}

// MustEval is like Eval but panics if the specification cannot be evaluated.
func (s *Specification) MustEval(example Example) *ConstantExpr {
	v, err := s.Eval(example)
	if err != nil {
		panic(fmt.Sprintf("spec: eval %s: %s", example, err))
	}
	return v
}

// Example is one assignment of concrete values to the specification inputs.
type Example []*ConstantExpr

// NewExample returns an example from raw values and their widths.
func NewExample(widths []uint, values ...uint64) Example {
	assert(len(widths) == len(values), "example: %d widths for %d values", len(widths), len(values))
	a := make(Example, len(values))
	for i := range values {
		a[i] = NewConstantExpr(values[i], widths[i])
	}
	return a
}

// ZeroExample returns the example with every input set to zero.
func ZeroExample(spec *Specification) Example {
	return NewExample(spec.InputWidths, make([]uint64, spec.NumInputs())...)
}

// Exprs returns the example values as expressions.
func (a Example) Exprs() []Expr {
	other := make([]Expr, len(a))
	for i := range a {
		other[i] = a[i]
	}
	return other
}

// Equal returns true if both examples hold the same values.
func (a Example) Equal(other Example) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if CompareExpr(a[i], other[i]) != 0 {
			return false
		}
	}
	return true
}

// String returns the values separated by commas.
func (a Example) String() string {
	s := make([]string, len(a))
	for i := range a {
		s[i] = fmt.Sprint(a[i].Value)
	}
	return strings.Join(s, ", ")
}
