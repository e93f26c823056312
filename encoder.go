package cegis

import (
	"fmt"
	"math/bits"

	"fortio.org/safecast"
	"github.com/pkg/errors"
)

// Strategy encodes program search for one specification and library as
// constraints over a Solver.
type Strategy interface {
	// AssertWellFormedness adds the structural constraints every candidate
	// must satisfy. Called once on the generate solver.
	AssertWellFormedness(s Solver) error

	// AssertExample requires candidates to produce output on example. Each
	// index must be used only once per solver.
	AssertExample(s Solver, index int, example Example, output *ConstantExpr) error

	// AssertVerification adds constraints that are satisfiable exactly when
	// the fixed candidate disagrees with the specification on some input.
	// Returns the input variables of the counterexample.
	AssertVerification(s Solver, raw []int, aux [][]*ConstantExpr) ([]*VarExpr, error)

	// ExtractProgram returns the raw position array from a Sat generate solver.
	ExtractProgram(s Solver) ([]int, error)

	// ExtractAux returns the auxiliary values from a Sat generate solver.
	ExtractAux(s Solver) ([][]*ConstantExpr, error)

	// ForbidInputDependence prevents any statement from reading an input.
	ForbidInputDependence(s Solver) error
}

// ListStrategy encodes a program as one position variable per statement
// output and per statement argument. Statement i of the library writes the
// position held by l_i; argument slots follow in library order.
type ListStrategy struct {
	spec          *Specification
	lib           *Library
	numInputs     int
	numStatements int

	lbw     uint  // bits per position variable
	offsets []int // first argument slot of each statement
	widths  []uint
	owner   []int // statement owning each slot

	positions []*VarExpr
	aux       [][]*VarExpr
}

// NewListStrategy returns a strategy that searches programs of up to
// numStatements executed statements drawn from lib.
func NewListStrategy(spec *Specification, lib *Library, numStatements int) *ListStrategy {
	assert(lib.Len() > 0, "strategy: empty library")
	assert(numStatements > 0 && numStatements <= lib.Len(), "strategy: invalid statement count: %d", numStatements)

	n := lib.Len()
	st := &ListStrategy{
		spec:          spec,
		lib:           lib,
		numInputs:     spec.NumInputs(),
		numStatements: numStatements,
		offsets:       lib.ArgOffsets(),
	}

	st.lbw = uint(bits.Len(uint(n + st.numInputs)))
	if st.lbw < 2 {
		st.lbw = 2
	}

	total := st.offsets[n]
	st.widths = make([]uint, total)
	st.owner = make([]int, total)
	for i := 0; i < n; i++ {
		f := lib.At(i)
		st.widths[i] = f.OutputWidth
		st.owner[i] = i
		for k, w := range f.InputWidths {
			st.widths[st.offsets[i]+k] = w
			st.owner[st.offsets[i]+k] = i
		}
	}

	st.positions = make([]*VarExpr, total)
	for i := range st.positions {
		st.positions[i] = NewVarExpr(fmt.Sprintf("l_%d", i), st.lbw)
	}

	st.aux = make([][]*VarExpr, n)
	for i := 0; i < n; i++ {
		for k, w := range lib.At(i).AuxWidths {
			st.aux[i] = append(st.aux[i], NewVarExpr(fmt.Sprintf("av_%d_%d", i, k), w))
		}
	}
	return st
}

// PositionWidth returns the width of the position variables.
func (st *ListStrategy) PositionWidth() uint { return st.lbw }

// NumStatements returns the number of executed statements searched for.
func (st *ListStrategy) NumStatements() int { return st.numStatements }

// Positions returns the position variables of every slot.
func (st *ListStrategy) Positions() []*VarExpr {
	return append([]*VarExpr(nil), st.positions...)
}

// position returns the constant for a position index.
func (st *ListStrategy) position(pos int) *ConstantExpr {
	return NewConstantExpr(uint64(pos), st.lbw)
}

// outputPosition returns the position holding the program result.
func (st *ListStrategy) outputPosition() int {
	return st.numInputs + st.numStatements - 1
}

// AssertWellFormedness adds range, consistency, acyclicity and type constraints.
func (st *ListStrategy) AssertWellFormedness(s Solver) error {
	n := st.lib.Len()
	total := len(st.positions)
	var constraints []Expr

	// Arguments read an input or an executed statement.
	for j := n; j < total; j++ {
		constraints = append(constraints, NewBinaryExpr(ULT, st.positions[j], st.position(st.numInputs+st.numStatements)))
	}

	// Statements occupy the window after the inputs.
	stmts := make([]Expr, n)
	for i := 0; i < n; i++ {
		stmts[i] = st.positions[i]
		constraints = append(constraints,
			NewBinaryExpr(UGE, st.positions[i], st.position(st.numInputs)),
			NewBinaryExpr(ULT, st.positions[i], st.position(st.numInputs+n)),
		)
	}
	constraints = append(constraints, NewDistinctExpr(stmts...))

	// Arguments are computed before the statement reading them.
	for i := 0; i < n; i++ {
		for j := st.offsets[i]; j < st.offsets[i+1]; j++ {
			constraints = append(constraints, NewBinaryExpr(UGT, st.positions[i], st.positions[j]))
		}
	}

	// Slots of different widths never share a position.
	for i := 0; i < n; i++ {
		for j := n; j < total; j++ {
			if st.owner[j] != i && st.widths[i] != st.widths[j] {
				constraints = append(constraints, NewNeExpr(st.positions[i], st.positions[j]))
			}
		}
		if st.widths[i] != st.spec.OutputWidth {
			constraints = append(constraints, NewNeExpr(st.positions[i], st.position(st.outputPosition())))
		}
	}
	for j := n; j < total; j++ {
		for k, w := range st.spec.InputWidths {
			if w != st.widths[j] {
				constraints = append(constraints, NewNeExpr(st.positions[j], st.position(k)))
			}
		}
	}

	return addAll(s, constraints)
}

// AssertExample adds the library semantics and connectivity constraints for
// one example, binding the inputs and output to concrete values.
func (st *ListStrategy) AssertExample(s Solver, index int, example Example, output *ConstantExpr) error {
	assert(len(example) == st.numInputs, "example: expected %d values, got %d", st.numInputs, len(example))
	assert(output.Width == st.spec.OutputWidth, "example: output width mismatch: %d != %d", output.Width, st.spec.OutputWidth)

	values, inputs, out := st.vars(fmt.Sprintf("_%d", index))
	constraints := st.encode(varExprs(st.positions), values, inputs, out, auxVars(st.aux))
	for j := range inputs {
		constraints = append(constraints, NewBinaryExpr(EQ, inputs[j], example[j]))
	}
	constraints = append(constraints, NewBinaryExpr(EQ, out, output))

	return addAll(s, constraints)
}

// AssertVerification adds the semantics of a fixed candidate over symbolic
// inputs, the preconditions, and the disagreement with the specification.
func (st *ListStrategy) AssertVerification(s Solver, raw []int, aux [][]*ConstantExpr) ([]*VarExpr, error) {
	assert(len(raw) == len(st.positions), "verify: expected %d positions, got %d", len(st.positions), len(raw))
	assert(len(aux) == st.lib.Len(), "verify: expected %d aux lists, got %d", st.lib.Len(), len(aux))

	positions := make([]Expr, len(raw))
	for i, pos := range raw {
		positions[i] = st.position(pos)
	}
	pinned := make([][]Expr, len(aux))
	for i := range aux {
		for _, v := range aux[i] {
			pinned[i] = append(pinned[i], v)
		}
	}

	values, inputs, out := st.vars("")
	constraints := st.encode(positions, values, inputs, out, pinned)

	args := make([]Expr, len(inputs))
	for j := range inputs {
		args[j] = inputs[j]
	}
	for _, pre := range st.spec.Preconditions {
		constraints = append(constraints, pre(args))
	}
	constraints = append(constraints, NewNeExpr(out, st.spec.Apply(args)))

	if err := addAll(s, constraints); err != nil {
		return nil, err
	}
	return inputs, nil
}

// vars returns fresh slot, input and output variables named with suffix.
func (st *ListStrategy) vars(suffix string) (values []Expr, inputs []*VarExpr, out *VarExpr) {
	values = make([]Expr, len(st.positions))
	for i, w := range st.widths {
		values[i] = NewVarExpr(fmt.Sprintf("t%s_%d", suffix, i), w)
	}
	inputs = make([]*VarExpr, st.numInputs)
	for j, w := range st.spec.InputWidths {
		inputs[j] = NewVarExpr(fmt.Sprintf("in%s_%d", suffix, j), w)
	}
	if suffix == "" {
		out = NewVarExpr("out", st.spec.OutputWidth)
	} else {
		out = NewVarExpr("out"+suffix, st.spec.OutputWidth)
	}
	return values, inputs, out
}

// encode returns the library semantics and connectivity constraints over the
// given slot positions and values.
func (st *ListStrategy) encode(positions, values []Expr, inputs []*VarExpr, out *VarExpr, aux [][]Expr) []Expr {
	n := st.lib.Len()
	total := len(positions)
	var constraints []Expr

	// Each statement computes its library function.
	for i := 0; i < n; i++ {
		result := st.lib.At(i).Apply(values[st.offsets[i]:st.offsets[i+1]], aux[i])
		constraints = append(constraints, NewBinaryExpr(EQ, values[i], result))
	}

	// Slots at the same position hold the same value.
	outPos := st.position(st.outputPosition())
	for i := 0; i < n; i++ {
		if st.widths[i] == st.spec.OutputWidth {
			constraints = append(constraints, NewImpliesExpr(
				NewBinaryExpr(EQ, positions[i], outPos),
				NewBinaryExpr(EQ, values[i], out),
			))
		}
		for j := n; j < total; j++ {
			if st.owner[j] == i || st.widths[i] != st.widths[j] {
				continue
			}
			constraints = append(constraints, NewImpliesExpr(
				NewBinaryExpr(EQ, positions[j], positions[i]),
				NewBinaryExpr(EQ, values[j], values[i]),
			))
		}
	}
	for j := n; j < total; j++ {
		for k, w := range st.spec.InputWidths {
			if w != st.widths[j] {
				continue
			}
			constraints = append(constraints, NewImpliesExpr(
				NewBinaryExpr(EQ, positions[j], st.position(k)),
				NewBinaryExpr(EQ, values[j], inputs[k]),
			))
		}
	}
	return constraints
}

// ExtractProgram reads the position of every slot from the model.
func (st *ListStrategy) ExtractProgram(s Solver) ([]int, error) {
	raw := make([]int, len(st.positions))
	for i, v := range st.positions {
		value, err := s.Value(v)
		if err != nil {
			return nil, errors.Wrapf(err, "position %s", v.Name)
		}
		if raw[i], err = safecast.Conv[int](value.Value); err != nil {
			return nil, errors.Wrapf(err, "position %s", v.Name)
		}
	}
	return raw, nil
}

// ExtractAux reads the auxiliary values of every statement from the model.
func (st *ListStrategy) ExtractAux(s Solver) ([][]*ConstantExpr, error) {
	aux := make([][]*ConstantExpr, len(st.aux))
	for i := range st.aux {
		aux[i] = make([]*ConstantExpr, len(st.aux[i]))
		for k, v := range st.aux[i] {
			value, err := s.Value(v)
			if err != nil {
				return nil, errors.Wrapf(err, "aux %s", v.Name)
			}
			aux[i][k] = value
		}
	}
	return aux, nil
}

// ForbidInputDependence requires every argument to read a statement.
func (st *ListStrategy) ForbidInputDependence(s Solver) error {
	var constraints []Expr
	for j := st.lib.Len(); j < len(st.positions); j++ {
		constraints = append(constraints, NewBinaryExpr(UGE, st.positions[j], st.position(st.numInputs)))
	}
	return addAll(s, constraints)
}

// addAll adds every constraint that is not trivially true.
func addAll(s Solver, constraints []Expr) error {
	for _, c := range constraints {
		if IsConstantTrue(c) {
			continue
		}
		if err := s.Add(c); err != nil {
			return err
		}
	}
	return nil
}

func auxVars(a [][]*VarExpr) [][]Expr {
	other := make([][]Expr, len(a))
	for i := range a {
		for _, v := range a[i] {
			other[i] = append(other[i], v)
		}
	}
	return other
}
