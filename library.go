package cegis

import (
	"fmt"
)

// LibraryFunction represents a component that a program statement may apply.
type LibraryFunction struct {
	Name        string
	InputWidths []uint
	OutputWidth uint

	// AuxWidths lists the widths of auxiliary values chosen by the synthesizer,
	// such as the value of an arbitrary constant. They are passed to Func after
	// the regular arguments.
	AuxWidths []uint

	// Idempotent is true if f(x, x) == x.
	Idempotent bool

	Func func(args []Expr) Expr
}

// NewLibraryFunction returns a new instance of LibraryFunction.
func NewLibraryFunction(name string, inputWidths []uint, outputWidth uint, fn func(args []Expr) Expr) *LibraryFunction {
	return &LibraryFunction{
		Name:        name,
		InputWidths: inputWidths,
		OutputWidth: outputWidth,
		Func:        fn,
	}
}

// NumInputs returns the number of regular arguments.
func (f *LibraryFunction) NumInputs() int { return len(f.InputWidths) }

// NumAux returns the number of auxiliary values.
func (f *LibraryFunction) NumAux() int { return len(f.AuxWidths) }

// Apply builds the expression of the function for the given arguments and
// auxiliary values. Panics on a count or width mismatch.
func (f *LibraryFunction) Apply(args, aux []Expr) Expr {
	assert(len(args) == len(f.InputWidths), "%s: expected %d args, got %d", f.Name, len(f.InputWidths), len(args))
	assert(len(aux) == len(f.AuxWidths), "%s: expected %d aux values, got %d", f.Name, len(f.AuxWidths), len(aux))
	for i, arg := range args {
		assert(ExprWidth(arg) == f.InputWidths[i], "%s: arg %d width mismatch: %d != %d", f.Name, i, ExprWidth(arg), f.InputWidths[i])
	}
	for i, v := range aux {
		assert(ExprWidth(v) == f.AuxWidths[i], "%s: aux %d width mismatch: %d != %d", f.Name, i, ExprWidth(v), f.AuxWidths[i])
	}

	all := make([]Expr, 0, len(args)+len(aux))
	all = append(all, args...)
	all = append(all, aux...)
	out := f.Func(all)
	assert(ExprWidth(out) == f.OutputWidth, "%s: output width mismatch: expected %d, got %d", f.Name, f.OutputWidth, ExprWidth(out))
	return out
}

// String returns the name of the function.
func (f *LibraryFunction) String() string {
	return f.Name
}

// Library is an ordered set of components with an optional cost matrix.
// The cost of applying component i is costs[i][i]; costs[i][j] is the cost
// of feeding component j into component i.
type Library struct {
	fns   []*LibraryFunction
	costs [][]int
}

// NewLibrary returns a library with uniform costs.
func NewLibrary(fns ...*LibraryFunction) *Library {
	return &Library{fns: fns}
}

// NewLibraryWithCosts returns a library with a square cost matrix.
func NewLibraryWithCosts(fns []*LibraryFunction, costs [][]int) *Library {
	assert(len(costs) == len(fns), "cost matrix has %d rows for %d functions", len(costs), len(fns))
	for i := range costs {
		assert(len(costs[i]) == len(fns), "cost matrix row %d has %d columns for %d functions", i, len(costs[i]), len(fns))
	}
	return &Library{fns: fns, costs: costs}
}

// Len returns the number of components.
func (l *Library) Len() int { return len(l.fns) }

// At returns the i-th component.
func (l *Library) At(i int) *LibraryFunction { return l.fns[i] }

// Functions returns the components in order.
func (l *Library) Functions() []*LibraryFunction {
	return append([]*LibraryFunction(nil), l.fns...)
}

// HasUniformCosts returns true if no cost matrix was given.
func (l *Library) HasUniformCosts() bool { return l.costs == nil }

// Cost returns the cost of applying component i.
func (l *Library) Cost(i int) int {
	if l.costs == nil {
		return 1
	}
	return l.costs[i][i]
}

// PairCost returns the cost of feeding component operand into component operator.
func (l *Library) PairCost(operator, operand int) int {
	if l.costs == nil {
		return 1
	}
	return l.costs[operator][operand]
}

// MaxCost returns the largest entry of the cost matrix.
func (l *Library) MaxCost() int {
	if l.costs == nil {
		return 1
	}
	var max int
	for i := range l.costs {
		for j := range l.costs[i] {
			if l.costs[i][j] > max {
				max = l.costs[i][j]
			}
		}
	}
	return max
}

// MaxSizeForCostLimit returns the largest number of statements whose summed
// cost stays within limit, picking the cheapest components first.
func (l *Library) MaxSizeForCostLimit(limit int) int {
	if l.costs == nil {
		if limit < len(l.fns) {
			return limit
		}
		return len(l.fns)
	}

	used := make([]bool, len(l.fns))
	var accum, n int
	for accum < limit {
		idx := -1
		for i := range l.fns {
			if !used[i] && (idx < 0 || l.Cost(idx) > l.Cost(i)) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		used[idx] = true
		accum += l.Cost(idx)
		n++
	}
	if accum > limit {
		n--
	}
	return n
}

// MaxInputs returns the largest argument count of any component.
func (l *Library) MaxInputs() int {
	var n int
	for _, f := range l.fns {
		if f.NumInputs() > n {
			n = f.NumInputs()
		}
	}
	return n
}

// InputSize returns the total number of argument slots across all components.
func (l *Library) InputSize() int {
	var n int
	for _, f := range l.fns {
		n += f.NumInputs()
	}
	return n
}

// ArgOffsets returns, for each component, the index of its first argument
// slot. Argument slots follow the Len() statement slots. The extra final
// entry is the total slot count.
func (l *Library) ArgOffsets() []int {
	offsets := make([]int, len(l.fns)+1)
	offsets[0] = len(l.fns)
	for i, f := range l.fns {
		offsets[i+1] = offsets[i] + f.NumInputs()
	}
	return offsets
}

// AuxSize returns the total number of auxiliary values across all components.
func (l *Library) AuxSize() int {
	var n int
	for _, f := range l.fns {
		n += f.NumAux()
	}
	return n
}

// subset returns a library of the given components with their costs re-indexed.
func (l *Library) subset(indices []int) *Library {
	fns := make([]*LibraryFunction, len(indices))
	for i, idx := range indices {
		fns[i] = l.fns[idx]
	}
	if l.costs == nil {
		return NewLibrary(fns...)
	}

	costs := make([][]int, len(indices))
	for i := range indices {
		costs[i] = make([]int, len(indices))
		for j := range indices {
			costs[i][j] = l.costs[indices[i]][indices[j]]
		}
	}
	return NewLibraryWithCosts(fns, costs)
}

// Standard components.

// Const returns a component that yields a fixed value.
func Const(width uint, value uint64) *LibraryFunction {
	c := NewConstantExpr(value, width)
	return NewLibraryFunction(fmt.Sprintf("const%d", c.Value), nil, width, func([]Expr) Expr { return c })
}

// ArbitraryConst returns a component that yields a constant picked by the synthesizer.
func ArbitraryConst(width uint) *LibraryFunction {
	f := NewLibraryFunction("const", nil, width, func(args []Expr) Expr { return args[0] })
	f.AuxWidths = []uint{width}
	return f
}

func binary(name string, width uint, op BinaryOp) *LibraryFunction {
	return NewLibraryFunction(name, []uint{width, width}, width, func(args []Expr) Expr {
		return NewBinaryExpr(op, args[0], args[1])
	})
}

// Add returns a component computing the wrapping sum.
func Add(width uint) *LibraryFunction { return binary("add", width, ADD) }

// Sub returns a component computing the wrapping difference.
func Sub(width uint) *LibraryFunction { return binary("sub", width, SUB) }

// Mul returns a component computing the wrapping product.
func Mul(width uint) *LibraryFunction { return binary("mul", width, MUL) }

// SDiv returns a component computing signed division. Division by zero yields all ones.
func SDiv(width uint) *LibraryFunction { return binary("sdiv", width, SDIV) }

// UDiv returns a component computing unsigned division. Division by zero yields all ones.
func UDiv(width uint) *LibraryFunction { return binary("udiv", width, UDIV) }

// SRem returns a component computing the signed remainder, signed like the dividend.
func SRem(width uint) *LibraryFunction { return binary("srem", width, SREM) }

// URem returns a component computing the unsigned remainder.
func URem(width uint) *LibraryFunction { return binary("urem", width, UREM) }

// SMod returns a component computing the signed modulus, signed like the divisor.
func SMod(width uint) *LibraryFunction { return binary("smod", width, SMOD) }

// UMod returns a component computing the unsigned modulus, which equals URem.
func UMod(width uint) *LibraryFunction { return binary("umod", width, UREM) }

// Xor returns a component computing bitwise exclusive or.
func Xor(width uint) *LibraryFunction { return binary("xor", width, XOR) }

// Shl returns a component shifting its first argument left.
func Shl(width uint) *LibraryFunction { return binary("shl", width, SHL) }

// AShr returns a component shifting its first argument right, filling with the sign bit.
func AShr(width uint) *LibraryFunction { return binary("ashr", width, ASHR) }

// LShr returns a component shifting its first argument right, filling with zeros.
func LShr(width uint) *LibraryFunction { return binary("lshr", width, LSHR) }

// And returns a component computing bitwise and.
func And(width uint) *LibraryFunction {
	f := binary("and", width, AND)
	f.Idempotent = true
	return f
}

// Or returns a component computing bitwise or.
func Or(width uint) *LibraryFunction {
	f := binary("or", width, OR)
	f.Idempotent = true
	return f
}

// Not returns a component computing the bitwise complement.
func Not(width uint) *LibraryFunction {
	return NewLibraryFunction("not", []uint{width}, width, func(args []Expr) Expr {
		return NewNotExpr(args[0])
	})
}

// Neg returns a component computing the two's complement negation.
func Neg(width uint) *LibraryFunction {
	return NewLibraryFunction("neg", []uint{width}, width, func(args []Expr) Expr {
		return NewBinaryExpr(SUB, NewConstantExpr(0, width), args[0])
	})
}

// SExt returns a component that sign-extends a value from one width to a wider one.
func SExt(from, to uint) *LibraryFunction {
	assert(from < to, "sext: %d is not narrower than %d", from, to)
	return NewLibraryFunction("sext", []uint{from}, to, func(args []Expr) Expr {
		return NewCastExpr(args[0], to, true)
	})
}

// ZExt returns a component that zero-extends a value from one width to a wider one.
func ZExt(from, to uint) *LibraryFunction {
	assert(from < to, "zext: %d is not narrower than %d", from, to)
	return NewLibraryFunction("zext", []uint{from}, to, func(args []Expr) Expr {
		return NewCastExpr(args[0], to, false)
	})
}

// Concat returns a component that joins a high and a low value.
func Concat(left, right uint) *LibraryFunction {
	return NewLibraryFunction("concat", []uint{left, right}, left+right, func(args []Expr) Expr {
		return NewConcatExpr(args[0], args[1])
	})
}

// Extract returns a component that selects bits low through high, inclusive.
func Extract(width, low, high uint) *LibraryFunction {
	assert(low <= high && high < width, "extract: invalid range %d..%d of %d bits", low, high, width)
	return NewLibraryFunction(fmt.Sprintf("extract(%d,%d)", low, high), []uint{width}, high-low+1, func(args []Expr) Expr {
		return NewExtractExpr(args[0], low, high-low+1)
	})
}

// Ite returns a component that selects its second or third argument by a
// one-bit condition.
func Ite(width uint) *LibraryFunction {
	f := NewLibraryFunction("ite", []uint{WidthBool, width, width}, width, func(args []Expr) Expr {
		return NewIteExpr(args[0], args[1], args[2])
	})
	f.Idempotent = true
	return f
}

// compare returns a comparison component with a one-bit result.
func compare(name string, width uint, op BinaryOp) *LibraryFunction {
	return NewLibraryFunction(name, []uint{width, width}, WidthBool, func(args []Expr) Expr {
		return NewBinaryExpr(op, args[0], args[1])
	})
}

// compareBV returns a comparison component whose result is 0 or 1 at the operand width.
func compareBV(name string, width uint, op BinaryOp) *LibraryFunction {
	return NewLibraryFunction(name, []uint{width, width}, width, func(args []Expr) Expr {
		return NewCastExpr(NewBinaryExpr(op, args[0], args[1]), width, false)
	})
}

func Eq(width uint) *LibraryFunction { return compare("eq", width, EQ) }

// Neq returns a component testing not equal, with a one-bit result.
func Neq(width uint) *LibraryFunction { return compare("neq", width, NE) }

// UGt returns a component testing unsigned greater than, with a one-bit result.
func UGt(width uint) *LibraryFunction { return compare("ugt", width, UGT) }

// UGe returns a component testing unsigned greater or equal, with a one-bit result.
func UGe(width uint) *LibraryFunction { return compare("uge", width, UGE) }

// ULt returns a component testing unsigned less than, with a one-bit result.
func ULt(width uint) *LibraryFunction { return compare("ult", width, ULT) }

// ULe returns a component testing unsigned less or equal, with a one-bit result.
func ULe(width uint) *LibraryFunction { return compare("ule", width, ULE) }

// SGt returns a component testing signed greater than, with a one-bit result.
func SGt(width uint) *LibraryFunction { return compare("sgt", width, SGT) }

// SGe returns a component testing signed greater or equal, with a one-bit result.
func SGe(width uint) *LibraryFunction { return compare("sge", width, SGE) }

// SLt returns a component testing signed less than, with a one-bit result.
func SLt(width uint) *LibraryFunction { return compare("slt", width, SLT) }

// SLe returns a component testing signed less or equal, with a one-bit result.
func SLe(width uint) *LibraryFunction { return compare("sle", width, SLE) }

func EqBV(width uint) *LibraryFunction { return compareBV("eq", width, EQ) }

// NeqBV returns a component testing not equal, yielding 0 or 1 at the operand width.
func NeqBV(width uint) *LibraryFunction { return compareBV("neq", width, NE) }

// UGtBV returns a component testing unsigned greater than, yielding 0 or 1 at the operand width.
func UGtBV(width uint) *LibraryFunction { return compareBV("ugt", width, UGT) }

// UGeBV returns a component testing unsigned greater or equal, yielding 0 or 1 at the operand width.
func UGeBV(width uint) *LibraryFunction { return compareBV("uge", width, UGE) }

// ULtBV returns a component testing unsigned less than, yielding 0 or 1 at the operand width.
func ULtBV(width uint) *LibraryFunction { return compareBV("ult", width, ULT) }

// ULeBV returns a component testing unsigned less or equal, yielding 0 or 1 at the operand width.
func ULeBV(width uint) *LibraryFunction { return compareBV("ule", width, ULE) }

// SGtBV returns a component testing signed greater than, yielding 0 or 1 at the operand width.
func SGtBV(width uint) *LibraryFunction { return compareBV("sgt", width, SGT) }

// SGeBV returns a component testing signed greater or equal, yielding 0 or 1 at the operand width.
func SGeBV(width uint) *LibraryFunction { return compareBV("sge", width, SGE) }

// SLtBV returns a component testing signed less than, yielding 0 or 1 at the operand width.
func SLtBV(width uint) *LibraryFunction { return compareBV("slt", width, SLT) }

// SLeBV returns a component testing signed less or equal, yielding 0 or 1 at the operand width.
func SLeBV(width uint) *LibraryFunction { return compareBV("sle", width, SLE) }
