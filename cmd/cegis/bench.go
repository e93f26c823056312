package main

import (
	"sort"

	"github.com/bitdep/cegis"
)

// Problem is a named synthesis benchmark.
type Problem struct {
	Name        string
	Description string

	// Sat is true if a program exists.
	Sat bool

	New func() (*cegis.Specification, *cegis.Library)
}

// Problems is the catalog of built-in benchmarks, keyed by name.
var Problems = map[string]*Problem{}

func register(p *Problem) {
	if _, ok := Problems[p.Name]; ok {
		panic("duplicate problem: " + p.Name)
	}
	Problems[p.Name] = p
}

// ProblemNames returns the catalog names in sorted order.
func ProblemNames() []string {
	a := make([]string, 0, len(Problems))
	for name := range Problems {
		a = append(a, name)
	}
	sort.Strings(a)
	return a
}

func bin(op cegis.BinaryOp, lhs, rhs cegis.Expr) cegis.Expr {
	return cegis.NewBinaryExpr(op, lhs, rhs)
}

func init() {
	register(&Problem{
		Name:        "not",
		Description: "bitwise complement of a 4-bit value",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{4}, 4, func(in []cegis.Expr) cegis.Expr {
				return cegis.NewNotExpr(in[0])
			})
			return spec, cegis.NewLibrary(cegis.Not(4))
		},
	})

	register(&Problem{
		Name:        "max",
		Description: "signed maximum of two 4-bit values without branches",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{4, 4}, 4, func(in []cegis.Expr) cegis.Expr {
				return cegis.NewIteExpr(bin(cegis.SGT, in[0], in[1]), in[0], in[1])
			})
			return spec, cegis.NewLibrary(
				cegis.Xor(4), cegis.Xor(4), cegis.And(4), cegis.Sub(4),
				cegis.SLtBV(4), cegis.Const(4, 0),
			)
		},
	})

	register(&Problem{
		Name:        "cube-gt",
		Description: "x*x*x > x from exclusive-or only",
		Sat:         false,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification32(1, func(in []cegis.Expr) cegis.Expr {
				cube := bin(cegis.MUL, bin(cegis.MUL, in[0], in[0]), in[0])
				return cegis.NewCastExpr(bin(cegis.SGT, cube, in[0]), cegis.Width32, false)
			})
			return spec, cegis.NewLibrary(
				cegis.SGtBV(32), cegis.Xor(32), cegis.Xor(32), cegis.Xor(32), cegis.Const(32, 1),
			)
		},
	})

	register(&Problem{
		Name:        "const4",
		Description: "the constant 4 from additions of 1",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{4}, 4, func(in []cegis.Expr) cegis.Expr {
				return cegis.NewConstantExpr(4, 4)
			})
			return spec, cegis.NewLibrary(
				cegis.Add(4), cegis.Neg(4), cegis.Add(4), cegis.Add(4), cegis.Add(4), cegis.Const(4, 1),
			)
		},
	})

	register(&Problem{
		Name:        "abs",
		Description: "absolute value of an 8-bit value",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				zero := cegis.NewConstantExpr(0, 8)
				return cegis.NewIteExpr(bin(cegis.SLT, in[0], zero), bin(cegis.SUB, zero, in[0]), in[0])
			})
			return spec, cegis.NewLibrary(cegis.AShr(8), cegis.Xor(8), cegis.Sub(8), cegis.Const(8, 7))
		},
	})

	register(&Problem{
		Name:        "turn-off-rightmost-bit",
		Description: "clear the lowest set bit",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				return bin(cegis.AND, in[0], bin(cegis.SUB, in[0], cegis.NewConstantExpr(1, 8)))
			})
			return spec, cegis.NewLibrary(cegis.Sub(8), cegis.And(8), cegis.Const(8, 1))
		},
	})

	register(&Problem{
		Name:        "isolate-rightmost-bit",
		Description: "keep only the lowest set bit",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				return bin(cegis.AND, in[0], bin(cegis.SUB, cegis.NewConstantExpr(0, 8), in[0]))
			})
			return spec, cegis.NewLibrary(cegis.Neg(8), cegis.And(8))
		},
	})

	register(&Problem{
		Name:        "mask-rightmost-one",
		Description: "ones everywhere except the lowest set bit, in at most 3 statements",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				return bin(cegis.OR, cegis.NewNotExpr(in[0]), bin(cegis.SUB, in[0], cegis.NewConstantExpr(1, 8)))
			})
			spec.SizeRestriction = 3
			return spec, cegis.NewLibrary(
				cegis.Not(8), cegis.Neg(8), cegis.And(8), cegis.Xor(8),
				cegis.Or(8), cegis.Add(8), cegis.Sub(8), cegis.Const(8, 1),
			)
		},
	})

	register(&Problem{
		Name:        "average-floor",
		Description: "floor of the average of two 8-bit values without overflow",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8, 8}, 8, func(in []cegis.Expr) cegis.Expr {
				sum := bin(cegis.ADD, cegis.NewCastExpr(in[0], 16, false), cegis.NewCastExpr(in[1], 16, false))
				return cegis.NewExtractExpr(bin(cegis.UDIV, sum, cegis.NewConstantExpr(2, 16)), 0, 8)
			})
			return spec, cegis.NewLibrary(cegis.LShr(8), cegis.Xor(8), cegis.Add(8), cegis.And(8), cegis.Const(8, 1))
		},
	})

	register(&Problem{
		Name:        "sign",
		Description: "-1, 0 or 1 by the sign of an 8-bit value",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				zero := cegis.NewConstantExpr(0, 8)
				return cegis.NewIteExpr(bin(cegis.SGT, in[0], zero), cegis.NewConstantExpr(1, 8),
					cegis.NewIteExpr(bin(cegis.SLT, in[0], zero), cegis.NewSignedConstantExpr(-1, 8), zero))
			})
			return spec, cegis.NewLibrary(
				cegis.AShr(8), cegis.LShr(8), cegis.Neg(8), cegis.Or(8), cegis.Const(8, 7), cegis.Const(8, 7),
			)
		},
	})

	register(&Problem{
		Name:        "greater-zero",
		Description: "1 if a 32-bit value is positive, else 0",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification32(1, func(in []cegis.Expr) cegis.Expr {
				return cegis.NewCastExpr(bin(cegis.SGT, in[0], cegis.NewConstantExpr32(0)), cegis.Width32, false)
			})
			return spec, cegis.NewLibrary(cegis.SGtBV(32), cegis.Const(32, 0))
		},
	})

	register(&Problem{
		Name:        "low-nibble",
		Description: "x & 0xf for inputs below 16",
		Sat:         true,
		New: func() (*cegis.Specification, *cegis.Library) {
			spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
				return bin(cegis.AND, in[0], cegis.NewConstantExpr(0xf, 8))
			})
			spec.AddPrecondition(func(in []cegis.Expr) cegis.Expr {
				return bin(cegis.ULT, in[0], cegis.NewConstantExpr(16, 8))
			})
			return spec, cegis.NewLibrary(cegis.Xor(8), cegis.Const(8, 0))
		},
	})
}
