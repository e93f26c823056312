package cegis_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/bitdep/cegis"
	"github.com/bitdep/cegis/z3"
	"github.com/google/go-cmp/cmp"
)

// SolverQueue hands out prepared solvers in order and records the config
// each was requested with. Once Solvers is exhausted, Next builds the n-th
// solver if set.
type SolverQueue struct {
	Solvers []*RecordingSolver
	Configs []cegis.SolverConfig
	Next    func(n int) *RecordingSolver
}

func (q *SolverQueue) NewSolver(config cegis.SolverConfig) (cegis.Solver, error) {
	n := len(q.Configs)
	if n >= len(q.Solvers) {
		if q.Next == nil {
			return nil, errors.New("no solver left")
		}
		q.Solvers = append(q.Solvers, q.Next(n))
	}
	q.Configs = append(q.Configs, config)
	return q.Solvers[n], nil
}

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Run("Verified", func(t *testing.T) {
		gen := &RecordingSolver{Result: cegis.Sat, Model: map[string]uint64{"l_0": 1, "l_1": 0}}
		verify := &RecordingSolver{Result: cegis.Unsat}
		q := &SolverQueue{Solvers: []*RecordingSolver{gen, verify}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		p, err := sy.SynthesizeDefault(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4)))
		if err != nil {
			t.Fatal(err)
		} else if p == nil {
			t.Fatal("expected program")
		} else if s := p.String(); s != "# 1 inputs\n# 1 statements\nv1 := not(v0)\n" {
			t.Fatalf("unexpected program: %q", s)
		}

		if diff := cmp.Diff([]cegis.SolverConfig{{Mode: cegis.Incremental}, {Mode: cegis.OneShot}}, q.Configs); diff != "" {
			t.Fatal(diff)
		} else if !gen.Closed || !verify.Closed {
			t.Fatal("expected solvers to be closed")
		}

		stats := sy.Stats()
		if stats.Iterations != 1 {
			t.Fatalf("unexpected iterations: %d", stats.Iterations)
		} else if diff := cmp.Diff([][]int{{1, 0}}, stats.Candidates); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff([][]uint64{{0}}, stats.Values); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Counterexample", func(t *testing.T) {
		gen := &RecordingSolver{Result: cegis.Sat, Model: map[string]uint64{"l_0": 1, "l_1": 0}}
		q := &SolverQueue{Solvers: []*RecordingSolver{
			gen,
			{Result: cegis.Sat, Model: map[string]uint64{"in_0": 3}},
			{Result: cegis.Unsat},
		}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if p, err := sy.SynthesizeDefault(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4))); err != nil {
			t.Fatal(err)
		} else if p == nil {
			t.Fatal("expected program")
		}

		stats := sy.Stats()
		if stats.Iterations != 2 {
			t.Fatalf("unexpected iterations: %d", stats.Iterations)
		} else if diff := cmp.Diff([][]uint64{{0}, {3}}, stats.Values); diff != "" {
			t.Fatal(diff)
		} else if gen.CheckN != 2 {
			t.Fatalf("unexpected generate checks: %d", gen.CheckN)
		}

		// The counterexample is bound as the second example.
		if !gen.Holds(t, map[string]uint64{
			"l_0": 1, "l_1": 0,
			"t_0_0": 15, "t_0_1": 0, "in_0_0": 0, "out_0": 15,
			"t_1_0": 12, "t_1_1": 3, "in_1_0": 3, "out_1": 12,
		}) {
			t.Fatal("expected examples to hold")
		}
	})

	t.Run("Unsat", func(t *testing.T) {
		gen := &RecordingSolver{Result: cegis.Unsat}
		q := &SolverQueue{Solvers: []*RecordingSolver{gen}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if p, err := sy.SynthesizeDefault(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4))); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		} else if !gen.Closed {
			t.Fatal("expected solver to be closed")
		} else if n := sy.Stats().Iterations; n != 1 {
			t.Fatalf("unexpected iterations: %d", n)
		}
	})

	t.Run("Prune", func(t *testing.T) {
		spec := notSpec()
		spec.SizeRestriction = 2
		lib := cegis.NewLibraryWithCosts([]*cegis.LibraryFunction{cegis.Not(4)}, [][]int{{5}})

		sy := cegis.NewSynthesizer(func(config cegis.SolverConfig) (cegis.Solver, error) {
			t.Fatal("unexpected solver")
			return nil, nil
		})
		if p, err := sy.SynthesizeDefault(context.Background(), spec, lib); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		}
	})

	t.Run("UnusableInput", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8, 4}, 4, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewIteExpr(
				cegis.NewBinaryExpr(cegis.EQ, in[0], cegis.NewConstantExpr(0, 8)),
				cegis.NewNotExpr(in[1]),
				in[1],
			)
		})
		q := &SolverQueue{Solvers: []*RecordingSolver{
			{Result: cegis.Sat, Model: map[string]uint64{"l_0": 2, "l_1": 1}},
			{Result: cegis.Sat, Model: map[string]uint64{"in_0": 5, "in_1": 0}},
		}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if p, err := sy.SynthesizeDefault(context.Background(), spec, cegis.NewLibrary(cegis.Not(4))); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		} else if len(q.Configs) != 2 {
			t.Fatalf("unexpected solver count: %d", len(q.Configs))
		}
	})

	t.Run("Diversify", func(t *testing.T) {
		// Zero everywhere except at 200.
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewCastExpr(cegis.NewBinaryExpr(cegis.EQ, in[0], cegis.NewConstantExpr(200, 8)), 8, false)
		})
		examples := make([]cegis.Example, cegis.SameOutputThreshold)
		for i := range examples {
			examples[i] = cegis.NewExample([]uint{8}, uint64(i))
		}

		gen := &RecordingSolver{
			Results: []cegis.CheckResult{cegis.Sat},
			Result:  cegis.Unsat,
			Model:   map[string]uint64{"l_0": 1, "l_1": 0},
		}
		verify := &RecordingSolver{
			Results: []cegis.CheckResult{cegis.Sat, cegis.Sat},
			Models:  []map[string]uint64{{"in_0": 3}, {"in_0": 200}},
		}
		q := &SolverQueue{Solvers: []*RecordingSolver{gen, verify}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if p, err := sy.Synthesize(context.Background(), spec, cegis.NewLibrary(cegis.Not(8)), examples); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		}

		if diff := cmp.Diff(cegis.SolverConfig{Mode: cegis.Incremental}, q.Configs[1]); diff != "" {
			t.Fatal(diff)
		} else if verify.CheckN != 2 {
			t.Fatalf("unexpected verify checks: %d", verify.CheckN)
		}

		// The second check excludes the shared output.
		different := cegis.NewNeExpr(cegis.NewConstantExpr(0, 8), spec.Apply([]cegis.Expr{cegis.NewVarExpr("in_0", 8)}))
		if diff := cmp.Diff(different, verify.Constraints[len(verify.Constraints)-1]); diff != "" {
			t.Fatal(diff)
		}

		values := sy.Stats().Values
		if len(values) != cegis.SameOutputThreshold+1 {
			t.Fatalf("unexpected example count: %d", len(values))
		} else if diff := cmp.Diff([]uint64{200}, values[len(values)-1]); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("ConstantFunction", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewConstantExpr(4, 8)
		})

		// Every candidate fails on a fresh input until the constant check.
		gen := &RecordingSolver{
			Results: make([]cegis.CheckResult, cegis.ConstantFunctionThreshold),
			Result:  cegis.Unsat,
			Model:   map[string]uint64{"l_0": 1, "l_1": 0},
		}
		for i := range gen.Results {
			gen.Results[i] = cegis.Sat
		}
		constant := &RecordingSolver{Result: cegis.Unsat}
		q := &SolverQueue{
			Solvers: []*RecordingSolver{gen},
			Next: func(n int) *RecordingSolver {
				if n > cegis.ConstantFunctionThreshold {
					return constant
				}
				return &RecordingSolver{
					Results: []cegis.CheckResult{cegis.Sat, cegis.Unsat},
					Model:   map[string]uint64{"in_0": uint64(n)},
				}
			},
		}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if p, err := sy.SynthesizeDefault(context.Background(), spec, cegis.NewLibrary(cegis.Not(8))); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		}

		if constant.CheckN != 1 {
			t.Fatalf("unexpected constant checks: %d", constant.CheckN)
		} else if len(q.Configs) != cegis.ConstantFunctionThreshold+2 {
			t.Fatalf("unexpected solver count: %d", len(q.Configs))
		}

		// Arguments may no longer read the input.
		forbid := cegis.NewBinaryExpr(cegis.UGE, cegis.NewVarExpr("l_1", 2), cegis.NewConstantExpr(1, 2))
		if diff := cmp.Diff(forbid, gen.Constraints[len(gen.Constraints)-1]); diff != "" {
			t.Fatal(diff)
		}

		stats := sy.Stats()
		if len(stats.Values) != cegis.ConstantFunctionThreshold+1 {
			t.Fatalf("unexpected example count: %d", len(stats.Values))
		} else if stats.Iterations != cegis.ConstantFunctionThreshold+1 {
			t.Fatalf("unexpected iterations: %d", stats.Iterations)
		}
	})

	t.Run("ErrTimeout", func(t *testing.T) {
		gen := &RecordingSolver{Result: cegis.Unknown}
		q := &SolverQueue{Solvers: []*RecordingSolver{gen}}

		sy := cegis.NewSynthesizer(q.NewSolver)
		if _, err := sy.SynthesizeDefault(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4))); !errors.Is(err, cegis.ErrTimeout) {
			t.Fatalf("unexpected error: %v", err)
		} else if !errors.Is(err, cegis.ErrSolverTimeout) {
			t.Fatalf("expected solver timeout: %v", err)
		} else if n := sy.Stats().Iterations; n != 1 {
			t.Fatalf("unexpected iterations: %d", n)
		} else if !gen.Closed {
			t.Fatal("expected solver to be closed")
		}
	})

	t.Run("ErrCanceled", func(t *testing.T) {
		q := &SolverQueue{Solvers: []*RecordingSolver{{Result: cegis.Sat}}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sy := cegis.NewSynthesizer(q.NewSolver)
		if _, err := sy.SynthesizeDefault(ctx, notSpec(), cegis.NewLibrary(cegis.Not(4))); !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrNewSolver", func(t *testing.T) {
		sy := cegis.NewSynthesizer((&SolverQueue{}).NewSolver)
		if _, err := sy.SynthesizeDefault(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4))); err == nil || err.Error() != "new generate solver: no solver left" {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrNoExamples", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		sy := cegis.NewSynthesizer((&SolverQueue{}).NewSolver)
		sy.Synthesize(context.Background(), notSpec(), cegis.NewLibrary(cegis.Not(4)), nil)
	})
}

func TestSynthesizer_Z3(t *testing.T) {
	t.Run("Not", func(t *testing.T) {
		spec := notSpec()
		p := MustSynthesize(t, spec, cegis.NewLibrary(cegis.Not(4)))
		if s := p.String(); s != "# 1 inputs\n# 1 statements\nv1 := not(v0)\n" {
			t.Fatalf("unexpected program: %q", s)
		}
		ExpectEquivalent(t, spec, p, Exhaustive(spec))
	})

	t.Run("Max", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{4, 4}, 4, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewIteExpr(cegis.NewBinaryExpr(cegis.SGT, in[0], in[1]), in[0], in[1])
		})
		lib := cegis.NewLibrary(
			cegis.Xor(4), cegis.Xor(4), cegis.And(4), cegis.Sub(4),
			cegis.SLtBV(4), cegis.Const(4, 0),
		)
		p := MustSynthesize(t, spec, lib)
		ExpectEquivalent(t, spec, p, Exhaustive(spec))
		if diff := cmp.Diff(cegis.NewConstantExpr(3, 4), p.Execute(cegis.NewExample([]uint{4, 4}, 3, 14))); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Const4", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{4}, 4, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewConstantExpr(4, 4)
		})
		lib := cegis.NewLibrary(
			cegis.Add(4), cegis.Neg(4), cegis.Add(4), cegis.Add(4), cegis.Add(4), cegis.Const(4, 1),
		)
		p := MustSynthesize(t, spec, lib)
		ExpectEquivalent(t, spec, p, Exhaustive(spec))
	})

	t.Run("Abs", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			zero := cegis.NewConstantExpr(0, 8)
			return cegis.NewIteExpr(
				cegis.NewBinaryExpr(cegis.SLT, in[0], zero),
				cegis.NewBinaryExpr(cegis.SUB, zero, in[0]),
				in[0],
			)
		})
		p := MustSynthesize(t, spec, cegis.NewLibrary(cegis.AShr(8), cegis.Xor(8), cegis.Sub(8), cegis.Const(8, 7)))
		ExpectEquivalent(t, spec, p, Exhaustive(spec))
	})

	t.Run("GreaterZero", func(t *testing.T) {
		spec := cegis.NewSpecification32(1, func(in []cegis.Expr) cegis.Expr {
			gt := cegis.NewBinaryExpr(cegis.SGT, in[0], cegis.NewConstantExpr32(0))
			return cegis.NewCastExpr(gt, cegis.Width32, false)
		})
		p := MustSynthesize(t, spec, cegis.NewLibrary(cegis.SGtBV(32), cegis.Const(32, 0)))

		rng := rand.New(rand.NewSource(0))
		examples := []cegis.Example{
			cegis.NewExample([]uint{32}, 0),
			cegis.NewExample([]uint{32}, 1),
			cegis.NewExample([]uint{32}, 0x7fffffff),
			cegis.NewExample([]uint{32}, 0x80000000),
		}
		for i := 0; i < 200; i++ {
			examples = append(examples, cegis.NewExample([]uint{32}, uint64(rng.Uint32())))
		}
		ExpectEquivalent(t, spec, p, examples)
	})

	t.Run("Precondition", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewBinaryExpr(cegis.AND, in[0], cegis.NewConstantExpr(0xf, 8))
		})
		spec.AddPrecondition(func(in []cegis.Expr) cegis.Expr {
			return cegis.NewBinaryExpr(cegis.ULT, in[0], cegis.NewConstantExpr(16, 8))
		})
		p := MustSynthesize(t, spec, cegis.NewLibrary(cegis.Xor(8), cegis.Const(8, 0)))

		var examples []cegis.Example
		for x := uint64(0); x < 16; x++ {
			examples = append(examples, cegis.NewExample([]uint{8}, x))
		}
		ExpectEquivalent(t, spec, p, examples)
	})

	t.Run("SizeRestriction", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewBinaryExpr(cegis.AND, in[0], cegis.NewBinaryExpr(cegis.SUB, cegis.NewConstantExpr(0, 8), in[0]))
		})
		spec.SizeRestriction = 1

		sy := cegis.NewSynthesizer(z3.NewSolverFunc())
		if p, err := sy.SynthesizeDefault(context.Background(), spec, cegis.NewLibrary(cegis.Neg(8), cegis.And(8))); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		}

		spec.SizeRestriction = 2
		p := MustSynthesize(t, spec, cegis.NewLibrary(cegis.Neg(8), cegis.And(8)))
		if n := p.NumStatements(); n != 2 {
			t.Fatalf("unexpected statement count: %d", n)
		}
		ExpectEquivalent(t, spec, p, Exhaustive(spec))
	})

	t.Run("Seed", func(t *testing.T) {
		spec := cegis.NewSpecification([]uint{8}, 8, func(in []cegis.Expr) cegis.Expr {
			return cegis.NewBinaryExpr(cegis.AND, in[0], cegis.NewBinaryExpr(cegis.SUB, in[0], cegis.NewConstantExpr(1, 8)))
		})
		lib := cegis.NewLibrary(cegis.Sub(8), cegis.And(8), cegis.Const(8, 1))

		var counts []int
		for i := 0; i < 2; i++ {
			seed := 42
			sy := cegis.NewSynthesizer(z3.NewSolverFunc())
			sy.Settings.RandomSeed = &seed
			p, err := sy.SynthesizeDefault(context.Background(), spec, lib)
			if err != nil {
				t.Fatal(err)
			} else if p == nil {
				t.Fatal("expected program")
			}
			counts = append(counts, p.NumStatements())
		}
		if counts[0] != counts[1] {
			t.Fatalf("statement count differs across runs: %v", counts)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		spec := cegis.NewSpecification32(1, func(in []cegis.Expr) cegis.Expr {
			x := in[0]
			cube := cegis.NewBinaryExpr(cegis.MUL, cegis.NewBinaryExpr(cegis.MUL, x, x), x)
			return cegis.NewCastExpr(cegis.NewBinaryExpr(cegis.SGT, cube, x), cegis.Width32, false)
		})
		lib := cegis.NewLibrary(cegis.SGtBV(32), cegis.Xor(32), cegis.Xor(32), cegis.Xor(32), cegis.Const(32, 1))

		sy := cegis.NewSynthesizer(z3.NewSolverFunc())
		sy.Settings.Timeout = 200 * time.Millisecond
		if _, err := sy.SynthesizeDefault(context.Background(), spec, lib); !errors.Is(err, cegis.ErrTimeout) {
			t.Fatalf("unexpected error: %v", err)
		} else if n := sy.Stats().Iterations; n <= 0 {
			t.Fatalf("unexpected iterations: %d", n)
		}
	})

	t.Run("CubeGreater", func(t *testing.T) {
		if testing.Short() {
			t.Skip("short mode")
		}

		spec := cegis.NewSpecification32(1, func(in []cegis.Expr) cegis.Expr {
			x := in[0]
			cube := cegis.NewBinaryExpr(cegis.MUL, cegis.NewBinaryExpr(cegis.MUL, x, x), x)
			return cegis.NewCastExpr(cegis.NewBinaryExpr(cegis.SGT, cube, x), cegis.Width32, false)
		})
		lib := cegis.NewLibrary(cegis.SGtBV(32), cegis.Xor(32), cegis.Xor(32), cegis.Xor(32), cegis.Const(32, 1))

		sy := cegis.NewSynthesizer(z3.NewSolverFunc())
		if p, err := sy.SynthesizeDefault(context.Background(), spec, lib); err != nil {
			t.Fatal(err)
		} else if p != nil {
			t.Fatalf("unexpected program: %s", p)
		}
	})
}

// MustSynthesize runs a z3-backed synthesis from the zero example. Fails if
// no program is found.
func MustSynthesize(tb testing.TB, spec *cegis.Specification, lib *cegis.Library) *cegis.Program {
	tb.Helper()
	sy := cegis.NewSynthesizer(z3.NewSolverFunc())
	p, err := sy.SynthesizeDefault(context.Background(), spec, lib)
	if err != nil {
		tb.Fatal(err)
	} else if p == nil {
		tb.Fatal("expected program")
	}
	return p
}

// Exhaustive returns every input combination of a specification. Inputs
// must be narrow enough to enumerate.
func Exhaustive(spec *cegis.Specification) []cegis.Example {
	examples := []cegis.Example{nil}
	for _, w := range spec.InputWidths {
		var next []cegis.Example
		for _, prefix := range examples {
			for v := uint64(0); v < 1<<w; v++ {
				example := append(append(cegis.Example(nil), prefix...), cegis.NewConstantExpr(v, w))
				next = append(next, example)
			}
		}
		examples = next
	}
	return examples
}

// ExpectEquivalent fails if the program and specification disagree on any example.
func ExpectEquivalent(tb testing.TB, spec *cegis.Specification, p *cegis.Program, examples []cegis.Example) {
	tb.Helper()
	for _, example := range examples {
		if diff := cmp.Diff(spec.MustEval(example), p.Execute(example)); diff != "" {
			tb.Fatalf("input %s:\n%s\n%s", example, p, diff)
		}
	}
}
