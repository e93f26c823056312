package cegis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
)

// Thresholds of the same-output heuristics.
const (
	// SameOutputThreshold is the number of trailing examples sharing one
	// output after which verification looks for a differing output.
	SameOutputThreshold = 16

	// ConstantFunctionThreshold is the number of examples sharing one output
	// after which the specification is tested for being constant.
	ConstantFunctionThreshold = 128
)

// Synthesizer searches for programs by counterexample-guided inductive
// synthesis. A Synthesizer is not safe for concurrent use.
type Synthesizer struct {
	newSolver SolverFunc
	stats     Stats

	Settings Settings
}

// NewSynthesizer returns a synthesizer that creates solvers with newSolver.
func NewSynthesizer(newSolver SolverFunc) *Synthesizer {
	return &Synthesizer{
		newSolver: newSolver,
		Settings:  DefaultSettings(),
	}
}

// Stats returns statistics of the most recent call to Synthesize.
func (sy *Synthesizer) Stats() Stats {
	return sy.stats
}

// SynthesizeDefault synthesizes a program starting from the all-zero example.
func (sy *Synthesizer) SynthesizeDefault(ctx context.Context, spec *Specification, lib *Library) (*Program, error) {
	return sy.Synthesize(ctx, spec, lib, []Example{ZeroExample(spec)})
}

// Synthesize returns a program built from lib that agrees with spec on every
// input satisfying its preconditions.
//
// Returns a nil program and nil error if no such program exists. Returns
// ErrTimeout if Settings.Timeout expires first, or the context error if ctx
// is cancelled. Panics if examples is empty.
func (sy *Synthesizer) Synthesize(ctx context.Context, spec *Specification, lib *Library, examples []Example) (*Program, error) {
	assert(len(examples) > 0, "synthesize: no examples")
	for _, example := range examples {
		assert(len(example) == spec.NumInputs(), "synthesize: example %s has %d values, expected %d", example, len(example), spec.NumInputs())
	}

	begin := time.Now()
	sy.stats = Stats{}

	if sy.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sy.Settings.Timeout)
		defer cancel()
	}

	lib = removeUnusableOperations(spec, lib)
	if lib.Len() == 0 {
		log.Printf("[prune] no component reaches the output within cost %d", spec.SizeRestriction)
		return nil, nil
	}

	usable := inputUsable(spec, lib)
	notAllInputsUsable := false
	for _, ok := range usable {
		notAllInputsUsable = notAllInputsUsable || !ok
	}

	numStatements := lib.Len()
	if spec.HasSizeRestriction() {
		numStatements = lib.MaxSizeForCostLimit(spec.SizeRestriction)
		if numStatements > lib.Len() {
			numStatements = lib.Len()
		}
	}
	if numStatements <= 0 {
		log.Printf("[prune] no statement fits within cost %d", spec.SizeRestriction)
		return nil, nil
	}
	st := NewListStrategy(spec, lib, numStatements)

	var running []Example
	var candidates [][]int
	var iteration int
	defer func() {
		sy.stats = Stats{
			Iterations: iteration + 1,
			Candidates: candidates,
			Elapsed:    time.Since(begin),
		}
		sy.stats.setExamples(running)
	}()

	gen, err := sy.newSolver(sy.Settings.generateConfig())
	if err != nil {
		return nil, errors.Wrap(err, "new generate solver")
	}
	defer closeSolver("generate", gen)

	if err := st.AssertWellFormedness(gen); err != nil {
		return nil, errors.Wrap(err, "assert well-formedness")
	}
	for _, example := range examples {
		if err := sy.addExample(gen, st, spec, len(running), example); err != nil {
			return nil, err
		}
		running = append(running, example)
	}

	for ; ; iteration++ {
		log.Printf("[cegis] iteration=%d examples=%d", iteration, len(running))

		result, err := check(ctx, gen)
		if err != nil {
			return nil, err
		} else if result == Unsat {
			log.Printf("[cegis] no candidate remains")
			return nil, nil
		}

		raw, err := st.ExtractProgram(gen)
		if err != nil {
			return nil, errors.Wrap(err, "extract program")
		}
		aux, err := st.ExtractAux(gen)
		if err != nil {
			return nil, errors.Wrap(err, "extract aux")
		}
		candidates = append(candidates, raw)
		log.Printf("[cegis] candidate=%v", raw)

		sameOutput := trailingSameOutput(spec, running)
		result, cex, err := sy.verify(ctx, st, spec, raw, aux, sameOutput)
		if err != nil {
			return nil, err
		} else if result == Unsat {
			other, numLive := Canonicalize(lib, spec.NumInputs(), numStatements, raw)
			log.Printf("[cegis] verified: statements=%d", numLive)
			return NewProgram(lib, spec.NumInputs(), numLive, other, aux), nil
		}
		log.Printf("[verify] counterexample=%s", cex)

		// Inputs no component can read cannot tell this example apart from
		// a previous one.
		if notAllInputsUsable && containsMasked(running, cex, usable) {
			log.Printf("[cegis] counterexample repeats on usable inputs")
			return nil, nil
		}

		if err := sy.addExample(gen, st, spec, len(running), cex); err != nil {
			return nil, err
		}
		running = append(running, cex)

		if len(running) > ConstantFunctionThreshold {
			if output := allSameOutput(spec, running); output != nil {
				example, err := sy.findOtherOutput(ctx, spec, output)
				if err != nil {
					return nil, err
				}

				if example != nil {
					if err := sy.addExample(gen, st, spec, len(running), example); err != nil {
						return nil, err
					}
					running = append(running, example)
				} else {
					log.Printf("[cegis] constant function: output=%d", output.Value)
					if err := st.ForbidInputDependence(gen); err != nil {
						return nil, errors.Wrap(err, "forbid input dependence")
					}
				}
			}
		}
	}
}

// addExample asserts an example and its expected output on the generate solver.
func (sy *Synthesizer) addExample(s Solver, st Strategy, spec *Specification, index int, example Example) error {
	output, err := spec.Eval(example)
	if err != nil {
		return errors.Wrapf(err, "eval example %s", example)
	}
	if err := st.AssertExample(s, index, example, output); err != nil {
		return errors.Wrapf(err, "assert example %s", example)
	}
	return nil
}

// verify checks a candidate against the specification on every input and
// returns a counterexample if one exists. If sameOutput is set and the
// counterexample yields that output, an input with a different output is
// preferred.
func (sy *Synthesizer) verify(ctx context.Context, st Strategy, spec *Specification, raw []int, aux [][]*ConstantExpr, sameOutput *ConstantExpr) (CheckResult, Example, error) {
	s, err := sy.newSolver(sy.Settings.verifyConfig(sameOutput != nil))
	if err != nil {
		return Unknown, nil, errors.Wrap(err, "new verify solver")
	}
	defer closeSolver("verify", s)

	inputs, err := st.AssertVerification(s, raw, aux)
	if err != nil {
		return Unknown, nil, errors.Wrap(err, "assert verification")
	}

	result, err := check(ctx, s)
	if err != nil || result == Unsat {
		return result, nil, err
	}

	cex, err := counterexample(s, inputs)
	if err != nil {
		return Unknown, nil, err
	}
	if sameOutput == nil || CompareExpr(spec.MustEval(cex), sameOutput) != 0 {
		return Sat, cex, nil
	}

	if err := s.Add(NewNeExpr(sameOutput, spec.Apply(varExprs(inputs)))); err != nil {
		return Unknown, nil, errors.Wrap(err, "assert different output")
	}
	switch result, err := check(ctx, s); {
	case err != nil && (ctx.Err() != nil || !errors.Is(err, ErrTimeout)):
		return Unknown, nil, err
	case err == nil && result == Sat:
		other, err := counterexample(s, inputs)
		if err != nil {
			return Unknown, nil, err
		}
		log.Printf("[verify] diversified %s -> %s", cex, other)
		return Sat, other, nil
	}
	return Sat, cex, nil
}

// findOtherOutput searches for an input satisfying the preconditions whose
// output differs from output. Returns nil if the specification is constant.
func (sy *Synthesizer) findOtherOutput(ctx context.Context, spec *Specification, output *ConstantExpr) (Example, error) {
	s, err := sy.newSolver(sy.Settings.verifyConfig(false))
	if err != nil {
		return nil, errors.Wrap(err, "new constant solver")
	}
	defer closeSolver("constant", s)

	inputs := make([]*VarExpr, spec.NumInputs())
	for i, w := range spec.InputWidths {
		inputs[i] = NewVarExpr(fmt.Sprintf("in_%d", i), w)
	}
	args := varExprs(inputs)

	for _, pre := range spec.Preconditions {
		if err := s.Add(pre(args)); err != nil {
			return nil, errors.Wrap(err, "assert precondition")
		}
	}
	if err := s.Add(NewNeExpr(output, spec.Apply(args))); err != nil {
		return nil, errors.Wrap(err, "assert different output")
	}

	result, err := check(ctx, s)
	if err != nil || result == Unsat {
		return nil, err
	}
	return counterexample(s, inputs)
}

// check runs a solver and maps an undecided result to ErrTimeout, or to the
// context error if the caller cancelled.
func check(ctx context.Context, s Solver) (CheckResult, error) {
	result, err := s.Check(ctx)
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return Unknown, ctx.Err()
	case err != nil && !isSolverUnknown(err):
		return Unknown, errors.Wrap(err, "check")
	case err != nil || result == Unknown:
		return Unknown, ErrTimeout
	}
	return result, nil
}

// isSolverUnknown returns true if err explains an unknown check result.
func isSolverUnknown(err error) bool {
	return errors.Is(err, ErrSolverTimeout) ||
		errors.Is(err, ErrSolverCanceled) ||
		errors.Is(err, ErrSolverResourceLimit) ||
		errors.Is(err, ErrSolverUnknown)
}

// counterexample reads the input values from a Sat solver.
func counterexample(s Solver, inputs []*VarExpr) (Example, error) {
	cex := make(Example, len(inputs))
	for i, v := range inputs {
		value, err := s.Value(v)
		if err != nil {
			return nil, errors.Wrapf(err, "counterexample %s", v.Name)
		}
		cex[i] = value
	}
	return cex, nil
}

// closeSolver releases a solver and logs a failure.
func closeSolver(name string, s Solver) {
	if err := s.Close(); err != nil {
		log.Printf("[cegis] close %s solver: %s", name, err)
	}
}

// removeUnusableOperations drops components whose cheapest use on a path to
// the output exceeds the size restriction. The library is returned unchanged
// without a restriction or with uniform costs.
func removeUnusableOperations(spec *Specification, lib *Library) *Library {
	if !spec.HasSizeRestriction() || lib.HasUniformCosts() {
		return lib
	}

	minCosts := make(map[int]int)
	var queue []int
	for i := 0; i < lib.Len(); i++ {
		if lib.At(i).OutputWidth == spec.OutputWidth {
			queue = append(queue, i)
			minCosts[i] = lib.Cost(i)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, w := range lib.At(cur).InputWidths {
			for i := 0; i < lib.Len(); i++ {
				if lib.At(i).OutputWidth != w {
					continue
				}
				cost := minCosts[cur] + lib.PairCost(cur, i) + lib.Cost(i)
				if prev, ok := minCosts[i]; !ok || prev > cost {
					queue = append(queue, i)
					minCosts[i] = cost
				}
			}
		}
	}

	var used []int
	for i := 0; i < lib.Len(); i++ {
		if cost, ok := minCosts[i]; ok && cost <= spec.SizeRestriction {
			used = append(used, i)
		}
	}
	if len(used) < lib.Len() {
		log.Printf("[prune] kept %d of %d components", len(used), lib.Len())
	}
	return lib.subset(used)
}

// inputUsable reports for each input whether some component argument has its width.
func inputUsable(spec *Specification, lib *Library) []bool {
	widths := make(map[uint]struct{})
	for _, f := range lib.Functions() {
		for _, w := range f.InputWidths {
			widths[w] = struct{}{}
		}
	}

	usable := make([]bool, spec.NumInputs())
	for i, w := range spec.InputWidths {
		_, usable[i] = widths[w]
	}
	return usable
}

// containsMasked returns true if an example equals example on every masked input.
func containsMasked(examples []Example, example Example, mask []bool) bool {
	for _, prev := range examples {
		equal := true
		for i := 0; equal && i < len(mask); i++ {
			if mask[i] && CompareExpr(prev[i], example[i]) != 0 {
				equal = false
			}
		}
		if equal {
			return true
		}
	}
	return false
}

// trailingSameOutput returns the output shared by the last SameOutputThreshold
// examples, or nil if they differ or there are fewer examples.
func trailingSameOutput(spec *Specification, examples []Example) *ConstantExpr {
	if len(examples) < SameOutputThreshold {
		return nil
	}
	return allSameOutput(spec, examples[len(examples)-SameOutputThreshold:])
}

// allSameOutput returns the output shared by every example, or nil.
func allSameOutput(spec *Specification, examples []Example) *ConstantExpr {
	first := spec.MustEval(examples[0])
	for _, example := range examples[1:] {
		if CompareExpr(spec.MustEval(example), first) != 0 {
			return nil
		}
	}
	return first
}

func varExprs(a []*VarExpr) []Expr {
	other := make([]Expr, len(a))
	for i := range a {
		other[i] = a[i]
	}
	return other
}
