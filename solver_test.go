package cegis_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/bitdep/cegis"
)

// RecordingSolver is a cegis.Solver that records constraints and answers
// every check with a fixed result and model.
type RecordingSolver struct {
	Constraints []cegis.Expr
	Result      cegis.CheckResult
	Model       map[string]uint64

	// Results and Models override Result and Model for the n-th check.
	Results []cegis.CheckResult
	Models  []map[string]uint64

	CheckN int
	Closed bool
}

func (s *RecordingSolver) Add(constraint cegis.Expr) error {
	s.Constraints = append(s.Constraints, constraint)
	return nil
}

func (s *RecordingSolver) Check(ctx context.Context) (cegis.CheckResult, error) {
	s.CheckN++
	if err := ctx.Err(); err != nil {
		return cegis.Unknown, cegis.ErrSolverCanceled
	} else if s.CheckN <= len(s.Results) {
		return s.Results[s.CheckN-1], nil
	}
	return s.Result, nil
}

func (s *RecordingSolver) Value(v *cegis.VarExpr) (*cegis.ConstantExpr, error) {
	model := s.Model
	if s.CheckN > 0 && s.CheckN <= len(s.Models) {
		model = s.Models[s.CheckN-1]
	}
	value, ok := model[v.Name]
	if !ok {
		return nil, fmt.Errorf("no model value: %s", v.Name)
	}
	return cegis.NewConstantExpr(value, v.Width), nil
}

func (s *RecordingSolver) Push() error { return nil }
func (s *RecordingSolver) Pop() error  { return nil }
func (s *RecordingSolver) Interrupt()  {}

func (s *RecordingSolver) Close() error {
	s.Closed = true
	return nil
}

// Holds returns true if every recorded constraint evaluates to true under
// the assignment. Fails if a variable is unassigned.
func (s *RecordingSolver) Holds(tb testing.TB, assignment map[string]uint64) bool {
	tb.Helper()
	vars := cegis.FindVars(s.Constraints...)
	values := make([]*cegis.ConstantExpr, len(vars))
	for i, v := range vars {
		value, ok := assignment[v.Name]
		if !ok {
			tb.Fatalf("unassigned variable: %s", v.Name)
		}
		values[i] = cegis.NewConstantExpr(value, v.Width)
	}

	ee := cegis.NewExprEvaluator(vars, values)
	for _, c := range s.Constraints {
		value, err := ee.Evaluate(c)
		if err != nil {
			tb.Fatal(err)
		} else if !value.IsTrue() {
			return false
		}
	}
	return true
}
