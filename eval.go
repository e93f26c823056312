package cegis

import (
	"github.com/pkg/errors"
)

// ExprEvaluator evaluates expressions using known variable values.
type ExprEvaluator struct {
	m map[string]*ConstantExpr // mapping of variable name to value
}

// NewExprEvaluator returns a new instance of ExprEvaluator with the given variable/value mapping.
func NewExprEvaluator(vars []*VarExpr, values []*ConstantExpr) *ExprEvaluator {
	assert(len(vars) == len(values), "var/value count mismatch: %d != %d", len(vars), len(values))

	m := make(map[string]*ConstantExpr, len(vars))
	for i, v := range vars {
		_, ok := m[v.Name]
		assert(!ok, "duplicate var: %s", v.Name)
		assert(v.Width == values[i].Width, "var width mismatch: %s %d != %d", v.Name, v.Width, values[i].Width)
		m[v.Name] = values[i]
	}

	return &ExprEvaluator{m: m}
}

// Evaluate evaluates expr to a constant expression.
// Returns an error if an unbound variable is encountered.
func (ee *ExprEvaluator) Evaluate(expr Expr) (*ConstantExpr, error) {
	switch expr := expr.(type) {
	case *BinaryExpr:
		lhs, err := ee.Evaluate(expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := ee.Evaluate(expr.RHS)
		if err != nil {
			return nil, err
		}
		return NewBinaryExpr(expr.Op, lhs, rhs).(*ConstantExpr), nil
	case *CastExpr:
		src, err := ee.Evaluate(expr.Src)
		if err != nil {
			return nil, err
		}
		return NewCastExpr(src, expr.Width, expr.Signed).(*ConstantExpr), nil
	case *ConcatExpr:
		msb, err := ee.Evaluate(expr.MSB)
		if err != nil {
			return nil, err
		}
		lsb, err := ee.Evaluate(expr.LSB)
		if err != nil {
			return nil, err
		}
		return msb.Concat(lsb), nil
	case *ConstantExpr:
		return expr, nil
	case *VarExpr:
		value, ok := ee.m[expr.Name]
		if !ok {
			return nil, errors.Errorf("var not bound: %s", expr.Name)
		}
		return value, nil
	case *ExtractExpr:
		exp, err := ee.Evaluate(expr.Expr)
		if err != nil {
			return nil, err
		}
		return exp.Extract(expr.Offset, expr.Width), nil
	case *NotExpr:
		exp, err := ee.Evaluate(expr.Expr)
		if err != nil {
			return nil, err
		}
		return exp.Not(), nil
	case *IteExpr:
		cond, err := ee.Evaluate(expr.Cond)
		if err != nil {
			return nil, err
		} else if cond.IsTrue() {
			return ee.Evaluate(expr.Then)
		}
		return ee.Evaluate(expr.Else)
	case *DistinctExpr:
		values := make([]Expr, 0, len(expr.Exprs))
		for _, e := range expr.Exprs {
			value, err := ee.Evaluate(e)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return NewDistinctExpr(values...).(*ConstantExpr), nil

	default:
		return nil, errors.Errorf("invalid expression type: %T", expr)
	}
}

// EvaluateConstant evaluates an expression that contains no variables.
func EvaluateConstant(expr Expr) (*ConstantExpr, error) {
	if expr, ok := expr.(*ConstantExpr); ok {
		return expr, nil
	}
	return NewExprEvaluator(nil, nil).Evaluate(expr)
}
