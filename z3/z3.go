package z3

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/bitdep/cegis"
)

/*
#cgo LDFLAGS: -lz3
#include <z3.h>
#include <stdlib.h>
#include <stdio.h>
*/
import "C"

// Ensure solver implements interface.
var _ cegis.Solver = (*Solver)(nil)

// Solver represents an incremental bit-vector solver backed by an embedded
// Z3 context. Each solver owns its own context.
type Solver struct {
	mu     sync.Mutex // guards ctx against Interrupt after Close
	ctx    *Context
	raw    C.Z3_solver
	model  C.Z3_model
	config cegis.SolverConfig
	stats  Stats
}

// NewSolver returns a new instance of Solver.
func NewSolver(config cegis.SolverConfig) (*Solver, error) {
	ctx := NewContext()
	s := &Solver{ctx: ctx, config: config}

	switch config.Mode {
	case cegis.OneShot:
		logic := C.CString("QF_BV")
		defer C.free(unsafe.Pointer(logic))
		s.raw = C.Z3_mk_solver_for_logic(ctx.raw, C.Z3_mk_string_symbol(ctx.raw, logic))
		if err := ctx.err("Z3_mk_solver_for_logic"); err != nil {
			ctx.Close()
			return nil, err
		}
	default:
		s.raw = C.Z3_mk_solver(ctx.raw)
		if err := ctx.err("Z3_mk_solver"); err != nil {
			ctx.Close()
			return nil, err
		}
	}
	C.Z3_solver_inc_ref(ctx.raw, s.raw)

	if config.RandomSeed != nil {
		if err := s.setSeed(uint(*config.RandomSeed)); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewSolverFunc returns a constructor suitable for cegis.NewSynthesizer.
func NewSolverFunc() cegis.SolverFunc {
	return func(config cegis.SolverConfig) (cegis.Solver, error) {
		s, err := NewSolver(config)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (s *Solver) setSeed(seed uint) error {
	params := C.Z3_mk_params(s.ctx.raw)
	C.Z3_params_inc_ref(s.ctx.raw, params)
	defer C.Z3_params_dec_ref(s.ctx.raw, params)

	name := C.CString("random_seed")
	defer C.free(unsafe.Pointer(name))
	C.Z3_params_set_uint(s.ctx.raw, params, C.Z3_mk_string_symbol(s.ctx.raw, name), C.uint(seed))
	C.Z3_solver_set_params(s.ctx.raw, s.raw, params)
	return s.ctx.err("Z3_solver_set_params")
}

// Close deletes the underlying Z3 solver and context.
func (s *Solver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil
	}

	s.resetModel()
	C.Z3_solver_dec_ref(s.ctx.raw, s.raw)
	err := s.ctx.Close()
	s.ctx = nil
	return err
}

// Stats returns statistics for the solver.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Add asserts a boolean constraint.
func (s *Solver) Add(constraint cegis.Expr) error {
	if w := cegis.ExprWidth(constraint); w != cegis.WidthBool {
		return fmt.Errorf("z3.Solver.Add: constraint must be boolean, width %d", w)
	}
	s.resetModel()

	ast, err := s.ctx.toAST(constraint)
	if err != nil {
		return err
	}
	C.Z3_solver_assert(s.ctx.raw, s.raw, ast)
	return s.ctx.err("Z3_solver_assert")
}

// Check decides the asserted constraints. An undecided check returns
// cegis.Unknown with one of the cegis solver errors explaining why.
func (s *Solver) Check(ctx context.Context) (cegis.CheckResult, error) {
	t := time.Now()
	defer func() {
		s.stats.CheckN++
		s.stats.CheckTime += time.Since(t)
	}()
	s.resetModel()

	if err := ctx.Err(); err != nil {
		return cegis.Unknown, contextError(err)
	}
	stop := context.AfterFunc(ctx, s.Interrupt)
	defer stop()

	// Exit immediately if unsatisfiable or the solver encountered an error.
	ret := C.Z3_solver_check(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_check"); err != nil {
		return cegis.Unknown, err
	} else if ret == C.Z3_L_FALSE {
		return cegis.Unsat, nil
	} else if ret == C.Z3_L_UNDEF {
		if err := ctx.Err(); err != nil {
			return cegis.Unknown, contextError(err)
		}
		reason := C.GoString(C.Z3_solver_get_reason_unknown(s.ctx.raw, s.raw))
		switch {
		case strings.Contains(reason, "timeout"):
			return cegis.Unknown, cegis.ErrSolverTimeout
		case strings.Contains(reason, "canceled"):
			return cegis.Unknown, cegis.ErrSolverCanceled
		case strings.Contains(reason, "(resource limits reached)"):
			return cegis.Unknown, cegis.ErrSolverResourceLimit
		case strings.Contains(reason, "unknown"):
			return cegis.Unknown, cegis.ErrSolverUnknown
		default:
			return cegis.Unknown, fmt.Errorf("z3: %s", reason)
		}
	}

	s.model = C.Z3_solver_get_model(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_get_model"); err != nil {
		s.model = nil
		return cegis.Sat, err
	}
	C.Z3_model_inc_ref(s.ctx.raw, s.model)
	return cegis.Sat, nil
}

// contextError maps a context error to the matching solver error.
func contextError(err error) error {
	if err == context.DeadlineExceeded {
		return cegis.ErrSolverTimeout
	}
	return cegis.ErrSolverCanceled
}

// Value returns the value of v in the model of the last Sat check.
func (s *Solver) Value(v *cegis.VarExpr) (*cegis.ConstantExpr, error) {
	if s.model == nil {
		return nil, fmt.Errorf("z3.Solver.Value: no model available")
	}

	ast, err := s.ctx.toVarAST(v)
	if err != nil {
		return nil, err
	}

	var value C.Z3_ast
	if !bool(C.Z3_model_eval(s.ctx.raw, s.model, ast, C.bool(true), &value)) {
		return nil, fmt.Errorf("z3.Solver.Value: cannot evaluate %s", v.Name)
	} else if err := s.ctx.err("Z3_model_eval"); err != nil {
		return nil, err
	}

	if v.Width == cegis.WidthBool {
		b := C.Z3_get_bool_value(s.ctx.raw, value)
		if err := s.ctx.err("Z3_get_bool_value"); err != nil {
			return nil, err
		}
		return cegis.NewBoolConstantExpr(b == C.Z3_L_TRUE), nil
	}

	str := C.GoString(C.Z3_get_numeral_string(s.ctx.raw, value))
	if err := s.ctx.err("Z3_get_numeral_string"); err != nil {
		return nil, err
	}
	u, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("z3.Solver.Value: %s is not a numeral: %s", v.Name, s.ctx.astToString(value))
	}
	return cegis.NewConstantExpr(u, v.Width), nil
}

// Push creates a backtracking point.
func (s *Solver) Push() error {
	s.resetModel()
	C.Z3_solver_push(s.ctx.raw, s.raw)
	return s.ctx.err("Z3_solver_push")
}

// Pop removes the constraints added since the last Push.
func (s *Solver) Pop() error {
	s.resetModel()
	C.Z3_solver_pop(s.ctx.raw, s.raw, 1)
	return s.ctx.err("Z3_solver_pop")
}

// Interrupt aborts a running check. Safe to call from another goroutine.
func (s *Solver) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		C.Z3_interrupt(s.ctx.raw)
	}
}

func (s *Solver) resetModel() {
	if s.model != nil {
		C.Z3_model_dec_ref(s.ctx.raw, s.model)
		s.model = nil
	}
}

// Context represents a Z3 context object that is used for constructing expressions.
type Context struct {
	raw C.Z3_context
}

// NewContext returns a new instance of Context.
func NewContext() *Context {
	config := C.Z3_mk_config()
	defer C.Z3_del_config(config)

	raw := C.Z3_mk_context(config)
	C.Z3_set_error_handler(raw, nil)
	C.Z3_set_ast_print_mode(raw, C.Z3_PRINT_SMTLIB2_COMPLIANT)
	return &Context{raw: raw}
}

// Close deletes the underlying Z3 context.
func (ctx *Context) Close() error {
	C.Z3_del_context(ctx.raw)
	return nil
}

// err returns the error for the last API call. Returns nil if last call was successful.
func (ctx *Context) err(op string) error {
	if code := C.Z3_get_error_code(ctx.raw); code != C.Z3_OK {
		return &Error{Code: int(code), Op: op, Message: C.GoString(C.Z3_get_error_msg(ctx.raw, code))}
	}
	return nil
}

// toAST returns a new instance of Z3_ast from an expression. Width-1
// expressions translate to the Bool sort, all others to bit-vectors.
func (ctx *Context) toAST(expr cegis.Expr) (C.Z3_ast, error) {
	switch expr := expr.(type) {
	case *cegis.ConstantExpr:
		return ctx.toConstantAST(expr)
	case *cegis.VarExpr:
		return ctx.toVarAST(expr)
	case *cegis.ConcatExpr:
		return ctx.toConcatAST(expr)
	case *cegis.ExtractExpr:
		return ctx.toExtractAST(expr)
	case *cegis.CastExpr:
		return ctx.toCastAST(expr)
	case *cegis.NotExpr:
		return ctx.toNotAST(expr)
	case *cegis.IteExpr:
		return ctx.toIteAST(expr)
	case *cegis.DistinctExpr:
		return ctx.toDistinctAST(expr)
	case *cegis.BinaryExpr:
		return ctx.toBinaryAST(expr)
	default:
		return nil, fmt.Errorf("z3.Context.toAST: invalid expression type: %T", expr)
	}
}

// toBVAST is like toAST but returns a one-bit vector for boolean expressions.
func (ctx *Context) toBVAST(expr cegis.Expr) (C.Z3_ast, error) {
	ast, err := ctx.toAST(expr)
	if err != nil {
		return nil, err
	} else if cegis.ExprWidth(expr) != cegis.WidthBool {
		return ast, nil
	}
	return ctx.boolToBV(ast)
}

func (ctx *Context) boolToBV(ast C.Z3_ast) (C.Z3_ast, error) {
	one, err := ctx.makeUint64(1, 1)
	if err != nil {
		return nil, err
	}
	zero, err := ctx.makeUint64(1, 0)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, ast, one, zero), ctx.err("Z3_mk_ite[bool]")
}

func (ctx *Context) bvToBool(ast C.Z3_ast) (C.Z3_ast, error) {
	one, err := ctx.makeUint64(1, 1)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_eq(ctx.raw, ast, one), ctx.err("Z3_mk_eq[bool]")
}

func (ctx *Context) toConstantAST(expr *cegis.ConstantExpr) (C.Z3_ast, error) {
	if expr.Width == 1 {
		if expr.IsTrue() {
			return ctx.makeTrue()
		}
		return ctx.makeFalse()
	} else if expr.Width <= 32 {
		return ctx.makeUint(expr.Width, uint32(expr.Value))
	} else if expr.Width <= 64 {
		return ctx.makeUint64(expr.Width, expr.Value)
	}
	return nil, fmt.Errorf("z3.Context.toConstantAST: invalid expression width: %d", expr.Width)
}

func (ctx *Context) toVarAST(expr *cegis.VarExpr) (C.Z3_ast, error) {
	var sort C.Z3_sort
	if expr.Width == cegis.WidthBool {
		sort = C.Z3_mk_bool_sort(ctx.raw)
		if err := ctx.err("Z3_mk_bool_sort"); err != nil {
			return nil, err
		}
	} else {
		var err error
		if sort, err = ctx.makeBVSort(expr.Width); err != nil {
			return nil, err
		}
	}

	name := C.CString(expr.Name)
	defer C.free(unsafe.Pointer(name))
	symbol := C.Z3_mk_string_symbol(ctx.raw, name)
	return C.Z3_mk_const(ctx.raw, symbol, sort), ctx.err("Z3_mk_const")
}

func (ctx *Context) toConcatAST(expr *cegis.ConcatExpr) (C.Z3_ast, error) {
	msb, err := ctx.toBVAST(expr.MSB)
	if err != nil {
		return nil, err
	}
	lsb, err := ctx.toBVAST(expr.LSB)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_concat(ctx.raw, msb, lsb), ctx.err("Z3_mk_concat")
}

func (ctx *Context) toExtractAST(expr *cegis.ExtractExpr) (C.Z3_ast, error) {
	src, err := ctx.toBVAST(expr.Expr)
	if err != nil {
		return nil, err
	}

	// If extracting single bit, use EQ expression to convert to bool sort.
	if expr.Width == 1 {
		bit := C.Z3_mk_extract(ctx.raw, C.uint(expr.Offset), C.uint(expr.Offset), src)
		if err := ctx.err("Z3_mk_extract[bool]"); err != nil {
			return nil, err
		}
		return ctx.bvToBool(bit)
	}
	return C.Z3_mk_extract(ctx.raw, C.uint(expr.Offset+expr.Width-1), C.uint(expr.Offset), src), ctx.err("Z3_mk_extract")
}

func (ctx *Context) toCastAST(expr *cegis.CastExpr) (C.Z3_ast, error) {
	src, err := ctx.toAST(expr.Src)
	if err != nil {
		return nil, err
	}

	// Convert boolean cast to if-then-else expression.
	if cegis.ExprWidth(expr.Src) == 1 {
		var ones uint64 = 1
		if expr.Signed {
			ones = ^uint64(0)
		}
		whenTrue, err := ctx.makeUint64(expr.Width, ones)
		if err != nil {
			return nil, err
		}
		whenFalse, err := ctx.makeUint64(expr.Width, 0)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_ite(ctx.raw, src, whenTrue, whenFalse), ctx.err("Z3_mk_ite")
	}

	n := C.uint(expr.Width - cegis.ExprWidth(expr.Src))
	if expr.Signed {
		return C.Z3_mk_sign_ext(ctx.raw, n, src), ctx.err("Z3_mk_sign_ext")
	}
	return C.Z3_mk_zero_ext(ctx.raw, n, src), ctx.err("Z3_mk_zero_ext")
}

func (ctx *Context) toNotAST(expr *cegis.NotExpr) (C.Z3_ast, error) {
	src, err := ctx.toAST(expr.Expr)
	if err != nil {
		return nil, err
	}

	// If boolean, use boolean NOT operation.
	if cegis.ExprWidth(expr.Expr) == 1 {
		return C.Z3_mk_not(ctx.raw, src), ctx.err("Z3_mk_not")
	}
	return C.Z3_mk_bvnot(ctx.raw, src), ctx.err("Z3_mk_bvnot")
}

func (ctx *Context) toIteAST(expr *cegis.IteExpr) (C.Z3_ast, error) {
	cond, err := ctx.toAST(expr.Cond)
	if err != nil {
		return nil, err
	}
	then, err := ctx.toAST(expr.Then)
	if err != nil {
		return nil, err
	}
	els, err := ctx.toAST(expr.Else)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, cond, then, els), ctx.err("Z3_mk_ite")
}

func (ctx *Context) toDistinctAST(expr *cegis.DistinctExpr) (C.Z3_ast, error) {
	args := make([]C.Z3_ast, len(expr.Exprs))
	for i := range expr.Exprs {
		var err error
		if args[i], err = ctx.toAST(expr.Exprs[i]); err != nil {
			return nil, err
		}
	}
	return C.Z3_mk_distinct(ctx.raw, C.uint(len(args)), &args[0]), ctx.err("Z3_mk_distinct")
}

func (ctx *Context) toBinaryAST(expr *cegis.BinaryExpr) (C.Z3_ast, error) {
	if cegis.ExprWidth(expr.LHS) == cegis.WidthBool {
		switch expr.Op {
		case cegis.AND, cegis.OR, cegis.XOR, cegis.EQ, cegis.NE:
			return ctx.toBoolBinaryAST(expr)
		}
	}

	lhs, err := ctx.toBVAST(expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := ctx.toBVAST(expr.RHS)
	if err != nil {
		return nil, err
	}

	var ast C.Z3_ast
	var op string
	switch expr.Op {
	case cegis.ADD:
		ast, op = C.Z3_mk_bvadd(ctx.raw, lhs, rhs), "Z3_mk_bvadd"
	case cegis.SUB:
		ast, op = C.Z3_mk_bvsub(ctx.raw, lhs, rhs), "Z3_mk_bvsub"
	case cegis.MUL:
		ast, op = C.Z3_mk_bvmul(ctx.raw, lhs, rhs), "Z3_mk_bvmul"
	case cegis.UDIV:
		ast, op = C.Z3_mk_bvudiv(ctx.raw, lhs, rhs), "Z3_mk_bvudiv"
	case cegis.SDIV:
		ast, err = ctx.makeSDiv(lhs, rhs, cegis.ExprWidth(expr.LHS))
		if err != nil {
			return nil, err
		}
		op = "Z3_mk_bvsdiv"
	case cegis.UREM:
		ast, op = C.Z3_mk_bvurem(ctx.raw, lhs, rhs), "Z3_mk_bvurem"
	case cegis.SREM:
		ast, op = C.Z3_mk_bvsrem(ctx.raw, lhs, rhs), "Z3_mk_bvsrem"
	case cegis.SMOD:
		ast, op = C.Z3_mk_bvsmod(ctx.raw, lhs, rhs), "Z3_mk_bvsmod"
	case cegis.AND:
		ast, op = C.Z3_mk_bvand(ctx.raw, lhs, rhs), "Z3_mk_bvand"
	case cegis.OR:
		ast, op = C.Z3_mk_bvor(ctx.raw, lhs, rhs), "Z3_mk_bvor"
	case cegis.XOR:
		ast, op = C.Z3_mk_bvxor(ctx.raw, lhs, rhs), "Z3_mk_bvxor"
	case cegis.SHL:
		ast, op = C.Z3_mk_bvshl(ctx.raw, lhs, rhs), "Z3_mk_bvshl"
	case cegis.LSHR:
		ast, op = C.Z3_mk_bvlshr(ctx.raw, lhs, rhs), "Z3_mk_bvlshr"
	case cegis.ASHR:
		ast, op = C.Z3_mk_bvashr(ctx.raw, lhs, rhs), "Z3_mk_bvashr"

	// Comparisons always yield booleans.
	case cegis.EQ:
		return C.Z3_mk_eq(ctx.raw, lhs, rhs), ctx.err("Z3_mk_eq")
	case cegis.NE:
		args := [2]C.Z3_ast{lhs, rhs}
		return C.Z3_mk_distinct(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_distinct")
	case cegis.ULT:
		return C.Z3_mk_bvult(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvult")
	case cegis.ULE:
		return C.Z3_mk_bvule(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvule")
	case cegis.UGT:
		return C.Z3_mk_bvugt(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvugt")
	case cegis.UGE:
		return C.Z3_mk_bvuge(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvuge")
	case cegis.SLT:
		return C.Z3_mk_bvslt(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvslt")
	case cegis.SLE:
		return C.Z3_mk_bvsle(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsle")
	case cegis.SGT:
		return C.Z3_mk_bvsgt(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsgt")
	case cegis.SGE:
		return C.Z3_mk_bvsge(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsge")
	default:
		return nil, fmt.Errorf("z3.Context.toBinaryAST: unexpected operation: %s", expr.Op)
	}
	if err := ctx.err(op); err != nil {
		return nil, err
	}

	// Arithmetic on booleans is computed on one-bit vectors.
	if cegis.ExprWidth(expr.LHS) == cegis.WidthBool {
		return ctx.bvToBool(ast)
	}
	return ast, nil
}

// toBoolBinaryAST translates logical operations on boolean operands.
func (ctx *Context) toBoolBinaryAST(expr *cegis.BinaryExpr) (C.Z3_ast, error) {
	lhs, err := ctx.toAST(expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := ctx.toAST(expr.RHS)
	if err != nil {
		return nil, err
	}

	args := [2]C.Z3_ast{lhs, rhs}
	switch expr.Op {
	case cegis.AND:
		return C.Z3_mk_and(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_and")
	case cegis.OR:
		return C.Z3_mk_or(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_or")
	case cegis.XOR:
		return C.Z3_mk_xor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_xor")
	case cegis.EQ:
		return C.Z3_mk_iff(ctx.raw, lhs, rhs), ctx.err("Z3_mk_iff")
	default:
		return C.Z3_mk_xor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_xor")
	}
}

// makeSDiv returns signed division where division by zero yields all ones.
func (ctx *Context) makeSDiv(lhs, rhs C.Z3_ast, width uint) (C.Z3_ast, error) {
	zero, err := ctx.makeUint64(width, 0)
	if err != nil {
		return nil, err
	}
	ones, err := ctx.makeUint64(width, ^uint64(0)>>(64-width))
	if err != nil {
		return nil, err
	}

	isZero := C.Z3_mk_eq(ctx.raw, rhs, zero)
	if err := ctx.err("Z3_mk_eq"); err != nil {
		return nil, err
	}
	div := C.Z3_mk_bvsdiv(ctx.raw, lhs, rhs)
	if err := ctx.err("Z3_mk_bvsdiv"); err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, isZero, ones, div), ctx.err("Z3_mk_ite")
}

func (ctx *Context) makeTrue() (C.Z3_ast, error) {
	return C.Z3_mk_true(ctx.raw), ctx.err("Z3_mk_true")
}

func (ctx *Context) makeFalse() (C.Z3_ast, error) {
	return C.Z3_mk_false(ctx.raw), ctx.err("Z3_mk_false")
}

func (ctx *Context) makeBVSort(width uint) (C.Z3_sort, error) {
	return C.Z3_mk_bv_sort(ctx.raw, C.uint(width)), ctx.err("Z3_mk_bv_sort")
}

func (ctx *Context) makeUint(width uint, value uint32) (C.Z3_ast, error) {
	t, err := ctx.makeBVSort(width)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_unsigned_int(ctx.raw, C.uint(value), t), ctx.err("Z3_mk_unsigned_int")
}

func (ctx *Context) makeUint64(width uint, value uint64) (C.Z3_ast, error) {
	t, err := ctx.makeBVSort(width)
	if err != nil {
		return nil, err
	}
	numeral := C.CString(strconv.FormatUint(value, 10))
	defer C.free(unsafe.Pointer(numeral))
	return C.Z3_mk_numeral(ctx.raw, numeral, t), ctx.err("Z3_mk_numeral")
}

func (ctx *Context) astToString(ast C.Z3_ast) string {
	return C.GoString(C.Z3_ast_to_string(ctx.raw, ast))
}

// Error represents an error from the Z3 API.
type Error struct {
	Code    int
	Op      string
	Message string
}

// Error returns the error as a string.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Code)
}

// Possible error codes.
const (
	ErrorCodeOK = iota
	ErrorCodeSortError
	ErrorCodeIOB
	ErrorCodeInvalidArg
	ErrorCodeParserError
	ErrorCodeNoParser
	ErrorCodeInvalidPattern
	ErrorCodeMemoutFail
	ErrorCodeFileAccessError
	ErrorCodeInternalFatal
	ErrorCodeInvalidUsage
	ErrorCodeDecRefError
	ErrorCodeException
)

// Stats records the number and total duration of checks.
type Stats struct {
	CheckN    int
	CheckTime time.Duration
}
