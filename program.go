package cegis

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/davecgh/go-spew/spew"
)

// Program is a straight-line program over the components of a library.
//
// Positions [0, NumInputs()) hold the inputs. Statement i of the library
// writes position raw[i]; only positions below NumInputs()+NumStatements()
// are executed. The last executed position holds the result.
type Program struct {
	lib           *Library
	numInputs     int
	numStatements int
	raw           []int
	aux           [][]*ConstantExpr // per library function

	order *immutable.SortedMap // position -> library index
}

// NewProgram returns a program from a raw position array and the auxiliary
// values of each library function.
func NewProgram(lib *Library, numInputs, numStatements int, raw []int, aux [][]*ConstantExpr) *Program {
	assert(len(raw) == lib.Len()+lib.InputSize(), "program: raw length %d != %d", len(raw), lib.Len()+lib.InputSize())
	assert(len(aux) == lib.Len(), "program: aux length %d != %d", len(aux), lib.Len())
	assert(numStatements > 0 && numStatements <= lib.Len(), "program: invalid statement count: %d", numStatements)

	p := &Program{
		lib:           lib,
		numInputs:     numInputs,
		numStatements: numStatements,
		raw:           append([]int(nil), raw...),
		aux:           make([][]*ConstantExpr, len(aux)),
		order:         immutable.NewSortedMap(&intComparer{}),
	}
	for i := range aux {
		assert(len(aux[i]) == lib.At(i).NumAux(), "program: %s has %d aux values, got %d", lib.At(i).Name, lib.At(i).NumAux(), len(aux[i]))
		p.aux[i] = append([]*ConstantExpr(nil), aux[i]...)
	}
	for i := 0; i < lib.Len(); i++ {
		p.order = p.order.Set(raw[i], i)
	}
	return p
}

// Library returns the library the program draws from.
func (p *Program) Library() *Library { return p.lib }

// NumInputs returns the number of inputs.
func (p *Program) NumInputs() int { return p.numInputs }

// NumStatements returns the number of executed statements.
func (p *Program) NumStatements() int { return p.numStatements }

// Raw returns a copy of the position array.
func (p *Program) Raw() []int {
	return append([]int(nil), p.raw...)
}

// AuxValues returns the auxiliary values flattened in library order.
func (p *Program) AuxValues() []*ConstantExpr {
	var a []*ConstantExpr
	for _, values := range p.aux {
		a = append(a, values...)
	}
	return a
}

// Stmt represents a single executed statement.
type Stmt struct {
	Position  int
	Function  *LibraryFunction
	Arguments []int
	Aux       []*ConstantExpr
}

// Statements returns the executed statements in position order.
func (p *Program) Statements() []Stmt {
	var a []Stmt
	offsets := p.lib.ArgOffsets()
	limit := p.numInputs + p.numStatements

	itr := p.order.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		pos, f := k.(int), v.(int)
		if pos >= limit {
			break
		}
		a = append(a, Stmt{
			Position:  pos,
			Function:  p.lib.At(f),
			Arguments: append([]int(nil), p.raw[offsets[f]:offsets[f+1]]...),
			Aux:       append([]*ConstantExpr(nil), p.aux[f]...),
		})
	}
	return a
}

// Execute runs the program on concrete inputs and returns the value of the
// last executed position. Panics if the inputs do not match the program.
func (p *Program) Execute(inputs []*ConstantExpr) *ConstantExpr {
	assert(len(inputs) == p.numInputs, "execute: expected %d inputs, got %d", p.numInputs, len(inputs))

	values := make([]*ConstantExpr, p.numInputs+p.lib.Len())
	copy(values, inputs)

	var result *ConstantExpr
	for _, stmt := range p.Statements() {
		args := make([]Expr, len(stmt.Arguments))
		for i, pos := range stmt.Arguments {
			assert(values[pos] != nil, "execute: v%d read before written by v%d", pos, stmt.Position)
			args[i] = values[pos]
		}
		aux := make([]Expr, len(stmt.Aux))
		for i := range stmt.Aux {
			aux[i] = stmt.Aux[i]
		}

		value, err := EvaluateConstant(stmt.Function.Apply(args, aux))
		assert(err == nil, "execute: %s: %v", stmt.Function.Name, err)
		values[stmt.Position] = value
		result = value
	}
	return result
}

// String returns the program as one assignment per line, preceded by the
// input and statement counts.
func (p *Program) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %d inputs\n# %d statements\n", p.numInputs, p.numStatements)
	for _, stmt := range p.Statements() {
		fmt.Fprintf(&buf, "v%d := %s", stmt.Position, stmt.Function.Name)
		if len(stmt.Aux) > 0 {
			aux := make([]string, len(stmt.Aux))
			for i, v := range stmt.Aux {
				aux[i] = fmt.Sprint(v.Value)
			}
			fmt.Fprintf(&buf, "<%s>", strings.Join(aux, ","))
		}

		args := make([]string, len(stmt.Arguments))
		for i, pos := range stmt.Arguments {
			args[i] = fmt.Sprintf("v%d", pos)
		}
		fmt.Fprintf(&buf, "(%s)\n", strings.Join(args, ", "))
	}
	return buf.String()
}

// Dump returns a detailed rendering of the program internals for debugging.
func (p *Program) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableMethods: true}
	return cfg.Sdump(struct {
		NumInputs     int
		NumStatements int
		Raw           []int
		Aux           []*ConstantExpr
	}{p.numInputs, p.numStatements, p.raw, p.AuxValues()})
}

// intComparer compares two ints. Implements immutable.Comparer.
type intComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not an int.
func (c *intComparer) Compare(a, b interface{}) int {
	if i, j := a.(int), b.(int); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
