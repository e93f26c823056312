package cegis_test

import (
	"strings"
	"testing"

	"github.com/bitdep/cegis"
	"github.com/google/go-cmp/cmp"
)

func TestProgram_Execute(t *testing.T) {
	lib := cegis.NewLibrary(cegis.Not(4), cegis.Add(4), cegis.Const(4, 1))

	t.Run("OK", func(t *testing.T) {
		// v1 := const1(); v2 := add(v0, v1); v3 := not(v2)
		p := cegis.NewProgram(lib, 1, 3, []int{3, 2, 1, 2, 0, 1}, make([][]*cegis.ConstantExpr, 3))
		for x := uint64(0); x < 16; x++ {
			exp := cegis.NewConstantExpr(^(x + 1), 4)
			if diff := cmp.Diff(exp, p.Execute(cegis.NewExample([]uint{4}, x))); diff != "" {
				t.Fatalf("x=%d: %s", x, diff)
			}
		}
	})

	t.Run("DeadStatement", func(t *testing.T) {
		p := cegis.NewProgram(lib, 1, 2, []int{3, 2, 1, 2, 0, 1}, make([][]*cegis.ConstantExpr, 3))
		if diff := cmp.Diff(cegis.NewConstantExpr(6, 4), p.Execute(cegis.NewExample([]uint{4}, 5))); diff != "" {
			t.Fatal(diff)
		} else if n := len(p.Statements()); n != 2 {
			t.Fatalf("unexpected statement count: %d", n)
		}
	})

	t.Run("Aux", func(t *testing.T) {
		lib := cegis.NewLibrary(cegis.ArbitraryConst(4), cegis.Add(4))
		aux := [][]*cegis.ConstantExpr{{cegis.NewConstantExpr(3, 4)}, nil}
		p := cegis.NewProgram(lib, 1, 2, []int{1, 2, 0, 1}, aux)
		if diff := cmp.Diff(cegis.NewConstantExpr(5, 4), p.Execute(cegis.NewExample([]uint{4}, 2))); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff([]*cegis.ConstantExpr{cegis.NewConstantExpr(3, 4)}, p.AuxValues()); diff != "" {
			t.Fatal(diff)
		}

		// Statement aux values are copies.
		p.Statements()[0].Aux[0] = cegis.NewConstantExpr(9, 4)
		if diff := cmp.Diff(cegis.NewConstantExpr(5, 4), p.Execute(cegis.NewExample([]uint{4}, 2))); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff([]*cegis.ConstantExpr{cegis.NewConstantExpr(3, 4)}, p.Statements()[0].Aux); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("ErrInputCount", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		p := cegis.NewProgram(lib, 1, 3, []int{3, 2, 1, 2, 0, 1}, make([][]*cegis.ConstantExpr, 3))
		p.Execute(cegis.NewExample([]uint{4, 4}, 1, 2))
	})

	t.Run("ErrRawLength", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		cegis.NewProgram(lib, 1, 3, []int{3, 2, 1}, make([][]*cegis.ConstantExpr, 3))
	})
}

func TestProgram_String(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		lib := cegis.NewLibrary(cegis.Not(4), cegis.Add(4), cegis.Const(4, 1))
		p := cegis.NewProgram(lib, 1, 3, []int{3, 2, 1, 2, 0, 1}, make([][]*cegis.ConstantExpr, 3))
		if s := p.String(); s != "# 1 inputs\n# 3 statements\nv1 := const1()\nv2 := add(v0, v1)\nv3 := not(v2)\n" {
			t.Fatalf("unexpected string: %q", s)
		}
	})

	t.Run("Aux", func(t *testing.T) {
		lib := cegis.NewLibrary(cegis.ArbitraryConst(4), cegis.Add(4))
		aux := [][]*cegis.ConstantExpr{{cegis.NewConstantExpr(3, 4)}, nil}
		p := cegis.NewProgram(lib, 1, 2, []int{1, 2, 0, 1}, aux)
		if s := p.String(); s != "# 1 inputs\n# 2 statements\nv1 := const<3>()\nv2 := add(v0, v1)\n" {
			t.Fatalf("unexpected string: %q", s)
		}
	})
}

func TestProgram_Statements(t *testing.T) {
	lib := cegis.NewLibrary(cegis.Not(4), cegis.Add(4), cegis.Const(4, 1))
	raw := []int{3, 2, 1, 2, 0, 1}
	p := cegis.NewProgram(lib, 1, 3, raw, make([][]*cegis.ConstantExpr, 3))

	var got []string
	for _, stmt := range p.Statements() {
		got = append(got, stmt.Function.Name)
	}
	if diff := cmp.Diff([]string{"const1", "add", "not"}, got); diff != "" {
		t.Fatal(diff)
	} else if diff := cmp.Diff([]int{0, 1}, p.Statements()[1].Arguments); diff != "" {
		t.Fatal(diff)
	}

	// Raw returns a copy.
	p.Raw()[0] = 100
	if diff := cmp.Diff(raw, p.Raw()); diff != "" {
		t.Fatal(diff)
	}
}

func TestProgram_Dump(t *testing.T) {
	lib := cegis.NewLibrary(cegis.Not(4))
	p := cegis.NewProgram(lib, 1, 1, []int{1, 0}, make([][]*cegis.ConstantExpr, 1))
	if s := p.Dump(); !strings.Contains(s, "NumStatements: (int) 1") {
		t.Fatalf("unexpected dump: %s", s)
	}
}
