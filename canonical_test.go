package cegis_test

import (
	"testing"

	"github.com/bitdep/cegis"
	"github.com/google/go-cmp/cmp"
)

func TestCanonicalize(t *testing.T) {
	lib := cegis.NewLibrary(cegis.Not(4), cegis.Add(4), cegis.Const(4, 1))

	t.Run("AllLive", func(t *testing.T) {
		raw := []int{2, 3, 1, 1, 0, 2}
		other, n := cegis.Canonicalize(lib, 1, 3, raw)
		if n != 3 {
			t.Fatalf("unexpected live count: %d", n)
		} else if diff := cmp.Diff(raw, other); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Renumber", func(t *testing.T) {
		// v1 := const1 (dead); v2 := not(v0); v3 := add(v2, v0)
		other, n := cegis.Canonicalize(lib, 1, 3, []int{2, 3, 1, 0, 2, 0})
		if n != 2 {
			t.Fatalf("unexpected live count: %d", n)
		} else if diff := cmp.Diff([]int{1, 2, 3, 0, 1, 0}, other); diff != "" {
			t.Fatal(diff)
		}

		p := cegis.NewProgram(lib, 1, n, other, make([][]*cegis.ConstantExpr, 3))
		if s := p.String(); s != "# 1 inputs\n# 2 statements\nv1 := not(v0)\nv2 := add(v1, v0)\n" {
			t.Fatalf("unexpected program: %q", s)
		}
	})

	t.Run("OnlyOutput", func(t *testing.T) {
		other, n := cegis.Canonicalize(lib, 1, 3, []int{1, 3, 2, 0, 0, 0})
		if n != 1 {
			t.Fatalf("unexpected live count: %d", n)
		} else if diff := cmp.Diff([]int{2, 1, 3, 0, 0, 0}, other); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("SharedArgument", func(t *testing.T) {
		lib := cegis.NewLibrary(cegis.Add(4), cegis.Not(4), cegis.Not(4))
		// v1 := not(v0); v2 := not(v0) (dead); v3 := add(v1, v1)
		other, n := cegis.Canonicalize(lib, 1, 3, []int{3, 1, 2, 1, 1, 0, 0})
		if n != 2 {
			t.Fatalf("unexpected live count: %d", n)
		} else if diff := cmp.Diff([]int{2, 1, 3, 1, 1, 0, 0}, other); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, raw := range [][]int{
			{2, 3, 1, 1, 0, 2},
			{2, 3, 1, 0, 2, 0},
			{1, 3, 2, 0, 0, 0},
			{3, 2, 1, 2, 1, 0},
		} {
			once, n := cegis.Canonicalize(lib, 1, 3, raw)
			twice, m := cegis.Canonicalize(lib, 1, n, once)
			if m != n {
				t.Fatalf("%v: live count changed: %d != %d", raw, n, m)
			} else if diff := cmp.Diff(once, twice); diff != "" {
				t.Fatalf("%v: %s", raw, diff)
			}
		}
	})
}
