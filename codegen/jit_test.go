package codegen

import (
	"testing"

	"github.com/pejato/kaleidoscope/ast"
)

func mustEvaluate(t *testing.T, g *Generator, src string) float64 {
	t.Helper()
	mustGenerate(t, g, src)
	result, err := g.Evaluate(ast.AnonymousName)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	return result
}

func TestEvaluateConstant(t *testing.T) {
	g := newGenerator(t)
	if got := mustEvaluate(t, g, "4 + 5 * 2"); got != 14 {
		t.Fatalf("got %v, want 14", got)
	}
}

func TestEvaluateDefinedFunctions(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "def f(x, y) x + y")
	mustGenerate(t, g, "def g(x) x * 2")

	if got := mustEvaluate(t, g, "f(67, 67)"); got != 134 {
		t.Fatalf("f(67, 67) = %v, want 134", got)
	}
	if got := mustEvaluate(t, g, "g(67)"); got != 134 {
		t.Fatalf("g(67) = %v, want 134", got)
	}
}

func TestEvaluateAfterRejectedRedefinition(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "def f(x) x + 1")
	if _, err := g.Generate(mustParseDef(t, "def f(x) x * 100")); err == nil {
		t.Fatal("redefinition succeeded")
	}
	if got := mustEvaluate(t, g, "f(1)"); got != 2 {
		t.Fatalf("f(1) = %v, want 2", got)
	}
}

func TestEvaluateRecursion(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "def fib(x) if x < 3 then 1 else fib(x-1) + fib(x-2)")
	if got := mustEvaluate(t, g, "fib(10)"); got != 55 {
		t.Fatalf("fib(10) = %v, want 55", got)
	}
}

func TestEvaluateSuccessiveAnonymousExpressions(t *testing.T) {
	g := newGenerator(t)
	for i, want := range []float64{1, 2, 3} {
		got := mustEvaluate(t, g, []string{"1", "1 + 1", "1 + 1 + 1"}[i])
		if got != want {
			t.Fatalf("expression %d: got %v, want %v", i, got, want)
		}
	}
}

func TestEvaluateLessThan(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "def lt(a, b) a < b")
	if got := mustEvaluate(t, g, "lt(1, 2) + lt(2, 1) * 10"); got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestEvaluateHostLibrary(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "extern putchard(c)")
	mustGenerate(t, g, "extern printd(x)")
	if got := mustEvaluate(t, g, "putchard(10) + printd(42)"); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestEvaluateOptimized(t *testing.T) {
	g := newGenerator(t)
	g.Optimize = true
	mustGenerate(t, g, "def sq(x) x * x")
	if got := mustEvaluate(t, g, "sq(12) - 4"); got != 140 {
		t.Fatalf("got %v, want 140", got)
	}
}

func TestEvaluateErrors(t *testing.T) {
	g := newGenerator(t)
	_, err := g.Evaluate("nothing")
	wantErr(t, err, ErrUnknownFunction)

	mustGenerate(t, g, "def one(x) x")
	_, err = g.Evaluate("one")
	wantErr(t, err, ErrArity)
}

func TestEvaluateLeavesModuleEditable(t *testing.T) {
	g := newGenerator(t)
	mustGenerate(t, g, "def a(x) x")
	mustEvaluate(t, g, "a(1)")
	mustGenerate(t, g, "def b(x) a(x) + 1")
	if got := mustEvaluate(t, g, "b(1)"); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}
