package tcl_test

import (
	"errors"
	"testing"

	"github.com/gtcl-project/gtcl"
)

func TestEvalArithmetic(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	result, err := interp.Eval("expr {2 + 2}")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "4" {
		t.Errorf("expected '4', got %q", result.String())
	}
}

func TestSetVarInterpolation(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	interp.SetVar("name", "World")
	result, err := interp.Eval(`set greeting "Hello, $name!"`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "Hello, World!" {
		t.Errorf("expected 'Hello, World!', got %q", result.String())
	}
}

func TestVarRoundTrip(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	interp.SetVar("x", 42)
	v := interp.Var("x")
	n, err := tcl.AsInt(v)
	if err != nil {
		t.Fatalf("AsInt: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
}

func TestRegisterSimple(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	interp.Register("double", func(x int) int { return x * 2 })

	result, err := interp.Eval("double 21")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "42" {
		t.Errorf("expected '42', got %q", result.String())
	}
}

func TestRegisterWithError(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	interp.Register("divide", func(a, b int) (int, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	})

	if _, err := interp.Eval("divide 1 0"); err == nil {
		t.Fatal("expected error dividing by zero")
	}
	result, err := interp.Eval("divide 10 2")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "5" {
		t.Errorf("expected '5', got %q", result.String())
	}
}

func TestRegisterCommandLowLevel(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	interp.RegisterCommand("sum", func(i *tcl.Interp, cmd *tcl.Obj, args []*tcl.Obj) tcl.Result {
		if len(args) != 2 {
			return tcl.Errorf("wrong # args: should be \"sum a b\"")
		}
		a, _ := tcl.AsInt(args[0])
		b, _ := tcl.AsInt(args[1])
		return tcl.OK(a + b)
	})

	result, err := interp.Eval("sum 3 4")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "7" {
		t.Errorf("expected '7', got %q", result.String())
	}
}

// Fibonacci recursion: sanity of procedure calls, arithmetic promotion, and
// nested expr/command substitution (spec.md §8 scenario 2).
func TestFibonacciRecursion(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	script := `
proc fib n { if {$n <= 1} {expr 1} else {expr {[fib [expr {$n-1}]] + [fib [expr {$n-2}]]}} }
fib 10
`
	result, err := interp.Eval(script)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "89" {
		t.Errorf("expected '89', got %q", result.String())
	}
}

// Dict-sugar read/write (spec.md §8 scenario 3).
func TestDictSugar(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	result, err := interp.Eval(`set a(x) 1; set a(y) 2; list $a(x) $a(y)`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "1 2" {
		t.Errorf("expected '1 2', got %q", result.String())
	}
}

// catch traps an ERROR and converts it to an OK result carrying the message
// (spec.md §8 scenario 6).
func TestCatchTrapsError(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	result, err := interp.Eval(`catch { expr {1/0} } msg`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "1" {
		t.Errorf("expected catch code '1', got %q", result.String())
	}
	msg := interp.Var("msg")
	if msg.String() == "" {
		t.Error("expected $msg to hold the division-by-zero message")
	}
}

// break from a procedure called within foreach terminates the caller's loop
// (spec.md §8 scenario 1).
func TestControlFlowDelegation(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	script := `
proc control {cond code} { if {[uplevel 1 expr $cond]} { return -code [catch [list uplevel 1 $code] e] $e } }
set r {}
foreach i {1 2 3 4 5} { control {$i == 4} {break}; lappend r $i }
set r
`
	result, err := interp.Eval(script)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "1 2 3" {
		t.Errorf("expected '1 2 3', got %q", result.String())
	}
}

// Reference lifecycle: a finalizer fires exactly once when the sole
// variable holding a reference is overwritten and collect runs (spec.md §8
// scenario 4). The finalizer is invoked with (token, payload), the payload
// passed as its string form.
func TestReferenceFinalizer(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	var finalized []string
	interp.RegisterCommand("finalize", func(i *tcl.Interp, cmd *tcl.Obj, args []*tcl.Obj) tcl.Result {
		if len(args) == 2 {
			finalized = append(finalized, args[1].String())
		}
		return tcl.OK("")
	})

	if _, err := interp.Eval(`set r [ref hello hello finalize]`); err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	got, err := interp.Eval(`getref $r`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got.String() != "hello" {
		t.Errorf("expected 'hello', got %q", got.String())
	}

	if _, err := interp.Eval(`set r 0; collect`); err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if len(finalized) != 1 || finalized[0] != "hello" {
		t.Errorf("expected exactly one finalizer call with 'hello', got %v", finalized)
	}
}

func TestParseIncomplete(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	pr := interp.Parse("set x {")
	if pr.Status != tcl.ParseIncomplete {
		t.Errorf("expected ParseIncomplete, got %v", pr.Status)
	}
	pr = interp.Parse("set x 1")
	if pr.Status != tcl.ParseOK {
		t.Errorf("expected ParseOK, got %v", pr.Status)
	}
}

func TestForeignType(t *testing.T) {
	interp := tcl.New()
	defer interp.Close()

	type Counter struct{ value int }
	err := tcl.RegisterType[*Counter](interp, "Counter", tcl.TypeDef[*Counter]{
		New: func() *Counter { return &Counter{} },
		Methods: map[string]any{
			"incr": func(c *Counter) int { c.value++; return c.value },
			"get":  func(c *Counter) int { return c.value },
		},
	})
	if err != nil {
		t.Fatalf("RegisterType: %v", err)
	}

	result, err := interp.Eval(`set c [Counter new]; $c incr; $c incr`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if result.String() != "2" {
		t.Errorf("expected '2', got %q", result.String())
	}
}
