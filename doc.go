// Package tcl provides an embeddable TCL-family scripting language
// interpreter: a dual string/typed value system, a byte-oriented parser, a
// compiled script cache, an expression stack machine, callframe-scoped
// variables, command dispatch with user procedures, and a reference/GC
// subsystem for user-level handles.
//
// # Quick start
//
//	interp := tcl.New()
//	defer interp.Close()
//
//	result, err := interp.Eval("set x 42; expr {$x * 2}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.String()) // "84"
//
// # Registering Go functions
//
// [Interp.Register] exposes a Go function as a command, converting
// arguments and return values by reflection:
//
//	interp.Register("greet", func(name string) string {
//	    return "Hello, " + name + "!"
//	})
//	result, _ := interp.Eval(`greet World`)
//
// For full control over argument handling and error messages, use
// [Interp.RegisterCommand]:
//
//	interp.RegisterCommand("sum", func(i *tcl.Interp, cmd *tcl.Obj, args []*tcl.Obj) tcl.Result {
//	    a, _ := tcl.AsInt(args[0])
//	    b, _ := tcl.AsInt(args[1])
//	    return tcl.OK(a + b)
//	})
//
// # Values
//
// [*Obj] wraps one value of the engine's dual string/typed representation:
//
//	s := interp.String("hello")
//	n := interp.Int(42)
//	list := interp.List(interp.String("a"), n)
//
//	tcl.AsInt(n)     // (42, nil)
//	tcl.AsList(list) // ([]*Obj, nil)
//
// # Foreign types
//
// [RegisterType] exposes a Go struct as a TCL type whose instances are
// themselves usable as commands:
//
//	tcl.RegisterType[*Counter](interp, "Counter", tcl.TypeDef[*Counter]{
//	    New: func() *Counter { return &Counter{} },
//	    Methods: tcl.Methods{
//	        "incr": func(c *Counter) int { c.value++; return c.value },
//	    },
//	})
//	interp.Eval(`set c [Counter new]; $c incr`)
package tcl
