// gtcl is the reference host for the embeddable TCL-like interpreter in
// this module. It doubles as the interpreter the test harness drives
// (spec §6 CLI): an interactive prompt, one-shot file evaluation, three
// tokenization-dump modes, and a hash-table smoke test.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/gtcl-project/gtcl"
)

func main() {
	var parseScript, parseExpr, parseSubst bool
	var testHT bool

	root := &cobra.Command{
		Use:           "gtcl [FILE] [arg ...]",
		Short:         "An embeddable TCL-like interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case testHT:
				return runTestHT()
			case parseScript, parseExpr, parseSubst:
				if len(args) != 1 {
					return fmt.Errorf("--parse/--parse-expr/--parse-subst require a FILE argument")
				}
				return runParseDump(args[0], parseScript, parseExpr, parseSubst)
			case len(args) >= 1:
				return runFile(args[0], args[1:])
			default:
				return runREPL()
			}
		},
	}
	root.Flags().BoolVar(&parseScript, "parse", false, "dump script tokens for FILE instead of evaluating it")
	root.Flags().BoolVar(&parseExpr, "parse-expr", false, "dump expression tokens for FILE instead of evaluating it")
	root.Flags().BoolVar(&parseSubst, "parse-subst", false, "dump subst tokens for FILE instead of evaluating it")
	root.Flags().BoolVar(&testHT, "test-ht", false, "run the hash-table smoke test across independent interpreters")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gtcl:", err)
		os.Exit(1)
	}
}

func registerHostCommands(i *tcl.Interp) {
	i.SetVar("argv0", os.Args[0])
	i.RegisterCommand("exit", cmdExit)
}

// cmdExit implements "exit ?code?". It does not call os.Exit directly: it
// returns a Signal result so the call unwinds through evalCompiled like any
// other non-OK code, and the top-level caller (runFile/runREPL) is the one
// that decides the process exit code (spec §6 "the exit command sets the
// exit code explicitly").
func cmdExit(i *tcl.Interp, cmd *tcl.Obj, args []*tcl.Obj) tcl.Result {
	if len(args) == 0 {
		return tcl.Signal(0)
	}
	n, err := tcl.AsInt(args[0])
	if err != nil {
		return tcl.Errorf("expected integer exit code but got %q", args[0].String())
	}
	return tcl.Signal(n)
}

func runFile(path string, scriptArgs []string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	i := tcl.New()
	defer i.Close()
	registerHostCommands(i)

	i.SetVar("argv", i.ListFrom(scriptArgs))
	i.SetVar("argc", len(scriptArgs))
	i.SetVar("argv0", path)

	result, err := i.Eval(string(src))
	if err != nil {
		if code, ok := exitCode(err); ok {
			os.Exit(code)
		}
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("script failed")
	}
	if result != nil && result.String() != "" {
		fmt.Println(result.String())
	}
	return nil
}

// exitCode reports whether err came from the "exit" command, and if so, the
// code it carried.
func exitCode(err error) (int, bool) {
	var ee *tcl.EvalError
	if !errors.As(err, &ee) || ee.Code != tcl.ResultSignal {
		return 0, false
	}
	var n int
	if _, scanErr := fmt.Sscanf(ee.Message, "%d", &n); scanErr != nil {
		return 0, false
	}
	return n, true
}

func runParseDump(path string, script, expr, subst bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	i := tcl.New()
	defer i.Close()

	var toks []tcl.TokenDump
	var dumpErr error
	switch {
	case script:
		toks, dumpErr = i.DumpScriptTokens(string(src))
	case expr:
		toks, dumpErr = i.DumpExprTokens(string(src))
	case subst:
		toks, dumpErr = i.DumpSubstTokens(string(src))
	}
	for _, t := range toks {
		if t.Name != "" || t.Key != "" {
			fmt.Printf("%-14s %-20q name=%q key=%q\n", t.Type, t.Text, t.Name, t.Key)
		} else {
			fmt.Printf("%-14s %q\n", t.Type, t.Text)
		}
	}
	if dumpErr != nil {
		return dumpErr
	}
	return nil
}

// runREPL is the interactive prompt (spec §6 "interp (no args) starts an
// interactive prompt"). It accumulates input across lines until the parser
// reports a complete statement, matching the teacher's incomplete-input
// handling in cmd/feather-tester.
func runREPL() error {
	i := tcl.New()
	defer i.Close()
	registerHostCommands(i)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runScriptStdin(i)
	}

	ed := newLineEditor()
	if err := ed.enterRawMode(); err != nil {
		return runScriptStdin(i)
	}
	defer ed.exitRawMode()

	var buf string
	for {
		prompt := "% "
		if buf != "" {
			prompt = "> "
		}
		line, ok, err := ed.readLine(prompt)
		if err != nil || !ok {
			return nil
		}
		if buf == "" {
			buf = line
		} else {
			buf += "\n" + line
		}

		pr := i.Parse(buf)
		if pr.Status == tcl.ParseIncomplete {
			continue
		}
		ed.remember(buf)
		if pr.Status == tcl.ParseError {
			fmt.Printf("error: %s\r\n", pr.Message)
			buf = ""
			continue
		}

		result, evalErr := i.Eval(buf)
		buf = ""
		if evalErr != nil {
			if code, isExit := exitCode(evalErr); isExit {
				os.Exit(code)
			}
			fmt.Printf("error: %s\r\n", evalErr.Error())
			continue
		}
		if result.String() != "" {
			fmt.Printf("%s\r\n", result.String())
		}
	}
}

// runScriptStdin evaluates stdin as a single script, the non-TTY fallback
// (piped input) the teacher's cmd/feather-tester also implements.
func runScriptStdin(i *tcl.Interp) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	result, evalErr := i.Eval(string(src))
	if evalErr != nil {
		if code, isExit := exitCode(evalErr); isExit {
			os.Exit(code)
		}
		fmt.Fprintln(os.Stderr, evalErr)
		return fmt.Errorf("script failed")
	}
	if result.String() != "" {
		fmt.Println(result.String())
	}
	return nil
}

// runTestHT is the hash-table smoke test (spec §6 "--test-ht"): it drives
// concurrent inserts across independent interpreters to demonstrate that no
// state leaks between instances (spec §5), failing fast via errgroup the way
// a concurrent test runner would.
func runTestHT() error {
	const interps = 8
	const keysPerInterp = 2000

	g, _ := errgroup.WithContext(context.Background())
	for n := 0; n < interps; n++ {
		n := n
		g.Go(func() error {
			i := tcl.New()
			defer i.Close()
			for k := 0; k < keysPerInterp; k++ {
				name := fmt.Sprintf("k%d_%d", n, k)
				i.SetVar(name, k)
			}
			for k := 0; k < keysPerInterp; k++ {
				name := fmt.Sprintf("k%d_%d", n, k)
				got := i.Var(name)
				want := fmt.Sprintf("%d", k)
				if got.String() != want {
					return fmt.Errorf("interp %d: var %s = %q, want %q", n, name, got.String(), want)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("PASS: hash table smoke test,", interps, "interpreters x", keysPerInterp, "keys each")
	return nil
}
