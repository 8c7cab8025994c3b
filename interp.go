package tcl

import (
	"fmt"

	"github.com/gtcl-project/gtcl/internal/core"
)

// Interp is a TCL interpreter instance.
//
// Create one with [New] and call [Interp.Close] when done. An Interp is not
// safe for concurrent use from multiple goroutines (spec §5: one interpreter
// is single-threaded; independent instances never share state).
//
//	interp := tcl.New()
//	defer interp.Close()
//	result, err := interp.Eval("expr {2 + 2}")
type Interp struct {
	ip *core.Interp
	fr *foreignRegistry
}

// New creates an interpreter with the full core command set registered
// (control flow, binding, data, computation, meta, references — spec §4.J).
func New() *Interp {
	return &Interp{ip: core.NewInterp()}
}

// Close releases resources held by the interpreter. After Close, the
// interpreter and any *Obj values created from it must not be used.
func (i *Interp) Close() {
	i.ip = nil
}

// SetRecursionLimit configures the maximum procedure call nesting depth
// (default [core.DefaultRecursionLimit]); exceeding it fails evaluation with
// "too many nested evaluations" (spec §5).
func (i *Interp) SetRecursionLimit(n int) {
	i.ip.SetRecursionLimit(n)
}

// -----------------------------------------------------------------------------
// Object creation
// -----------------------------------------------------------------------------

// String creates a string object.
func (i *Interp) String(s string) *Obj {
	return wrapValue(i.ip.NewString(s).IncrRef())
}

// Int creates an integer object.
func (i *Interp) Int(v int64) *Obj {
	return wrapValue(i.ip.NewInt(v).IncrRef())
}

// Float creates a floating-point object.
func (i *Interp) Float(v float64) *Obj {
	return wrapValue(i.ip.NewDouble(v).IncrRef())
}

// Bool creates an object holding TCL's integer encoding of a boolean: 1 or 0.
func (i *Interp) Bool(v bool) *Obj {
	if v {
		return i.Int(1)
	}
	return i.Int(0)
}

// List creates a list object from the given items.
func (i *Interp) List(items ...*Obj) *Obj {
	elems := make([]*core.Value, len(items))
	for j, it := range items {
		elems[j] = it.value().IncrRef()
	}
	return wrapValue(i.ip.NewList(elems).IncrRef())
}

// ListFrom creates a list object from a Go slice ([]string, []int, []int64,
// []float64, or []any; each element is converted via the same rules as
// [Interp.SetVar]).
func (i *Interp) ListFrom(slice any) *Obj {
	var items []*Obj
	switch s := slice.(type) {
	case []string:
		for _, v := range s {
			items = append(items, i.String(v))
		}
	case []int:
		for _, v := range s {
			items = append(items, i.Int(int64(v)))
		}
	case []int64:
		for _, v := range s {
			items = append(items, i.Int(v))
		}
	case []float64:
		for _, v := range s {
			items = append(items, i.Float(v))
		}
	case []any:
		for _, v := range s {
			items = append(items, i.anyToObj(v))
		}
	}
	return i.List(items...)
}

// Dict creates an empty dict object.
func (i *Interp) Dict() *Obj {
	return wrapValue(i.ip.NewDict().IncrRef())
}

// DictKV creates a dict object from alternating key/value pairs. Keys that
// are not strings are rendered with fmt.Sprintf.
func (i *Interp) DictKV(kvs ...any) *Obj {
	d := i.Dict()
	dv, _ := d.value().AsDict()
	for j := 0; j+1 < len(kvs); j += 2 {
		key, ok := kvs[j].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvs[j])
		}
		dv.Set(key, i.anyToObj(kvs[j+1]).value())
	}
	return d
}

// DictFrom creates a dict object from a Go map. Map iteration order is
// undefined, so the resulting key order may vary between calls.
func (i *Interp) DictFrom(m map[string]any) *Obj {
	d := i.Dict()
	dv, _ := d.value().AsDict()
	for k, v := range m {
		dv.Set(k, i.anyToObj(v).value())
	}
	return d
}

func (i *Interp) anyToObj(v any) *Obj {
	switch val := v.(type) {
	case string:
		return i.String(val)
	case int:
		return i.Int(int64(val))
	case int64:
		return i.Int(val)
	case float64:
		return i.Float(val)
	case bool:
		return i.Bool(val)
	case *Obj:
		return val
	default:
		return i.String(fmt.Sprintf("%v", v))
	}
}

// -----------------------------------------------------------------------------
// Script evaluation
// -----------------------------------------------------------------------------

// Eval evaluates a TCL script and returns its result. Commands are separated
// by newlines or semicolons (spec §4.H).
func (i *Interp) Eval(script string) (*Obj, error) {
	v, code, err := i.ip.EvalString(script)
	if err != nil {
		return nil, &EvalError{Code: core.ERROR, Message: err.Error()}
	}
	if code == core.BREAK || code == core.CONTINUE {
		// No enclosing loop construct remains to catch it at the outermost
		// script boundary (spec §7 "invoked %q outside of a loop").
		v.DecrRef()
		return nil, newEvalError(core.ERROR, fmt.Errorf("invoked %q outside of a loop", code.String()))
	}
	if code != core.OK {
		msg := v.String()
		v.DecrRef()
		return nil, newEvalError(code, fmt.Errorf("%s", msg))
	}
	return wrapValue(v), nil
}

// Call invokes a single command with the given arguments, converting each
// argument to its TCL string representation (spec §4.H interpolation).
func (i *Interp) Call(cmd string, args ...any) (*Obj, error) {
	script := cmd
	for _, arg := range args {
		script += " " + toTclString(arg)
	}
	return i.Eval(script)
}

// -----------------------------------------------------------------------------
// Variables
// -----------------------------------------------------------------------------

// Var returns the value of a global variable, or an empty string object if
// it does not exist.
func (i *Interp) Var(name string) *Obj {
	v, err := i.ip.GetVar(i.ip.GlobalFrame(), name)
	if err != nil {
		return i.String("")
	}
	return wrapValue(v.IncrRef())
}

// SetVar sets a global variable, converting val the same way [Interp.DictKV]
// converts its values.
func (i *Interp) SetVar(name string, val any) {
	i.ip.SetVar(i.ip.GlobalFrame(), name, i.anyToObj(val).value())
}

// SetVars sets multiple global variables from a map.
func (i *Interp) SetVars(vars map[string]any) {
	for name, val := range vars {
		i.SetVar(name, val)
	}
}

// GetVars reads multiple global variables into a map.
func (i *Interp) GetVars(names ...string) map[string]*Obj {
	out := make(map[string]*Obj, len(names))
	for _, n := range names {
		out[n] = i.Var(n)
	}
	return out
}

// -----------------------------------------------------------------------------
// Command registration
// -----------------------------------------------------------------------------

// CommandFunc is the signature for commands registered with
// [Interp.RegisterCommand].
type CommandFunc func(i *Interp, cmd *Obj, args []*Obj) Result

// RegisterCommand installs a command using the low-level CommandFunc
// interface, giving full control over argument handling and error messages.
// For automatic argument conversion by reflection, use [Interp.Register].
func (i *Interp) RegisterCommand(name string, fn CommandFunc) {
	i.ip.RegisterNative(name, i.wrapCommandFunc(fn))
}

// SetUnknownHandler installs the command invoked when dispatch finds no
// matching command name (spec §4.H "unknown fallback"). Pass nil to restore
// the default "invalid command name" error.
func (i *Interp) SetUnknownHandler(fn CommandFunc) {
	if fn == nil {
		i.ip.SetUnknownHandler(nil)
		return
	}
	i.ip.SetUnknownHandler(i.wrapCommandFunc(fn))
}

func (i *Interp) wrapCommandFunc(fn CommandFunc) core.NativeFunc {
	return func(ip *core.Interp, argv []*core.Value) (*core.Value, core.ReturnCode, error) {
		objArgs := make([]*Obj, len(argv)-1)
		for j, a := range argv[1:] {
			objArgs[j] = wrapValue(a)
		}
		r := fn(i, wrapValue(argv[0]), objArgs)
		if r.hasObj {
			return r.obj.value(), r.code, nil
		}
		if r.code == ResultError {
			return nil, core.ERROR, fmt.Errorf("%s", r.val)
		}
		return ip.NewString(r.val), r.code, nil
	}
}

// Register installs a command with automatic argument and return-value
// conversion by reflection; see [register.go] for the supported shapes.
func (i *Interp) Register(name string, fn any) {
	i.ip.RegisterNative(name, wrapFunc(fn))
}

// -----------------------------------------------------------------------------
// Parsing
// -----------------------------------------------------------------------------

// ParseStatus indicates whether a script is complete, incomplete (unclosed
// brace/bracket/quote), or contains a syntax error.
type ParseStatus int

const (
	ParseOK         ParseStatus = ParseStatus(core.ParseOK)
	ParseIncomplete ParseStatus = ParseStatus(core.ParseIncomplete)
	ParseError      ParseStatus = ParseStatus(core.ParseError)
)

// ParseResult holds the outcome of [Interp.Parse].
type ParseResult struct {
	Status  ParseStatus
	Message string
}

// Parse checks whether script is syntactically complete, without evaluating
// it. REPLs use this to decide whether to keep reading more input lines.
func (i *Interp) Parse(script string) ParseResult {
	status, msg := core.Parse(script)
	return ParseResult{Status: ParseStatus(status), Message: msg}
}

// ParseList parses s as TCL list syntax.
func (i *Interp) ParseList(s string) ([]*Obj, error) {
	items, err := core.ParseListItems(s)
	if err != nil {
		return nil, err
	}
	out := make([]*Obj, len(items))
	for j, it := range items {
		out[j] = i.String(it)
	}
	return out, nil
}

// ParseDict parses s as TCL dict syntax (an alternating key/value list).
func (i *Interp) ParseDict(s string) (*DictType, error) {
	return i.String(s).Dict()
}

// TokenDump describes one lexical token, for the "--parse"/"--parse-expr"/
// "--parse-subst" tokenization dumps (spec §6).
type TokenDump struct {
	Type string
	Text string
	Name string
	Key  string
}

// DumpScriptTokens tokenizes source as a command script.
func (i *Interp) DumpScriptTokens(source string) ([]TokenDump, error) {
	toks, err := core.ParseScript(source)
	return dumpTokens(toks), err
}

// DumpSubstTokens tokenizes source as the Subst dialect ($var/[cmd]/\escape,
// whitespace and ';' literal).
func (i *Interp) DumpSubstTokens(source string) ([]TokenDump, error) {
	toks, err := core.ParseSubstTokens(source)
	return dumpTokens(toks), err
}

func dumpTokens(toks []core.Token) []TokenDump {
	out := make([]TokenDump, len(toks))
	for j, t := range toks {
		out[j] = TokenDump{Type: t.Type.String(), Text: t.Text, Name: t.Name, Key: t.Key}
	}
	return out
}

// DumpExprTokens tokenizes source as the expression dialect.
func (i *Interp) DumpExprTokens(source string) ([]TokenDump, error) {
	toks, err := core.DumpExprTokens(source)
	out := make([]TokenDump, len(toks))
	for j, t := range toks {
		out[j] = TokenDump{Type: t.Kind, Text: t.Text, Name: t.Name, Key: t.Key}
	}
	return out, err
}

// -----------------------------------------------------------------------------
// Command results
// -----------------------------------------------------------------------------

// resultCode mirrors core.ReturnCode values a CommandFunc may return.
type resultCode = core.ReturnCode

const (
	ResultOK     = core.OK
	ResultError  = core.ERROR
	ResultSignal = core.SIGNAL
)

// Result represents the outcome of a [CommandFunc]. Build one with [OK],
// [Error], or [Errorf].
type Result struct {
	code   resultCode
	val    string
	obj    *Obj
	hasObj bool
}

// OK returns a successful result. Pass a *Obj to preserve its native type
// (int, list, dict, …); any other value is rendered via [toTclString].
func OK(v any) Result {
	if o, ok := v.(*Obj); ok {
		return Result{code: ResultOK, obj: o, hasObj: true}
	}
	return Result{code: ResultOK, val: toTclString(v)}
}

// Error returns an error result with the given message.
func Error(v any) Result {
	if o, ok := v.(*Obj); ok {
		return Result{code: ResultError, obj: o, hasObj: true}
	}
	if s, ok := v.(string); ok {
		return Result{code: ResultError, val: s}
	}
	return Result{code: ResultError, val: toTclString(v)}
}

// Errorf returns a formatted error result.
func Errorf(format string, args ...any) Result {
	return Result{code: ResultError, val: fmt.Sprintf(format, args...)}
}

// Signal returns a result carrying [core.SIGNAL], the code reserved for a
// host collaborator's own control-flow mechanism (spec §9 open question).
// cmd/gtcl's "exit" command uses this to unwind out of the running script
// without the core needing any notion of process exit.
func Signal(v any) Result {
	return Result{code: core.SIGNAL, val: toTclString(v)}
}
