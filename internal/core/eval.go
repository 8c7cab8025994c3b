package core

import "fmt"

// EvalString compiles (reusing the cache) and evaluates source as a script
// against the currently active frame (spec §4.F "eval").
func (ip *Interp) EvalString(source string) (*Value, ReturnCode, error) {
	scr, err := ip.GetOrCompileScript(source)
	if err != nil {
		return nil, ERROR, err
	}
	return ip.evalCompiled(scr)
}

// EvalScriptValue evaluates v, reusing its compiled form when v is already a
// KindScript value (e.g. a procedure body or a loop body literal).
func (ip *Interp) EvalScriptValue(v *Value) (*Value, ReturnCode, error) {
	if v.Kind() == KindScript || v.Kind() == KindSubst {
		return ip.evalCompiled(v.scr)
	}
	return ip.EvalString(v.String())
}

// evalCompiled runs every command in scr in order. Following the engine-wide
// convention that a function returning *Value hands the caller one owned
// reference, the value threaded between commands is released as soon as the
// next command supersedes it.
func (ip *Interp) evalCompiled(scr *Script) (*Value, ReturnCode, error) {
	scr.inUse++
	defer func() { scr.inUse-- }()

	result := ip.NewString("")
	result.IncrRef()
	for i := range scr.commands {
		res, code, err := ip.evalCommand(&scr.commands[i])
		result.DecrRef()
		if err != nil {
			if res != nil {
				res.DecrRef()
			}
			return nil, ERROR, err
		}
		if code != OK {
			return res, code, nil
		}
		result = res
	}
	return result, OK, nil
}

// evalCommand substitutes every word of cmd and dispatches the resulting
// argument vector (spec §4.F "per-command argument vector construction").
func (ip *Interp) evalCommand(cmd *scriptCommand) (*Value, ReturnCode, error) {
	var argv []*Value
	defer func() {
		for _, a := range argv {
			a.DecrRef()
		}
	}()
	for i := range cmd.words {
		w := &cmd.words[i]
		var wv *Value
		var err error
		if i == 0 {
			wv = ip.commandNameValue(cmd, w)
		}
		if wv == nil {
			wv, err = ip.buildWord(w)
			if err != nil {
				return nil, ERROR, err
			}
		}
		if w.expand {
			items, err := ip.valueAsList(wv)
			if err != nil {
				wv.DecrRef()
				return nil, ERROR, err
			}
			for _, it := range items {
				argv = append(argv, it.IncrRef())
			}
			wv.DecrRef()
			continue
		}
		argv = append(argv, wv)
	}
	if len(argv) == 0 {
		v := ip.NewString("")
		v.IncrRef()
		return v, OK, nil
	}
	return ip.Dispatch(argv, cmd.cmdc)
}

// commandNameValue returns an owned reference to the persistent KindCommand
// value standing in for w, reusing cmd's cached one across repeated
// evaluation (spec §4.F "command" internal rep). It only applies when w is a
// single unsubstituted literal; for anything else (a variable, a nested
// command, string interpolation) it returns nil so the caller falls back to
// the normal buildWord path.
func (ip *Interp) commandNameValue(cmd *scriptCommand, w *scriptWord) *Value {
	if len(w.parts) != 1 {
		return nil
	}
	t := &w.parts[0]
	if t.Type != TokStr && t.Type != TokEsc {
		return nil
	}
	if cmd.cmdVal != nil {
		return cmd.cmdVal.IncrRef()
	}
	if cmd.cmdc == nil {
		cmd.cmdc = &cmdCache{}
	}
	v := ip.newValue()
	v.str = UnescapeBackslashes(t.Text)
	v.strValid = true
	v.kind = KindCommand
	v.cmdc = cmd.cmdc
	v.IncrRef() // permanent anchor held by cmd.cmdVal
	cmd.cmdVal = v
	return v.IncrRef()
}

// buildWord substitutes the parts of one word, preserving the single-part
// fast path's native type (spec §4.A "a lone $var word keeps the variable's
// internal representation instead of forcing a string"). It always returns
// one owned reference, matching substPart's contract.
func (ip *Interp) buildWord(w *scriptWord) (*Value, error) {
	if len(w.parts) == 1 {
		return ip.substPart(&w.parts[0])
	}
	var out []byte
	for i := range w.parts {
		v, err := ip.substPart(&w.parts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v.String()...)
		v.DecrRef()
	}
	res := ip.NewString(string(out))
	res.IncrRef()
	return res, nil
}

// substPart substitutes one token and always returns an owned reference
// (refcount includes +1 for the caller), whether the underlying value was
// freshly allocated or borrowed from a variable/dict slot. t is a pointer
// into the owning Script's persistent token storage so a TokVar token's
// cached resolution (spec §4.F) survives across repeated evaluation.
func (ip *Interp) substPart(t *Token) (*Value, error) {
	switch t.Type {
	case TokStr, TokEsc:
		v := ip.NewString(UnescapeBackslashes(t.Text))
		return v.IncrRef(), nil
	case TokVar:
		v, err := ip.getVarCached(t)
		if err != nil {
			return nil, err
		}
		return v.IncrRef(), nil
	case TokDictSugar:
		keyVal, err := ip.SubstString(t.Key)
		if err != nil {
			return nil, err
		}
		key := keyVal.String()
		keyVal.DecrRef()
		v, err := ip.GetDictSugar(ip.frame, t.Name, key)
		if err != nil {
			return nil, err
		}
		return v.IncrRef(), nil
	case TokCmd:
		v, _, err := ip.EvalString(t.Text)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	v := ip.NewString("")
	return v.IncrRef(), nil
}

func (ip *Interp) valueAsList(v *Value) ([]*Value, error) {
	if v.Kind() == KindList {
		return v.list, nil
	}
	items, err := ParseListItems(v.String())
	if err != nil {
		return nil, err
	}
	out := make([]*Value, len(items))
	for i, s := range items {
		out[i] = ip.NewString(s)
	}
	return out, nil
}

// Dispatch resolves argv[0] against the command registry and invokes it,
// falling back to the "unknown" handler when no command matches (spec
// §4.F). cc, if non-nil, is the calling command position's epoch-gated
// resolution cache (spec §4.G); pass nil for a one-off dispatch that has no
// persistent token to cache against.
func (ip *Interp) Dispatch(argv []*Value, cc *cmdCache) (*Value, ReturnCode, error) {
	name := argv[0].String()
	cmd, ok := ip.LookupCommand(name, cc)
	if !ok {
		if ip.unknownHandler != nil {
			unkArgv := append([]*Value{ip.NewString("unknown")}, argv...)
			return ip.callNative(ip.unknownHandler, unkArgv)
		}
		return nil, ERROR, fmt.Errorf("invalid command name %q", name)
	}
	switch cmd.Type {
	case CommandNative:
		return ip.callNative(cmd.Native, argv)
	case CommandProc:
		return ip.callProcedure(cmd.Proc, argv)
	}
	return nil, ERROR, fmt.Errorf("invalid command name %q", name)
}

// callNative invokes a Go-implemented command. Handlers are not required to
// manage the refcount of their return value (fresh or borrowed, either is
// fine); callNative claims the single owned reference the rest of the
// engine expects a *Value-returning call to hand back.
func (ip *Interp) callNative(fn NativeFunc, argv []*Value) (*Value, ReturnCode, error) {
	v, code, err := fn(ip, argv)
	if err != nil {
		return nil, ERROR, err
	}
	if v == nil {
		v = ip.NewString("")
	}
	v.IncrRef()
	return v, code, nil
}

// SetUnknownHandler installs the command run when no registered command
// matches (spec §4.F "unknown fallback").
func (ip *Interp) SetUnknownHandler(fn NativeFunc) { ip.unknownHandler = fn }

// callProcedure binds parameters into a fresh frame and evaluates the
// procedure body, applying the recursion-depth guard and translating a
// top-level RETURN into the code its "return -code" set, OK by default
// (spec §4.F, §5).
func (ip *Interp) callProcedure(proc *Procedure, argv []*Value) (*Value, ReturnCode, error) {
	if ip.depth >= ip.recursionLimit {
		return nil, ERROR, fmt.Errorf("too many nested evaluations (infinite loop?)")
	}
	args := argv[1:]
	nRequired := 0
	for _, p := range proc.Params {
		if !p.HasDef {
			nRequired++
		}
	}
	if !proc.HasArgs && len(args) > len(proc.Params) {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"%s %s\"", proc.Name, paramUsage(proc))
	}
	if len(args) < nRequired {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"%s %s\"", proc.Name, paramUsage(proc))
	}

	ip.depth++
	fr := ip.PushFrame(proc.Name)
	defer func() { ip.PopFrame(); ip.depth-- }()

	i := 0
	for _, p := range proc.Params {
		if i < len(args) {
			ip.SetVar(fr, p.Name, args[i])
			i++
		} else if p.HasDef {
			ip.SetVar(fr, p.Name, p.Default)
		}
	}
	if proc.HasArgs {
		rest := make([]*Value, 0, len(args)-i)
		for ; i < len(args); i++ {
			rest = append(rest, args[i])
		}
		lst := ip.NewList(nil)
		for _, v := range rest {
			v.IncrRef()
		}
		lst.list = rest
		ip.SetVar(fr, "args", lst)
	}

	res, code, err := ip.EvalScriptValue(proc.Body)
	if err != nil {
		return nil, ERROR, fmt.Errorf("%w\n    (procedure %q line %d)", err, proc.Name, 1)
	}
	switch code {
	case RETURN:
		finalCode := ip.pendingReturnCode
		ip.pendingReturnCode = OK
		if finalCode == ERROR {
			return nil, ERROR, fmt.Errorf("%s", res.String())
		}
		return res, finalCode, nil
	case BREAK, CONTINUE:
		// Propagate unchanged rather than erroring here: a procedure whose
		// body falls out of a bare break/continue lets its caller's loop
		// (e.g. the foreach that invoked it as one command) catch it, per
		// spec §4.H and the "break inside a procedure called from within
		// foreach terminates the caller's loop" boundary behavior. Only the
		// outermost script evaluation, with no enclosing loop left to catch
		// it, turns this into an error (see tcl.Interp.Eval).
		return res, code, nil
	default:
		return res, code, nil
	}
}

func paramUsage(proc *Procedure) string {
	s := ""
	for i, p := range proc.Params {
		if i > 0 {
			s += " "
		}
		if p.HasDef {
			s += "?" + p.Name + "?"
		} else {
			s += p.Name
		}
	}
	if proc.HasArgs {
		if s != "" {
			s += " "
		}
		s += "?arg ...?"
	}
	return s
}
