package core

import "fmt"

func init() {
	builtinRegistrars = append(builtinRegistrars, registerVarCommands)
}

func registerVarCommands(ip *Interp) {
	ip.RegisterNative("set", cmdSet)
	ip.RegisterNative("unset", cmdUnset)
	ip.RegisterNative("incr", cmdIncr)
	ip.RegisterNative("upvar", cmdUpvar)
	ip.RegisterNative("global", cmdGlobal)
	ip.RegisterNative("variable", cmdVariable)
	ip.RegisterNative("proc", cmdProc)
	ip.RegisterNative("rename", cmdRename)
	ip.RegisterNative("apply", cmdApply)
	ip.RegisterNative("uplevel", cmdUplevel)
}

func cmdSet(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 || len(argv) > 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"set varName ?newValue?\"")
	}
	name := argv[1].String()
	if base, key, ok := splitDictSugar(name); ok {
		if len(argv) == 3 {
			if err := ip.SetDictSugar(ip.frame, base, key, argv[2]); err != nil {
				return nil, ERROR, err
			}
			return argv[2], OK, nil
		}
		v, err := ip.GetDictSugar(ip.frame, base, key)
		if err != nil {
			return nil, ERROR, err
		}
		return v, OK, nil
	}
	if len(argv) == 3 {
		ip.SetVar(ip.frame, name, argv[2])
		return argv[2], OK, nil
	}
	v, err := ip.GetVar(ip.frame, name)
	if err != nil {
		return nil, ERROR, err
	}
	return v, OK, nil
}

func cmdUnset(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	for _, a := range argv[1:] {
		name := a.String()
		if base, key, ok := splitDictSugar(name); ok {
			d, err := ip.valueAsDict(ip.arrayVarOrEmpty(base))
			if err != nil {
				return nil, ERROR, err
			}
			if !d.Unset(key) {
				return nil, ERROR, fmt.Errorf("can't unset %q: no such variable", name)
			}
			nv := ip.newValue()
			nv.kind = KindDict
			nv.dict = d
			ip.SetVar(ip.frame, base, nv)
			continue
		}
		if !ip.UnsetVar(ip.frame, name) {
			return nil, ERROR, fmt.Errorf("can't unset %q: no such variable", name)
		}
	}
	return ip.NewString(""), OK, nil
}

func cmdIncr(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 || len(argv) > 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"incr varName ?increment?\"")
	}
	name := argv[1].String()
	delta := int64(1)
	if len(argv) == 3 {
		d, err := argv[2].AsInt()
		if err != nil {
			return nil, ERROR, err
		}
		delta = d
	}
	if base, key, ok := splitDictSugar(name); ok {
		d, err := ip.valueAsDict(ip.arrayVarOrEmpty(base))
		if err != nil {
			return nil, ERROR, err
		}
		n := int64(0)
		if cur, ok := d.Get(key); ok {
			n, err = cur.AsInt()
			if err != nil {
				return nil, ERROR, err
			}
		}
		nv := ip.NewInt(n + delta)
		d.Set(key, nv)
		dv := ip.newValue()
		dv.kind = KindDict
		dv.dict = d
		ip.SetVar(ip.frame, base, dv)
		return nv, OK, nil
	}
	cur, err := ip.GetVar(ip.frame, name)
	var n int64
	if err == nil {
		n, err = cur.AsInt()
		if err != nil {
			return nil, ERROR, err
		}
	}
	nv := ip.NewInt(n + delta)
	ip.SetVar(ip.frame, name, nv)
	return nv, OK, nil
}

func cmdUpvar(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 3 || len(argv)%2 != 1 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"upvar ?level? otherVar localVar ...?\"")
	}
	target := ip.frame.parent
	if target == nil {
		target = ip.global
	}
	rest := argv[1:]
	if len(rest)%2 == 1 {
		target = ip.frameAtLevel(rest[0].String())
		rest = rest[1:]
	}
	for i := 0; i+1 < len(rest); i += 2 {
		if err := ip.LinkVar(ip.frame, rest[i+1].String(), target, rest[i].String()); err != nil {
			return nil, ERROR, err
		}
	}
	return ip.NewString(""), OK, nil
}

func cmdGlobal(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	for _, a := range argv[1:] {
		name := a.String()
		if err := ip.LinkVar(ip.frame, name, ip.global, name); err != nil {
			return nil, ERROR, err
		}
	}
	return ip.NewString(""), OK, nil
}

// cmdVariable implements "variable name ?value? ..." inside a procedure
// body as a namespace-scoped link (simplified: links to the global frame).
func cmdVariable(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	args := argv[1:]
	for i := 0; i < len(args); i++ {
		name := args[i].String()
		if err := ip.LinkVar(ip.frame, name, ip.global, name); err != nil {
			return nil, ERROR, err
		}
		if i+1 < len(args) {
			if _, ok := ip.global.vars[name]; !ok {
				ip.SetVar(ip.global, name, args[i+1])
			}
			i++
		}
	}
	return ip.NewString(""), OK, nil
}

// frameAtLevel resolves a #N or relative-N level spec (spec §4.D "upvar");
// unrecognized specs fall back to the caller's frame.
func (ip *Interp) frameAtLevel(spec string) *CallFrame {
	n := 1
	if len(spec) > 0 && spec[0] == '#' {
		var abs int
		if _, err := fmt.Sscanf(spec, "#%d", &abs); err == nil {
			fr := ip.frame
			for fr.parent != nil && fr.level > abs {
				fr = fr.parent
			}
			return fr
		}
	}
	fmt.Sscanf(spec, "%d", &n)
	fr := ip.frame
	for i := 0; i < n && fr.parent != nil; i++ {
		fr = fr.parent
	}
	return fr
}

// cmdProc implements "proc name params body", compiling the body once and
// sharing it across every call (spec §4.C "literal sharing across
// procedure bodies").
func cmdProc(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 4 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"proc name args body\"")
	}
	name := argv[1].String()
	paramItems, err := ParseListItems(argv[2].String())
	if err != nil {
		return nil, ERROR, err
	}
	proc := &Procedure{Name: name}
	for _, p := range paramItems {
		if p == "args" {
			proc.HasArgs = true
			continue
		}
		sub, err := ParseListItems(p)
		if err == nil && len(sub) == 2 {
			proc.Params = append(proc.Params, ProcParam{Name: sub[0], Default: ip.NewString(sub[1]), HasDef: true})
		} else {
			proc.Params = append(proc.Params, ProcParam{Name: p})
		}
	}
	body, err := ip.NewScriptValue(argv[3].String())
	if err != nil {
		return nil, ERROR, err
	}
	body.IncrRef()
	proc.Body = body
	ip.DefineProc(proc)
	return ip.NewString(""), OK, nil
}

func cmdRename(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"rename oldName newName\"")
	}
	if err := ip.RenameCommand(argv[1].String(), argv[2].String()); err != nil {
		return nil, ERROR, err
	}
	return ip.NewString(""), OK, nil
}

// cmdApply implements "apply {params body} arg ...".
func cmdApply(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"apply lambdaExpr ?arg ...?\"")
	}
	spec, err := ParseListItems(argv[1].String())
	if err != nil || len(spec) < 2 {
		return nil, ERROR, fmt.Errorf("can't interpret %q as a lambda expression", argv[1].String())
	}
	paramItems, err := ParseListItems(spec[0])
	if err != nil {
		return nil, ERROR, err
	}
	proc := &Procedure{Name: "apply"}
	for _, p := range paramItems {
		if p == "args" {
			proc.HasArgs = true
			continue
		}
		proc.Params = append(proc.Params, ProcParam{Name: p})
	}
	body, err := ip.NewScriptValue(spec[1])
	if err != nil {
		return nil, ERROR, err
	}
	proc.Body = body
	callArgv := append([]*Value{ip.NewString("apply")}, argv[2:]...)
	return ip.callProcedure(proc, callArgv)
}

// isLevelSpec reports whether s looks like a level argument ("#N" absolute,
// or a bare signed integer relative level) rather than a script word, the
// sniff uplevel uses to decide whether a leading argument was omitted.
func isLevelSpec(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '#' {
		i = 1
		if i >= len(s) {
			return false
		}
	} else if s[0] == '+' || s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// cmdUplevel evaluates a script in an outer frame (spec §4.F).
func cmdUplevel(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"uplevel ?level? script ?script ...?\"")
	}
	args := argv[1:]
	target := ip.frame.parent
	if target == nil {
		target = ip.global
	}
	if len(args) > 1 && isLevelSpec(args[0].String()) {
		target = ip.frameAtLevel(args[0].String())
		args = args[1:]
	}
	saved := ip.frame
	ip.frame = target
	defer func() { ip.frame = saved }()
	if len(args) == 1 {
		v, code, err := ip.EvalScriptValue(args[0])
		return v, code, err
	}
	parts := make([]byte, 0, 32)
	for i, a := range args {
		if i > 0 {
			parts = append(parts, ' ')
		}
		parts = append(parts, a.String()...)
	}
	v, code, err := ip.EvalString(string(parts))
	return v, code, err
}
