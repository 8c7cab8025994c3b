package core

import (
	"fmt"
	"strings"
)

func init() {
	builtinRegistrars = append(builtinRegistrars, registerMetaCommands)
}

func registerMetaCommands(ip *Interp) {
	ip.RegisterNative("eval", cmdEval)
	ip.RegisterNative("subst", cmdSubst)
	ip.RegisterNative("info", cmdInfo)
	ip.RegisterNative("namespace", cmdNamespace)
	ip.RegisterNative("debug", cmdDebug)
}

// cmdEval implements "eval arg ?arg ...?", concatenating its arguments into
// one script the way uplevel does (spec §4.F).
func cmdEval(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"eval arg ?arg ...?\"")
	}
	if len(argv) == 2 {
		return ip.EvalScriptValue(argv[1])
	}
	parts := make([]string, len(argv)-1)
	for i, a := range argv[1:] {
		parts[i] = a.String()
	}
	return ip.EvalString(strings.Join(parts, " "))
}

func cmdSubst(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"subst string\"")
	}
	v, err := ip.SubstString(argv[1].String())
	if err != nil {
		return nil, ERROR, err
	}
	return v, OK, nil
}

// cmdInfo implements a useful subset of "info" for introspection and
// scripts that branch on interpreter state (spec §4.F, §6).
func cmdInfo(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"info subcommand ?arg ...?\"")
	}
	switch argv[1].String() {
	case "commands":
		names := ip.CommandNames()
		out := make([]*Value, len(names))
		for i, n := range names {
			out[i] = ip.NewString(n).IncrRef()
		}
		return ip.NewList(out), OK, nil
	case "exists":
		if len(argv) != 3 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"info exists varName\"")
		}
		_, err := ip.GetVar(ip.frame, argv[2].String())
		return ip.NewInt(boolInt(err == nil)), OK, nil
	case "vars":
		names := make([]*Value, 0, len(ip.frame.vars))
		for k := range ip.frame.vars {
			names = append(names, ip.NewString(k).IncrRef())
		}
		return ip.NewList(names), OK, nil
	case "level":
		return ip.NewInt(int64(ip.frame.level)), OK, nil
	case "procs":
		var names []*Value
		for _, n := range ip.CommandNames() {
			if cmd, ok := ip.commands.Get(n); ok && cmd.Type == CommandProc {
				names = append(names, ip.NewString(n).IncrRef())
			}
		}
		return ip.NewList(names), OK, nil
	case "body":
		if len(argv) != 3 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"info body procName\"")
		}
		cmd, ok := ip.commands.Get(argv[2].String())
		if !ok || cmd.Type != CommandProc {
			return nil, ERROR, fmt.Errorf("%q isn't a procedure", argv[2].String())
		}
		return ip.NewString(cmd.Proc.Body.String()), OK, nil
	}
	return nil, ERROR, fmt.Errorf("unknown or ambiguous subcommand %q", argv[1].String())
}

// cmdDebug implements a small slice of the interpreter-internals subcommands
// jimtcl's own "debug" command exposes, letting a script or test inspect the
// value lifecycle (spec §4.J meta commands).
func cmdDebug(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"debug subcommand ?arg ...?\"")
	}
	switch argv[1].String() {
	case "refcount":
		if len(argv) != 3 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"debug refcount value\"")
		}
		return ip.NewInt(int64(argv[2].RefCount())), OK, nil
	case "objcount":
		return ip.NewInt(int64(ip.LiveValueCount())), OK, nil
	case "freecount":
		return ip.NewInt(int64(ip.FreeListLen())), OK, nil
	case "refs":
		return ip.NewInt(int64(ip.ReferenceCount())), OK, nil
	}
	return nil, ERROR, fmt.Errorf("unknown or ambiguous subcommand %q", argv[1].String())
}

// cmdNamespace implements a minimal "namespace eval" that just runs its
// script against the global frame (the engine does not model a full
// namespace tree; the name argument is ignored).
func cmdNamespace(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"namespace subcommand ?arg ...?\"")
	}
	switch argv[1].String() {
	case "eval":
		if len(argv) != 4 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"namespace eval name script\"")
		}
		saved := ip.frame
		ip.frame = ip.global
		defer func() { ip.frame = saved }()
		return ip.EvalScriptValue(argv[3])
	case "current":
		return ip.NewString("::"), OK, nil
	}
	return nil, ERROR, fmt.Errorf("unknown or ambiguous subcommand %q", argv[1].String())
}
