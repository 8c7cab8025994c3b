package core

import (
	"fmt"
	"strconv"
)

func init() {
	builtinRegistrars = append(builtinRegistrars, registerControlCommands)
}

func registerControlCommands(ip *Interp) {
	ip.RegisterNative("if", cmdIf)
	ip.RegisterNative("while", cmdWhile)
	ip.RegisterNative("for", cmdFor)
	ip.RegisterNative("foreach", cmdForeach)
	ip.RegisterNative("break", cmdBreak)
	ip.RegisterNative("continue", cmdContinue)
	ip.RegisterNative("return", cmdReturn)
	ip.RegisterNative("catch", cmdCatch)
	ip.RegisterNative("switch", cmdSwitch)
	ip.RegisterNative("try", cmdTry)
	ip.RegisterNative("error", cmdError)
}

func evalBoolExpr(ip *Interp, v *Value) (bool, error) {
	r, err := ip.EvalExprString(v.String())
	if err != nil {
		return false, err
	}
	b, err := r.AsBool()
	r.DecrRef()
	return b, err
}

// cmdIf implements "if cond body ?elseif cond body ...? ?else? ?body?"
// (spec §4.F control flow).
func cmdIf(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	args := argv[1:]
	i := 0
	for i < len(args) {
		cond := args[i]
		i++
		if i >= len(args) {
			return nil, ERROR, fmt.Errorf("wrong # args: no script following condition")
		}
		if i < len(args) && args[i].CompareLiteral("then") {
			i++
		}
		if i >= len(args) {
			return nil, ERROR, fmt.Errorf("wrong # args: no script following condition")
		}
		body := args[i]
		i++
		ok, err := evalBoolExpr(ip, cond)
		if err != nil {
			return nil, ERROR, err
		}
		if ok {
			v, code, err := ip.EvalScriptValue(body)
			return v, code, err
		}
		if i >= len(args) {
			return ip.NewString(""), OK, nil
		}
		if args[i].CompareLiteral("elseif") {
			i++
			continue
		}
		if args[i].CompareLiteral("else") {
			i++
			if i >= len(args) {
				return nil, ERROR, fmt.Errorf("wrong # args: no script following \"else\" argument")
			}
			return ip.EvalScriptValue(args[i])
		}
		return nil, ERROR, fmt.Errorf("wrong # args: no script following condition")
	}
	return ip.NewString(""), OK, nil
}

func cmdWhile(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"while test body\"")
	}
	cond, body := argv[1], argv[2]
	for {
		ok, err := evalBoolExpr(ip, cond)
		if err != nil {
			return nil, ERROR, err
		}
		if !ok {
			break
		}
		v, code, err := ip.EvalScriptValue(body)
		if err != nil {
			return nil, ERROR, err
		}
		switch code {
		case BREAK:
			v.DecrRef()
			return ip.NewString(""), OK, nil
		case RETURN, ERROR:
			return v, code, nil
		case CONTINUE, OK:
			v.DecrRef()
		}
	}
	return ip.NewString(""), OK, nil
}

func cmdFor(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 5 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"for start test next body\"")
	}
	start, test, next, body := argv[1], argv[2], argv[3], argv[4]
	if _, _, err := ip.EvalScriptValue(start); err != nil {
		return nil, ERROR, err
	}
	for {
		ok, err := evalBoolExpr(ip, test)
		if err != nil {
			return nil, ERROR, err
		}
		if !ok {
			break
		}
		v, code, err := ip.EvalScriptValue(body)
		if err != nil {
			return nil, ERROR, err
		}
		switch code {
		case BREAK:
			v.DecrRef()
			return ip.NewString(""), OK, nil
		case RETURN, ERROR:
			return v, code, nil
		default:
			v.DecrRef()
		}
		if _, _, err := ip.EvalScriptValue(next); err != nil {
			return nil, ERROR, err
		}
	}
	return ip.NewString(""), OK, nil
}

func cmdForeach(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 4 || len(argv)%2 != 0 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"foreach varList list ?varList list ...? body\"")
	}
	body := argv[len(argv)-1]
	groups := argv[1 : len(argv)-1]
	type group struct {
		names []string
		items []*Value
	}
	var gs []group
	maxIter := 0
	for i := 0; i+1 < len(groups); i += 2 {
		names, err := ParseListItems(groups[i].String())
		if err != nil {
			return nil, ERROR, err
		}
		items, err := ip.valueAsList(groups[i+1])
		if err != nil {
			return nil, ERROR, err
		}
		gs = append(gs, group{names: names, items: items})
		n := (len(items) + len(names) - 1) / len(names)
		if n > maxIter {
			maxIter = n
		}
	}
	for iter := 0; iter < maxIter; iter++ {
		for _, g := range gs {
			for j, name := range g.names {
				idx := iter*len(g.names) + j
				if idx < len(g.items) {
					ip.SetVar(ip.frame, name, g.items[idx])
				} else {
					ip.SetVar(ip.frame, name, ip.NewString(""))
				}
			}
		}
		v, code, err := ip.EvalScriptValue(body)
		if err != nil {
			return nil, ERROR, err
		}
		switch code {
		case BREAK:
			v.DecrRef()
			return ip.NewString(""), OK, nil
		case RETURN, ERROR:
			return v, code, nil
		default:
			v.DecrRef()
		}
	}
	return ip.NewString(""), OK, nil
}

func cmdBreak(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	return ip.NewString(""), BREAK, nil
}

func cmdContinue(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	return ip.NewString(""), CONTINUE, nil
}

// cmdReturn implements "return ?-code code? ?value?" (spec §8 scenario 1).
// The code set by "-code" is absorbed by the nearest enclosing procedure
// call, which terminates with that code instead of OK.
func cmdReturn(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	args := argv[1:]
	ip.pendingReturnCode = OK
	for len(args) >= 2 && args[0].CompareLiteral("-code") {
		code, err := parseReturnCode(args[1].String())
		if err != nil {
			return nil, ERROR, err
		}
		ip.pendingReturnCode = code
		args = args[2:]
	}
	if len(args) > 1 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"return ?-code code? ?value?\"")
	}
	if len(args) == 1 {
		return args[0], RETURN, nil
	}
	return ip.NewString(""), RETURN, nil
}

func parseReturnCode(s string) (ReturnCode, error) {
	switch s {
	case "ok", "0":
		return OK, nil
	case "error", "1":
		return ERROR, nil
	case "return", "2":
		return RETURN, nil
	case "break", "3":
		return BREAK, nil
	case "continue", "4":
		return CONTINUE, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ReturnCode(n), nil
	}
	return OK, fmt.Errorf("bad completion code %q: must be ok, error, return, break, continue, or an integer", s)
}

func cmdError(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"error message ?info? ?code?\"")
	}
	return nil, ERROR, fmt.Errorf("%s", argv[1].String())
}

// cmdCatch implements "catch script ?resultVar? ?optionsVar?", trapping
// everything including native Go errors by converting them into an ERROR
// return code.
func cmdCatch(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 || len(argv) > 4 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"catch script ?resultVar? ?optionsVar?\"")
	}
	v, code, err := ip.EvalScriptValue(argv[1])
	var resultStr string
	if err != nil {
		resultStr = err.Error()
		code = ERROR
	} else {
		resultStr = v.String()
		v.DecrRef()
	}
	if len(argv) >= 3 {
		ip.SetVar(ip.frame, argv[2].String(), ip.NewString(resultStr))
	}
	if len(argv) == 4 {
		opts := ip.NewDict()
		opts.dict.Set("-code", ip.NewString(code.String()))
		ip.SetVar(ip.frame, argv[3].String(), opts)
	}
	return ip.NewInt(int64(code)), OK, nil
}

// cmdSwitch implements a subset of "switch": exact/glob matching and
// fallthrough via "-".
func cmdSwitch(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	args := argv[1:]
	for len(args) > 0 && len(args[0].String()) > 0 && args[0].String()[0] == '-' {
		args = args[1:]
		if args[0].CompareLiteral("--") {
			args = args[1:]
			break
		}
	}
	if len(args) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"switch string pattern body ...\"")
	}
	subject := args[0].String()
	var pairs []*Value
	if len(args) == 2 {
		items, err := ParseListItems(args[1].String())
		if err != nil {
			return nil, ERROR, err
		}
		for _, s := range items {
			pairs = append(pairs, ip.NewString(s))
		}
	} else {
		pairs = args[1:]
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		pat := pairs[i].String()
		if pat != "default" && !globMatch(pat, subject) {
			continue
		}
		bodyIdx := i + 1
		for pairs[bodyIdx].String() == "-" {
			bodyIdx += 2
		}
		return ip.EvalScriptValue(pairs[bodyIdx])
	}
	return ip.NewString(""), OK, nil
}

// cmdTry implements "try body on code varList handler ... finally script".
func cmdTry(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"try body ?handler ...? ?finally script?\"")
	}
	v, code, err := ip.EvalScriptValue(argv[1])
	args := argv[2:]
	var finallyScript *Value
	i := 0
	matched := false
	for i < len(args) {
		switch args[i].String() {
		case "on":
			if i+3 >= len(args) {
				return nil, ERROR, fmt.Errorf("wrong # args in \"try\" handler clause")
			}
			wantCode := args[i+1].String()
			if !matched && err == nil && (wantCode == "ok" && code == OK || wantCode == code.String()) {
				matched = true
				vars, perr := ParseListItems(args[i+2].String())
				if perr == nil {
					if len(vars) >= 1 {
						ip.SetVar(ip.frame, vars[0], v)
					}
					if len(vars) >= 2 {
						msg := ""
						if err != nil {
							msg = err.Error()
						}
						ip.SetVar(ip.frame, vars[1], ip.NewString(msg))
					}
				}
				v.DecrRef()
				v, code, err = ip.EvalScriptValue(args[i+3])
			}
			i += 4
		case "finally":
			if i+1 >= len(args) {
				return nil, ERROR, fmt.Errorf("wrong # args: \"finally\" needs a script")
			}
			finallyScript = args[i+1]
			i += 2
		default:
			i++
		}
	}
	if finallyScript != nil {
		if _, _, ferr := ip.EvalScriptValue(finallyScript); ferr != nil {
			return nil, ERROR, ferr
		}
	}
	if err != nil {
		return nil, ERROR, err
	}
	return v, code, nil
}

// globMatch implements the "*"/"?"/"[...]" glob patterns used by switch,
// string match and lsearch -glob (spec §4.G "string match").
func globMatch(pattern, s string) bool {
	return globMatchBytes([]byte(pattern), []byte(s))
}

func globMatchBytes(pat, s []byte) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			for len(pat) > 1 && pat[1] == '*' {
				pat = pat[1:]
			}
			if len(pat) == 1 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatchBytes(pat[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pat, s = pat[1:], s[1:]
		case '[':
			if len(s) == 0 {
				return false
			}
			end := indexByte(pat, ']')
			if end < 0 {
				return pat[0] == s[0] && globMatchBytes(pat[1:], s[1:])
			}
			set := pat[1:end]
			if !matchClass(set, s[0]) {
				return false
			}
			pat, s = pat[end+1:], s[1:]
		case '\\':
			if len(pat) < 2 || len(s) == 0 || pat[1] != s[0] {
				return false
			}
			pat, s = pat[2:], s[1:]
		default:
			if len(s) == 0 || pat[0] != s[0] {
				return false
			}
			pat, s = pat[1:], s[1:]
		}
	}
	return len(s) == 0
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func matchClass(set []byte, c byte) bool {
	neg := false
	if len(set) > 0 && set[0] == '^' {
		neg = true
		set = set[1:]
	}
	found := false
	for i := 0; i < len(set); i++ {
		if i+2 < len(set) && set[i+1] == '-' {
			if set[i] <= c && c <= set[i+2] {
				found = true
			}
			i += 2
			continue
		}
		if set[i] == c {
			found = true
		}
	}
	if neg {
		return !found
	}
	return found
}
