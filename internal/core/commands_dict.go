package core

import "fmt"

// cmdDict implements the common "dict" subcommands (spec §4.G).
func cmdDict(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"dict subcommand ?arg ...?\"")
	}
	sub := argv[1].String()
	args := argv[2:]
	switch sub {
	case "create":
		d := newDict()
		for i := 0; i+1 < len(args); i += 2 {
			d.Set(args[i].String(), args[i+1])
		}
		v := ip.newValue()
		v.kind = KindDict
		v.dict = d
		return v, OK, nil
	case "get":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return nil, ERROR, err
		}
		if len(args) == 1 {
			v := ip.newValue()
			v.kind = KindDict
			v.dict = d
			return v, OK, nil
		}
		item, ok := d.Get(args[1].String())
		if !ok {
			return nil, ERROR, fmt.Errorf("key %q not known in dictionary", args[1].String())
		}
		return item, OK, nil
	case "exists":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return ip.NewInt(0), OK, nil
		}
		_, ok := d.Get(args[1].String())
		return ip.NewInt(boolInt(ok)), OK, nil
	case "set":
		if len(args) < 3 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"dict set dictVar key ?key ...? value\"")
		}
		name := args[0].String()
		d, err := ip.dictVarOrNew(name)
		if err != nil {
			return nil, ERROR, err
		}
		d.Set(args[1].String(), args[len(args)-1])
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return nv, OK, nil
	case "unset":
		name := args[0].String()
		d, err := ip.dictVarOrNew(name)
		if err != nil {
			return nil, ERROR, err
		}
		d.Unset(args[1].String())
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return nv, OK, nil
	case "keys":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return nil, ERROR, err
		}
		keys := d.Keys()
		out := make([]*Value, len(keys))
		for i, k := range keys {
			out[i] = ip.NewString(k).IncrRef()
		}
		return ip.NewList(out), OK, nil
	case "values":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return nil, ERROR, err
		}
		keys := d.Keys()
		out := make([]*Value, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			out[i] = v.IncrRef()
		}
		return ip.NewList(out), OK, nil
	case "size":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return nil, ERROR, err
		}
		return ip.NewInt(int64(d.Len())), OK, nil
	case "append":
		name := args[0].String()
		d, err := ip.dictVarOrNew(name)
		if err != nil {
			return nil, ERROR, err
		}
		cur, _ := d.Get(args[1].String())
		s := ""
		if cur != nil {
			s = cur.String()
		}
		for _, a := range args[2:] {
			s += a.String()
		}
		d.Set(args[1].String(), ip.NewString(s))
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return nv, OK, nil
	case "incr":
		name := args[0].String()
		d, err := ip.dictVarOrNew(name)
		if err != nil {
			return nil, ERROR, err
		}
		delta := int64(1)
		if len(args) > 2 {
			delta, _ = args[2].AsInt()
		}
		n := int64(0)
		if cur, ok := d.Get(args[1].String()); ok {
			n, _ = cur.AsInt()
		}
		d.Set(args[1].String(), ip.NewInt(n+delta))
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return nv, OK, nil
	case "merge":
		d := newDict()
		for _, a := range args {
			src, err := ip.valueAsDict(a)
			if err != nil {
				return nil, ERROR, err
			}
			for _, k := range src.Keys() {
				v, _ := src.Get(k)
				d.Set(k, v)
			}
		}
		v := ip.newValue()
		v.kind = KindDict
		v.dict = d
		return v, OK, nil
	case "remove":
		d, err := ip.valueAsDict(args[0])
		if err != nil {
			return nil, ERROR, err
		}
		nd := d.dup()
		for _, k := range args[1:] {
			nd.Unset(k.String())
		}
		v := ip.newValue()
		v.kind = KindDict
		v.dict = nd
		return v, OK, nil
	case "for":
		if len(args) != 3 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"dict for {keyVar valVar} dictionary body\"")
		}
		vars, err := ParseListItems(args[0].String())
		if err != nil || len(vars) != 2 {
			return nil, ERROR, fmt.Errorf("must have exactly two variable names")
		}
		d, err := ip.valueAsDict(args[1])
		if err != nil {
			return nil, ERROR, err
		}
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			ip.SetVar(ip.frame, vars[0], ip.NewString(k))
			ip.SetVar(ip.frame, vars[1], v)
			res, code, err := ip.EvalScriptValue(args[2])
			if err != nil {
				return nil, ERROR, err
			}
			switch code {
			case BREAK:
				res.DecrRef()
				return ip.NewString(""), OK, nil
			case RETURN, ERROR:
				return res, code, nil
			default:
				res.DecrRef()
			}
		}
		return ip.NewString(""), OK, nil
	}
	return nil, ERROR, fmt.Errorf("unknown or ambiguous subcommand %q", sub)
}

// cmdArray implements the common "array" subcommands over a dict-sugar
// variable (spec §8 scenario 3: "array get a" after "set a(x) 1"). Array
// variables are stored exactly like any other dict-valued variable; this
// command is the read/write/introspect surface dict-sugar's "name(key)"
// syntax doesn't otherwise expose.
func cmdArray(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"array option arrayName ?arg ...?\"")
	}
	sub := argv[1].String()
	name := argv[2].String()
	args := argv[3:]
	switch sub {
	case "get":
		d, err := ip.valueAsDict(ip.arrayVarOrEmpty(name))
		if err != nil {
			return nil, ERROR, err
		}
		if len(args) == 0 {
			out := make([]*Value, 0, 2*d.Len())
			for _, k := range d.Keys() {
				v, _ := d.Get(k)
				out = append(out, ip.NewString(k).IncrRef(), v.IncrRef())
			}
			return ip.NewList(out), OK, nil
		}
		pat := args[0].String()
		out := make([]*Value, 0, 2*d.Len())
		for _, k := range d.Keys() {
			if !globMatch(pat, k) {
				continue
			}
			v, _ := d.Get(k)
			out = append(out, ip.NewString(k).IncrRef(), v.IncrRef())
		}
		return ip.NewList(out), OK, nil
	case "set":
		if len(args) != 1 {
			return nil, ERROR, fmt.Errorf("wrong # args: should be \"array set arrayName list\"")
		}
		items, err := ParseListItems(args[0].String())
		if err != nil || len(items)%2 != 0 {
			return nil, ERROR, fmt.Errorf("list must have an even number of elements")
		}
		d, derr := ip.valueAsDict(ip.arrayVarOrEmpty(name))
		if derr != nil {
			return nil, ERROR, derr
		}
		for i := 0; i+1 < len(items); i += 2 {
			d.Set(items[i], ip.NewString(items[i+1]))
		}
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return ip.NewString(""), OK, nil
	case "names":
		d, err := ip.valueAsDict(ip.arrayVarOrEmpty(name))
		if err != nil {
			return nil, ERROR, err
		}
		keys := d.Keys()
		out := make([]*Value, len(keys))
		for i, k := range keys {
			out[i] = ip.NewString(k).IncrRef()
		}
		return ip.NewList(out), OK, nil
	case "size":
		d, err := ip.valueAsDict(ip.arrayVarOrEmpty(name))
		if err != nil {
			return nil, ERROR, err
		}
		return ip.NewInt(int64(d.Len())), OK, nil
	case "exists":
		_, err := ip.GetVar(ip.frame, name)
		return ip.NewInt(boolInt(err == nil)), OK, nil
	case "unset":
		if len(args) == 0 {
			ip.UnsetVar(ip.frame, name)
			return ip.NewString(""), OK, nil
		}
		d, err := ip.valueAsDict(ip.arrayVarOrEmpty(name))
		if err != nil {
			return nil, ERROR, err
		}
		d.Unset(args[0].String())
		nv := ip.newValue()
		nv.kind = KindDict
		nv.dict = d
		ip.SetVar(ip.frame, name, nv)
		return ip.NewString(""), OK, nil
	}
	return nil, ERROR, fmt.Errorf("unknown or ambiguous subcommand %q", sub)
}

// arrayVarOrEmpty returns name's current value, or a fresh empty dict value
// if name is unset (mirrors dictVarOrNew's "create on first write" rule for
// reads that must still succeed against a not-yet-existing array).
func (ip *Interp) arrayVarOrEmpty(name string) *Value {
	v, err := ip.GetVar(ip.frame, name)
	if err != nil {
		empty := ip.newValue()
		empty.kind = KindDict
		empty.dict = newDict()
		return empty
	}
	return v
}

func (ip *Interp) dictVarOrNew(name string) (*Dict, error) {
	cur, err := ip.GetVar(ip.frame, name)
	if err != nil {
		return newDict(), nil
	}
	d, err := ip.valueAsDict(cur)
	if err != nil {
		return nil, err
	}
	return d.dup(), nil
}
