package tcl

import "fmt"

// AsInt converts o to int64, shimmering if needed.
func AsInt(o *Obj) (int64, error) {
	if o == nil || o.v == nil {
		return 0, nil
	}
	return o.v.AsInt()
}

// AsDouble converts o to float64, shimmering if needed.
func AsDouble(o *Obj) (float64, error) {
	if o == nil || o.v == nil {
		return 0, nil
	}
	return o.v.AsDouble()
}

// AsBool converts o to a boolean using TCL boolean rules, shimmering if needed.
func AsBool(o *Obj) (bool, error) {
	if o == nil || o.v == nil {
		return false, nil
	}
	return o.v.AsBool()
}

// AsList converts o to a list, parsing it as TCL list syntax if needed.
func AsList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	return o.List()
}

// AsDict converts o to a dict, parsing it as TCL dict syntax if needed.
func AsDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: map[string]*Obj{}}, nil
	}
	return o.Dict()
}

// toTclString converts a Go value to a TCL string representation, quoting
// it with braces when it contains characters the parser would otherwise
// treat specially.
func toTclString(v any) string {
	if v == nil {
		return "{}"
	}
	switch val := v.(type) {
	case string:
		return quote(val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []string:
		out := ""
		for i, s := range val {
			if i > 0 {
				out += " "
			}
			out += quote(s)
		}
		return out
	case *Obj:
		return quote(val.String())
	default:
		return quote(fmt.Sprintf("%v", v))
	}
}

func quote(s string) string {
	if s == "" {
		return "{}"
	}
	needsQuote := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '{', '}', '"', '\\', '$', '[', ']', ';':
			needsQuote = true
		}
		if needsQuote {
			break
		}
	}
	if needsQuote {
		return "{" + s + "}"
	}
	return s
}
