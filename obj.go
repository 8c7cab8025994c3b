package tcl

import (
	"fmt"

	"github.com/gtcl-project/gtcl/internal/core"
)

// Obj is a TCL value.
//
// Unlike the handle-indirected design this package is grounded on (which
// translated numeric FeatherObj handles to *Obj at the API edge to cross a
// cgo boundary), there is no FFI here: Obj wraps the engine's *core.Value
// directly.
type Obj struct {
	v *core.Value
}

// ObjType describes a custom internal representation for shimmering values
// registered through RegisterType's foreign-object machinery, or attached
// directly via SetExternal.
type ObjType interface {
	// Name returns the type name (e.g., "int", "list", or a foreign type).
	Name() string
}

// IntoInt can convert directly to int64.
type IntoInt interface {
	IntoInt() (int64, bool)
}

// IntoDouble can convert directly to float64.
type IntoDouble interface {
	IntoDouble() (float64, bool)
}

// IntoList can convert directly to a list.
type IntoList interface {
	IntoList() ([]*Obj, bool)
}

// IntoDict can convert directly to a dictionary.
type IntoDict interface {
	IntoDict() (map[string]*Obj, []string, bool)
}

// IntoBool can convert directly to a boolean.
type IntoBool interface {
	IntoBool() (bool, bool)
}

func wrapValue(v *core.Value) *Obj {
	if v == nil {
		return nil
	}
	return &Obj{v: v}
}

// String returns the string representation of the object.
func (o *Obj) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return o.v.String()
}

// Type returns the native type name: "string", "int", "double", "list",
// "dict", or a foreign type name registered via RegisterType.
func (o *Obj) Type() string {
	if o == nil || o.v == nil {
		return "string"
	}
	return o.v.TypeName()
}

// Int returns the integer value of this object, shimmering if needed.
func (o *Obj) Int() (int64, error) {
	if o == nil || o.v == nil {
		return 0, nil
	}
	return o.v.AsInt()
}

// Double returns the float64 value of this object, shimmering if needed.
func (o *Obj) Double() (float64, error) {
	if o == nil || o.v == nil {
		return 0, nil
	}
	return o.v.AsDouble()
}

// Bool returns the boolean value of this object using TCL boolean rules.
func (o *Obj) Bool() (bool, error) {
	if o == nil || o.v == nil {
		return false, nil
	}
	return o.v.AsBool()
}

// List returns the list elements of this object, parsing as a TCL list if
// the object is a pure string.
func (o *Obj) List() ([]*Obj, error) {
	if o == nil || o.v == nil {
		return nil, nil
	}
	items, err := core.ParseListItems(o.v.String())
	if err != nil {
		return nil, err
	}
	out := make([]*Obj, len(items))
	interp := o.v.Interp()
	for i, s := range items {
		out[i] = wrapValue(interp.NewString(s).IncrRef())
	}
	return out, nil
}

// Dict returns the dict representation of this object as an ordered map.
func (o *Obj) Dict() (*DictType, error) {
	if o == nil || o.v == nil {
		return &DictType{Items: map[string]*Obj{}}, nil
	}
	items, err := core.ParseListItems(o.v.String())
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := &DictType{Items: make(map[string]*Obj, len(items)/2)}
	interp := o.v.Interp()
	for i := 0; i+1 < len(items); i += 2 {
		d.Order = append(d.Order, items[i])
		d.Items[items[i]] = wrapValue(interp.NewString(items[i+1]).IncrRef())
	}
	return d, nil
}

// value exposes the underlying engine value; used internally at API edges.
func (o *Obj) value() *core.Value {
	if o == nil {
		return nil
	}
	return o.v
}

// DictType is the ordered-map view of a dict object returned by [Obj.Dict]
// and [Interp.ParseDict].
type DictType struct {
	Items map[string]*Obj
	Order []string
}
