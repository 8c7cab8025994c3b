// Package core implements the evaluation engine: the dual string/internal
// value representation, the parser, the compiled script cache, the
// expression VM, callframes, the command registry, the evaluator, and the
// reference/GC subsystem. It has no knowledge of the public embedding API;
// the root package wraps it.
package core

import (
	"fmt"
	"strconv"
)

// Kind tags the internal representation variant a Value currently holds.
// A Value with Kind == KindNone is a pure string.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindDouble
	KindList
	KindDict
	KindScript
	KindSubst
	KindExpr
	KindIndex
	KindReturnCode
	KindVariable
	KindCommand
	KindReference
	KindExternal // embedder-supplied ObjType, see external.go
)

// mayContainReferences reports whether a value of this kind can embed a
// reference token (~reference:NNNN...:) in its string form, and therefore
// must be scanned during collection (spec.md §4.I).
func (k Kind) mayContainReferences() bool {
	switch k {
	case KindNone, KindList, KindDict, KindExternal, KindReference:
		return true
	default:
		return false
	}
}

// Value is the universal datum: a byte-string representation, an optional
// internal representation, and a refcount. See spec §3.
type Value struct {
	str      string
	strValid bool
	strPooled bool
	kind     Kind

	i    int64   // KindInt, KindIndex (negative = end-offset), KindReturnCode
	d    float64 // KindDouble
	list []*Value
	dict *Dict
	scr  *Script
	xpr  *program
	vr   *varCache
	cmdc *cmdCache
	ref  *Reference
	ext  External

	// compared-string cache: affirms/denies equality with a single literal.
	cmpLiteral *string
	cmpResult  bool

	// source provenance, set when parsed from a file.
	srcFile string
	srcLine int
	hasSrc  bool

	refCount int
	interp   *Interp
}

// Dict is an insertion-ordered string-keyed map of values (spec §3: "dict").
type Dict struct {
	order []string
	items map[string]*Value
}

func newDict() *Dict {
	return &Dict{items: make(map[string]*Value)}
}

func (d *Dict) Len() int { return len(d.order) }

func (d *Dict) Get(key string) (*Value, bool) {
	v, ok := d.items[key]
	return v, ok
}

func (d *Dict) Set(key string, v *Value) {
	if _, ok := d.items[key]; !ok {
		d.order = append(d.order, key)
	}
	v.IncrRef()
	if old, ok := d.items[key]; ok {
		old.DecrRef()
	}
	d.items[key] = v
}

func (d *Dict) Unset(key string) bool {
	if _, ok := d.items[key]; !ok {
		return false
	}
	d.items[key].DecrRef()
	delete(d.items, key)
	for idx, k := range d.order {
		if k == key {
			d.order = append(d.order[:idx], d.order[idx+1:]...)
			break
		}
	}
	return true
}

func (d *Dict) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dict) dup() *Dict {
	nd := &Dict{order: append([]string(nil), d.order...), items: make(map[string]*Value, len(d.items))}
	for k, v := range d.items {
		v.IncrRef()
		nd.items[k] = v
	}
	return nd
}

// --- allocation / lifecycle -------------------------------------------------

// newValue allocates a Value, preferring a slot from the interpreter's free
// list over a fresh heap allocation (spec §3: live list / free list).
func (ip *Interp) newValue() *Value {
	var v *Value
	if n := len(ip.freeValues); n > 0 {
		v = ip.freeValues[n-1]
		ip.freeValues = ip.freeValues[:n-1]
		*v = Value{}
	} else {
		v = &Value{}
	}
	v.interp = ip
	v.refCount = 0
	ip.liveValues[v] = struct{}{}
	return v
}

// NewString creates a pure-string value, interning its byte string through
// the interpreter's shared-string pool (spec §4.B) so repeated literals
// (command names, brace-only args) share one refcounted pool entry.
func (ip *Interp) NewString(s string) *Value {
	v := ip.newValue()
	v.str = ip.strings.acquire(s)
	v.strValid = true
	v.strPooled = true
	return v
}

// NewInt creates an integer value.
func (ip *Interp) NewInt(n int64) *Value {
	v := ip.newValue()
	v.kind = KindInt
	v.i = n
	return v
}

// NewDouble creates a floating-point value.
func (ip *Interp) NewDouble(f float64) *Value {
	v := ip.newValue()
	v.kind = KindDouble
	v.d = f
	return v
}

// NewList creates a list value from already-owned elements (refs transferred).
func (ip *Interp) NewList(elems []*Value) *Value {
	v := ip.newValue()
	v.kind = KindList
	v.list = elems
	return v
}

// NewDict creates an empty dict value.
func (ip *Interp) NewDict() *Value {
	v := ip.newValue()
	v.kind = KindDict
	v.dict = newDict()
	return v
}

// IncrRef increments the refcount.
func (v *Value) IncrRef() *Value {
	if v == nil {
		return v
	}
	v.refCount++
	return v
}

// DecrRef decrements the refcount, freeing the value at zero.
func (v *Value) DecrRef() {
	if v == nil {
		return
	}
	v.refCount--
	if v.refCount <= 0 {
		v.free()
	}
}

// RefCount reports the current refcount (for tests and IsShared).
func (v *Value) RefCount() int { return v.refCount }

// IsShared reports whether the value has more than one owner; mutators must
// duplicate-on-write when this holds (spec §3).
func (v *Value) IsShared() bool { return v.refCount > 1 }

func (v *Value) free() {
	ip := v.interp
	if v.strPooled {
		ip.strings.release(v.str)
		v.strPooled = false
	}
	switch v.kind {
	case KindList:
		for _, e := range v.list {
			e.DecrRef()
		}
	case KindDict:
		for _, e := range v.dict.items {
			e.DecrRef()
		}
	case KindExternal:
		if v.ext != nil {
			v.ext = nil
		}
	}
	delete(ip.liveValues, v)
	v.refCount = -1
	ip.freeValues = append(ip.freeValues, v)
}

// Dup performs a deep copy of v, including its internal representation via
// the type descriptor contract (spec §4.A "duplicate"). The copy starts with
// refcount 0.
func (v *Value) Dup() *Value {
	ip := v.interp
	nv := ip.newValue()
	nv.str = v.str
	nv.strValid = v.strValid
	if v.strPooled {
		ip.strings.acquire(v.str)
		nv.strPooled = true
	}
	nv.kind = v.kind
	switch v.kind {
	case KindInt, KindIndex, KindReturnCode:
		nv.i = v.i
	case KindDouble:
		nv.d = v.d
	case KindList:
		nv.list = make([]*Value, len(v.list))
		for i, e := range v.list {
			nv.list[i] = e.IncrRef()
		}
	case KindDict:
		nv.dict = v.dict.dup()
	case KindScript, KindSubst:
		nv.scr = v.scr // scripts are immutable once built; shared, not deep-copied
	case KindExpr:
		nv.xpr = v.xpr
	case KindVariable:
		nv.vr = v.vr
	case KindCommand:
		nv.cmdc = v.cmdc
	case KindReference:
		nv.ref = v.ref
	case KindExternal:
		nv.ext = v.ext.Clone()
	}
	return nv
}

// --- string materialization --------------------------------------------------

// String returns the canonical string form, regenerating it from the
// internal representation if necessary (spec §4.A "get_string").
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	if !v.strValid {
		v.str = v.regenerate()
		v.strValid = true
	}
	return v.str
}

func (v *Value) regenerate() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return formatDouble(v.d)
	case KindIndex:
		return formatIndex(v.i)
	case KindReturnCode:
		return returnCodeName(ReturnCode(v.i))
	case KindList:
		return formatList(v.list)
	case KindDict:
		return formatDict(v.dict)
	case KindScript, KindSubst:
		return v.scr.source
	case KindExpr:
		return v.xpr.source
	case KindVariable:
		return v.vr.name
	case KindCommand:
		return v.cmdc.name
	case KindReference:
		return v.ref.Token()
	case KindExternal:
		return v.ext.Render()
	default:
		return ""
	}
}

func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// TCL convention: a double always looks like one syntactically.
	hasDotOrExp := false
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' || c == 'n' /* nan/inf */ {
			hasDotOrExp = true
			break
		}
	}
	if !hasDotOrExp {
		s += ".0"
	}
	return s
}

func formatIndex(n int64) string {
	if n < 0 {
		if n == -1 {
			return "end"
		}
		return "end" + strconv.FormatInt(n+1, 10)
	}
	return strconv.FormatInt(n, 10)
}

// --- invalidation / mutation helpers -----------------------------------------

// Invalidate clears the cached string so it is regenerated on next access.
// Call after mutating a list/dict internal representation in place.
func (v *Value) Invalidate() { v.strValid = false }

// SetSource tags a token value with file/line provenance (spec §4.D).
func (v *Value) SetSource(file string, line int) {
	v.srcFile, v.srcLine, v.hasSrc = file, line, true
}

func (v *Value) Source() (file string, line int, ok bool) {
	return v.srcFile, v.srcLine, v.hasSrc
}

// Kind reports the current internal representation tag.
func (v *Value) Kind() Kind { return v.kind }

// Interp returns the interpreter that owns this value.
func (v *Value) Interp() *Interp { return v.interp }

// AsDict returns the value's dict representation, parsing its string form
// as a TCL dict (alternating key/value list) if it isn't one already.
func (v *Value) AsDict() (*Dict, error) {
	if v.kind == KindDict {
		return v.dict, nil
	}
	items, err := ParseListItems(v.String())
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := newDict()
	for i := 0; i+1 < len(items); i += 2 {
		d.Set(items[i], v.interp.NewString(items[i+1]))
	}
	return d, nil
}

// TypeName returns the user-visible type name ("string" for KindNone).
func (v *Value) TypeName() string {
	switch v.kind {
	case KindNone:
		return "string"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindScript:
		return "script"
	case KindSubst:
		return "subst"
	case KindExpr:
		return "expression"
	case KindIndex:
		return "index"
	case KindReturnCode:
		return "return-code"
	case KindVariable:
		return "variable"
	case KindCommand:
		return "command"
	case KindReference:
		return "reference"
	case KindExternal:
		return v.ext.Kind()
	default:
		return "string"
	}
}

// External returns the embedder-supplied representation, if any.
func (v *Value) External() External {
	if v.kind != KindExternal {
		return nil
	}
	return v.ext
}

// SetExternal shimmers v into an embedder-supplied representation,
// preserving the current string form (spec §3 invariant: shimmering keeps
// the byte string, drops the old internal rep).
func (v *Value) SetExternal(e External) {
	_ = v.String() // materialize string before shimmering away the old rep
	v.kind = KindExternal
	v.ext = e
}

func quoteNeeded(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '{', '}', '"', ';', '$', '[', ']', '\\':
			return true
		}
	}
	return false
}

func formatList(items []*Value) string {
	out := make([]byte, 0, 32)
	for i, it := range items {
		if i > 0 {
			out = append(out, ' ')
		}
		out = appendListElement(out, it.String())
	}
	return string(out)
}

func appendListElement(out []byte, s string) []byte {
	if !quoteNeeded(s) {
		return append(out, s...)
	}
	out = append(out, '{')
	out = append(out, s...)
	out = append(out, '}')
	return out
}

func formatDict(d *Dict) string {
	out := make([]byte, 0, 32)
	for i, k := range d.order {
		if i > 0 {
			out = append(out, ' ')
		}
		out = appendListElement(out, k)
		out = append(out, ' ')
		out = appendListElement(out, d.items[k].String())
	}
	return string(out)
}

// CompareLiteral compares v's string against lit, caching the affirmative
// result so repeated comparisons against the same literal pointer are O(1)
// (spec §4.A "compared-string" cache).
func (v *Value) CompareLiteral(lit string) bool {
	if v.cmpLiteral != nil && *v.cmpLiteral == lit {
		return v.cmpResult
	}
	res := v.String() == lit
	v.cmpLiteral = &lit
	v.cmpResult = res
	return res
}

// AsInt converts v to int64, shimmering the internal representation.
func (v *Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindIndex, KindReturnCode:
		return v.i, nil
	}
	if v.kind == KindDouble {
		// A value whose only rep is double does not get reshimmered to int
		// just by asking; the caller must go through AsDouble. Parsing the
		// string form is still attempted below, matching spec §4.E: a pure
		// double value "forces the double path" in expr, but AsInt here is
		// the general conversion used outside expr (e.g. lindex).
	}
	s := v.String()
	n, err := strconv.ParseInt(trimSign(s), 10, 64)
	if err != nil {
		n2, err2 := strconv.ParseInt(s, 0, 64)
		if err2 != nil {
			return 0, fmt.Errorf("expected integer but got %q", s)
		}
		n = n2
	}
	v.kind = KindInt
	v.i = n
	return n, nil
}

func trimSign(s string) string { return s }

// AsDouble converts v to float64, shimmering the internal representation.
func (v *Value) AsDouble() (float64, error) {
	switch v.kind {
	case KindDouble:
		return v.d, nil
	case KindInt:
		return float64(v.i), nil
	}
	s := v.String()
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected floating-point number but got %q", s)
	}
	v.kind = KindDouble
	v.d = f
	return f, nil
}

// AsBool applies TCL boolean rules (spec §4.E variant used by if/while).
func (v *Value) AsBool() (bool, error) {
	if v.kind == KindInt {
		return v.i != 0, nil
	}
	if v.kind == KindDouble {
		return v.d != 0, nil
	}
	s := v.String()
	switch s {
	case "1", "true", "True", "TRUE", "yes", "Yes", "YES", "on", "On", "ON":
		return true, nil
	case "0", "false", "False", "FALSE", "no", "No", "NO", "off", "Off", "OFF":
		return false, nil
	}
	if n, err := v.AsInt(); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("expected boolean value but got %q", s)
}
