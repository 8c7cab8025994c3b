package core

import "fmt"

// varRecord is one variable slot in a frame: either it owns a value
// directly, or it links to a slot in another frame (upvar/global).
type varRecord struct {
	value *Value
	link  *varLink
}

type varLink struct {
	frame *CallFrame
	name  string
}

// CallFrame is one procedure activation (spec §4.D). The global frame has
// parent == nil.
type CallFrame struct {
	id      int
	parent  *CallFrame
	proc    string
	level   int
	vars    map[string]*varRecord
}

func newCallFrame(parent *CallFrame, proc string, level int) *CallFrame {
	return &CallFrame{parent: parent, proc: proc, level: level, vars: make(map[string]*varRecord)}
}

// varCache lets a compiled VAR/DICTSUGAR token remember which frame id it
// last resolved against, so repeated evaluation of a loop body skips the map
// lookup when the frame is unchanged (spec §4.A "caches the variable slot").
type varCache struct {
	name    string
	frameID int
	rec     *varRecord
}

// resolve follows name's link chain (if any) starting at fr and returns the
// owning frame, the final (possibly link-renamed) name within that frame,
// and the record there if one already exists.
func (ip *Interp) resolve(fr *CallFrame, name string) (*CallFrame, string, *varRecord) {
	rec, ok := fr.vars[name]
	if !ok {
		return fr, name, nil
	}
	for rec.link != nil {
		fr = rec.link.frame
		name = rec.link.name
		next, ok := fr.vars[name]
		if !ok {
			return fr, name, nil
		}
		rec = next
	}
	return fr, name, rec
}

// GetVar reads a scalar variable from fr, following upvar/global links.
func (ip *Interp) GetVar(fr *CallFrame, name string) (*Value, error) {
	_, _, rec := ip.resolve(fr, name)
	if rec == nil || rec.value == nil {
		return nil, fmt.Errorf("can't read %q: no such variable", name)
	}
	return rec.value, nil
}

// invalidateFrame bumps fr's id so any VAR token whose cached resolution
// (spec §4.F) last matched it is treated as stale on its next lookup.
func (ip *Interp) invalidateFrame(fr *CallFrame) {
	ip.frameID++
	fr.id = ip.frameID
}

// getVarCached resolves t.Name against the active frame, reusing t's cached
// variable-record resolution when the frame id it was cached against still
// matches (spec §4.F "variable" internal rep). Only direct, unlinked
// resolutions are cached; upvar/global links always re-resolve.
func (ip *Interp) getVarCached(t *Token) (*Value, error) {
	fr := ip.frame
	if t.vc != nil {
		vc := t.vc.vr
		if vc.frameID == fr.id && vc.name == t.Name {
			if vc.rec.value == nil {
				return nil, fmt.Errorf("can't read %q: no such variable", t.Name)
			}
			return vc.rec.value, nil
		}
	}
	owner, finalName, rec := ip.resolve(fr, t.Name)
	if rec == nil || rec.value == nil {
		return nil, fmt.Errorf("can't read %q: no such variable", t.Name)
	}
	if owner == fr && finalName == t.Name {
		cached := ip.newValue()
		cached.kind = KindVariable
		cached.vr = &varCache{name: t.Name, frameID: fr.id, rec: rec}
		t.vc = cached
	}
	return rec.value, nil
}

// SetVar creates or overwrites a scalar variable in fr (following links).
func (ip *Interp) SetVar(fr *CallFrame, name string, v *Value) {
	owner, finalName, rec := ip.resolve(fr, name)
	v.IncrRef()
	if rec == nil {
		owner.vars[finalName] = &varRecord{value: v}
		return
	}
	if rec.value != nil {
		rec.value.DecrRef()
	}
	rec.value = v
}

// UnsetVar removes a variable from fr, reporting whether it existed.
func (ip *Interp) UnsetVar(fr *CallFrame, name string) bool {
	owner, finalName, rec := ip.resolve(fr, name)
	if rec == nil {
		return false
	}
	if rec.value != nil {
		rec.value.DecrRef()
	}
	delete(owner.vars, finalName)
	ip.invalidateFrame(owner)
	return true
}

// LinkVar makes name in fr refer to targetName in targetFrame (spec §4.D
// "upvar"/"global"), detecting direct self-reference cycles.
func (ip *Interp) LinkVar(fr *CallFrame, name string, targetFrame *CallFrame, targetName string) error {
	if targetFrame == fr && targetName == name {
		return fmt.Errorf("can't upvar from variable to itself")
	}
	fr.vars[name] = &varRecord{link: &varLink{frame: targetFrame, name: targetName}}
	ip.invalidateFrame(fr)
	return nil
}

// splitDictSugar reports whether name has the "base(key)" shape (spec §4.D
// dict-sugar) and, if so, splits it. Used wherever a command receives an
// already-substituted variable-name argument (set/unset/incr)
// rather than a $-prefixed token the parser already tagged TokDictSugar.
func splitDictSugar(name string) (base, key string, ok bool) {
	if len(name) == 0 || name[len(name)-1] != ')' {
		return "", "", false
	}
	i := 0
	for i < len(name) && name[i] != '(' {
		i++
	}
	if i == 0 || i >= len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1 : len(name)-1], true
}

// GetDictSugar reads fr's name(key) element (spec §4.D dict-sugar).
func (ip *Interp) GetDictSugar(fr *CallFrame, name, key string) (*Value, error) {
	v, err := ip.GetVar(fr, name)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindDict {
		if _, cerr := ip.valueAsDict(v); cerr != nil {
			return nil, cerr
		}
	}
	dv, _ := ip.valueAsDict(v)
	item, ok := dv.Get(key)
	if !ok {
		return nil, fmt.Errorf("key %q not known in dictionary", key)
	}
	return item, nil
}

// SetDictSugar writes fr's name(key) element, creating the dict if needed.
func (ip *Interp) SetDictSugar(fr *CallFrame, name, key string, val *Value) error {
	var dv *Dict
	existing, err := ip.GetVar(fr, name)
	if err == nil {
		dv, err = ip.valueAsDict(existing)
		if err != nil {
			return err
		}
		// The new value below replaces existing in the variable; freeing
		// existing releases its dict's elements, so the new value needs a
		// dict of its own.
		if existing.Kind() == KindDict {
			dv = dv.dup()
		}
	} else {
		dv = newDict()
	}
	dv.Set(key, val)
	nv := ip.newValue()
	nv.kind = KindDict
	nv.dict = dv
	ip.SetVar(fr, name, nv)
	return nil
}

func (ip *Interp) valueAsDict(v *Value) (*Dict, error) {
	if v.Kind() == KindDict {
		return v.dict, nil
	}
	items, err := ParseListItems(v.String())
	if err != nil || len(items)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := newDict()
	for i := 0; i+1 < len(items); i += 2 {
		d.Set(items[i], ip.NewString(items[i+1]))
	}
	return d, nil
}

// PushFrame creates and activates a new child frame for a procedure call.
func (ip *Interp) PushFrame(proc string) *CallFrame {
	ip.frameID++
	fr := newCallFrame(ip.frame, proc, ip.frame.level+1)
	fr.id = ip.frameID
	ip.frame = fr
	return fr
}

// PopFrame restores the parent of the currently active frame, releasing the
// frame's owned variables.
func (ip *Interp) PopFrame() {
	fr := ip.frame
	for _, rec := range fr.vars {
		if rec.value != nil {
			rec.value.DecrRef()
		}
	}
	ip.frame = fr.parent
}
