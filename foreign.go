package tcl

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gtcl-project/gtcl/internal/core"
)

// Methods maps a foreign type's method names to their Go implementations.
// Each function's first parameter is the receiver.
type Methods map[string]any

// TypeDef defines a foreign type that can be exposed to TCL as a command
// that creates instances, each itself usable as a command ("$obj method
// args…").
type TypeDef[T any] struct {
	// New constructs an instance; called for "TypeName new".
	New func() T

	// Methods maps method names to implementations: func(T, ...) (...).
	Methods map[string]any

	// String optionally renders a custom string form; default is the
	// generated handle name ("mux1").
	String func(T) string

	// Destroy runs when "$obj destroy" is called.
	Destroy func(T)
}

type foreignTypeInfo struct {
	name      string
	newFunc   reflect.Value
	methods   map[string]reflect.Value
	stringRep reflect.Value
	destroy   reflect.Value
}

type foreignInstance struct {
	typeName string
	handle   string
	value    any
}

// foreignRegistry is the per-interpreter home for every foreign type and
// live instance; it is not part of the evaluation engine, only this
// embedding-layer convenience (spec §6 "Embedding API").
type foreignRegistry struct {
	mu        sync.Mutex
	types     map[string]*foreignTypeInfo
	instances map[string]*foreignInstance
	counters  map[string]int
}

func (i *Interp) foreign() *foreignRegistry {
	if i.fr == nil {
		i.fr = &foreignRegistry{
			types:     make(map[string]*foreignTypeInfo),
			instances: make(map[string]*foreignInstance),
			counters:  make(map[string]int),
		}
	}
	return i.fr
}

// foreignExternal is the core.External adapter wrapping a foreign instance's
// live Go value so it can sit in a *core.Value's internal representation.
type foreignExternal struct {
	reg    *foreignRegistry
	typ    *foreignTypeInfo
	handle string
}

func (f *foreignExternal) Kind() string { return f.typ.name }

func (f *foreignExternal) Render() string {
	f.reg.mu.Lock()
	inst, ok := f.reg.instances[f.handle]
	f.reg.mu.Unlock()
	if !ok {
		return f.handle
	}
	if f.typ.stringRep.IsValid() {
		out := f.typ.stringRep.Call([]reflect.Value{reflect.ValueOf(inst.value)})
		if len(out) > 0 {
			return out[0].String()
		}
	}
	return f.handle
}

func (f *foreignExternal) Clone() core.External { return f }

// RegisterType registers a foreign Go type as a TCL type: "TypeName new"
// creates an instance; "$handle method ?arg ...?" dispatches to its methods;
// "$handle destroy" removes it (spec §6 "Embedding API" shape).
func RegisterType[T any](i *Interp, name string, def TypeDef[T]) error {
	if def.New == nil {
		return fmt.Errorf("RegisterType: New function is required for type %q", name)
	}
	reg := i.foreign()
	reg.mu.Lock()
	info := &foreignTypeInfo{
		name:    name,
		newFunc: reflect.ValueOf(def.New),
		methods: make(map[string]reflect.Value, len(def.Methods)),
	}
	for m, fn := range def.Methods {
		info.methods[m] = reflect.ValueOf(fn)
	}
	if def.String != nil {
		info.stringRep = reflect.ValueOf(def.String)
	}
	if def.Destroy != nil {
		info.destroy = reflect.ValueOf(def.Destroy)
	}
	reg.types[name] = info
	reg.counters[name] = 1
	reg.mu.Unlock()

	i.RegisterCommand(name, func(i *Interp, cmd *Obj, args []*Obj) Result {
		return i.foreignConstruct(info, args)
	})
	return nil
}

func (i *Interp) foreignConstruct(info *foreignTypeInfo, args []*Obj) Result {
	if len(args) != 1 || args[0].String() != "new" {
		return Errorf("wrong # args: should be \"%s new\"", info.name)
	}
	out := info.newFunc.Call(nil)
	if len(out) == 0 {
		return Errorf("%s new: constructor returned no value", info.name)
	}
	value := out[0].Interface()

	reg := i.foreign()
	reg.mu.Lock()
	n := reg.counters[info.name]
	reg.counters[info.name] = n + 1
	handle := fmt.Sprintf("%s%d", strings.ToLower(info.name), n)
	reg.instances[handle] = &foreignInstance{typeName: info.name, handle: handle, value: value}
	reg.mu.Unlock()

	ext := &foreignExternal{reg: reg, typ: info, handle: handle}
	v := i.ip.NewString(handle)
	v.SetExternal(ext)

	i.RegisterCommand(handle, func(i *Interp, cmd *Obj, args []*Obj) Result {
		return i.foreignDispatch(info, handle, args)
	})

	return OK(wrapValue(v.IncrRef()))
}

func (i *Interp) foreignDispatch(info *foreignTypeInfo, handle string, args []*Obj) Result {
	if len(args) == 0 {
		return Errorf("wrong # args: should be \"%s method ?arg ...?\"", handle)
	}
	method := args[0].String()
	rest := args[1:]

	reg := i.foreign()
	reg.mu.Lock()
	inst, ok := reg.instances[handle]
	reg.mu.Unlock()
	if !ok {
		return Errorf("invalid object handle %q", handle)
	}

	if method == "destroy" {
		reg.mu.Lock()
		delete(reg.instances, handle)
		reg.mu.Unlock()
		if info.destroy.IsValid() {
			info.destroy.Call([]reflect.Value{reflect.ValueOf(inst.value)})
		}
		i.ip.RenameCommand(handle, "")
		return OK("")
	}

	fn, ok := info.methods[method]
	if !ok {
		names := make([]string, 0, len(info.methods)+1)
		for m := range info.methods {
			names = append(names, m)
		}
		names = append(names, "destroy")
		return Errorf("unknown method %q: must be %s", method, strings.Join(names, ", "))
	}
	return i.callForeignMethod(inst.value, fn, rest)
}

func (i *Interp) callForeignMethod(receiver any, fn reflect.Value, args []*Obj) Result {
	fnType := fn.Type()
	expected := fnType.NumIn() - 1
	if len(args) != expected {
		return Errorf("wrong # args: expected %d, got %d", expected, len(args))
	}
	callArgs := make([]reflect.Value, fnType.NumIn())
	callArgs[0] = reflect.ValueOf(receiver)
	for j, a := range args {
		converted, err := convertArg(a.value(), fnType.In(j+1))
		if err != nil {
			return Errorf("argument %d: %v", j+1, err)
		}
		callArgs[j+1] = converted
	}
	out := fn.Call(callArgs)
	v, code, err := processResults(i.ip, out, fnType)
	if err != nil {
		return Error(err.Error())
	}
	if code == core.ERROR {
		return Error(v.String())
	}
	return OK(wrapValue(v))
}
