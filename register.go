package tcl

import (
	"fmt"
	"reflect"

	"github.com/gtcl-project/gtcl/internal/core"
)

// wrapFunc wraps a Go function to be callable as a NativeFunc, converting
// arguments and return values by reflection.
func wrapFunc(fn any) core.NativeFunc {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("Register: expected function, got %T", fn))
	}

	return func(ip *core.Interp, argv []*core.Value) (*core.Value, core.ReturnCode, error) {
		args := argv[1:]
		numIn := fnType.NumIn()
		isVariadic := fnType.IsVariadic()

		if isVariadic {
			if len(args) < numIn-1 {
				return nil, core.ERROR, fmt.Errorf("wrong # args: expected at least %d, got %d", numIn-1, len(args))
			}
		} else if len(args) != numIn {
			return nil, core.ERROR, fmt.Errorf("wrong # args: expected %d, got %d", numIn, len(args))
		}

		callArgs := make([]reflect.Value, len(args))
		for j, arg := range args {
			var paramType reflect.Type
			if isVariadic && j >= numIn-1 {
				paramType = fnType.In(numIn - 1).Elem()
			} else {
				paramType = fnType.In(j)
			}
			converted, err := convertArg(arg, paramType)
			if err != nil {
				return nil, core.ERROR, fmt.Errorf("argument %d: %w", j+1, err)
			}
			callArgs[j] = converted
		}

		results := fnVal.Call(callArgs)
		return processResults(ip, results, fnType)
	}
}

func convertArg(arg *core.Value, targetType reflect.Type) (reflect.Value, error) {
	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(arg.String()), nil
	case reflect.Int:
		v, err := arg.AsInt()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(int(v)), nil
	case reflect.Int64:
		v, err := arg.AsInt()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	case reflect.Float64:
		v, err := arg.AsDouble()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	case reflect.Bool:
		v, err := arg.AsBool()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	case reflect.Slice:
		items, err := core.ParseListItems(arg.String())
		if err != nil {
			return reflect.Value{}, err
		}
		if targetType.Elem().Kind() == reflect.String {
			slice := make([]string, len(items))
			copy(slice, items)
			return reflect.ValueOf(slice), nil
		}
		slice := reflect.MakeSlice(targetType, len(items), len(items))
		for j, item := range items {
			itemVal := arg.Interp().NewString(item)
			converted, err := convertArg(itemVal, targetType.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", j, err)
			}
			slice.Index(j).Set(converted)
		}
		return slice, nil
	case reflect.Interface:
		if targetType.NumMethod() == 0 {
			return reflect.ValueOf(arg.String()), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert to interface %v", targetType)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %v", targetType)
	}
}

func processResults(ip *core.Interp, results []reflect.Value, fnType reflect.Type) (*core.Value, core.ReturnCode, error) {
	if len(results) == 0 {
		return ip.NewString("").IncrRef(), core.OK, nil
	}
	last := results[len(results)-1]
	if fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		if !last.IsNil() {
			return nil, core.ERROR, last.Interface().(error)
		}
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return ip.NewString("").IncrRef(), core.OK, nil
	}
	return convertResult(ip, results[0]), core.OK, nil
}

func convertResult(ip *core.Interp, result reflect.Value) *core.Value {
	if !result.IsValid() {
		return ip.NewString("").IncrRef()
	}
	switch result.Kind() {
	case reflect.String:
		return ip.NewString(result.String()).IncrRef()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ip.NewInt(result.Int()).IncrRef()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ip.NewInt(int64(result.Uint())).IncrRef()
	case reflect.Float32, reflect.Float64:
		return ip.NewDouble(result.Float()).IncrRef()
	case reflect.Bool:
		if result.Bool() {
			return ip.NewInt(1).IncrRef()
		}
		return ip.NewInt(0).IncrRef()
	case reflect.Slice:
		elems := make([]*core.Value, result.Len())
		for j := 0; j < result.Len(); j++ {
			elems[j] = elemToValue(ip, result.Index(j))
		}
		return ip.NewList(elems).IncrRef()
	case reflect.Map:
		d := ip.NewDict()
		dict, _ := d.AsDict()
		iter := result.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			dict.Set(key, elemToValue(ip, iter.Value()))
		}
		return d.IncrRef()
	default:
		return ip.NewString(fmt.Sprintf("%v", result.Interface())).IncrRef()
	}
}

func elemToValue(ip *core.Interp, elem reflect.Value) *core.Value {
	switch elem.Kind() {
	case reflect.String:
		return ip.NewString(elem.String())
	case reflect.Int, reflect.Int64:
		return ip.NewInt(elem.Int())
	default:
		return ip.NewString(fmt.Sprintf("%v", elem.Interface()))
	}
}
