package cache

import "reflect"

// Truthy reports whether v is worth caching: nil, zero numbers, false, and
// empty strings, slices and maps are falsy. Pointers and interfaces are
// judged by what they point to. Structs are always truthy.
func Truthy(v any) bool {
	return truthy(reflect.ValueOf(v))
}

func truthy(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return truthy(rv.Elem())
	case reflect.Map, reflect.Slice:
		return !rv.IsNil() && rv.Len() > 0
	case reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Chan, reflect.Func:
		return !rv.IsNil()
	default:
		return true
	}
}
