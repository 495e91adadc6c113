package gomodel

import (
	"fmt"
	"reflect"
	"strings"
)

// ResolveStructKey resolves the input key of a struct field.
// Priority: gomodel:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("gomodel"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// StructToMap converts a struct (or pointer to one) into the mapping form
// accepted by Schema.Validate. Nested structs, slices and maps are converted
// recursively; nil pointers become null.
func StructToMap(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("gomodel: nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("gomodel: expected struct, got %s", rv.Kind())
	}
	return structMap(rv), nil
}

func structMap(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		out[key] = plainValue(rv.Field(i))
	}
	return out
}

var tupleType = reflect.TypeOf(Tuple(nil))

func plainValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if inst, ok := rv.Interface().(*Instance); ok {
			return inst
		}
		return plainValue(rv.Elem())
	case reflect.Struct:
		return structMap(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type() == tupleType {
			out := make(Tuple, rv.Len())
			for i := range out {
				out[i] = plainValue(rv.Index(i))
			}
			return out
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plainValue(rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = plainValue(iter.Value())
		}
		return out
	}
	return rv.Interface()
}
