package gomodel

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// numberLike matches number literal types other than json.Number (for
// example encoding/json.Number when it is a distinct type).
type numberLike interface {
	String() string
	Float64() (float64, error)
	Int64() (int64, error)
}

// coerce converts v to the declared kind of t. On failure it records an issue
// and returns false. v is never nil here.
func (vr *validator) coerce(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	switch t.Kind {
	case KindString:
		return vr.coerceString(sc, t, v, strict, at)
	case KindInt:
		return vr.coerceInt(sc, t, v, strict, at)
	case KindFloat:
		return vr.coerceFloat(sc, t, v, strict, at)
	case KindBool:
		return vr.coerceBool(sc, t, v, strict, at)
	case KindList:
		return vr.coerceList(sc, t, v, strict, at)
	case KindTuple:
		return vr.coerceTuple(sc, t, v, strict, at)
	case KindDict:
		return vr.coerceDict(sc, t, v, strict, at)
	case KindModel:
		return vr.coerceModel(sc, t, v, strict, at)
	}
	return v, true
}

func (vr *validator) typeErr(sc scope, t *Type, code string, v any, at PathRef, kv ...any) {
	it := at.Issue(code, v, kv...)
	it.Cause = &TypeCoercionError{Field: sc.field.Name, Expected: t.base(), Got: typeName(v), Value: v}
	vr.add(it)
}

func (vr *validator) coerceString(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if s, ok := asGoString(v); ok {
		return sc.schema.normalizeString(s), true
	}
	if !strict && sc.schema.cfg.CoerceNumbersToStr {
		if lit, ok := numberText(v); ok {
			return sc.schema.normalizeString(lit), true
		}
	}
	vr.typeErr(sc, t, CodeStringType, v, at)
	return nil, false
}

// normalizeString applies the model-level string toggles: strip first, then
// lower-casing, else upper-casing.
func (s *Schema) normalizeString(str string) string {
	if s.cfg.StrStrip {
		str = strings.TrimSpace(str)
	}
	switch {
	case s.cfg.StrToLower:
		str = strings.ToLower(str)
	case s.cfg.StrToUpper:
		str = strings.ToUpper(str)
	}
	return str
}

func (vr *validator) coerceInt(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if n, ok := asGoInt(v); ok {
		return n, true
	}
	if f, ok := asGoFloat(v); ok {
		if strict {
			vr.typeErr(sc, t, CodeIntType, v, at)
			return nil, false
		}
		return vr.intFromFloat(sc, t, f, v, at)
	}
	if lit, ok := numberLiteral(v); ok {
		if isIntegralLiteral(lit) {
			n, err := strconv.ParseInt(lit, 10, 64)
			if err != nil {
				vr.typeErr(sc, t, CodeIntParsing, v, at)
				return nil, false
			}
			return n, true
		}
		if strict {
			vr.typeErr(sc, t, CodeIntType, v, at)
			return nil, false
		}
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			vr.typeErr(sc, t, CodeIntParsing, v, at)
			return nil, false
		}
		return vr.intFromFloat(sc, t, f, v, at)
	}
	if s, ok := v.(string); ok && !strict {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			vr.typeErr(sc, t, CodeIntParsing, v, at)
			return nil, false
		}
		return n, true
	}
	vr.typeErr(sc, t, CodeIntType, v, at)
	return nil, false
}

func (vr *validator) intFromFloat(sc scope, t *Type, f float64, v any, at PathRef) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		vr.typeErr(sc, t, CodeIntFromFloat, v, at)
		return nil, false
	}
	return int64(f), true
}

func (vr *validator) coerceFloat(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if f, ok := asGoFloat(v); ok {
		return f, true
	}
	if n, ok := asGoInt(v); ok {
		// Go-typed ints are only widened in lax mode; YAML integers count as
		// text input.
		if strict && !vr.text {
			vr.typeErr(sc, t, CodeFloatType, v, at)
			return nil, false
		}
		return float64(n), true
	}
	if lit, ok := numberLiteral(v); ok {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			vr.typeErr(sc, t, CodeFloatParsing, v, at)
			return nil, false
		}
		return f, true
	}
	if s, ok := v.(string); ok && !strict {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			vr.typeErr(sc, t, CodeFloatParsing, v, at)
			return nil, false
		}
		return f, true
	}
	vr.typeErr(sc, t, CodeFloatType, v, at)
	return nil, false
}

var boolWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

func (vr *validator) coerceBool(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if strict {
		vr.typeErr(sc, t, CodeBoolType, v, at)
		return nil, false
	}
	if s, ok := v.(string); ok {
		if b, known := boolWords[strings.ToLower(strings.TrimSpace(s))]; known {
			return b, true
		}
		vr.typeErr(sc, t, CodeBoolParsing, v, at)
		return nil, false
	}
	if lit, ok := numberText(v); ok {
		switch lit {
		case "0", "0.0":
			return false, true
		case "1", "1.0":
			return true, true
		}
		vr.typeErr(sc, t, CodeBoolParsing, v, at)
		return nil, false
	}
	vr.typeErr(sc, t, CodeBoolType, v, at)
	return nil, false
}

func (vr *validator) coerceList(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	var items []any
	switch x := v.(type) {
	case Tuple:
		if strict {
			vr.typeErr(sc, t, CodeListType, v, at)
			return nil, false
		}
		items = x
	default:
		var ok bool
		if items, ok = asSequence(v); !ok {
			vr.typeErr(sc, t, CodeListType, v, at)
			return nil, false
		}
	}
	out, ok := vr.elements(sc, func(int) *Type { return t.Elem }, items, strict, at)
	if !ok {
		return nil, false
	}
	return out, true
}

func (vr *validator) coerceTuple(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	var items []any
	switch x := v.(type) {
	case Tuple:
		items = x
	case []any:
		if strict && !vr.text {
			vr.typeErr(sc, t, CodeTupleType, v, at)
			return nil, false
		}
		items = x
	default:
		seq, ok := asSequence(v)
		switch {
		case ok && !strict:
			items = seq
		case !ok && !strict && len(t.Items) == 1 && isScalar(v):
			items = []any{v}
		default:
			vr.typeErr(sc, t, CodeTupleType, v, at)
			return nil, false
		}
	}
	if !t.Variadic() {
		n := len(t.Items)
		if len(items) < n {
			vr.typeErr(sc, t, CodeTooShort, v, at, "limit", n, "actual", len(items))
			return nil, false
		}
		if len(items) > n {
			vr.typeErr(sc, t, CodeTooLong, v, at, "limit", n, "actual", len(items))
			return nil, false
		}
	}
	elem := func(i int) *Type {
		if t.Items != nil {
			return t.Items[i]
		}
		return t.Elem
	}
	out, ok := vr.elements(sc, elem, items, strict, at)
	if !ok {
		return nil, false
	}
	return Tuple(out), true
}

// elements validates each item of a sequence with its element type.
func (vr *validator) elements(sc scope, elem func(int) *Type, items []any, strict bool, at PathRef) ([]any, bool) {
	out := make([]any, len(items))
	ok := true
	for i, it := range items {
		if vr.stopped() {
			return nil, false
		}
		nv, good := vr.element(sc, elem(i), it, strict, at.Index(i))
		if !good {
			ok = false
			continue
		}
		out[i] = nv
	}
	return out, ok
}

func (vr *validator) coerceDict(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	m, isMap := asStringMap(v)
	if !isMap {
		vr.typeErr(sc, t, CodeDictType, v, at)
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	ok := true
	for _, k := range keys {
		if vr.stopped() {
			return nil, false
		}
		nv, good := vr.element(sc, t.Elem, m[k], strict, at.Field(k))
		if !good {
			ok = false
			continue
		}
		out[k] = nv
	}
	if !ok {
		return nil, false
	}
	return out, true
}

func (vr *validator) coerceModel(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if inst, ok := v.(*Instance); ok && inst != nil {
		if inst.schema == t.Model {
			return inst, true
		}
		if !strict {
			v = inst.Dump()
		}
	}
	m, isMap := asStringMap(v)
	if !isMap {
		vr.typeErr(sc, t, CodeModelType, v, at, "model", t.Model.Name())
		return nil, false
	}
	inst, ok := vr.model(t.Model, m, at)
	if !ok {
		return nil, false
	}
	return inst, true
}

// ---- raw value helpers ----

func asGoString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if _, isNum := v.(numberLike); isNum {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func asGoInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case bool, string, float64, float32, json.Number:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func asGoFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// numberLiteral extracts the literal of a decoded JSON number.
func numberLiteral(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return string(n), true
	case numberLike:
		return n.String(), true
	}
	return "", false
}

// numberText renders any numeric input as text (42, 42.5, 1.0).
func numberText(v any) (string, bool) {
	if n, ok := asGoInt(v); ok {
		return strconv.FormatInt(n, 10), true
	}
	if f, ok := asGoFloat(v); ok {
		return formatFloat(f), true
	}
	return numberLiteral(v)
}

func asSequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case Tuple:
		return x, true
	case string, json.Number:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func isScalar(v any) bool {
	if _, ok := v.(string); ok {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.String:
		return false
	}
	return true
}
