package gomodel

import (
	"math"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// Equal reports whether both instances share a schema and hold equal field
// values and extras. Numbers compare by value (1 == 1.0); integers compare
// exactly.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in.schema != other.schema {
		return false
	}
	for i := range in.values {
		if !valuesEqual(in.values[i], other.values[i]) {
			return false
		}
	}
	if len(in.extra) != len(other.extra) {
		return false
	}
	for k, v := range in.extra {
		ov, ok := other.extra[k]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if na, ok := numericOf(a); ok {
		nb, ok := numericOf(b)
		return ok && na.equal(nb)
	}
	switch x := a.(type) {
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		return ok && seqEqual(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && seqEqual(x, y)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !valuesEqual(v, w) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func seqEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// number holds a numeric value, exact when it is an integer.
type number struct {
	i     int64
	f     float64
	isInt bool
}

// numericOf reads any number (Go ints, floats, JSON literals). Booleans are
// not numbers here.
func numericOf(v any) (number, bool) {
	if n, ok := asGoInt(v); ok {
		return number{i: n, isInt: true}, true
	}
	if f, ok := asGoFloat(v); ok {
		return number{f: f}, true
	}
	if lit, ok := numberLiteral(v); ok {
		if isIntegralLiteral(lit) {
			if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
				return number{i: n, isInt: true}, true
			}
		}
		f, err := strconv.ParseFloat(lit, 64)
		return number{f: f}, err == nil
	}
	return number{}, false
}

// exact returns the integer n denotes, folding integral floats that fit in
// int64.
func (n number) exact() (int64, bool) {
	if n.isInt {
		return n.i, true
	}
	if n.f == math.Trunc(n.f) && n.f >= -(1<<63) && n.f < 1<<63 {
		return int64(n.f), true
	}
	return 0, false
}

// equal compares integers exactly; two floats compare as floats.
func (n number) equal(m number) bool {
	if !n.isInt && !m.isInt {
		return n.f == m.f
	}
	a, aok := n.exact()
	b, bok := m.exact()
	return aok && bok && a == b
}

// Hash returns a 64-bit hash of the instance. Only frozen models are
// hashable; equal instances hash identically.
func (in *Instance) Hash() (uint64, error) {
	if !in.schema.cfg.Frozen {
		return 0, &UnhashableTypeError{Model: in.schema.name}
	}
	b, err := json.Marshal(in.canonical())
	if err != nil {
		return 0, err
	}
	d := xxhash.New()
	_, _ = d.WriteString(in.schema.name)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(b)
	return d.Sum64(), nil
}

// canonical is the hashing form: field values in schema order followed by
// sorted extras, with integral numbers folded to int64.
func (in *Instance) canonical() []any {
	out := make([]any, 0, len(in.values)+2*len(in.extra))
	for _, v := range in.values {
		out = append(out, canonicalValue(v))
	}
	for _, k := range in.extraNames() {
		out = append(out, k, canonicalValue(in.extra[k]))
	}
	return out
}

func canonicalValue(v any) any {
	if n, ok := numericOf(v); ok {
		if i, ok := n.exact(); ok {
			return i
		}
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return formatFloat(n.f)
		}
		return n.f
	}
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return nil
		}
		return map[string]any{"$model": x.schema.name, "values": x.canonical()}
	case []any:
		return canonicalSeq(x)
	case Tuple:
		return map[string]any{"$tuple": canonicalSeq(x)}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = canonicalValue(e)
		}
		return out
	}
	return v
}

func canonicalSeq(xs []any) []any {
	out := make([]any, len(xs))
	for i, e := range xs {
		out[i] = canonicalValue(e)
	}
	return out
}
