package gomodel

import "strings"

// Kind enumerates the declared types a field may carry.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindTuple
	KindDict
	KindModel
)

var kindNames = [...]string{"any", "str", "int", "float", "bool", "list", "tuple", "dict", "model"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Tuple is the in-memory form of tuple values. Plain []any is treated as a
// list; lax coercion converts between the two.
type Tuple []any

// Type describes a declared type. Element types may carry their own
// nullability and constraints (list[Annotated[int, Gt(0)] | None]); on a
// field's top-level type, Constraints is the field's ordered constraint
// sequence and Nullable is ignored in favor of Field.Nullable.
type Type struct {
	Kind        Kind
	Elem        *Type   // list element, dict value, variadic tuple element
	Items       []*Type // fixed-size tuple items
	Model       *Schema // nested model
	Nullable    bool
	Constraints []Constraint
}

// Variadic reports whether a tuple type accepts any length (tuple[T, ...]).
func (t *Type) Variadic() bool { return t.Kind == KindTuple && t.Items == nil }

// String renders the type the way annotations are written: list[int],
// tuple[int, int], dict[str, float], int | None.
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	s := t.base()
	if t.Nullable {
		s += " | None"
	}
	return s
}

func (t *Type) base() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case KindList:
		if t.Elem == nil {
			return "list"
		}
		return "list[" + t.Elem.String() + "]"
	case KindTuple:
		if t.Items != nil {
			parts := make([]string, len(t.Items))
			for i, it := range t.Items {
				parts[i] = it.String()
			}
			return "tuple[" + strings.Join(parts, ", ") + "]"
		}
		if t.Elem == nil {
			return "tuple"
		}
		return "tuple[" + t.Elem.String() + ", ...]"
	case KindDict:
		if t.Elem == nil {
			return "dict"
		}
		return "dict[str, " + t.Elem.String() + "]"
	case KindModel:
		if t.Model == nil {
			return "model"
		}
		return t.Model.Name()
	default:
		return t.Kind.String()
	}
}

// clone returns a deep copy of the type tree. Nested model schemas are
// shared since they are immutable.
func (t *Type) clone() *Type {
	if t == nil {
		return nil
	}
	out := *t
	out.Elem = t.Elem.clone()
	if t.Items != nil {
		out.Items = make([]*Type, len(t.Items))
		for i, it := range t.Items {
			out.Items[i] = it.clone()
		}
	}
	if t.Constraints != nil {
		out.Constraints = append([]Constraint(nil), t.Constraints...)
	}
	return &out
}

// strictOverride returns the field-level strict flag when a strict
// constraint is attached.
func (t *Type) strictOverride() (bool, bool) {
	for _, c := range t.Constraints {
		if c.Tag == TagStrict {
			b, _ := c.Param.(bool)
			return b, true
		}
	}
	return false, false
}
