package dsl

import gomodel "github.com/reoring/gomodel"

// TypeBuilder declares a field or element type with its constraints. Every
// method returns a new value, so a builder can be stored and reused as a
// named constrained type (for example a bounded int shared by many fields).
type TypeBuilder struct {
	t gomodel.Type
}

// Str declares a string.
func Str() TypeBuilder { return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindString}} }

// Int declares an integer.
func Int() TypeBuilder { return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindInt}} }

// Float declares a float.
func Float() TypeBuilder { return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindFloat}} }

// Bool declares a boolean.
func Bool() TypeBuilder { return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindBool}} }

// Any accepts every value, null included.
func Any() TypeBuilder { return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindAny}} }

// List declares list[elem].
func List(elem TypeBuilder) TypeBuilder {
	return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindList, Elem: elem.Type()}}
}

// Tuple declares a fixed-size tuple[a, b, ...].
func Tuple(items ...TypeBuilder) TypeBuilder {
	ts := make([]*gomodel.Type, len(items))
	for i, it := range items {
		ts[i] = it.Type()
	}
	return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindTuple, Items: ts}}
}

// TupleOf declares a variadic tuple[elem, ...].
func TupleOf(elem TypeBuilder) TypeBuilder {
	return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindTuple, Elem: elem.Type()}}
}

// Dict declares dict[str, val].
func Dict(val TypeBuilder) TypeBuilder {
	return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindDict, Elem: val.Type()}}
}

// Nested declares a field holding an instance of another model.
func Nested(s *gomodel.Schema) TypeBuilder {
	return TypeBuilder{t: gomodel.Type{Kind: gomodel.KindModel, Model: s}}
}

// Of wraps an existing Type.
func Of(t *gomodel.Type) TypeBuilder {
	if t == nil {
		return Any()
	}
	return TypeBuilder{t: *t}
}

// Type returns a fresh copy of the declared type.
func (b TypeBuilder) Type() *gomodel.Type {
	t := b.t
	t.Constraints = append([]gomodel.Constraint(nil), b.t.Constraints...)
	return &t
}

// With appends arbitrary constraints.
func (b TypeBuilder) With(cs ...gomodel.Constraint) TypeBuilder {
	t := b.Type()
	t.Constraints = append(t.Constraints, cs...)
	return TypeBuilder{t: *t}
}

// Nullable marks an element type as T | None. Top-level nullability is set
// on the field instead.
func (b TypeBuilder) Nullable() TypeBuilder {
	t := b.Type()
	t.Nullable = true
	return TypeBuilder{t: *t}
}

func (b TypeBuilder) Gt(v float64) TypeBuilder { return b.With(gomodel.Gt(v)) }
func (b TypeBuilder) Ge(v float64) TypeBuilder { return b.With(gomodel.Ge(v)) }
func (b TypeBuilder) Lt(v float64) TypeBuilder { return b.With(gomodel.Lt(v)) }
func (b TypeBuilder) Le(v float64) TypeBuilder { return b.With(gomodel.Le(v)) }

// MinLen and MaxLen bound runes for strings and items for containers.
func (b TypeBuilder) MinLen(n int) TypeBuilder { return b.With(gomodel.MinLength(n)) }
func (b TypeBuilder) MaxLen(n int) TypeBuilder { return b.With(gomodel.MaxLength(n)) }

// Pattern requires a regular-expression match anywhere in the string.
func (b TypeBuilder) Pattern(expr string) TypeBuilder { return b.With(gomodel.Pattern(expr)) }

func (b TypeBuilder) Strip() TypeBuilder { return b.With(gomodel.Strip()) }
func (b TypeBuilder) Upper() TypeBuilder { return b.With(gomodel.ToUpper()) }
func (b TypeBuilder) Lower() TypeBuilder { return b.With(gomodel.ToLower()) }

// Strict forces strict coercion for this type regardless of the model.
func (b TypeBuilder) Strict() TypeBuilder { return b.With(gomodel.StrictConstraint(true)) }

// Lax forces lax coercion for this type regardless of the model.
func (b TypeBuilder) Lax() TypeBuilder { return b.With(gomodel.StrictConstraint(false)) }

// String renders the type annotation.
func (b TypeBuilder) String() string { return b.t.String() }
