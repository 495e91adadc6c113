// Package dsl provides a fluent builder for gomodel schemas.
//
// Overview
//   - Model(name): start a model; chain Field/Required/Default/Optional and the
//     configuration toggles, then Build()/MustBuild().
//   - Types: Str/Int/Float/Bool/Any, List(elem), Tuple(items...), TupleOf(elem),
//     Dict(val), Nested(schema).
//   - Constraints chain on types: Gt/Ge/Lt/Le, MinLen/MaxLen, Pattern,
//     Strip/Upper/Lower, Strict/Lax. Type builders are values and can be
//     stored as reusable constrained types.
//
// Example
//
//	BoundedInt := dsl.Int().Ge(0).Le(100)
//
//	person := dsl.Model("Person").
//	    Field("first_name", dsl.Str().Strip().MinLen(1)).Required().
//	    Field("scores", dsl.List(BoundedInt).MaxLen(5)).Default([]any{}).
//	    Field("age", dsl.Int()).Optional().
//	    ExtraForbid().
//	    MustBuild()
//
//	inst, err := person.Validate(ctx, map[string]any{"first_name": " Ann "})
//	_ = inst // first_name='Ann', scores=[], age=None
//	_ = err
//
// Field semantics
//   - Required(): omission fails with a missing issue.
//   - Default(v): omission uses a deep copy of v; v is validated only with
//     ValidateDefault() on the field or the model.
//   - Nullable(): null is accepted as data. Optional() is Nullable + Default(nil).
package dsl
