// Package gomodel provides declarative models with validated construction:
//
// - Field descriptors with constraint primitives (bounds, length, pattern,
//   strip/case transforms, per-field strictness)
// - Lax and strict coercion from mappings, JSON, YAML or Go structs
// - A stable error model via Issues (JSON Pointer, code, message) aggregated
//   in a ValidationError, with typed causes reachable through errors.As
// - Model configuration: extra policy, strict, validate_default,
//   validate_assignment, frozen, string normalization
// - Dump to mappings, JSON or YAML with exclude/include/alias/unset/default/none
//   filters, and JSON Schema projection
//
// Design policy:
// - Keep only public APIs in the root package; put decoding under internal/.
// - Place builders under dsl/, exports under jsonschema/ and openapi/, file
//   based definitions under schemafile/ and the CLI under cmd/gomodel.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Model("Person").
//	    Field("first_name", dsl.Str()).Required().
//	    Field("age", dsl.Int().Ge(0)).Nullable().Default(nil).
//	    MustBuild()
//	p, err := s.ValidateJSON(ctx, data)
//	out, err := p.DumpJSON(gomodel.Indent(2))
package gomodel
