// Package openapi projects gomodel schemas onto kin-openapi (OpenAPI 3.0)
// schema objects so they can be embedded in API documents or used with
// openapi3 request validation.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	gomodel "github.com/reoring/gomodel"
)

// RefPrefix is where nested models are referenced from.
const RefPrefix = "#/components/schemas/"

// Schema returns the OpenAPI schema of s. Nested models are emitted as
// references that also carry their resolved value, so the result can be
// validated with VisitJSON without loading a document.
func Schema(s *gomodel.Schema) *openapi3.SchemaRef {
	p := &projector{defs: openapi3.Schemas{}}
	return openapi3.NewSchemaRef("", p.object(s))
}

// Components collects every given model and the models they nest under
// components/schemas.
func Components(schemas ...*gomodel.Schema) openapi3.Components {
	p := &projector{defs: openapi3.Schemas{}}
	for _, s := range schemas {
		p.model(s)
	}
	return openapi3.Components{Schemas: p.defs}
}

type projector struct {
	defs openapi3.Schemas
}

// model registers s under components and returns a reference to it.
func (p *projector) model(s *gomodel.Schema) *openapi3.SchemaRef {
	name := s.Name()
	if ref, ok := p.defs[name]; ok {
		return openapi3.NewSchemaRef(RefPrefix+name, ref.Value)
	}
	// placeholder first so self-referencing models terminate
	val := &openapi3.Schema{}
	p.defs[name] = openapi3.NewSchemaRef("", val)
	*val = *p.object(s)
	return openapi3.NewSchemaRef(RefPrefix+name, val)
}

func (p *projector) object(s *gomodel.Schema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = s.Title()
	for _, f := range s.Fields() {
		key := f.Name
		if f.Alias != "" {
			key = f.Alias
		}
		out.Properties[key] = p.field(f)
		if f.Required {
			out.Required = append(out.Required, key)
		}
	}
	switch s.Config().Extra {
	case gomodel.ExtraForbid:
		out.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.Ptr(false)}
	case gomodel.ExtraAllow:
		out.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.Ptr(true)}
	}
	return out
}

func (p *projector) field(f gomodel.Field) *openapi3.SchemaRef {
	ref := p.typeRef(f.Type, f.Nullable)
	if ref.Ref != "" {
		// siblings of $ref are ignored in 3.0, wrap to keep metadata
		ref = openapi3.NewSchemaRef("", &openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}, Nullable: f.Nullable})
	}
	v := ref.Value
	v.Title = f.Title
	v.Description = f.Description
	if f.HasDefault && f.Default != nil {
		v.Default = defaultValue(f.Default)
	}
	return ref
}

func defaultValue(v any) any {
	if inst, ok := v.(*gomodel.Instance); ok {
		return inst.Dump()
	}
	return v
}

// typeRef converts a declared type. A nested model yields a $ref unless it
// is nullable, in which case it is wrapped in allOf.
func (p *projector) typeRef(t *gomodel.Type, nullable bool) *openapi3.SchemaRef {
	if t == nil {
		return openapi3.NewSchemaRef("", &openapi3.Schema{Nullable: nullable})
	}
	var out *openapi3.Schema
	switch t.Kind {
	case gomodel.KindString:
		out = openapi3.NewStringSchema()
	case gomodel.KindInt:
		out = openapi3.NewInt64Schema()
	case gomodel.KindFloat:
		out = openapi3.NewFloat64Schema()
	case gomodel.KindBool:
		out = openapi3.NewBoolSchema()
	case gomodel.KindList:
		out = openapi3.NewArraySchema()
		out.Items = p.elem(t.Elem)
	case gomodel.KindTuple:
		out = p.tuple(t)
	case gomodel.KindDict:
		out = openapi3.NewObjectSchema()
		if t.Elem != nil {
			out.AdditionalProperties = openapi3.AdditionalProperties{Schema: p.elem(t.Elem)}
		}
	case gomodel.KindModel:
		ref := p.model(t.Model)
		if !nullable {
			return ref
		}
		return openapi3.NewSchemaRef("", &openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}, Nullable: true})
	default:
		out = &openapi3.Schema{}
	}
	out.Nullable = nullable
	for _, c := range t.Constraints {
		keyword(out, t.Kind, c)
	}
	return openapi3.NewSchemaRef("", out)
}

func (p *projector) elem(t *gomodel.Type) *openapi3.SchemaRef {
	if t == nil {
		return openapi3.NewSchemaRef("", &openapi3.Schema{})
	}
	return p.typeRef(t, t.Nullable)
}

// tuple has no positional form in 3.0: items become anyOf the item types and
// the arity is pinned with minItems/maxItems.
func (p *projector) tuple(t *gomodel.Type) *openapi3.Schema {
	out := openapi3.NewArraySchema()
	if t.Variadic() {
		out.Items = p.elem(t.Elem)
		return out
	}
	n := uint64(len(t.Items))
	out.MinItems, out.MaxItems = n, openapi3.Ptr(n)
	var alts openapi3.SchemaRefs
	for _, it := range t.Items {
		alts = append(alts, p.elem(it))
	}
	switch len(alts) {
	case 0:
		out.Items = openapi3.NewSchemaRef("", &openapi3.Schema{})
	case 1:
		out.Items = alts[0]
	default:
		out.Items = openapi3.NewSchemaRef("", &openapi3.Schema{AnyOf: alts})
	}
	return out
}

func keyword(out *openapi3.Schema, k gomodel.Kind, c gomodel.Constraint) {
	switch c.Tag {
	case gomodel.TagMin, gomodel.TagExclusiveMin:
		if f, ok := c.Param.(float64); ok {
			out.Min = openapi3.Ptr(f)
			out.ExclusiveMin = c.Tag == gomodel.TagExclusiveMin
		}
	case gomodel.TagMax, gomodel.TagExclusiveMax:
		if f, ok := c.Param.(float64); ok {
			out.Max = openapi3.Ptr(f)
			out.ExclusiveMax = c.Tag == gomodel.TagExclusiveMax
		}
	case gomodel.TagMinLength, gomodel.TagMaxLength:
		n, _ := c.Param.(int)
		u := uint64(n)
		lower := c.Tag == gomodel.TagMinLength
		switch k {
		case gomodel.KindString:
			if lower {
				out.MinLength = u
			} else {
				out.MaxLength = openapi3.Ptr(u)
			}
		case gomodel.KindDict:
			if lower {
				out.MinProps = u
			} else {
				out.MaxProps = openapi3.Ptr(u)
			}
		default:
			if lower {
				out.MinItems = u
			} else {
				out.MaxItems = openapi3.Ptr(u)
			}
		}
	case gomodel.TagPattern:
		out.Pattern, _ = c.Param.(string)
	}
}
