package gomodel

import (
	"strings"
	"unicode"
	"unicode/utf8"

	js "github.com/reoring/gomodel/jsonschema"
)

// JSONSchema projects the model into JSON Schema. Nested models are emitted
// once under $defs and referenced with $ref; nullable values become anyOf
// with {"type": "null"}.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	defs := map[string]*js.Schema{}
	root := s.objectSchema(defs)
	delete(defs, s.name)
	if len(defs) > 0 {
		root.Defs = defs
	}
	return root, nil
}

func (s *Schema) objectSchema(defs map[string]*js.Schema) *js.Schema {
	out := &js.Schema{Type: "object", Title: s.Title()}
	for _, f := range s.fields {
		out.SetProperty(f.key(), f.jsonSchema(defs))
		if f.Required {
			out.Required = append(out.Required, f.key())
		}
	}
	switch s.cfg.Extra {
	case ExtraForbid:
		out.AdditionalProperties = false
	case ExtraAllow:
		out.AdditionalProperties = true
	}
	return out
}

func (f *Field) jsonSchema(defs map[string]*js.Schema) *js.Schema {
	base := typeSchema(f.Type, defs)
	out := base
	if f.Nullable {
		out = &js.Schema{AnyOf: []*js.Schema{base, {Type: "null"}}}
	}
	out.Title = f.Title
	if out.Title == "" {
		out.Title = titleCase(f.Name)
	}
	out.Description = f.Description
	if f.HasDefault {
		out.SetDefault(jsonDefault(f.Default))
	}
	return out
}

func jsonDefault(v any) any {
	if inst, ok := v.(*Instance); ok && inst != nil {
		return inst.Dump()
	}
	return v
}

func typeSchema(t *Type, defs map[string]*js.Schema) *js.Schema {
	var out *js.Schema
	switch t.Kind {
	case KindString:
		out = &js.Schema{Type: "string"}
	case KindInt:
		out = &js.Schema{Type: "integer"}
	case KindFloat:
		out = &js.Schema{Type: "number"}
	case KindBool:
		out = &js.Schema{Type: "boolean"}
	case KindList:
		out = &js.Schema{Type: "array"}
		if t.Elem != nil {
			out.Items = elemSchema(t.Elem, defs)
		}
	case KindTuple:
		out = &js.Schema{Type: "array"}
		if t.Items != nil {
			for _, it := range t.Items {
				out.PrefixItems = append(out.PrefixItems, elemSchema(it, defs))
			}
			out.MinItems = js.Ptr(len(t.Items))
			out.MaxItems = js.Ptr(len(t.Items))
		} else if t.Elem != nil {
			out.Items = elemSchema(t.Elem, defs)
		}
	case KindDict:
		out = &js.Schema{Type: "object"}
		if t.Elem != nil {
			out.AdditionalProperties = elemSchema(t.Elem, defs)
		}
	case KindModel:
		name := t.Model.Name()
		if _, done := defs[name]; !done {
			defs[name] = nil
			defs[name] = t.Model.objectSchema(defs)
		}
		out = &js.Schema{Ref: "#/$defs/" + name}
	default:
		out = &js.Schema{}
	}
	for _, c := range t.Constraints {
		applyKeyword(out, t.Kind, c)
	}
	return out
}

func elemSchema(t *Type, defs map[string]*js.Schema) *js.Schema {
	s := typeSchema(t, defs)
	if t.Nullable {
		return &js.Schema{AnyOf: []*js.Schema{s, {Type: "null"}}}
	}
	return s
}

func applyKeyword(out *js.Schema, k Kind, c Constraint) {
	switch c.Tag {
	case TagMin:
		out.Minimum = js.Ptr(toFloat(c.Param))
	case TagMax:
		out.Maximum = js.Ptr(toFloat(c.Param))
	case TagExclusiveMin:
		out.ExclusiveMinimum = js.Ptr(toFloat(c.Param))
	case TagExclusiveMax:
		out.ExclusiveMaximum = js.Ptr(toFloat(c.Param))
	case TagMinLength, TagMaxLength:
		n, _ := c.Param.(int)
		lower := c.Tag == TagMinLength
		switch k {
		case KindString:
			if lower {
				out.MinLength = js.Ptr(n)
			} else {
				out.MaxLength = js.Ptr(n)
			}
		case KindDict:
			if lower {
				out.MinProperties = js.Ptr(n)
			} else {
				out.MaxProperties = js.Ptr(n)
			}
		default:
			if lower {
				out.MinItems = js.Ptr(n)
			} else {
				out.MaxItems = js.Ptr(n)
			}
		}
	case TagPattern:
		out.Pattern, _ = c.Param.(string)
	}
}

// titleCase turns first_name into First Name.
func titleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
