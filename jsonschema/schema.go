package jsonschema

import (
	"bytes"
	"sort"

	"github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema (draft 2020-12) representation used for
// export. Properties keep declaration order through PropertyOrder.
type Schema struct {
	Defs map[string]*Schema `json:"$defs,omitempty"`
	Ref  string             `json:"$ref,omitempty"`

	// Core
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Format      string    `json:"format,omitempty"`
	AnyOf       []*Schema `json:"anyOf,omitempty"`
	OneOf       []*Schema `json:"oneOf,omitempty"`
	// Default is emitted when HasDefault is set, including a null default.
	Default    any  `json:"-"`
	HasDefault bool `json:"-"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder        []string           `json:"-"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`
	MaxProperties        *int               `json:"maxProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
}

// SetDefault records a default value (nil included).
func (s *Schema) SetDefault(v any) {
	s.Default = v
	s.HasDefault = true
}

// SetProperty adds a property and remembers its position.
func (s *Schema) SetProperty(name string, p *Schema) {
	if s.Properties == nil {
		s.Properties = map[string]*Schema{}
	}
	if _, ok := s.Properties[name]; !ok {
		s.PropertyOrder = append(s.PropertyOrder, name)
	}
	s.Properties[name] = p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

type member struct {
	key   string
	value any
	keep  bool
}

// MarshalJSON writes keywords in a fixed order and properties in
// declaration order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	members := []member{
		{"$defs", sortedDefs(s.Defs), len(s.Defs) > 0},
		{"$ref", s.Ref, s.Ref != ""},
		{"anyOf", s.AnyOf, len(s.AnyOf) > 0},
		{"oneOf", s.OneOf, len(s.OneOf) > 0},
		{"type", s.Type, s.Type != ""},
		{"format", s.Format, s.Format != ""},
		{"title", s.Title, s.Title != ""},
		{"description", s.Description, s.Description != ""},
		{"default", s.Default, s.HasDefault},
		{"properties", s.orderedProperties(), len(s.Properties) > 0},
		{"required", s.Required, len(s.Required) > 0},
		{"additionalProperties", s.AdditionalProperties, s.AdditionalProperties != nil},
		{"minProperties", s.MinProperties, s.MinProperties != nil},
		{"maxProperties", s.MaxProperties, s.MaxProperties != nil},
		{"items", s.Items, s.Items != nil},
		{"prefixItems", s.PrefixItems, len(s.PrefixItems) > 0},
		{"minItems", s.MinItems, s.MinItems != nil},
		{"maxItems", s.MaxItems, s.MaxItems != nil},
		{"minLength", s.MinLength, s.MinLength != nil},
		{"maxLength", s.MaxLength, s.MaxLength != nil},
		{"pattern", s.Pattern, s.Pattern != ""},
		{"minimum", s.Minimum, s.Minimum != nil},
		{"maximum", s.Maximum, s.Maximum != nil},
		{"exclusiveMinimum", s.ExclusiveMinimum, s.ExclusiveMinimum != nil},
		{"exclusiveMaximum", s.ExclusiveMaximum, s.ExclusiveMaximum != nil},
	}
	return writeObject(members)
}

func (s *Schema) orderedProperties() json.Marshaler {
	order := s.PropertyOrder
	if len(order) != len(s.Properties) {
		order = make([]string, 0, len(s.Properties))
		for k := range s.Properties {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	ms := make([]member, len(order))
	for i, k := range order {
		ms[i] = member{k, s.Properties[k], true}
	}
	return rawObject(ms)
}

func sortedDefs(defs map[string]*Schema) json.Marshaler {
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ms := make([]member, len(keys))
	for i, k := range keys {
		ms[i] = member{k, defs[k], true}
	}
	return rawObject(ms)
}

type rawObject []member

func (r rawObject) MarshalJSON() ([]byte, error) { return writeObject(r) }

func writeObject(ms []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, m := range ms {
		if !m.keep {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
