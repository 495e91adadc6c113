package gomodel

import "fmt"

// Schema is an immutable model definition: ordered fields plus a Config.
// It is safe for concurrent use.
type Schema struct {
	name   string
	fields []*Field
	index  map[string]int // field name -> position
	lookup map[string]int // accepted input key -> position
	cfg    Config
}

// NewSchema validates the definition and returns the schema. Field types
// and defaults are copied, so later changes to the arguments do not leak into
// the schema.
func NewSchema(name string, cfg Config, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, &SchemaError{Reason: "model name is empty"}
	}
	s := &Schema{
		name:   name,
		fields: make([]*Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		lookup: make(map[string]int, len(fields)),
		cfg:    cfg,
	}
	for i := range fields {
		f := fields[i]
		if f.Name == "" {
			return nil, &SchemaError{Model: name, Reason: fmt.Sprintf("field #%d has no name", i)}
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, &SchemaError{Model: name, Field: f.Name, Reason: "duplicate field name"}
		}
		if f.Required == f.HasDefault {
			if f.Required {
				return nil, &SchemaError{Model: name, Field: f.Name, Reason: "a required field cannot declare a default"}
			}
			return nil, &SchemaError{Model: name, Field: f.Name, Reason: "an optional field needs a default"}
		}
		if f.Type == nil {
			f.Type = &Type{Kind: KindAny}
		} else {
			f.Type = f.Type.clone()
		}
		f.Default = copyDefault(f.Default)
		if err := checkType(f.Type); err != nil {
			return nil, &SchemaError{Model: name, Field: f.Name, Reason: err.Error()}
		}
		pos := len(s.fields)
		s.index[f.Name] = pos
		keys := []string{f.key()}
		if f.Alias != "" && cfg.PopulateByName {
			keys = append(keys, f.Name)
		}
		for _, k := range keys {
			if prev, taken := s.lookup[k]; taken && prev != pos {
				return nil, &SchemaError{Model: name, Field: f.Name, Reason: fmt.Sprintf("input key %q already used by field %q", k, s.fields[prev].Name)}
			}
			s.lookup[k] = pos
		}
		s.fields = append(s.fields, &f)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(name string, cfg Config, fields ...Field) *Schema {
	s, err := NewSchema(name, cfg, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkType(t *Type) error {
	switch t.Kind {
	case KindModel:
		if t.Model == nil {
			return fmt.Errorf("model type without a schema")
		}
	case KindList, KindDict:
		if t.Items != nil {
			return fmt.Errorf("%s type cannot declare tuple items", t.Kind)
		}
	}
	for _, c := range t.Constraints {
		if !c.appliesTo(t.Kind) {
			return fmt.Errorf("constraint %s does not apply to %s", c, t.Kind)
		}
		if c.Tag == TagPattern && c.re == nil {
			return fmt.Errorf("invalid pattern %q: %v", c.Param, c.err)
		}
	}
	if t.Elem != nil {
		if err := checkType(t.Elem); err != nil {
			return err
		}
	}
	for _, it := range t.Items {
		if it == nil {
			return fmt.Errorf("tuple item type is nil")
		}
		if err := checkType(it); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the model name.
func (s *Schema) Name() string { return s.name }

// Title returns Config.Title or the model name.
func (s *Schema) Title() string {
	if s.cfg.Title != "" {
		return s.cfg.Title
	}
	return s.name
}

// Config returns a copy of the model configuration.
func (s *Schema) Config() Config { return s.cfg }

// Fields returns copies of the field descriptors in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.detached()
	}
	return out
}

// Field looks up a descriptor by field name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i].detached(), true
}

func (s *Schema) validatesDefault(f *Field) bool { return s.cfg.ValidateDefault || f.ValidateDefault }

// inputFor finds the raw value of f in the input mapping. The alias wins
// over the field name.
func (s *Schema) inputFor(f *Field, in map[string]any) (any, bool) {
	if v, ok := in[f.key()]; ok {
		return v, true
	}
	if f.Alias != "" && s.cfg.PopulateByName {
		v, ok := in[f.Name]
		return v, ok
	}
	return nil, false
}
