// Package schemafile builds gomodel schemas from YAML (or JSON) definition
// documents:
//
//	models:
//	  - name: Person
//	    config: {extra: forbid, str_strip: true}
//	    fields:
//	      - {name: first_name, type: str, constraints: {min_length: 1}}
//	      - {name: age, type: "int | None", default: null}
//
// Models may reference models defined earlier in the same document.
package schemafile

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	gomodel "github.com/reoring/gomodel"
	g "github.com/reoring/gomodel/dsl"
)

type modelDef struct {
	Name   string           `mapstructure:"name"`
	Title  string           `mapstructure:"title"`
	Config configDef        `mapstructure:"config"`
	Fields []map[string]any `mapstructure:"fields"`
}

type configDef struct {
	Extra              string `mapstructure:"extra"`
	Strict             bool   `mapstructure:"strict"`
	ValidateDefault    bool   `mapstructure:"validate_default"`
	ValidateAssignment bool   `mapstructure:"validate_assignment"`
	Frozen             bool   `mapstructure:"frozen"`
	StrStrip           bool   `mapstructure:"str_strip"`
	StrToUpper         bool   `mapstructure:"str_to_upper"`
	StrToLower         bool   `mapstructure:"str_to_lower"`
	CoerceNumbersToStr bool   `mapstructure:"coerce_numbers_to_str"`
	PopulateByName     bool   `mapstructure:"populate_by_name"`
}

type fieldDef struct {
	Name            string        `mapstructure:"name"`
	Type            string        `mapstructure:"type"`
	Required        *bool         `mapstructure:"required"`
	Nullable        bool          `mapstructure:"nullable"`
	Default         any           `mapstructure:"default"`
	ValidateDefault bool          `mapstructure:"validate_default"`
	Alias           string        `mapstructure:"alias"`
	Title           string        `mapstructure:"title"`
	Description     string        `mapstructure:"description"`
	Constraints     constraintDef `mapstructure:"constraints"`
}

type constraintDef struct {
	Gt        *float64 `mapstructure:"gt"`
	Ge        *float64 `mapstructure:"ge"`
	Lt        *float64 `mapstructure:"lt"`
	Le        *float64 `mapstructure:"le"`
	MinLength *int     `mapstructure:"min_length"`
	MaxLength *int     `mapstructure:"max_length"`
	Pattern   string   `mapstructure:"pattern"`
	Strip     bool     `mapstructure:"strip"`
	ToUpper   bool     `mapstructure:"to_upper"`
	ToLower   bool     `mapstructure:"to_lower"`
	Strict    *bool    `mapstructure:"strict"`
}

// Registry holds the models of one definition document in declaration
// order.
type Registry struct {
	names  []string
	models map[string]*gomodel.Schema
}

// Get returns a model by name.
func (r *Registry) Get(name string) (*gomodel.Schema, bool) {
	s, ok := r.models[name]
	return s, ok
}

// Names lists the model names in declaration order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// LoadFile reads and loads a definition file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Load(data)
}

// Load parses a definition document. Unknown keys are rejected so typos do
// not silently change a model.
func Load(data []byte) (*Registry, error) {
	var doc struct {
		Models []map[string]any `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("schemafile: no models defined")
	}
	r := &Registry{models: make(map[string]*gomodel.Schema, len(doc.Models))}
	for i, raw := range doc.Models {
		var md modelDef
		if err := decode(raw, &md); err != nil {
			return nil, fmt.Errorf("schemafile: model #%d: %w", i, err)
		}
		if _, dup := r.models[md.Name]; dup {
			return nil, fmt.Errorf("schemafile: model %q defined twice", md.Name)
		}
		s, err := r.build(md)
		if err != nil {
			return nil, fmt.Errorf("schemafile: model %q: %w", md.Name, err)
		}
		r.names = append(r.names, md.Name)
		r.models[md.Name] = s
	}
	return r, nil
}

func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func (r *Registry) build(md modelDef) (*gomodel.Schema, error) {
	cfg, err := md.Config.config()
	if err != nil {
		return nil, err
	}
	cfg.Title = md.Title
	b := g.Model(md.Name).Config(cfg)
	for i, raw := range md.Fields {
		var fd fieldDef
		if err := decode(raw, &fd); err != nil {
			return nil, fmt.Errorf("field #%d: %w", i, err)
		}
		_, hasDefault := raw["default"]
		required := !hasDefault
		if fd.Required != nil {
			required = *fd.Required
		}
		if required && hasDefault {
			return nil, fmt.Errorf("field %q: a required field cannot declare a default", fd.Name)
		}
		if fd.Type == "" {
			fd.Type = "any"
		}
		tb, nullable, err := parseType(fd.Type, r.models)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}

		step := b.Field(fd.Name, fd.Constraints.apply(tb))
		if nullable || fd.Nullable {
			step = step.Nullable()
		}
		if fd.Alias != "" {
			step = step.Alias(fd.Alias)
		}
		if fd.Title != "" {
			step = step.Title(fd.Title)
		}
		if fd.Description != "" {
			step = step.Description(fd.Description)
		}
		if fd.ValidateDefault {
			step = step.ValidateDefault()
		}
		switch {
		case required:
			step.Required()
		case hasDefault:
			step.Default(fd.Default)
		default:
			// optional without a default means a null default
			step.Optional()
		}
	}
	return b.Build()
}

func (c configDef) config() (gomodel.Config, error) {
	extra, ok := gomodel.ParseExtraPolicy(c.Extra)
	if !ok {
		return gomodel.Config{}, fmt.Errorf("unknown extra policy %q", c.Extra)
	}
	return gomodel.Config{
		Extra:              extra,
		Strict:             c.Strict,
		ValidateDefault:    c.ValidateDefault,
		ValidateAssignment: c.ValidateAssignment,
		Frozen:             c.Frozen,
		StrStrip:           c.StrStrip,
		StrToUpper:         c.StrToUpper,
		StrToLower:         c.StrToLower,
		CoerceNumbersToStr: c.CoerceNumbersToStr,
		PopulateByName:     c.PopulateByName,
	}, nil
}

func (c constraintDef) apply(tb g.TypeBuilder) g.TypeBuilder {
	if c.Strip {
		tb = tb.Strip()
	}
	if c.ToLower {
		tb = tb.Lower()
	}
	if c.ToUpper {
		tb = tb.Upper()
	}
	if c.Gt != nil {
		tb = tb.Gt(*c.Gt)
	}
	if c.Ge != nil {
		tb = tb.Ge(*c.Ge)
	}
	if c.Lt != nil {
		tb = tb.Lt(*c.Lt)
	}
	if c.Le != nil {
		tb = tb.Le(*c.Le)
	}
	if c.MinLength != nil {
		tb = tb.MinLen(*c.MinLength)
	}
	if c.MaxLength != nil {
		tb = tb.MaxLen(*c.MaxLength)
	}
	if c.Pattern != "" {
		tb = tb.Pattern(c.Pattern)
	}
	if c.Strict != nil {
		if *c.Strict {
			tb = tb.Strict()
		} else {
			tb = tb.Lax()
		}
	}
	return tb
}
