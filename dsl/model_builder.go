package dsl

import gomodel "github.com/reoring/gomodel"

type modelBuilder struct {
	name   string
	cfg    gomodel.Config
	fields []gomodel.Field
}

type fieldStep struct {
	b   *modelBuilder
	idx int
}

// Model creates a new model builder with library defaults (extras ignored,
// lax coercion, mutable instances).
func Model(name string) *modelBuilder {
	return &modelBuilder{name: name}
}

// Field registers a field. Fields are required until Default or Optional is
// called on the returned step.
func (b *modelBuilder) Field(name string, t TypeBuilder) *fieldStep {
	b.fields = append(b.fields, gomodel.Field{Name: name, Type: t.Type(), Required: true})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

func (f *fieldStep) field() *gomodel.Field { return &f.b.fields[f.idx] }

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *modelBuilder {
	fd := f.field()
	fd.Required, fd.HasDefault, fd.Default = true, false, nil
	return f.b
}

// Default sets the value used when the input omits the field. The value is
// deep-copied for every instance and is not validated unless default
// validation is enabled.
func (f *fieldStep) Default(v any) *modelBuilder {
	fd := f.field()
	fd.Required, fd.HasDefault, fd.Default = false, true, v
	return f.b
}

// Optional makes the field nullable with a null default (T | None = None).
func (f *fieldStep) Optional() *modelBuilder {
	f.field().Nullable = true
	return f.Default(nil)
}

// Nullable lets the field hold null.
func (f *fieldStep) Nullable() *fieldStep {
	f.field().Nullable = true
	return f
}

// Alias sets the external name used on input and with ByAlias dumps.
func (f *fieldStep) Alias(name string) *fieldStep {
	f.field().Alias = name
	return f
}

func (f *fieldStep) Title(s string) *fieldStep {
	f.field().Title = s
	return f
}

func (f *fieldStep) Description(s string) *fieldStep {
	f.field().Description = s
	return f
}

// ValidateDefault validates this field's default even when the model does not.
func (f *fieldStep) ValidateDefault() *fieldStep {
	f.field().ValidateDefault = true
	return f
}

func (f *fieldStep) Field(name string, t TypeBuilder) *fieldStep { return f.b.Field(name, t) }
func (f *fieldStep) ExtraForbid() *modelBuilder                  { return f.b.ExtraForbid() }
func (f *fieldStep) ExtraAllow() *modelBuilder                   { return f.b.ExtraAllow() }
func (f *fieldStep) Build() (*gomodel.Schema, error)             { return f.b.Build() }
func (f *fieldStep) MustBuild() *gomodel.Schema                  { return f.b.MustBuild() }

// Config replaces the whole configuration.
func (b *modelBuilder) Config(cfg gomodel.Config) *modelBuilder {
	b.cfg = cfg
	return b
}

// Title overrides the JSON Schema title (the model name by default).
func (b *modelBuilder) Title(s string) *modelBuilder {
	b.cfg.Title = s
	return b
}

// ExtraIgnore drops unknown input names (default).
func (b *modelBuilder) ExtraIgnore() *modelBuilder {
	b.cfg.Extra = gomodel.ExtraIgnore
	return b
}

// ExtraForbid rejects unknown input names.
func (b *modelBuilder) ExtraForbid() *modelBuilder {
	b.cfg.Extra = gomodel.ExtraForbid
	return b
}

// ExtraAllow keeps unknown input names on the instance, unvalidated.
func (b *modelBuilder) ExtraAllow() *modelBuilder {
	b.cfg.Extra = gomodel.ExtraAllow
	return b
}

// Strict disables lax coercion for every field without its own override.
func (b *modelBuilder) Strict() *modelBuilder {
	b.cfg.Strict = true
	return b
}

// ValidateDefault runs defaults through the field pipeline.
func (b *modelBuilder) ValidateDefault() *modelBuilder {
	b.cfg.ValidateDefault = true
	return b
}

// ValidateAssignment validates values passed to Instance.Set.
func (b *modelBuilder) ValidateAssignment() *modelBuilder {
	b.cfg.ValidateAssignment = true
	return b
}

// Frozen forbids assignment and makes instances hashable.
func (b *modelBuilder) Frozen() *modelBuilder {
	b.cfg.Frozen = true
	return b
}

func (b *modelBuilder) StrStrip() *modelBuilder {
	b.cfg.StrStrip = true
	return b
}

func (b *modelBuilder) StrToUpper() *modelBuilder {
	b.cfg.StrToUpper = true
	return b
}

func (b *modelBuilder) StrToLower() *modelBuilder {
	b.cfg.StrToLower = true
	return b
}

// CoerceNumbersToStr accepts numbers for string fields in lax mode.
func (b *modelBuilder) CoerceNumbersToStr() *modelBuilder {
	b.cfg.CoerceNumbersToStr = true
	return b
}

// PopulateByName accepts field names on input in addition to aliases.
func (b *modelBuilder) PopulateByName() *modelBuilder {
	b.cfg.PopulateByName = true
	return b
}

// Build validates the definition and returns the Schema.
func (b *modelBuilder) Build() (*gomodel.Schema, error) {
	return gomodel.NewSchema(b.name, b.cfg, b.fields...)
}

// MustBuild is like Build but panics on a definition error.
func (b *modelBuilder) MustBuild() *gomodel.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
