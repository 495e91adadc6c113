package gomodel

import (
	"context"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Instance is a validated record of a Schema. Instances are created only by
// the Validate* methods; they are not safe for concurrent mutation.
type Instance struct {
	schema   *Schema
	values   []any
	extra    map[string]any
	presence PresenceMap
}

func newInstance(s *Schema) *Instance {
	return &Instance{
		schema:   s,
		values:   make([]any, len(s.fields)),
		presence: make(PresenceMap, len(s.fields)),
	}
}

// Validate constructs an instance from a mapping of input keys to raw values.
// Every field is attempted and every failure is reported in one
// *ValidationError; no partially valid instance is ever returned.
func (s *Schema) Validate(ctx context.Context, in map[string]any) (*Instance, error) {
	return s.construct(ctx, in, false)
}

// ValidateJSON decodes a JSON object and validates it. Decoding failures are
// returned as *DecodeError before any field runs.
func (s *Schema) ValidateJSON(ctx context.Context, data []byte, opts ...DecodeOpt) (*Instance, error) {
	opt := lastOpt(opts)
	m, err := decodeText("json", data, opt)
	if err != nil {
		return nil, err
	}
	return s.construct(ctxFailFast(ctx, opt), m, true)
}

// ValidateYAML decodes a YAML mapping and validates it.
func (s *Schema) ValidateYAML(ctx context.Context, data []byte, opts ...DecodeOpt) (*Instance, error) {
	opt := lastOpt(opts)
	m, err := decodeText("yaml", data, opt)
	if err != nil {
		return nil, err
	}
	return s.construct(ctxFailFast(ctx, opt), m, true)
}

// ValidateStruct converts a struct (or pointer to struct) into a mapping using
// gomodel/json tags and validates it.
func (s *Schema) ValidateStruct(ctx context.Context, v any) (*Instance, error) {
	m, err := StructToMap(v)
	if err != nil {
		return nil, err
	}
	return s.construct(ctx, m, false)
}

func (s *Schema) construct(ctx context.Context, in map[string]any, text bool) (*Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vr := &validator{text: text, failFast: IsFailFast(ctx)}
	inst, ok := vr.model(s, in, RootRef())
	if !ok {
		return nil, &ValidationError{Model: s.name, Issues: vr.issues}
	}
	return inst, nil
}

// model validates one mapping against s. Issues are appended to vr.
func (vr *validator) model(s *Schema, in map[string]any, at PathRef) (*Instance, bool) {
	start := len(vr.issues)
	inst := newInstance(s)
	for i, f := range s.fields {
		if vr.stopped() {
			break
		}
		raw, present := s.inputFor(f, in)
		v, p, ok := vr.field(s, f, raw, present, in, at.Field(f.key()))
		if !ok {
			continue
		}
		inst.values[i] = v
		inst.presence[fieldPtr(f.Name)] = p
	}

	var unknown []string
	for k := range in {
		if _, known := s.lookup[k]; !known {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	switch {
	case len(unknown) == 0 || vr.stopped():
	case s.cfg.Extra == ExtraForbid:
		cause := &ExtraFieldError{Model: s.name, Names: unknown}
		for _, k := range unknown {
			it := at.Field(k).Issue(CodeExtraForbidden, in[k])
			it.Cause = cause
			vr.add(it)
			if vr.stopped() {
				break
			}
		}
	case s.cfg.Extra == ExtraAllow:
		inst.extra = make(map[string]any, len(unknown))
		for _, k := range unknown {
			inst.extra[k] = in[k]
		}
	}
	if len(vr.issues) > start {
		return nil, false
	}
	return inst, true
}

func fieldPtr(name string) string { return RootRef().Field(name).Pointer() }

// Schema returns the instance's model definition.
func (in *Instance) Schema() *Schema { return in.schema }

// Get returns a field value by field name, falling back to extras.
func (in *Instance) Get(name string) (any, bool) {
	if i, ok := in.schema.index[name]; ok {
		return in.values[i], true
	}
	v, ok := in.extra[name]
	return v, ok
}

// Get returns the named value as T. It reports false when the value is absent
// or holds another type.
func Get[T any](in *Instance, name string) (T, bool) {
	var zero T
	v, ok := in.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Extra returns a copy of the values kept under the allow policy.
func (in *Instance) Extra() map[string]any {
	if in.extra == nil {
		return nil
	}
	out := make(map[string]any, len(in.extra))
	for k, v := range in.extra {
		out[k] = v
	}
	return out
}

// Presence returns a copy of the per-field presence flags. Extras are not
// tracked; they are always set.
func (in *Instance) Presence() PresenceMap { return mergePresenceMaps(in.presence, nil) }

// FieldsSet lists the fields that were supplied explicitly or assigned, in
// schema order followed by extras.
func (in *Instance) FieldsSet() []string {
	seen := make(map[string]bool, len(in.presence))
	for _, ptr := range in.presence.Seen() {
		seen[ptr] = true
	}
	var out []string
	for _, f := range in.schema.fields {
		if seen[fieldPtr(f.Name)] {
			out = append(out, f.Name)
		}
	}
	for _, k := range in.extraNames() {
		if _, declared := in.schema.index[k]; !declared {
			out = append(out, k)
		}
	}
	return out
}

func (in *Instance) extraNames() []string {
	names := make([]string, 0, len(in.extra))
	for k := range in.extra {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set assigns a field. Frozen instances always refuse. With
// ValidateAssignment the value runs through the field pipeline and the
// instance is left untouched on failure; otherwise the raw value is stored.
// Errors are *ValidationError values wrapping the typed cause.
func (in *Instance) Set(name string, v any) error {
	s := in.schema
	at := RootRef().Field(name)
	if s.cfg.Frozen {
		it := at.Issue(CodeFrozenInstance, v)
		it.Cause = &FrozenInstanceError{Model: s.name, Field: name}
		return &ValidationError{Model: s.name, Issues: Issues{it}}
	}
	idx, ok := s.index[name]
	if !ok {
		if s.cfg.Extra != ExtraAllow {
			it := at.Issue(CodeExtraForbidden, v)
			it.Cause = &ExtraFieldError{Model: s.name, Names: []string{name}}
			return &ValidationError{Model: s.name, Issues: Issues{it}}
		}
		if in.extra == nil {
			in.extra = map[string]any{}
		}
		in.extra[name] = v
		return nil
	}
	f := s.fields[idx]
	if s.cfg.ValidateAssignment {
		vr := &validator{}
		out, ok := vr.value(scope{schema: s, field: f}, f.Type, f.Nullable, v, s.cfg.Strict, at)
		if !ok {
			return &ValidationError{Model: s.name, Issues: vr.issues}
		}
		v = out
	}
	in.values[idx] = v
	p := PresenceSeen
	if v == nil {
		p |= PresenceWasNull
	}
	in.presence[fieldPtr(name)] = p
	return nil
}

// Copy returns a shallow copy with update applied without validation,
// marking updated fields as set.
func (in *Instance) Copy(update map[string]any) *Instance {
	out := in.clone()
	touched := PresenceMap{}
	for k, v := range update {
		i, ok := out.schema.index[k]
		if !ok {
			if out.extra == nil {
				out.extra = map[string]any{}
			}
			out.extra[k] = v
			continue
		}
		out.values[i] = v
		touched[fieldPtr(k)] = PresenceSeen
	}
	out.presence = mergePresenceMaps(out.presence, touched)
	return out
}

// clone deep-copies values and extras; nested instances are cloned too.
func (in *Instance) clone() *Instance {
	out := &Instance{
		schema:   in.schema,
		values:   make([]any, len(in.values)),
		presence: mergePresenceMaps(in.presence, nil),
	}
	for i, v := range in.values {
		out.values[i] = copyDefault(v)
	}
	if in.extra != nil {
		out.extra = make(map[string]any, len(in.extra))
		for k, v := range in.extra {
			out.extra[k] = copyDefault(v)
		}
	}
	return out
}

// DeepCopy lets generic deep-copy helpers duplicate instances nested in
// default values.
func (in *Instance) DeepCopy() interface{} { return in.clone() }

// String renders the instance as Name(field=value, ...).
func (in *Instance) String() string {
	if in == nil {
		return "None"
	}
	parts := make([]string, 0, len(in.values)+len(in.extra))
	for i, f := range in.schema.fields {
		parts = append(parts, f.Name+"="+reprValue(in.values[i]))
	}
	for _, k := range in.extraNames() {
		parts = append(parts, k+"="+reprValue(in.extra[k]))
	}
	return in.schema.name + "(" + strings.Join(parts, ", ") + ")"
}

// Bind decodes the instance's dump into out (a pointer to a struct or map)
// using json tags.
func (in *Instance) Bind(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in.Dump())
}
