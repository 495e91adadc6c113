package gomodel

import (
	"strings"

	"github.com/mohae/deepcopy"
)

// Field describes one declared field of a model.
//
// Required must be the negation of HasDefault. A default is used as-is when
// the field is omitted unless default validation is enabled on the field or
// the model.
type Field struct {
	Name            string
	Type            *Type
	Required        bool
	Nullable        bool
	Default         any
	HasDefault      bool
	ValidateDefault bool
	Alias           string
	Title           string
	Description     string
}

// Constraints returns the field's ordered constraint sequence.
func (f Field) Constraints() []Constraint {
	if f.Type == nil {
		return nil
	}
	return append([]Constraint(nil), f.Type.Constraints...)
}

// Annotation renders the declared type including field-level nullability.
func (f Field) Annotation() string {
	s := f.Type.base()
	if f.Nullable {
		s += " | None"
	}
	return s
}

// key is the name used on input and, with ByAlias, on output.
func (f *Field) key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// String renders the descriptor, for example
// FieldInfo(annotation=int, required=True, metadata=[Gt(gt=0)]).
func (f Field) String() string {
	parts := []string{"annotation=" + f.Annotation(), "required=" + reprValue(f.Required)}
	if f.HasDefault {
		parts = append(parts, "default="+reprValue(f.Default))
	}
	if f.Alias != "" {
		parts = append(parts, "alias="+reprValue(f.Alias))
	}
	if f.Title != "" {
		parts = append(parts, "title="+reprValue(f.Title))
	}
	if f.Description != "" {
		parts = append(parts, "description="+reprValue(f.Description))
	}
	if f.ValidateDefault {
		parts = append(parts, "validate_default=True")
	}
	if cs := f.Constraints(); len(cs) > 0 {
		meta := make([]string, len(cs))
		for i, c := range cs {
			meta[i] = c.String()
		}
		parts = append(parts, "metadata=["+strings.Join(meta, ", ")+"]")
	}
	return "FieldInfo(" + strings.Join(parts, ", ") + ")"
}

// ---- pipeline ----

// validator carries per-call state through the pipeline.
type validator struct {
	text     bool // input was decoded from JSON or YAML
	failFast bool
	issues   Issues
}

// scope names the model and top-level field an element belongs to.
type scope struct {
	schema *Schema
	field  *Field
}

func (vr *validator) add(it Issue) { vr.issues = AppendIssues(vr.issues, it) }

func (vr *validator) stopped() bool { return vr.failFast && len(vr.issues) > 0 }

// field runs the pipeline for one declared field. present is false when the
// input omits the field.
func (vr *validator) field(s *Schema, f *Field, raw any, present bool, input map[string]any, at PathRef) (any, Presence, bool) {
	sc := scope{schema: s, field: f}
	if !present {
		if f.Required {
			it := at.Issue(CodeMissing, input)
			it.Cause = &MissingFieldError{Field: f.Name}
			vr.add(it)
			return nil, 0, false
		}
		v := copyDefault(f.Default)
		if !s.validatesDefault(f) {
			return v, PresenceDefaultApplied, true
		}
		out, ok := vr.value(sc, f.Type, f.Nullable, v, s.cfg.Strict, at)
		return out, PresenceDefaultApplied, ok
	}
	p := PresenceSeen
	if raw == nil {
		p |= PresenceWasNull
	}
	out, ok := vr.value(sc, f.Type, f.Nullable, raw, s.cfg.Strict, at)
	return out, p, ok
}

// element validates a value nested in a container; a nil type accepts
// anything.
func (vr *validator) element(sc scope, t *Type, v any, strict bool, at PathRef) (any, bool) {
	if t == nil {
		return v, true
	}
	return vr.value(sc, t, t.Nullable, v, strict, at)
}

// value handles null, coercion, then transformations and checks.
func (vr *validator) value(sc scope, t *Type, nullable bool, v any, strict bool, at PathRef) (any, bool) {
	if v == nil {
		if nullable || t.Kind == KindAny {
			return nil, true
		}
		it := at.Issue(CodeNullNotAllowed, nil)
		it.Cause = &NullNotAllowedError{Field: sc.field.Name}
		vr.add(it)
		return nil, false
	}
	if on, ok := t.strictOverride(); ok {
		strict = on
	}
	out, ok := vr.coerce(sc, t, v, strict, at)
	if !ok {
		return nil, false
	}
	return vr.constrain(sc, t, out, at)
}

// constrain applies transformations in declaration order, then every check.
// All failing checks are recorded.
func (vr *validator) constrain(sc scope, t *Type, v any, at PathRef) (any, bool) {
	for _, c := range t.Constraints {
		if c.IsTransform() {
			v = c.Transform(v)
		}
	}
	ok := true
	for _, c := range t.Constraints {
		if c.IsTransform() || c.Tag == TagStrict {
			continue
		}
		viol := c.Check(v)
		if viol == nil {
			continue
		}
		it := at.Issue(viol.Code, v, "limit", viol.Limit, "actual", viol.Actual)
		it.Cause = &ConstraintViolationError{Field: sc.field.Name, Tag: viol.Tag, Limit: viol.Limit, Actual: viol.Actual}
		vr.add(it)
		ok = false
		if vr.stopped() {
			break
		}
	}
	if !ok {
		return nil, false
	}
	return v, true
}

// detached copies f so callers cannot reach the schema's type or default.
func (f *Field) detached() Field {
	out := *f
	out.Type = f.Type.clone()
	out.Default = copyDefault(f.Default)
	return out
}

// copyDefault gives every instance its own copy of a default value.
func copyDefault(v any) any {
	if inst, ok := v.(*Instance); ok {
		return inst.clone()
	}
	return deepcopy.Copy(v)
}
