package gomodel

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissing        = "missing"
	CodeNullNotAllowed = "null_not_allowed"
	CodeExtraForbidden = "extra_forbidden"
	CodeFrozenInstance = "frozen_instance"
	CodeUnhashable     = "unhashable_type"
	CodeParseError     = "parse_error"
	CodeDuplicateKey   = "duplicate_key"
	CodeTruncated      = "truncated"
	// Coercion
	CodeStringType   = "string_type"
	CodeIntType      = "int_type"
	CodeIntParsing   = "int_parsing"
	CodeIntFromFloat = "int_from_float"
	CodeFloatType    = "float_type"
	CodeFloatParsing = "float_parsing"
	CodeBoolType     = "bool_type"
	CodeBoolParsing  = "bool_parsing"
	CodeListType     = "list_type"
	CodeTupleType    = "tuple_type"
	CodeDictType     = "dict_type"
	CodeModelType    = "model_type"
	// Constraints
	CodeGreaterThan      = "greater_than"
	CodeGreaterThanEqual = "greater_than_equal"
	CodeLessThan         = "less_than"
	CodeLessThanEqual    = "less_than_equal"
	CodeTooShort         = "too_short"
	CodeTooLong          = "too_long"
	CodePattern          = "string_pattern_mismatch"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /integers/0).
	Code    string // One of the codes listed above.
	Message string
	Input   any   // Offending input value when known.
	Cause   error // Typed error (MissingFieldError, TypeCoercionError, ...).
	// Params carries structured parameters (e.g., {"limit":0, "actual":-1})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation entries that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error. Both a bare Issues value and a
// *ValidationError are recognized.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ValidationError aggregates every issue found while constructing or
// assigning to a model. It is the only error construction returns for
// field-level failures.
type ValidationError struct {
	Model  string
	Issues Issues
}

// Error renders the issues in the same shape the library prints them:
//
//	2 validation errors for Person
//	first_name
//	  Field required [type=missing, input_value={...}, input_type=map]
func (e *ValidationError) Error() string {
	b := &strings.Builder{}
	n := len(e.Issues)
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	fmt.Fprintf(b, "%d validation %s for %s", n, noun, e.Model)
	for _, it := range e.Issues {
		b.WriteString("\n")
		b.WriteString(pointerToLoc(it.Path))
		fmt.Fprintf(b, "\n  %s [type=%s", it.Message, it.Code)
		if it.Input != nil || it.Code != CodeMissing {
			fmt.Fprintf(b, ", input_value=%s, input_type=%s", reprValue(it.Input), typeName(it.Input))
		}
		b.WriteString("]")
	}
	return b.String()
}

// Unwrap exposes the typed cause of every issue so errors.As can reach them.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Issues))
	seen := make(map[error]struct{}, len(e.Issues))
	for _, it := range e.Issues {
		if it.Cause == nil {
			continue
		}
		if _, dup := seen[it.Cause]; dup {
			continue
		}
		seen[it.Cause] = struct{}{}
		out = append(out, it.Cause)
	}
	return out
}

// pointerToLoc turns "/integers/0" into "integers.0".
func pointerToLoc(p string) string {
	if p == "" || p == "/" {
		return "__root__"
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return strings.Join(parts, ".")
}

// MissingFieldError reports a required field absent from the input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return fmt.Sprintf("field %q: required", e.Field) }

// NullNotAllowedError reports null supplied for a non-nullable field.
type NullNotAllowedError struct {
	Field string
}

func (e *NullNotAllowedError) Error() string {
	return fmt.Sprintf("field %q: null is not an allowed value", e.Field)
}

// TypeCoercionError reports a value that could not be converted to the
// declared type under the active strictness.
type TypeCoercionError struct {
	Field    string
	Expected string
	Got      string
	Value    any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %s (%s)", e.Field, e.Expected, e.Got, reprValue(e.Value))
}

// ConstraintViolationError reports a failed constraint check.
type ConstraintViolationError struct {
	Field  string
	Tag    ConstraintTag
	Limit  any
	Actual any
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("field %q: %s constraint violated (limit=%v, actual=%v)", e.Field, e.Tag, e.Limit, e.Actual)
}

// ExtraFieldError lists every input name that is not declared by the model.
type ExtraFieldError struct {
	Model string
	Names []string
}

func (e *ExtraFieldError) Error() string {
	return fmt.Sprintf("%s: extra fields not permitted: %s", e.Model, strings.Join(e.Names, ", "))
}

// FrozenInstanceError reports an assignment to a frozen instance.
type FrozenInstanceError struct {
	Model string
	Field string
}

func (e *FrozenInstanceError) Error() string {
	return fmt.Sprintf("%s: instance is frozen, cannot assign %q", e.Model, e.Field)
}

// UnhashableTypeError reports a hash request on a mutable model.
type UnhashableTypeError struct {
	Model string
}

func (e *UnhashableTypeError) Error() string {
	return fmt.Sprintf("unhashable type: %q", e.Model)
}

// DecodeError reports structured text that could not be decoded into a
// mapping. No field validation runs when it is returned.
type DecodeError struct {
	Format string // "json" or "yaml"
	Path   string
	Code   string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path != "" && e.Path != "/" {
		return fmt.Sprintf("decode %s at %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports a mistake in a model definition.
type SchemaError struct {
	Model  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("gomodel: schema %s: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("gomodel: schema %s: field %q: %s", e.Model, e.Field, e.Reason)
}
