package gomodel

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/reoring/gomodel/i18n"
)

// ConstraintTag names a constraint primitive.
type ConstraintTag string

const (
	TagMin          ConstraintTag = "min"           // value >= limit
	TagMax          ConstraintTag = "max"           // value <= limit
	TagExclusiveMin ConstraintTag = "exclusive_min" // value > limit
	TagExclusiveMax ConstraintTag = "exclusive_max" // value < limit
	TagMinLength    ConstraintTag = "min_length"
	TagMaxLength    ConstraintTag = "max_length"
	TagPattern      ConstraintTag = "pattern"
	TagStrip        ConstraintTag = "strip"
	TagToUpper      ConstraintTag = "to_upper"
	TagToLower      ConstraintTag = "to_lower"
	TagStrict       ConstraintTag = "strict"
)

// Constraint is an atomic check or transformation attached to a type.
// Values are immutable; build them with the constructors below.
type Constraint struct {
	Tag   ConstraintTag
	Param any
	re    *regexp.Regexp
	err   error
}

// Bounds follow annotated-types naming: Ge/Le are inclusive, Gt/Lt exclusive.
func Ge(limit float64) Constraint         { return Constraint{Tag: TagMin, Param: limit} }
func Le(limit float64) Constraint         { return Constraint{Tag: TagMax, Param: limit} }
func Gt(limit float64) Constraint         { return Constraint{Tag: TagExclusiveMin, Param: limit} }
func Lt(limit float64) Constraint         { return Constraint{Tag: TagExclusiveMax, Param: limit} }
func MinLength(n int) Constraint          { return Constraint{Tag: TagMinLength, Param: n} }
func MaxLength(n int) Constraint          { return Constraint{Tag: TagMaxLength, Param: n} }
func Strip() Constraint                   { return Constraint{Tag: TagStrip, Param: true} }
func ToUpper() Constraint                 { return Constraint{Tag: TagToUpper, Param: true} }
func ToLower() Constraint                 { return Constraint{Tag: TagToLower, Param: true} }
func StrictConstraint(on bool) Constraint { return Constraint{Tag: TagStrict, Param: on} }

// Pattern compiles expr once; an invalid expression is reported when the
// schema is built.
func Pattern(expr string) Constraint {
	re, err := regexp.Compile(expr)
	return Constraint{Tag: TagPattern, Param: expr, re: re, err: err}
}

// IsTransform reports whether the constraint rewrites the value instead of
// checking it.
func (c Constraint) IsTransform() bool {
	switch c.Tag {
	case TagStrip, TagToUpper, TagToLower:
		return true
	}
	return false
}

// String renders the constraint as annotation metadata, e.g. Gt(gt=0).
func (c Constraint) String() string {
	switch c.Tag {
	case TagMin:
		return "Ge(ge=" + formatLimit(c.Param) + ")"
	case TagMax:
		return "Le(le=" + formatLimit(c.Param) + ")"
	case TagExclusiveMin:
		return "Gt(gt=" + formatLimit(c.Param) + ")"
	case TagExclusiveMax:
		return "Lt(lt=" + formatLimit(c.Param) + ")"
	case TagMinLength:
		return fmt.Sprintf("MinLen(min_length=%v)", c.Param)
	case TagMaxLength:
		return fmt.Sprintf("MaxLen(max_length=%v)", c.Param)
	case TagPattern:
		return fmt.Sprintf("Pattern(pattern='%v')", c.Param)
	case TagStrip:
		return "StripWhitespace()"
	case TagToUpper:
		return "ToUpper()"
	case TagToLower:
		return "ToLower()"
	case TagStrict:
		return "Strict(strict=" + reprValue(c.Param) + ")"
	}
	return string(c.Tag)
}

func formatLimit(v any) string {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// appliesTo reports whether the constraint is meaningful for the kind.
func (c Constraint) appliesTo(k Kind) bool {
	if k == KindAny || c.Tag == TagStrict {
		return true
	}
	switch c.Tag {
	case TagMin, TagMax, TagExclusiveMin, TagExclusiveMax:
		return k == KindInt || k == KindFloat
	case TagMinLength, TagMaxLength:
		return k == KindString || k == KindList || k == KindTuple || k == KindDict
	case TagPattern, TagStrip, TagToUpper, TagToLower:
		return k == KindString
	}
	return false
}

// Transform applies a transformation constraint to text; other values pass
// through unchanged.
func (c Constraint) Transform(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch c.Tag {
	case TagStrip:
		return strings.TrimSpace(s)
	case TagToUpper:
		return strings.ToUpper(s)
	case TagToLower:
		return strings.ToLower(s)
	}
	return v
}

// Violation is the structured result of a failed check.
type Violation struct {
	Tag    ConstraintTag
	Code   string
	Limit  any
	Actual any
}

// Message renders a human message for the violation.
func (v *Violation) Message() string {
	return i18n.T(v.Code, map[string]string{"limit": formatLimit(v.Limit)})
}

// Check evaluates a validating constraint; it returns nil on success and for
// values the constraint does not apply to.
func (c Constraint) Check(v any) *Violation {
	switch c.Tag {
	case TagMin, TagMax, TagExclusiveMin, TagExclusiveMax:
		if !isNumber(v) {
			return nil
		}
		cmp := compareNumbers(v, c.Param)
		var ok bool
		var code string
		switch c.Tag {
		case TagMin:
			ok, code = cmp >= 0, CodeGreaterThanEqual
		case TagMax:
			ok, code = cmp <= 0, CodeLessThanEqual
		case TagExclusiveMin:
			ok, code = cmp > 0, CodeGreaterThan
		case TagExclusiveMax:
			ok, code = cmp < 0, CodeLessThan
		}
		if ok {
			return nil
		}
		return &Violation{Tag: c.Tag, Code: code, Limit: c.Param, Actual: v}
	case TagMinLength, TagMaxLength:
		n, ok := lengthOf(v)
		if !ok {
			return nil
		}
		limit, _ := c.Param.(int)
		if c.Tag == TagMinLength && n < limit {
			return &Violation{Tag: c.Tag, Code: CodeTooShort, Limit: limit, Actual: n}
		}
		if c.Tag == TagMaxLength && n > limit {
			return &Violation{Tag: c.Tag, Code: CodeTooLong, Limit: limit, Actual: n}
		}
	case TagPattern:
		s, ok := v.(string)
		if !ok || c.re == nil {
			return nil
		}
		if !c.re.MatchString(s) {
			return &Violation{Tag: c.Tag, Code: CodePattern, Limit: c.Param, Actual: s}
		}
	}
	return nil
}

func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []any:
		return len(t), true
	case Tuple:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	return 0, false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

// compareNumbers compares coerced numbers (int64 or float64) against a limit.
// Integral pairs compare exactly.
func compareNumbers(a, b any) int {
	ai, aInt := a.(int64)
	if bf, ok := b.(float64); ok && aInt && bf == math.Trunc(bf) && math.Abs(bf) < 1<<62 {
		bi := int64(bf)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	af, bf := toFloat(a), toFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case float64:
		return t
	case int:
		return float64(t)
	}
	return math.NaN()
}
