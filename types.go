package gomodel

// ExtraPolicy controls how input names that the model does not declare are
// handled.
type ExtraPolicy int

const (
	ExtraIgnore ExtraPolicy = iota // Drop unknown names (default).
	ExtraForbid                    // Reject unknown names with an error.
	ExtraAllow                     // Keep unknown names on the instance, unvalidated.
)

func (p ExtraPolicy) String() string {
	switch p {
	case ExtraForbid:
		return "forbid"
	case ExtraAllow:
		return "allow"
	default:
		return "ignore"
	}
}

// ParseExtraPolicy maps "ignore", "forbid" and "allow" to an ExtraPolicy.
func ParseExtraPolicy(s string) (ExtraPolicy, bool) {
	switch s {
	case "", "ignore":
		return ExtraIgnore, true
	case "forbid":
		return ExtraForbid, true
	case "allow":
		return ExtraAllow, true
	}
	return ExtraIgnore, false
}

// Config holds the model-level toggles. The zero value is the library
// default: ignore extras, lax coercion, defaults and assignments unchecked,
// mutable instances, strings untouched.
type Config struct {
	Title              string
	Extra              ExtraPolicy
	Strict             bool
	ValidateDefault    bool
	ValidateAssignment bool
	Frozen             bool
	StrStrip           bool
	StrToUpper         bool
	StrToLower         bool
	CoerceNumbersToStr bool
	// PopulateByName accepts the field name on input in addition to its alias.
	PopulateByName bool
}

// Severity expresses the severity level for decode-time findings.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles options for constructing from structured text.
type DecodeOpt struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
	MaxDepth       int
	MaxBytes       int64
	FailFast       bool
	// Warnings receives non-fatal findings (duplicate keys under Warn).
	Warnings func(Issue)
}
