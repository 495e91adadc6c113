package gomodel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// reprValue renders a value in the notation used by error messages and
// Instance.String: None, True, 'text', [1, 2], (1, 2), {'k': 1}.
func reprValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.ReplaceAll(t, "'", "\\'") + "'"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case json.Number:
		return t.String()
	case []any:
		return "[" + joinRepr(t) + "]"
	case Tuple:
		if len(t) == 1 {
			return "(" + reprValue(t[0]) + ",)"
		}
		return "(" + joinRepr(t) + ")"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = reprValue(k) + ": " + reprValue(t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Instance:
		return t.String()
	}
	return fmt.Sprint(v)
}

func joinRepr(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = reprValue(v)
	}
	return strings.Join(parts, ", ")
}

// formatFloat keeps a trailing ".0" on integral floats so they stay
// distinguishable from ints.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// typeName names the runtime type of an input value.
func typeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "NoneType"
	case string:
		return "str"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case float32, float64:
		return "float"
	case json.Number:
		if isIntegralLiteral(string(t)) {
			return "int"
		}
		return "float"
	case []any:
		return "list"
	case Tuple:
		return "tuple"
	case map[string]any:
		return "dict"
	case *Instance:
		return t.schema.Name()
	}
	return fmt.Sprintf("%T", v)
}

// isIntegralLiteral reports whether a JSON number literal has neither a
// fraction nor an exponent.
func isIntegralLiteral(s string) bool {
	return s != "" && !strings.ContainsAny(s, ".eE")
}
