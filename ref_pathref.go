package gomodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/gomodel/i18n"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// The zero value points at the document root.
type PathRef struct {
	parts []string
}

// RootRef returns the root path.
func RootRef() PathRef { return PathRef{} }

// Field appends an object member, escaping per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append([]string{}, p.parts...), esc)}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the path as a JSON Pointer ("/" for the root).
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at this path. The message comes from the i18n
// catalog; kv pairs become Params and message placeholders.
func (p PathRef) Issue(code string, input any, kv ...any) Issue {
	var params map[string]any
	var data map[string]string
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k := fmt.Sprint(kv[i])
			params[k] = kv[i+1]
			data[k] = formatLimit(kv[i+1])
		}
	}
	it := IssueAt(p, code, i18n.T(code, data), params)
	it.Input = input
	return it
}
