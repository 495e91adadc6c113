package engine

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes one YAML document whose root must be a mapping. Keys are
// normalized to strings; yaml.v3 rejects duplicate keys itself.
func DecodeYAML(data []byte, opt EnforceOptions) (map[string]any, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, IssueError{SimpleIssue{Code: "truncated", Path: "/", Message: "max bytes exceeded"}}
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	v, err := normalizeYAML(raw, "", 0, opt.MaxDepth)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

func normalizeYAML(v any, path string, depth, maxDepth int) (any, error) {
	switch v.(type) {
	case map[string]any, map[any]any, []any:
		depth++
		if maxDepth > 0 && depth > maxDepth {
			return nil, IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "max depth exceeded"}}
		}
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			nv, err := normalizeYAML(val, joinJSONPointer(path, k), depth, maxDepth)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ks := fmt.Sprint(k)
			nv, err := normalizeYAML(val, joinJSONPointer(path, ks), depth, maxDepth)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			nv, err := normalizeYAML(val, joinJSONPointer(path, strconv.Itoa(i)), depth, maxDepth)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case int:
		return int64(t), nil
	case uint64:
		if t > 1<<63-1 {
			return float64(t), nil
		}
		return int64(t), nil
	}
	return v, nil
}
