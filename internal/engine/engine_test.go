package engine

import (
	"errors"
	"io"
	"testing"

	j "github.com/goccy/go-json"
)

func TestDecodeJSON_Object(t *testing.T) {
	m, err := DecodeJSON([]byte(`{"a":1,"b":[1.5,"x",null,true],"c":{"d":"e"}}`), EnforceOptions{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m["a"] != j.Number("1") {
		t.Fatalf("expected json.Number 1, got %#v", m["a"])
	}
	arr, ok := m["b"].([]any)
	if !ok || len(arr) != 4 || arr[0] != j.Number("1.5") || arr[1] != "x" || arr[2] != nil || arr[3] != true {
		t.Fatalf("unexpected array: %#v", m["b"])
	}
	if c, ok := m["c"].(map[string]any); !ok || c["d"] != "e" {
		t.Fatalf("unexpected nested object: %#v", m["c"])
	}
}

func TestDecodeJSON_TopLevelMustBeObject(t *testing.T) {
	if _, err := DecodeJSON([]byte(`[1,2]`), EnforceOptions{}); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if _, err := DecodeJSON([]byte(`{"a":1} {"b":2}`), EnforceOptions{}); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
	if _, err := DecodeJSON([]byte(`{"a":`), EnforceOptions{}); err == nil {
		t.Fatalf("expected error for truncated input")
	}
	if _, err := DecodeJSON(nil, EnforceOptions{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF for empty input, got %v", err)
	}
}

func TestDecodeJSON_DuplicateKeys(t *testing.T) {
	data := []byte(`{"a":1,"n":{"x":1,"x":2}}`)

	if _, err := DecodeJSON(data, EnforceOptions{OnDuplicate: DupIgnore}); err != nil {
		t.Fatalf("ignore should pass, got %v", err)
	}

	var warned []SimpleIssue
	if _, err := DecodeJSON(data, EnforceOptions{OnDuplicate: DupWarn, IssueSink: func(si SimpleIssue) { warned = append(warned, si) }}); err != nil {
		t.Fatalf("warn should pass, got %v", err)
	}
	if len(warned) != 1 || warned[0].Path != "/n/x" || warned[0].Code != "duplicate_key" {
		t.Fatalf("unexpected warnings: %+v", warned)
	}

	_, err := DecodeJSON(data, EnforceOptions{OnDuplicate: DupError})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/n/x" {
		t.Fatalf("expected duplicate_key IssueError at /n/x, got %v", err)
	}
}

func TestDecodeJSON_DepthAndBytes(t *testing.T) {
	data := []byte(`{"a":{"b":{"c":[1]}}}`)
	if _, err := DecodeJSON(data, EnforceOptions{MaxDepth: 4}); err != nil {
		t.Fatalf("depth 4 should pass, got %v", err)
	}
	_, err := DecodeJSON(data, EnforceOptions{MaxDepth: 3})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "parse_error" || ie.Path != "/a/b/c" {
		t.Fatalf("expected depth error at /a/b/c, got %v", err)
	}
	_, err = DecodeJSON(data, EnforceOptions{MaxBytes: 5})
	if !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	m, err := DecodeYAML([]byte("name: ann\nage: 3\nscores: [1, 2.5]\nmeta:\n  1: one\n"), EnforceOptions{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m["age"] != int64(3) {
		t.Fatalf("expected int64 age, got %#v", m["age"])
	}
	s := m["scores"].([]any)
	if s[0] != int64(1) || s[1] != 2.5 {
		t.Fatalf("unexpected scores %#v", s)
	}
	if meta := m["meta"].(map[string]any); meta["1"] != "one" {
		t.Fatalf("expected stringified key, got %#v", meta)
	}

	if _, err := DecodeYAML([]byte("- 1\n- 2\n"), EnforceOptions{}); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if _, err := DecodeYAML([]byte("a: 1\na: 2\n"), EnforceOptions{}); err == nil {
		t.Fatalf("expected duplicate key error from yaml")
	}
	if _, err := DecodeYAML([]byte("a:\n  b:\n    c: 1\n"), EnforceOptions{MaxDepth: 2}); err == nil {
		t.Fatalf("expected depth error")
	}
}
