package gomodel

import (
	"context"
	"errors"

	eng "github.com/reoring/gomodel/internal/engine"
)

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that stops validation at the first
// issue instead of collecting every failure.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether validation should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

func enforceOptions(opt DecodeOpt) eng.EnforceOptions {
	eo := eng.EnforceOptions{MaxDepth: opt.MaxDepth, MaxBytes: opt.MaxBytes, FailFast: opt.FailFast}
	switch opt.OnDuplicateKey {
	case Warn:
		eo.OnDuplicate = eng.DupWarn
	case Error:
		eo.OnDuplicate = eng.DupError
	}
	if opt.Warnings != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { opt.Warnings(fromSimple(si)) }
	}
	return eo
}

func fromSimple(si eng.SimpleIssue) Issue {
	return Issue{Path: si.Path, Code: si.Code, Message: si.Message}
}

// decodeText turns structured text into a mapping or a *DecodeError.
func decodeText(format string, data []byte, opt DecodeOpt) (map[string]any, error) {
	var (
		m   map[string]any
		err error
	)
	eo := enforceOptions(opt)
	if format == "yaml" {
		m, err = eng.DecodeYAML(data, eo)
	} else {
		m, err = eng.DecodeJSON(data, eo)
	}
	if err == nil {
		return m, nil
	}
	de := &DecodeError{Format: format, Path: "/", Code: CodeParseError, Err: err}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		de.Path, de.Code = ie.Path, ie.Code
	}
	return nil, de
}

func ctxFailFast(ctx context.Context, opt DecodeOpt) context.Context {
	if opt.FailFast {
		return WithFailFast(ctx, true)
	}
	return ctx
}
