// Package logging configures the slog logger used by the command-line tool.
// Library packages never log.
package logging

import (
	"io"
	"log/slog"
)

// New creates a text logger writing to w. The "error" key is shortened to
// "err" so call sites can use either.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
