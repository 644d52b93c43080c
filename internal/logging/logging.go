// Package logging sets up the slog loggers of the jmap command: text on
// stderr, plus JSON in a log file if one is configured.
package logging

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// New returns a logger writing text to w and, if file is not nil, JSON to
// file.  Records below level are dropped.
func New(w io.Writer, file io.Writer, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(w, opts)
	if file == nil {
		return slog.New(text)
	}
	return slog.New(
		slogmulti.Fanout(
			text,
			slog.NewJSONHandler(file, opts),
		),
	)
}
