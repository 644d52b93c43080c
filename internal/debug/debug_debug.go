//go:build debug

package debug

import (
	"fmt"
	"log/slog"
)

func Printf(msg string, args ...any) {
	slog.Debug(fmt.Sprintf(msg, args...), "debug", true)
}
