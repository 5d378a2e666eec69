package telemetry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const redacted = "[REDACTED]"

// NewLogger writes JSON records to path. An empty path discards everything.
func NewLogger(path, level string) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return Discard(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}

	return NewJSONLogger(file, level), file, nil
}

func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			if shouldRedactKey(a.Key) {
				return slog.String(a.Key, redacted)
			}
			if a.Value.Kind() == slog.KindString && shouldRedactValue(a.Value.String()) {
				return slog.String(a.Key, redacted)
			}
			return a
		},
	})

	return slog.New(handler).With("component", "tf")
}

func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func shouldRedactKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "" {
		return false
	}
	for _, sensitive := range []string{"token", "secret", "password", "authorization", "bearer"} {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

func shouldRedactValue(v string) bool {
	lower := strings.ToLower(v)
	return strings.Contains(lower, "bearer ") || strings.Contains(lower, "authorization:")
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
