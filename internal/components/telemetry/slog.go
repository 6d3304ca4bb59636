package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SlogAPI implements API using the log/slog package.
type SlogAPI struct{}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	slog.Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
}

// ParseLevel accepts the usual slog level names ("debug", "info", "warn", "error"),
// anything unrecognized falls back to info.
func ParseLevel(level string) slog.Level {
	var out slog.Level
	err := out.UnmarshalText([]byte(strings.TrimSpace(level)))
	if err != nil {
		return slog.LevelInfo
	}
	return out
}

// InitSlog installs a text handler writing to stderr as the default slog logger.
func InitSlog(level slog.Level) {
	InitSlogWriter(os.Stderr, level)
}

func InitSlogWriter(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
