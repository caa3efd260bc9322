package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type recordingHandler struct {
	level   slog.Level
	err     error
	handled int
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *recordingHandler) Handle(context.Context, slog.Record) error {
	h.handled++
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandlerContinuesPastFailure(t *testing.T) {
	broken := &recordingHandler{level: slog.LevelInfo, err: errors.New("db down")}
	healthy := &recordingHandler{level: slog.LevelInfo}
	m := NewMultiHandler(broken, healthy)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	err := m.Handle(context.Background(), rec)

	if !errors.Is(err, broken.err) {
		t.Fatalf("expected the child error to surface, got %v", err)
	}
	if healthy.handled != 1 {
		t.Fatalf("healthy handler got %d records, want 1", healthy.handled)
	}
}

func TestMultiHandlerRespectsChildLevels(t *testing.T) {
	errOnly := &recordingHandler{level: slog.LevelError}
	info := &recordingHandler{level: slog.LevelInfo}
	m := NewMultiHandler(errOnly, info)

	if !m.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("enabled when any child accepts the level")
	}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := m.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if errOnly.handled != 0 {
		t.Fatal("error-level child must not see info records")
	}
	if info.handled != 1 {
		t.Fatalf("info child got %d records, want 1", info.handled)
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"junk":  slog.LevelInfo,
	}
	for val, want := range cases {
		t.Setenv("LOG_LEVEL", val)
		if got := levelFromEnv(); got != want {
			t.Errorf("LOG_LEVEL=%q: got %v, want %v", val, got, want)
		}
	}
}
