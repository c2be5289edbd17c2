package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs(nil).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() did not return nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() did not return nopHandler")
	}
}

func TestSet(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { Set(orig) })

	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("output = %q, want message", buf.String())
	}

	Set(nil)
	if Logger() == nil || Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Set(nil) did not restore the silent logger")
	}
}
