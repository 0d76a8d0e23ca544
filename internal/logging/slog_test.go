package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLogger_WritesLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	var log Logger = NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	log.Info(ctx, "store ready", "path", "cards.db")
	log.Warn(ctx, "note decryption failed")
	log.Error(ctx, "delete failed")

	out := buf.String()
	for _, want := range []string{
		"level=INFO", "store ready", "path=cards.db",
		"level=WARN", "note decryption failed",
		"level=ERROR", "delete failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogLogger_WithCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := log.With("engine", "local")
	child.Info(context.Background(), "opened")

	if !strings.Contains(buf.String(), "engine=local") {
		t.Fatalf("child attrs missing: %s", buf.String())
	}
}
