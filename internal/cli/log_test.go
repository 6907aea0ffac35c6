package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerFromContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context did not fall back to log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info record missing: %q", out)
	}
}

func TestProgressDone(t *testing.T) {
	ctx, logs := testContext(t)
	newProgress(loggerFromContext(ctx)).done("Wrote out.png")

	out := logs.String()
	if !strings.Contains(out, "Wrote out.png (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q", out)
	}
}
