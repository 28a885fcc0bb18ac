package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerContextRoundTrip(t *testing.T) {
	l := newLogger(io.Discard, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("logger not recovered from context")
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("fallback logger is nil")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.WarnLevel)

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
	l.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}
