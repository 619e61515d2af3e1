package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("session ended") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("state") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("state") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Measured 3 phi_plus pairs")

	out := buf.String()
	if !strings.Contains(out, "Measured 3 phi_plus pairs (") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to log.Default")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.InfoLevel))
	h.OnSessionStart(ctx, "s1", "alice", "bob")
	h.OnStateChange(ctx, "s1", 1, "SPIN_PREPARED")
	h.OnAttemptFailed(ctx, "s1", 1, "routing")
	h.OnSessionEnd(ctx, "s1", true, 2, 0.93, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("per-attempt events should be debug only, got %q", buf.String())
	}

	h.OnReinitialize(ctx, "alice", 2*time.Millisecond)
	if !strings.Contains(buf.String(), "node reinitialized") {
		t.Errorf("reinitialization should log at info, got %q", buf.String())
	}

	buf.Reset()
	h = newLogHooks(newLogger(&buf, log.DebugLevel))
	h.OnAttemptFailed(ctx, "s1", 3, "heralding")
	if out := buf.String(); !strings.Contains(out, "attempt failed") || !strings.Contains(out, "heralding") {
		t.Errorf("debug trace = %q", out)
	}
}
