// Package cli implements the luxbin command-line interface.
//
// This package provides commands for running entanglement sessions between
// NV-center nodes, extending them into chains, inspecting the dynamical
// decoupling circuits, generating Bell pairs, and serving the HTTP API. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - entangle: Run one or more sessions between two nodes
//   - extend: Entangle two nodes and extend the link across further hops
//   - circuit: Print the decoupling circuit a node runs during step 2
//   - bell: Generate Bell pairs on the configured provider
//   - stats, history: Report on recorded sessions
//   - serve: Run the HTTP API
//   - cache: Manage the backend cache
//
// # Configuration
//
// Settings are read from ~/.config/luxbin/config.toml (or --config), then
// LUXBIN_* environment variables, then flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every protocol state change.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Entangled alice <-> bob (412ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Protocol tracing
// =============================================================================

// logHooks writes protocol events to the logger at debug level. Failed
// attempts and reinitializations are reported at info level.
type logHooks struct {
	logger *log.Logger
}

var _ observability.ProtocolHooks = (*logHooks)(nil)

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnSessionStart(_ context.Context, session, nodeA, nodeB string) {
	h.logger.Debug("session started", "session", session, "a", nodeA, "b", nodeB)
}

func (h *logHooks) OnStateChange(_ context.Context, session string, attempt int, state string) {
	h.logger.Debug("state", "session", session, "attempt", attempt, "state", state)
}

func (h *logHooks) OnAttemptFailed(_ context.Context, session string, attempt int, reason string) {
	h.logger.Debug("attempt failed", "session", session, "attempt", attempt, "reason", reason)
}

func (h *logHooks) OnReinitialize(_ context.Context, node string, idle time.Duration) {
	h.logger.Info("node reinitialized", "node", node, "idle", idle)
}

func (h *logHooks) OnSessionEnd(_ context.Context, session string, success bool, attempts int, fidelity float64, d time.Duration) {
	h.logger.Debug("session ended", "session", session, "success", success,
		"attempts", attempts, "fidelity", fidelity, "duration", d.Round(time.Microsecond))
}
