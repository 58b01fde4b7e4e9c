// Package observe carries gateway operation outcomes from the services to
// whatever wants them: the log, the audit table, tests.
package observe

import (
	"context"
	"log/slog"
	"time"
)

// Operation names reported by the entity services.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpLogin  = "login"
)

// Event describes one finished service call. Err is nil on success.
type Event struct {
	Op       string
	Entity   string
	Key      string
	Duration time.Duration
	Err      error
}

func (e Event) OK() bool { return e.Err == nil }

type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// Func adapts a plain function to Observer.
type Func func(ctx context.Context, ev Event)

func (f Func) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi fans an event out to every observer in order.
type Multi []Observer

func (m Multi) Observe(ctx context.Context, ev Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(ctx, ev)
		}
	}
}

// Nop drops every event.
var Nop Observer = Func(func(context.Context, Event) {})

// Logger logs successes at debug and failures at warn.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Observe(ctx context.Context, ev Event) {
	attrs := []any{
		"op", ev.Op,
		"entity", ev.Entity,
		"duration_ms", ev.Duration.Milliseconds(),
	}
	if ev.Key != "" {
		attrs = append(attrs, "key", ev.Key)
	}
	if ev.Err != nil {
		l.logger.WarnContext(ctx, "gateway call failed", append(attrs, "error", ev.Err)...)
		return
	}
	l.logger.DebugContext(ctx, "gateway call", attrs...)
}
