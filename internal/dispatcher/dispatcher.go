// Package dispatcher routes the commands a phase receives to the handler
// registered for their type.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ironhex/combat/pkg/command"
)

// ErrIgnored is returned for commands with no handler or rejected by a guard.
var ErrIgnored = errors.New("command ignored")

// HandlerFunc processes one command.
type HandlerFunc func(command.Command) error

// GuardFunc decides whether a command may reach its handler.
type GuardFunc func(command.Command) bool

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	guards []GuardFunc
	logged bool
}

// Guarded drops commands for which any guard returns false.
func Guarded(guards ...GuardFunc) Option {
	return func(c *config) {
		c.guards = append(c.guards, guards...)
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes commands to registered handlers. It is not safe for
// concurrent use; a game drives it from one goroutine.
type Dispatcher struct {
	name     string
	handlers map[command.Type]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	ignored   metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a Dispatcher. name labels its metrics, usually the phase name.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(name string, logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		name:     name,
		handlers: make(map[command.Type]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Total commands handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.ignored, err = m.Int64Counter(
		"dispatcher.commands.ignored",
		metric.WithDescription("Total commands without a handler or rejected by a guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ignored counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.commands.failed",
		metric.WithDescription("Total commands whose handler returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given command type with optional configuration.
func (d *Dispatcher) Register(t command.Type, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if len(cfg.guards) > 0 {
		handler = d.withGuards(cfg.guards, handler)
	}

	if cfg.logged {
		handler = d.withLogging(t, handler)
	}

	d.handlers[t] = handler
}

// Dispatch routes a command to its handler. Commands nobody handles return
// ErrIgnored.
func (d *Dispatcher) Dispatch(cmd command.Command) error {
	attrs := metric.WithAttributes(
		attribute.String("phase", d.name),
		attribute.String("command", string(cmd.Type())),
	)
	h, ok := d.handlers[cmd.Type()]
	if !ok {
		d.ignored.Add(context.Background(), 1, attrs)
		return fmt.Errorf("%w: no handler for %s", ErrIgnored, cmd.Type())
	}
	err := h(cmd)
	switch {
	case errors.Is(err, ErrIgnored):
		d.ignored.Add(context.Background(), 1, attrs)
	case err != nil:
		d.failed.Add(context.Background(), 1, attrs)
	default:
		d.processed.Add(context.Background(), 1, attrs)
	}
	return err
}

// HasHandler returns true if a handler is registered for the command type.
func (d *Dispatcher) HasHandler(t command.Type) bool {
	_, ok := d.handlers[t]
	return ok
}

func (d *Dispatcher) withGuards(guards []GuardFunc, h HandlerFunc) HandlerFunc {
	return func(cmd command.Command) error {
		for _, g := range guards {
			if !g(cmd) {
				return fmt.Errorf("%w: %s rejected", ErrIgnored, cmd.Type())
			}
		}
		return h(cmd)
	}
}

func (d *Dispatcher) withLogging(t command.Type, h HandlerFunc) HandlerFunc {
	return func(cmd command.Command) error {
		start := time.Now()
		d.logger.Debug("handling command", "phase", d.name, "command", t)

		err := h(cmd)

		switch {
		case errors.Is(err, ErrIgnored):
			d.logger.Debug("command ignored", "phase", d.name, "command", t, "reason", err)
		case err != nil:
			d.logger.Error("command failed", "phase", d.name, "command", t, "duration", time.Since(start), "error", err)
		default:
			d.logger.Debug("command complete", "phase", d.name, "command", t, "duration", time.Since(start))
		}

		return err
	}
}
