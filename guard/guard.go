// Package guard wires the protection layer into one constructed context
// object. Nothing in the layer is a global: the Guard holds every component
// and hands the same clock, medium and event log to all of them, so tests
// can substitute any collaborator.
package guard

import (
	"fmt"
	"log/slog"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/codec"
	"github.com/mhollis/wardkeep/config"
	"github.com/mhollis/wardkeep/csrf"
	"github.com/mhollis/wardkeep/keyring"
	"github.com/mhollis/wardkeep/protect"
	"github.com/mhollis/wardkeep/ratelimit"
	"github.com/mhollis/wardkeep/sanitize"
	"github.com/mhollis/wardkeep/session"
	"github.com/mhollis/wardkeep/storage"
)

// Guard is the assembled protection layer.
type Guard struct {
	CSRF      *csrf.Manager
	Events    *audit.Log
	Store     *protect.Store
	Sessions  *session.Manager
	Limiter   *ratelimit.Limiter
	Validator *sanitize.Pipeline

	rateLimit config.RateLimitSection
}

// Allow applies the configured default throttling preset to key. Callers
// with action-specific budgets use Limiter.Check directly.
func (g *Guard) Allow(key string) bool {
	return g.Limiter.Check(key, g.rateLimit.MaxRequests, g.rateLimit.Window.Std())
}

type options struct {
	clk    clock.Clock
	logger *slog.Logger
	alert  audit.AlertFunc
}

// Option configures the Guard assembly.
type Option func(*options)

// WithClock substitutes the wall clock, typically with a manual clock in tests.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clk = clk }
}

// WithLogger sets the structured logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithAlertFunc wires the critical-severity alert hook.
func WithAlertFunc(fn audit.AlertFunc) Option {
	return func(o *options) { o.alert = fn }
}

// New assembles a Guard over the given medium according to cfg.
func New(cfg config.Config, medium storage.Medium, opts ...Option) (*Guard, error) {
	if err := cfg.Verify(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := options{clk: clock.System{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	keys, err := keyring.New(cfg.Secret, cfg.Fingerprint, o.clk,
		keyring.WithBucket(cfg.KeyBucket.Std()))
	if err != nil {
		return nil, fmt.Errorf("building key deriver: %w", err)
	}

	var auditOpts []audit.Option
	auditOpts = append(auditOpts, audit.WithLogger(o.logger))
	if o.alert != nil {
		auditOpts = append(auditOpts, audit.WithAlertFunc(o.alert))
	}
	events := audit.NewLog(cfg.Audit.Capacity, o.clk, auditOpts...)

	tokens := csrf.NewManager()
	store := protect.New(medium, codec.New(keys, o.logger), tokens, events, o.clk,
		protect.WithTimeout(cfg.SessionTimeout.Std()),
		protect.WithLogger(o.logger))
	sessions := session.NewManager(store, tokens, events, o.clk,
		session.WithIdleTimeout(cfg.IdleTimeout.Std()),
		session.WithLogger(o.logger))

	return &Guard{
		CSRF:      tokens,
		Events:    events,
		Store:     store,
		Sessions:  sessions,
		Limiter:   ratelimit.New(o.clk, events),
		Validator: sanitize.NewPipeline(tokens, events),
		rateLimit: cfg.RateLimit,
	}, nil
}
