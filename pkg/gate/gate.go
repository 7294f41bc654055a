package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/menukit/pkg/i18n"
	"github.com/dmitrymomot/menukit/pkg/logger"
	"github.com/dmitrymomot/menukit/pkg/preference"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
	"github.com/dmitrymomot/menukit/pkg/statemachine"
)

// Resolver is satisfied by *publicconfig.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, key string) publicconfig.Result
}

// Localizer is satisfied by *i18n.Localizer.
type Localizer interface {
	Apply(ctx context.Context, lang string) error
}

// Gate tracks one visitor's current tenant and decides when the page may
// render and fetch tenant data.
type Gate struct {
	resolver  Resolver
	prefs     preference.Store
	localizer Localizer
	logger    *slog.Logger

	mu          sync.Mutex
	fsm         *statemachine.Machine[State, event]
	generation  uint64
	key         string
	resolvedKey string
	record      *publicconfig.Record
	negotiated  *i18n.Negotiated
	appliedLang string
	err         error
	langErr     error
	changed     chan struct{}

	// applyMu serializes localizer calls so the last requested language wins.
	applyMu sync.Mutex

	// prefsMu keeps preference reads and writes out of Close.
	prefsMu sync.RWMutex
	closed  bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithPreferences sets where chosen languages are read from and persisted.
func WithPreferences(store preference.Store) Option {
	return func(g *Gate) {
		if store != nil {
			g.prefs = store
		}
	}
}

// WithLocalizer sets the runtime the negotiated language is applied to.
// Without one the language counts as applied as soon as it is negotiated.
func WithLocalizer(l Localizer) Option {
	return func(g *Gate) {
		if l != nil {
			g.localizer = l
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an idle gate.
func New(resolver Resolver, opts ...Option) (*Gate, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}

	g := &Gate{
		resolver: resolver,
		prefs:    preference.NewMemoryStore(),
		logger:   logger.Discard(),
		fsm:      newMachine(),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("gate"))

	return g, nil
}

// SetTenant switches the gate to key. The gate is Pending when SetTenant
// returns; resolution continues in the background and a result for a key
// that has since been replaced is discarded. hint is the language requested
// in the URL, if any.
func (g *Gate) SetTenant(ctx context.Context, key, hint string) {
	g.mu.Lock()
	g.generation++
	gen := g.generation
	g.key = key
	g.resolvedKey = ""
	g.record = nil
	g.negotiated = nil
	g.appliedLang = ""
	g.err = nil
	g.langErr = nil
	if err := g.fsm.Fire(ctx, eventReset); err != nil {
		g.logger.ErrorContext(ctx, "gate reset failed", logger.Error(err))
	}
	if key == "" {
		// Nothing to resolve: an empty key never names a tenant.
		if err := g.fsm.Fire(ctx, eventMissing); err != nil {
			g.logger.ErrorContext(ctx, "gate transition failed", logger.Error(err))
		}
	}
	g.notifyLocked()
	g.mu.Unlock()

	if key != "" {
		go g.resolve(ctx, gen, key, hint)
	}
}

func (g *Gate) resolve(ctx context.Context, gen uint64, key, hint string) {
	log := g.logger.With(logger.Tenant(key))
	res := g.resolver.Resolve(ctx, key)

	var stored string
	if res.Succeeded() {
		stored = g.storedLang(ctx, gen, key)
	}

	g.mu.Lock()
	if gen != g.generation {
		g.mu.Unlock()
		log.DebugContext(ctx, "discarding stale resolution", logger.Outcome(res.Outcome.String()))
		return
	}

	var (
		ev         event
		negotiated i18n.Negotiated
	)
	switch {
	case res.Succeeded():
		negotiated = i18n.Negotiate(res.Record.LanguageSets(), hint, stored)
		g.record = res.Record
		g.resolvedKey = key
		g.negotiated = &negotiated
		if g.localizer == nil {
			g.appliedLang = negotiated.Active
		}
		ev = eventResolved
	case res.NotFound():
		ev = eventMissing
	default:
		g.err = res.Err
		ev = eventFailed
	}
	if err := g.fsm.Fire(ctx, ev); err != nil {
		log.ErrorContext(ctx, "gate transition failed", logger.Error(err))
	}
	g.notifyLocked()
	g.mu.Unlock()

	log.DebugContext(ctx, "tenant resolved", logger.Outcome(res.Outcome.String()), slog.String("source", res.Source.String()))

	if ev == eventResolved {
		g.persist(ctx, gen, key, negotiated.Active)
		g.apply(ctx, gen, negotiated.Active)
	}
}

// SetPublicLang switches the active language of a ready gate without
// resolving the tenant again. An unknown code selects the tenant default.
func (g *Gate) SetPublicLang(ctx context.Context, code string) (i18n.Negotiated, error) {
	g.mu.Lock()
	if !g.fsm.Is(StateReady) || g.negotiated == nil {
		g.mu.Unlock()
		return i18n.Negotiated{}, ErrNotReady
	}

	n := g.negotiated.WithActive(code)
	changed := n.Active != g.negotiated.Active
	g.negotiated = &n
	gen, key := g.generation, g.key
	if changed {
		g.langErr = nil
		if g.localizer == nil {
			g.appliedLang = n.Active
		} else {
			g.appliedLang = ""
		}
		g.notifyLocked()
	}
	g.mu.Unlock()

	if changed {
		g.persist(ctx, gen, key, n.Active)
		go g.apply(ctx, gen, n.Active)
	}
	return n, nil
}

// Close detaches the gate from its preference store and discards every
// resolution still in flight. It returns once no preference call is running,
// so a store bound to a request may be dropped afterwards. A closed gate must
// not be reused.
func (g *Gate) Close() {
	g.prefsMu.Lock()
	g.closed = true
	g.prefsMu.Unlock()

	g.mu.Lock()
	g.generation++
	g.mu.Unlock()
}

func (g *Gate) storedLang(ctx context.Context, gen uint64, key string) string {
	g.prefsMu.RLock()
	defer g.prefsMu.RUnlock()
	if g.closed || !g.current(gen) {
		return ""
	}

	lang, err := g.prefs.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to read language preference", logger.Tenant(key), logger.Error(err))
	}
	return lang
}

func (g *Gate) persist(ctx context.Context, gen uint64, key, lang string) {
	g.prefsMu.RLock()
	defer g.prefsMu.RUnlock()
	if g.closed || !g.current(gen) {
		return
	}

	if err := g.prefs.Set(ctx, key, lang); err != nil {
		g.logger.WarnContext(ctx, "failed to persist language preference",
			logger.Tenant(key), logger.Lang(lang), logger.Error(err))
	}
}

func (g *Gate) current(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen == g.generation
}

func (g *Gate) apply(ctx context.Context, gen uint64, lang string) {
	if g.localizer == nil {
		return
	}

	g.applyMu.Lock()
	defer g.applyMu.Unlock()

	if !g.wants(gen, lang) {
		return
	}
	err := g.localizer.Apply(ctx, lang)

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.generation || g.negotiated == nil || g.negotiated.Active != lang {
		return
	}
	if err != nil {
		g.langErr = errors.Join(ErrLanguageNotApplied, err)
		g.logger.ErrorContext(ctx, "failed to apply language",
			logger.Tenant(g.key), logger.Lang(lang), logger.Error(err))
	} else {
		g.appliedLang = lang
	}
	g.notifyLocked()
}

func (g *Gate) wants(gen uint64, lang string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen == g.generation && g.negotiated != nil && g.negotiated.Active == lang
}

// Snapshot returns the current derived state.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Gate) snapshotLocked() Snapshot {
	err := g.err
	if err == nil {
		err = g.langErr
	}
	return Derive(Inputs{
		Key:         g.key,
		ResolvedKey: g.resolvedKey,
		State:       g.fsm.Current(),
		Record:      g.record,
		Negotiated:  g.negotiated,
		AppliedLang: g.appliedLang,
		Err:         err,
	})
}

// Changed returns a channel closed on the next state change.
func (g *Gate) Changed() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.changed
}

// Wait blocks until the gate settles for its current key: not found, failed,
// or ready with the language applied. A language that could not be applied
// is returned as an error wrapping ErrLanguageNotApplied.
func (g *Gate) Wait(ctx context.Context) (Snapshot, error) {
	for {
		g.mu.Lock()
		snap := g.snapshotLocked()
		langErr := g.langErr
		ch := g.changed
		g.mu.Unlock()

		switch {
		case snap.Key == "" && snap.State == StatePending:
			// Idle: no tenant was ever set.
			return snap, nil
		case snap.NotFound, snap.Error, snap.CanFetch:
			return snap, nil
		case snap.IsReady && langErr != nil:
			return snap, langErr
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

func (g *Gate) notifyLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}
