// Package session maps opaque session ids to Game of Life runs.
//
// Every session owns one history.History guarded by its own mutex, so
// requests for the same session run one at a time while unrelated sessions
// proceed independently. The registry lock is only held to find, add or drop
// entries, never while a generation is computed.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"mad-life/internal/logging"
	"mad-life/internal/metrics"
	"mad-life/pkg/history"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for ids the registry does not hold.
var ErrUnknownSession = errors.New("unknown session")

// Defaults are the dimensions a session falls back to when a request omits
// them. They follow the last size the session asked for.
type Defaults struct {
	Width  int
	Height int
}

// Session is one user's run plus its remembered form values.
type Session struct {
	id       string
	mu       sync.Mutex
	history  *history.History
	defaults Defaults
	lastUsed atomic.Int64
	evicted  bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// History returns the session's run. Only use it inside Registry.Do.
func (s *Session) History() *history.History { return s.history }

// Defaults returns the remembered dimensions. Only use it inside Registry.Do.
func (s *Session) Defaults() Defaults { return s.defaults }

// SetDefaults remembers dimensions. Only use it inside Registry.Do.
func (s *Session) SetDefaults(d Defaults) { s.defaults = d }

func (s *Session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

// Options configures a Registry.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// TTL is how long a session may stay unused before EvictIdle drops it.
	TTL time.Duration
	// Defaults seed the remembered dimensions of new sessions.
	Defaults Defaults
	// HistoryOptions are applied to every new history.
	HistoryOptions []history.Option
	Now            func() time.Time
	NewID          func() string
}

// Registry holds the live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	logger   *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logging.OrDefault(opts.Logger).With("component", "session"),
	}
}

// Create opens a new session and returns its id.
func (r *Registry) Create(ctx context.Context) string {
	s := &Session{
		id:       r.opts.NewID(),
		history:  history.New(r.opts.HistoryOptions...),
		defaults: r.opts.Defaults,
	}
	s.touch(r.opts.Now())

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	r.opts.Metrics.SessionOpened()
	r.logger.DebugContext(ctx, "session opened", "session_id", s.id)
	return s.id
}

// Ensure returns id when the registry holds it and opens a new session
// otherwise. created reports whether a new id was issued.
func (r *Registry) Ensure(ctx context.Context, id string) (string, bool) {
	if id != "" && r.Has(id) {
		return id, false
	}
	return r.Create(ctx), true
}

// Has reports whether id is held.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Len returns the number of sessions held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Do runs fn with exclusive access to the session.
func (r *Registry) Do(ctx context.Context, id string, fn func(*Session) error) error {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return ErrUnknownSession
	}
	s.touch(r.opts.Now())
	defer func() { s.touch(r.opts.Now()) }()
	return fn(s)
}

// Evict drops the session. It reports whether the id was held.
func (r *Registry) Evict(ctx context.Context, id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.retire(ctx, s, "explicit")
	return true
}

// EvictIdle drops every session unused for longer than the TTL and returns
// how many were dropped. Sessions busy in Do are skipped.
func (r *Registry) EvictIdle(ctx context.Context) int {
	cutoff := r.opts.Now().Add(-r.opts.TTL).UnixNano()

	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.lastUsed.Load() >= cutoff {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		s.mu.Unlock()
		delete(r.sessions, id)
		idle = append(idle, s)
	}
	r.mu.Unlock()

	for _, s := range idle {
		r.retire(ctx, s, "idle")
	}
	return len(idle)
}

func (r *Registry) retire(ctx context.Context, s *Session, reason string) {
	s.mu.Lock()
	s.evicted = true
	s.mu.Unlock()
	r.opts.Metrics.SessionEvicted(reason)
	r.logger.InfoContext(ctx, "session evicted", "session_id", s.id, "reason", reason)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ctx); n > 0 {
				r.logger.DebugContext(ctx, "idle sweep", "evicted", n, "remaining", r.Len())
			}
		}
	}
}
