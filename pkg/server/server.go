// Package server exposes viewer sessions over an HTTP API.
//
// Each session is a [session.Session] held in memory and guarded by its own mutex,
// so requests to one session are serialized while different sessions proceed in
// parallel. The raw input and detail setting of every session are persisted in a
// [session.Store]; a session missing from memory (after a restart, or on another
// instance) is rebuilt from its record and laid out again.
//
// Routes are mounted under /api/v1:
//
//	POST   /sessions                     create from input JSON
//	GET    /sessions/{id}                summary, attributes and current frame
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/input          input as received
//	PUT    /sessions/{id}/input          replace the graph (kept on failure)
//	GET    /sessions/{id}/frame          current frame
//	POST   /sessions/{id}/frames?dt=&n=  advance the clock
//	POST   /sessions/{id}/toggle         flip detail visibility
//	POST   /sessions/{id}/select/{node}  select a node
//	DELETE /sessions/{id}/select
//	GET    /sessions/{id}/selection
//	POST   /sessions/{id}/drag/{node}    {"phase":"start|move|end","x":..,"y":..}
//	GET    /sessions/{id}/hover/{node}   tooltip
//	GET    /sessions/{id}/render         svg, dot, png or pdf of the current frame
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/session"
)

// DefaultMaxBody bounds request bodies.
const DefaultMaxBody = 32 << 20

// Server serves the session API.
type Server struct {
	store    session.Store
	ttl      time.Duration
	maxBody  int64
	logger   *log.Logger
	sessOpts []session.Option
	cache    cache.Cache
	keyer    cache.Keyer
	cacheTTL time.Duration

	mu   sync.Mutex
	live map[string]*entry

	router chi.Router
}

type entry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastUsed time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTTL sets how long idle sessions are kept.
func WithTTL(ttl time.Duration) Option { return func(s *Server) { s.ttl = ttl } }

// WithMaxBody bounds request bodies.
func WithMaxBody(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithSessionOptions passes options to every session the server creates or restores.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) { s.sessOpts = append(s.sessOpts, opts...) }
}

// WithCache caches rendered artifacts.
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(s *Server) { s.cache, s.keyer, s.cacheTTL = c, keyer, ttl }
}

// New returns a Server persisting sessions in st.
func New(st session.Store, opts ...Option) *Server {
	s := &Server{
		store:   st,
		ttl:     session.DefaultTTL,
		maxBody: DefaultMaxBody,
		live:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/samples", s.handleSamples)
		r.Get("/samples/{name}", s.handleSample)

		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGet))
			r.Delete("/", s.handleDelete)
			r.Get("/input", s.withSession(s.handleGetInput))
			r.Put("/input", s.withSession(s.handlePutInput))
			r.Get("/frame", s.withSession(s.handleFrame))
			r.Post("/frames", s.withSession(s.handleAdvance))
			r.Post("/toggle", s.withSession(s.handleToggle))
			r.Post("/select/{node}", s.withSession(s.handleSelect))
			r.Delete("/select", s.withSession(s.handleDeselect))
			r.Get("/selection", s.withSession(s.handleSelection))
			r.Post("/drag/{node}", s.withSession(s.handleDrag))
			r.Get("/hover/{node}", s.withSession(s.handleHover))
			r.Delete("/hover", s.withSession(s.handleUnhover))
			r.Get("/render", s.withSession(s.handleRender))
		})
	})
	return r
}

// lookup returns the live session id, restoring it from the store when needed.
func (s *Server) lookup(ctx context.Context, id string) (*entry, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	e, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess, err := session.Restore(ctx, rec, s.sessionOptions()...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "restore session %s", id)
	}
	s.logger.Info("session restored", "id", id)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have restored it first.
	if existing, ok := s.live[id]; ok {
		sess.Close()
		return existing, nil
	}
	e = &entry{sess: sess, lastUsed: time.Now()}
	s.live[id] = e
	return e, nil
}

func (s *Server) sessionOptions() []session.Option {
	return append([]session.Option{session.WithLogger(s.logger)}, s.sessOpts...)
}

// persist writes the session record with a fresh TTL.
func (s *Server) persist(ctx context.Context, sess *session.Session) error {
	rec, err := sess.Record(s.ttl)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, rec)
}

// Sweep drops in-memory sessions idle for longer than the TTL and removes expired
// records from the store. It returns the number of sessions dropped.
func (s *Server) Sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	var idle []*entry
	for id, e := range s.live {
		e.mu.Lock()
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e)
			delete(s.live, id)
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	for _, e := range idle {
		e.sess.Close()
	}
	if err := s.store.Cleanup(ctx); err != nil {
		s.logger.Warn("store cleanup failed", "err", err)
	}
	return len(idle)
}

// Live returns the number of sessions held in memory.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle sessions are swept every sweepEvery.
func (s *Server) ListenAndServe(ctx context.Context, addr string, sweepEvery time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	var tick <-chan time.Time
	if sweepEvery > 0 {
		t := time.NewTicker(sweepEvery)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case err := <-errCh:
			if stderrors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-tick:
			if n := s.Sweep(ctx); n > 0 {
				s.logger.Debug("swept idle sessions", "count", n)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		}
	}
}
