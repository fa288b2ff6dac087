// Package app provides the main application logic for the Mudra hand
// analysis service: it owns the store and the registry of analysis
// sessions, resolves calibration profiles into pipeline options, and fires
// zone hooks on session transitions.
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/zone"
)

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store
	// Defaults seeds sessions created without a profile or inline
	// options; the zero value means pipeline.DefaultOptions.
	Defaults *pipeline.Options
	// HookTimeout bounds zone hook execution.
	HookTimeout time.Duration
}

// App owns the analysis sessions for one service instance.
type App struct {
	config   Config
	defaults pipeline.Options
	exec     *hook.Executor
	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	defaults := pipeline.DefaultOptions()
	if config.Defaults != nil {
		defaults = *config.Defaults
	}

	return &App{
		config:   config,
		defaults: defaults,
		exec:     hook.NewExecutor(config.HookTimeout),
		sessions: make(map[string]*Session),
	}
}

// CreateSession opens a new analysis session for one stream. Options are
// resolved in precedence order: inline options, then the named profile,
// then the stored active profile, then the app defaults.
func (a *App) CreateSession(opts *pipeline.Options, profileName string) (*Session, error) {
	resolved, err := a.resolveOptions(opts, profileName)
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	s := newSession(a, uuid.New().String(), resolved)

	a.mu.Lock()
	a.sessions[s.ID] = s
	n := len(a.sessions)
	a.mu.Unlock()

	metrics.SetActiveSessions(n)
	log.Printf("Session %s opened", s.ID)
	return s, nil
}

// resolveOptions layers profile JSON over the app defaults.
func (a *App) resolveOptions(opts *pipeline.Options, profileName string) (pipeline.Options, error) {
	if opts != nil {
		return *opts, nil
	}

	resolved := a.defaults
	if a.config.Store == nil {
		return resolved, nil
	}

	name := profileName
	if name == "" {
		active, err := a.config.Store.Settings().Get(store.ActiveProfileKey)
		if err != nil {
			// No active profile configured is the normal case.
			return resolved, nil
		}
		name = active
	}

	p, err := a.config.Store.Profiles().GetByName(name)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("resolve profile %q: %w", name, err)
	}
	if err := json.Unmarshal(p.Options, &resolved); err != nil {
		return pipeline.Options{}, fmt.Errorf("profile %q options: %w", name, err)
	}
	return resolved, nil
}

// Session returns a session by ID.
func (a *App) Session(id string) (*Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[id]
	return s, ok
}

// Sessions returns all open sessions.
func (a *App) Sessions() []*Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		out = append(out, s)
	}
	return out
}

// CloseSession tears down one session and its tracker.
func (a *App) CloseSession(id string) error {
	a.mu.Lock()
	s, ok := a.sessions[id]
	if ok {
		delete(a.sessions, id)
	}
	n := len(a.sessions)
	a.mu.Unlock()

	if !ok {
		return store.ErrNotFound
	}

	s.close()
	metrics.SetActiveSessions(n)
	log.Printf("Session %s closed", id)
	return nil
}

// Close tears down all sessions.
func (a *App) Close() {
	a.mu.Lock()
	sessions := a.sessions
	a.sessions = make(map[string]*Session)
	a.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	metrics.SetActiveSessions(0)
}

// Store returns the backing store.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// fireHooks runs every enabled hook bound to the session's new zone. Hook
// failures are logged and counted, never propagated into the frame loop.
func (a *App) fireHooks(z zone.Zone, res *pipeline.Result) {
	if a.config.Store == nil {
		return
	}

	hooks, err := a.config.Store.Hooks().ListEnabledByZone(string(z))
	if err != nil {
		log.Printf("Failed to list hooks for zone %s: %v", z, err)
		return
	}

	for _, h := range hooks {
		var cfg hook.Config
		if len(h.Config) > 0 {
			if err := json.Unmarshal(h.Config, &cfg); err != nil {
				log.Printf("Hook %s has malformed config: %v", h.ID, err)
				metrics.HookFailed()
				continue
			}
		}

		go func(h *store.Hook, cfg hook.Config) {
			err := a.exec.Run(hook.Invocation{
				Command: h.Command,
				Config:  cfg,
				Payload: res,
			})
			if err != nil {
				log.Printf("Hook %s failed: %v", h.ID, err)
				metrics.HookFailed()
			}
		}(h, cfg)
	}
}

// refreshTrackGauge republishes the live track count across all sessions.
func (a *App) refreshTrackGauge() {
	a.mu.RLock()
	total := 0
	for _, s := range a.sessions {
		total += s.TrackCount()
	}
	a.mu.RUnlock()

	metrics.SetActiveTracks(total)
}
