package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flow-metrics/internal/jira"

	"github.com/rs/zerolog/log"
)

// ErrNotInitialized is returned when a refresh is attempted before the first load.
var ErrNotInitialized = errors.New("analytics engine not initialized")

// Engine owns the issue set of one Jira tenant and computes metrics over it.
// The set is replaced wholesale and never mutated in place.
type Engine struct {
	client jira.Client
	now    func() time.Time
	loc    *time.Location

	initMu      sync.Mutex
	initialized bool

	mu        sync.RWMutex
	issues    []jira.Issue
	fetchedAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for the cumulative flow window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone for calendar bucketing.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine creates an engine that loads issues through client.
func NewEngine(client jira.Client, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads the issue set. Subsequent calls after a successful load are no-ops.
func (e *Engine) Initialize(ctx context.Context) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initialized {
		return nil
	}
	if err := e.load(ctx); err != nil {
		return err
	}
	e.initialized = true
	return nil
}

// Refresh refetches the issue set. On failure the previous set is kept.
func (e *Engine) Refresh(ctx context.Context) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if !e.initialized {
		return ErrNotInitialized
	}
	return e.load(ctx)
}

func (e *Engine) load(ctx context.Context) error {
	start := time.Now()
	issues, err := e.client.FetchIssues(ctx)
	if err != nil {
		return fmt.Errorf("failed to load issues: %w", err)
	}

	e.mu.Lock()
	e.issues = issues
	e.fetchedAt = e.now()
	e.mu.Unlock()

	log.Info().Int("issues", len(issues)).Dur("elapsed", time.Since(start)).Msg("Analytics engine loaded issue set")
	return nil
}

// Issues returns the current issue set. Callers must not modify it.
func (e *Engine) Issues() []jira.Issue {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.issues
}

// FetchedAt returns when the current issue set was loaded.
func (e *Engine) FetchedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fetchedAt
}

// Loader returns a constructor that builds and initializes an engine per credentials tuple.
func Loader(cfg jira.Config, opts ...Option) func(ctx context.Context, creds jira.Credentials) (*Engine, error) {
	return func(ctx context.Context, creds jira.Credentials) (*Engine, error) {
		e := NewEngine(jira.NewClient(creds, cfg), opts...)
		if err := e.Initialize(ctx); err != nil {
			return nil, err
		}
		return e, nil
	}
}
