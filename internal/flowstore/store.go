// Package flowstore holds the process-wide flow snapshot and keeps it fresh.
package flowstore

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/pkg/domain"
	"github.com/avasarlabs/santosh/pkg/ports"
)

// snapshot is published atomically as one unit so readers never observe a
// flow without its metadata (or a torn value mid-swap).
type snapshot struct {
	flow       domain.Flow
	generation uint64
	loadedAt   time.Time
}

// Store publishes the current flow with last-good-value semantics: a failed
// reload never erases a previously good flow, and the built-in default is
// served only until the first successful load.
type Store struct {
	source ports.FlowSource
	logger *slog.Logger

	current atomic.Pointer[snapshot]
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for load outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store backed by the given source. Until the first successful
// Load, Current returns the built-in default flow.
func New(source ports.FlowSource, opts ...Option) *Store {
	s := &Store{
		source: source,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&snapshot{flow: domain.DefaultFlow()})
	return s
}

// Current returns the last successfully published flow. It never returns an
// empty flow and is safe for concurrent use without locking: snapshots are
// immutable once published.
func (s *Store) Current() domain.Flow {
	return s.current.Load().flow
}

// Generation returns the number of successful loads, and when the last one
// happened. Generation zero means the default flow is still in effect.
func (s *Store) Generation() (uint64, time.Time) {
	snap := s.current.Load()
	return snap.generation, snap.loadedAt
}

// Load fetches the source and atomically publishes the result. It never
// propagates source failures outward: on any fetch or parse error it logs
// the condition, leaves the published flow untouched, and returns the
// retained value.
func (s *Store) Load(ctx context.Context) domain.Flow {
	flow, err := s.source.Fetch(ctx)
	if err != nil {
		prev := s.current.Load()
		s.logger.Warn("flow load failed, keeping last-good flow",
			"err", err,
			"generation", prev.generation,
			"nodes", len(prev.flow),
		)
		return prev.flow
	}
	if len(flow) == 0 {
		// Sources should report this as ErrEmptyFlow, but guard anyway:
		// an empty flow must never be published.
		prev := s.current.Load()
		s.logger.Warn("flow load returned zero nodes, keeping last-good flow",
			"generation", prev.generation,
		)
		return prev.flow
	}

	prev := s.current.Load()
	next := &snapshot{
		flow:       flow,
		generation: prev.generation + 1,
		loadedAt:   time.Now(),
	}
	s.current.Store(next)
	s.logger.Info("flow published",
		"generation", next.generation,
		"nodes", len(flow),
	)
	return flow
}

// Run loads once eagerly, then reloads on a fixed interval until the context
// is cancelled. The interval floor is a configuration concern; Run ticks at
// whatever cadence it is given.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	s.Load(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Load(ctx)
		}
	}
}
