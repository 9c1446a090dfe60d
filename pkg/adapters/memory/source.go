// Package memory provides an in-memory FlowSource, mainly for tests.
package memory

import (
	"context"
	"sync"

	"github.com/avasarlabs/santosh/pkg/domain"
)

// Source implements ports.FlowSource from a static flow. The flow (and the
// error to fail with) can be swapped at runtime, which makes reload behavior
// easy to exercise in tests.
type Source struct {
	mu   sync.Mutex
	flow domain.Flow
	err  error
}

// NewSource creates a Source serving the given nodes.
func NewSource(nodes ...domain.FlowNode) *Source {
	return &Source{flow: domain.Flow(nodes)}
}

// SetFlow replaces the flow served by subsequent Fetch calls.
func (s *Source) SetFlow(flow domain.Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow = flow
	s.err = nil
}

// Fail makes subsequent Fetch calls return err.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Fetch implements ports.FlowSource.
func (s *Source) Fetch(ctx context.Context) (domain.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.flow) == 0 {
		return nil, domain.ErrEmptyFlow
	}
	// Copy so callers can never mutate the source's view.
	out := make(domain.Flow, len(s.flow))
	copy(out, s.flow)
	return out, nil
}
