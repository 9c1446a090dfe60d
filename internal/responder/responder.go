// Package responder resolves one inbound event to exactly one reply.
package responder

import (
	"context"
	"log/slog"

	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/internal/matcher"
	"github.com/avasarlabs/santosh/pkg/domain"
	"github.com/avasarlabs/santosh/pkg/ports"
)

// ResolveCTA scans the flow in order and returns the first node containing a
// CTA whose id equals ctaID, along with that CTA's next id (possibly empty).
// Case-sensitive exact match only; duplicate ids across nodes resolve
// first-wins in flow order.
func ResolveCTA(flow domain.Flow, ctaID string) (owner *domain.FlowNode, nextID string, ok bool) {
	for i := range flow {
		for _, cta := range flow[i].CTAs {
			if cta.ID == ctaID {
				return &flow[i], cta.NextID, true
			}
		}
	}
	return nil, "", false
}

// FlowProvider yields the flow snapshot a selection runs against.
type FlowProvider interface {
	Current() domain.Flow
}

// Selector orchestrates CTA resolution, keyword matching, the generative
// fallback and the static default, in strict priority order.
type Selector struct {
	flows     FlowProvider
	matcher   *matcher.Matcher
	generator ports.Generator
	logger    *slog.Logger
}

// Option configures the Selector.
type Option func(*Selector)

// WithGenerator enables the generative fallback step. Without it the
// selector goes straight from keyword miss to the fallback node.
func WithGenerator(g ports.Generator) Option {
	return func(s *Selector) {
		s.generator = g
	}
}

// WithMatcher overrides the default keyword matcher.
func WithMatcher(m *matcher.Matcher) Option {
	return func(s *Selector) {
		s.matcher = m
	}
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// NewSelector creates a Selector reading flows from the given provider.
func NewSelector(flows FlowProvider, opts ...Option) *Selector {
	s := &Selector{
		flows:   flows,
		matcher: matcher.New(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path identifies which step of the chain produced a reply.
type Path string

const (
	PathCTA       Path = "cta"
	PathKeyword   Path = "keyword"
	PathGenerated Path = "generated"
	PathFallback  Path = "fallback"
)

// Select produces exactly one reply for an inbound event, short-circuiting
// at the first step that yields one:
//
//  1. ctaID, when present, resolves against the flow; a resolvable next id
//     returns the target node, otherwise the CTA's owner node.
//  2. text, when present, runs through the keyword matcher.
//  3. On a total miss the generative fallback is consulted; a non-empty
//     answer is wrapped as an ad hoc reply with no CTAs and no media.
//  4. Failing all of that, the flow's fallback node (or the built-in
//     default) is returned.
//
// Every step completes before the next is attempted; nothing races. The
// whole selection runs against one flow snapshot, so a reload mid-selection
// cannot tear the result.
func (s *Selector) Select(ctx context.Context, ctaID, text string) (domain.Reply, Path) {
	flow := s.flows.Current()

	if ctaID != "" {
		if owner, nextID, ok := ResolveCTA(flow, ctaID); ok {
			if nextID != "" {
				if next, found := flow.FindNode(nextID); found {
					return next, PathCTA
				}
				s.logger.Warn("cta next node missing, replying with owner",
					"cta_id", ctaID,
					"next_id", nextID,
				)
			}
			return owner, PathCTA
		}
		s.logger.Debug("cta id not found in flow", "cta_id", ctaID)
	}

	if text != "" {
		if node, ok := s.matcher.Match(flow, text); ok {
			return node, PathKeyword
		}

		if s.generator != nil {
			answer, err := s.generator.Reply(ctx, text)
			if err != nil {
				// A generator failure is just "no answer".
				s.logger.Warn("generative fallback failed", "err", err)
			} else if answer != "" {
				return domain.AdHocReply{Text: answer}, PathGenerated
			}
		}
	}

	if fb := flow.Fallback(); fb != nil {
		return fb, PathFallback
	}
	return &domain.DefaultFlow()[0], PathFallback
}
