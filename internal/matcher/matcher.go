// Package matcher resolves free-form input text to a flow node by keyword.
package matcher

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/avasarlabs/santosh/pkg/domain"
)

// DefaultThreshold is the minimum similarity score a fuzzy candidate must
// reach to be accepted.
const DefaultThreshold = 0.6

// Matcher performs exact-then-fuzzy keyword matching against a flow.
type Matcher struct {
	threshold float64
}

// Option configures the Matcher.
type Option func(*Matcher)

// WithThreshold overrides the fuzzy acceptance threshold.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		m.threshold = t
	}
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match resolves text against the flow's keywords.
//
// Nodes with an empty keyword are never candidates. A case-insensitive exact
// match wins immediately (first in flow order). Otherwise the candidate with
// the highest normalized Levenshtein similarity wins, provided its score
// reaches the threshold; ties resolve to the first candidate in flow order.
// Empty or whitespace-only input never matches.
func (m *Matcher) Match(flow domain.Flow, text string) (*domain.FlowNode, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	// Exact pass first: an exact keyword always beats any fuzzy candidate.
	for i := range flow {
		if flow[i].Keyword == "" {
			continue
		}
		if strings.EqualFold(text, flow[i].Keyword) {
			return &flow[i], true
		}
	}

	var best *domain.FlowNode
	var bestScore float64
	params := levenshtein.NewParams()
	for i := range flow {
		if flow[i].Keyword == "" {
			continue
		}
		score := levenshtein.Similarity(strings.ToLower(text), strings.ToLower(flow[i].Keyword), params)
		// Strictly greater keeps the first-in-flow-order candidate on ties.
		if score > bestScore {
			bestScore = score
			best = &flow[i]
		}
	}

	if best == nil || bestScore < m.threshold {
		return nil, false
	}
	return best, true
}
