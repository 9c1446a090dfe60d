// Package sheet implements ports.FlowSource against a published spreadsheet
// CSV export fetched over HTTP.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avasarlabs/santosh/pkg/domain"
)

// Source fetches and parses the flow table from a CSV export URL.
type Source struct {
	url    string
	client *http.Client
}

// Option configures the Source.
type Option func(*Source)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.client = c
	}
}

// New creates a Source for the given CSV export URL.
func New(url string, opts ...Option) *Source {
	s := &Source{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements ports.FlowSource. It downloads the CSV, maps each row to
// one node, and returns domain.ErrEmptyFlow when no usable rows remain.
func (s *Source) Fetch(ctx context.Context) (domain.Flow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building flow request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching flow source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching flow source: unexpected status %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse reads header-having CSV and builds the flow. Exported separately so
// tests (and offline tooling) can parse without an HTTP round-trip.
func Parse(r io.Reader) (domain.Flow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated; missing cells read as empty

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing flow csv: %w", err)
	}
	if len(records) < 2 {
		return nil, domain.ErrEmptyFlow
	}

	// Header names are trimmed; lookups go through the index so column
	// order in the sheet is free.
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var flow domain.Flow
	for _, row := range records[1:] {
		node := domain.FlowNode{
			NodeID:   cell(row, "node_id"),
			Type:     cell(row, "type"),
			Text:     cell(row, "text"),
			Keyword:  cell(row, "keyword"),
			MediaURL: cell(row, "media_url"),
		}
		if node.NodeID == "" {
			continue
		}

		for n := 1; n <= domain.MaxCTAs; n++ {
			label := cell(row, fmt.Sprintf("cta%d", n))
			// The id column has two historical spellings; first non-empty wins.
			id := cell(row, fmt.Sprintf("cta%d_id", n))
			if id == "" {
				id = cell(row, fmt.Sprintf("cta%d_payload", n))
			}
			if label == "" || id == "" {
				continue
			}
			node.CTAs = append(node.CTAs, domain.CallToAction{
				Text:   label,
				ID:     id,
				NextID: cell(row, fmt.Sprintf("cta%d_next_id", n)),
			})
		}

		flow = append(flow, node)
	}

	if len(flow) == 0 {
		return nil, domain.ErrEmptyFlow
	}
	return flow, nil
}
