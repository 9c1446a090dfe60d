package ports

import "context"

// Generator is the generative fallback consulted when no node matches the
// inbound text. An empty answer or an error both mean "no answer"; the
// caller then falls through to the static fallback node. One call per
// unmatched message, no retry.
type Generator interface {
	Reply(ctx context.Context, text string) (string, error)
}
