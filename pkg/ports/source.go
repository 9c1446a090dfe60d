package ports

import (
	"context"

	"github.com/avasarlabs/santosh/pkg/domain"
)

// FlowSource defines how the relay retrieves the flow table.
// This allows the storage layer (sheet export, memory) to be decoupled.
type FlowSource interface {
	// Fetch retrieves the full flow from the backing source.
	// It returns domain.ErrEmptyFlow when the source yields zero usable rows.
	Fetch(ctx context.Context) (domain.Flow, error)
}
