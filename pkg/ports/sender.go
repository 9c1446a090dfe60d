package ports

import (
	"context"

	"github.com/avasarlabs/santosh/pkg/domain"
)

// Sender defines how replies are transmitted to a user.
// The relay resolves a Reply and hands it off; the host implements this
// interface against the messaging platform's send API.
type Sender interface {
	Send(ctx context.Context, to string, reply domain.Reply) error
}
