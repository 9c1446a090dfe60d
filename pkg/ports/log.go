package ports

import (
	"context"
	"time"
)

// Direction of a logged message relative to the relay.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Record is one logged conversation event.
type Record struct {
	ID        string    `json:"id"`
	Contact   string    `json:"contact"`
	Direction string    `json:"direction"`
	Text      string    `json:"text"`
	CTAID     string    `json:"cta_id,omitempty"`
	NodeID    string    `json:"node_id,omitempty"`
	At        time.Time `json:"at"`
}

// MessageLog records the conversation for later inspection. Logging is
// best-effort: the relay never fails a message because its record could
// not be written.
type MessageLog interface {
	// Record appends one event to the contact's history.
	Record(ctx context.Context, rec Record) error

	// Recent returns up to n most recent events for a contact, newest first.
	Recent(ctx context.Context, contact string, n int) ([]Record, error)
}
