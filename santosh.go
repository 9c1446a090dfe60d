/*
Package santosh is a webhook relay for WhatsApp flows.

It resolves each inbound event to exactly one reply through a strict
priority chain (CTA resolution, keyword matching, generative fallback,
static default) against a periodically refreshed flow table, and
dispatches the result through the platform's send API.
*/
package santosh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avasarlabs/santosh/internal/flowstore"
	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/internal/responder"
	"github.com/avasarlabs/santosh/pkg/domain"
	"github.com/avasarlabs/santosh/pkg/ports"
)

// Inbound is one platform-neutral inbound event: free text, a CTA callback
// id, or both (the CTA always wins).
type Inbound struct {
	From      string
	MessageID string
	Text      string
	CTAID     string
}

// Relay wires the flow store, the responder chain, the sender and the
// conversation log into one message pipeline.
type Relay struct {
	store    *flowstore.Store
	selector *responder.Selector
	sender   ports.Sender
	log      ports.MessageLog
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Relay.
type Option func(*Relay)

// WithMessageLog enables conversation logging. Logging is best-effort and
// never fails a message.
func WithMessageLog(log ports.MessageLog) Option {
	return func(r *Relay) {
		r.log = log
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// New creates a Relay. The selector is built by the caller so generator and
// matcher options stay in one place.
func New(store *flowstore.Store, selector *responder.Selector, sender ports.Sender, opts ...Option) *Relay {
	r := &Relay{
		store:    store,
		selector: selector,
		sender:   sender,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying flow store.
func (r *Relay) Store() *flowstore.Store {
	return r.store
}

// Handle runs one inbound event to completion: select, dispatch, record.
// It never panics outward: a panic in the pipeline is caught, a best-effort
// courtesy fallback is sent (its own failure swallowed), and the panic is
// reported as an error. Failures here are isolated to this message; the
// webhook acknowledgment has already gone out.
func (r *Relay) Handle(ctx context.Context, in Inbound) (path responder.Path, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("message processing panicked: %v", rec)
			r.logger.Error("message processing panicked",
				"err", rec,
				"from", in.From,
				"message_id", in.MessageID,
			)
			r.sendCourtesyFallback(ctx, in.From)
		}
	}()

	r.record(ctx, ports.Record{
		Contact:   in.From,
		Direction: ports.DirectionIn,
		Text:      in.Text,
		CTAID:     in.CTAID,
	})

	reply, path := r.selector.Select(ctx, in.CTAID, in.Text)

	if err := r.sender.Send(ctx, in.From, reply); err != nil {
		// Dispatch failures are logged, not retried.
		r.logger.Error("dispatch failed",
			"err", err,
			"from", in.From,
			"path", string(path),
		)
		return path, fmt.Errorf("dispatch failed: %w", err)
	}

	out := ports.Record{
		Contact:   in.From,
		Direction: ports.DirectionOut,
		Text:      reply.ReplyText(),
	}
	if node, ok := reply.(*domain.FlowNode); ok {
		out.NodeID = node.NodeID
	}
	r.record(ctx, out)

	return path, nil
}

// sendCourtesyFallback makes one attempt to keep the conversation alive
// after a processing failure. Its own failure is swallowed on purpose.
func (r *Relay) sendCourtesyFallback(ctx context.Context, to string) {
	flow := r.store.Current()
	fallback := flow.Fallback()
	if fallback == nil {
		fallback = &domain.DefaultFlow()[0]
	}
	if err := r.sender.Send(ctx, to, fallback); err != nil {
		r.logger.Debug("courtesy fallback send failed", "err", err, "to", to)
	}
}

func (r *Relay) record(ctx context.Context, rec ports.Record) {
	if r.log == nil {
		return
	}
	if err := r.log.Record(ctx, rec); err != nil {
		r.logger.Warn("message log write failed", "err", err)
	}
}
