// Package redis implements ports.MessageLog on Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avasarlabs/santosh/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// maxPerContact caps how much history one contact's list retains.
const maxPerContact = 500

// Log implements ports.MessageLog using a per-contact list plus a contact
// index (ZSET) that is pruned lazily.
type Log struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Log.
type Option func(*Log)

// WithTTL sets the expiration for per-contact histories.
func WithTTL(ttl time.Duration) Option {
	return func(l *Log) {
		l.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(l *Log) {
		l.prefix = prefix
	}
}

// New creates a Log with its own client.
func New(address, password string, db int, opts ...Option) *Log {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Log from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Log {
	l := &Log{
		client: client,
		prefix: "santosh:log:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) key(contact string) string {
	return l.prefix + contact
}

func (l *Log) indexKey() string {
	return l.prefix + "contacts"
}

// Record implements ports.MessageLog. It fills in the id and timestamp when
// the caller left them empty.
func (l *Log) Record(ctx context.Context, rec ports.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := l.client.Pipeline()

	// Newest first; trim keeps the history bounded.
	pipe.LPush(ctx, l.key(rec.Contact), data)
	pipe.LTrim(ctx, l.key(rec.Contact), 0, maxPerContact-1)
	if l.ttl > 0 {
		pipe.Expire(ctx, l.key(rec.Contact), l.ttl)
	}

	// Contact index. Score = Now + TTL; infinite histories score far-future.
	score := float64(rec.At.Add(l.ttl).Unix())
	if l.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, l.indexKey(), backend.Z{
		Score:  score,
		Member: rec.Contact,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	return nil
}

// Recent implements ports.MessageLog, returning up to n records newest first.
func (l *Log) Recent(ctx context.Context, contact string, n int) ([]ports.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	raw, err := l.client.LRange(ctx, l.key(contact), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records := make([]ports.Record, 0, len(raw))
	for _, item := range raw {
		var rec ports.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Contacts returns contacts with retained history, pruning expired entries
// from the index lazily.
func (l *Log) Contacts(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := l.client.ZRemRangeByScore(ctx, l.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune contact index: %w", err)
	}

	contacts, err := l.client.ZRange(ctx, l.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Close closes the redis client.
func (l *Log) Close() error {
	return l.client.Close()
}
