// Package events delivers the records of committed calls to their subscribers.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
)

type Publisher interface {
	Publish(ctx context.Context, records []types.EventRecord) error
}

// Feed is a publisher that can replay what it published, newest first.
type Feed interface {
	Publisher
	Latest(ctx context.Context, limit int) ([]types.EventRecord, error)
}

// NewRecord wraps ev for publication at block.
func NewRecord(block types.BlockNumber, ev types.Event) types.EventRecord {
	return types.EventRecord{Name: ev.EventName(), Block: block, Data: ev}
}

type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(ctx context.Context, records []types.EventRecord) error {
	for _, r := range records {
		p.logger.Info("Event", zap.String("name", r.Name), zap.Uint64("block", uint64(r.Block)), zap.Any("data", r.Data))
	}
	return nil
}

type multi []Publisher

// Multi publishes to every publisher and returns the first error after trying all of them.
func Multi(publishers ...Publisher) Publisher {
	var m multi
	for _, p := range publishers {
		if p != nil {
			m = append(m, p)
		}
	}
	return m
}

func (m multi) Publish(ctx context.Context, records []types.EventRecord) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, records); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Ring keeps the last size records in memory.
type Ring struct {
	mu      sync.RWMutex
	records []types.EventRecord
	next    int
	full    bool
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1
	}
	return &Ring{records: make([]types.EventRecord, size)}
}

func (r *Ring) Publish(ctx context.Context, records []types.EventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.records[r.next] = rec
		r.next = (r.next + 1) % len(r.records)
		if r.next == 0 {
			r.full = true
		}
	}
	return nil
}

func (r *Ring) Latest(ctx context.Context, limit int) ([]types.EventRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := r.next
	if r.full {
		n = len(r.records)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]types.EventRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.records)) % len(r.records)
		out = append(out, r.records[idx])
	}
	return out, nil
}
