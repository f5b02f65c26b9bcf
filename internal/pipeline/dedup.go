package pipeline

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryDeduper is the in-process Deduper used when Redis is not configured.
// Marks expire after ttl and the oldest are evicted beyond maxEntries.
type MemoryDeduper struct {
	seen *expirable.LRU[string, struct{}]
}

// NewMemoryDeduper creates a MemoryDeduper.
func NewMemoryDeduper(maxEntries int, ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{seen: expirable.NewLRU[string, struct{}](maxEntries, nil, ttl)}
}

func (d *MemoryDeduper) Unseen(_ context.Context, ids []string) ([]string, error) {
	unseen := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := d.seen.Get(id); ok {
			continue
		}
		unseen = append(unseen, id)
	}
	return unseen, nil
}

func (d *MemoryDeduper) MarkSeen(_ context.Context, ids []string) error {
	for _, id := range ids {
		d.seen.Add(id, struct{}{})
	}
	return nil
}
