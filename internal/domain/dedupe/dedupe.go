// Package dedupe remembers the result of each idempotent report so a retried
// submission is answered without being applied twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 10_000

// Deduper maps report ids to the result they produced.
type Deduper[V any] interface {
	// Lookup returns the result recorded for id.
	Lookup(ctx context.Context, id string) (V, bool)

	// Record stores v for id unless id is already present, in which case the
	// original value is kept and false is returned.
	Record(ctx context.Context, id string, v V) bool

	Size() int64
}

type entry[V any] struct {
	id    string
	value V
}

// inMemoryDeduper keeps entries in insertion order and, when bounded, evicts
// the oldest once maxSize is reached. maxSize <= 0 means unbounded.
type inMemoryDeduper[V any] struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper[V any](opts ...Option) Deduper[V] {
	cfg := options{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &inMemoryDeduper[V]{
		seen:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: cfg.maxSize,
	}
}

func (d *inMemoryDeduper[V]) Lookup(_ context.Context, id string) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[id]; ok {
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

func (d *inMemoryDeduper[V]) Record(_ context.Context, id string, v V) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return false
	}
	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
	}
	d.seen[id] = d.order.PushBack(&entry[V]{id: id, value: v})
	return true
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper[V]) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.seen, front.Value.(*entry[V]).id)
}

func (d *inMemoryDeduper[V]) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
