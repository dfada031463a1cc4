package marketdata

import (
	"context"
	"sync"
)

// Lookups coordinates asynchronous per-field lookups with
// cancel-on-supersession semantics: dispatching a new lookup for a field
// cancels and invalidates any in-flight lookup for the same field. The last
// dispatched lookup wins, not the last one to resolve.
type Lookups struct {
	mu     sync.Mutex
	gen    map[string]uint64
	cancel map[string]context.CancelFunc
}

// NewLookups creates an empty lookup coordinator.
func NewLookups() *Lookups {
	return &Lookups{
		gen:    make(map[string]uint64),
		cancel: make(map[string]context.CancelFunc),
	}
}

// Begin registers a new lookup for the field, cancelling any in-flight one.
// It returns the context to run the lookup under and a current func: a
// completed lookup must discard its result when current reports false.
func (l *Lookups) Begin(ctx context.Context, field string) (context.Context, func() bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cancel, ok := l.cancel[field]; ok {
		cancel()
	}

	l.gen[field]++
	gen := l.gen[field]

	ctx, cancel := context.WithCancel(ctx)
	l.cancel[field] = cancel

	return ctx, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.gen[field] == gen
	}
}

// CancelAll aborts every in-flight lookup, invalidating their results.
func (l *Lookups) CancelAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for field, cancel := range l.cancel {
		cancel()
		delete(l.cancel, field)
		l.gen[field]++
	}
}
