package alert

import (
	"context"
	"sync"
	"time"
)

// MemoryDedup suppresses repeat alerts for the same opportunity inside a
// time-to-live window. It backs the scanner when Redis is not configured and
// is safe for concurrent use. A background loop sweeps expired entries every
// TTL so the map stays bounded over long runs; call Close on shutdown.
type MemoryDedup struct {
	seen map[string]time.Time // alert ID -> last alerted time
	ttl  time.Duration
	mu   sync.Mutex

	stop chan struct{}
	once sync.Once
}

// NewMemoryDedup creates a MemoryDedup with the given suppression window and
// starts its sweep loop.
func NewMemoryDedup(ttl time.Duration) *MemoryDedup {
	d := &MemoryDedup{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	if ttl > 0 {
		go d.sweep()
	}
	return d
}

// MarkSeen records an alert ID and reports whether it was new. An ID seen
// within the TTL window returns false; expired entries count as new again.
func (d *MemoryDedup) MarkSeen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if last, ok := d.seen[id]; ok && now.Sub(last) < d.ttl {
		return false, nil
	}
	d.seen[id] = now
	return true, nil
}

// Cleanup removes expired entries.
func (d *MemoryDedup) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, ts := range d.seen {
		if now.Sub(ts) >= d.ttl {
			delete(d.seen, id)
		}
	}
}

// Close stops the sweep loop. Safe to call more than once.
func (d *MemoryDedup) Close() {
	d.once.Do(func() { close(d.stop) })
}

func (d *MemoryDedup) sweep() {
	ticker := time.NewTicker(d.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.Cleanup()
		case <-d.stop:
			return
		}
	}
}
