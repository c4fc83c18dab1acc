package alert

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryDedupMarkSeen(t *testing.T) {
	d := NewMemoryDedup(time.Hour)
	defer d.Close()
	ctx := context.Background()

	fresh, err := d.MarkSeen(ctx, "single_m1")
	if err != nil || !fresh {
		t.Fatalf("first MarkSeen = (%v, %v), want (true, nil)", fresh, err)
	}

	fresh, err = d.MarkSeen(ctx, "single_m1")
	if err != nil || fresh {
		t.Fatalf("second MarkSeen = (%v, %v), want (false, nil)", fresh, err)
	}

	fresh, _ = d.MarkSeen(ctx, "single_m2")
	if !fresh {
		t.Fatal("different ID reported as duplicate")
	}
}

func TestMemoryDedupExpiry(t *testing.T) {
	d := NewMemoryDedup(10 * time.Millisecond)
	defer d.Close()
	ctx := context.Background()

	d.MarkSeen(ctx, "x")
	time.Sleep(20 * time.Millisecond)

	fresh, _ := d.MarkSeen(ctx, "x")
	if !fresh {
		t.Fatal("expired entry still suppressing")
	}
}

func TestMemoryDedupCleanup(t *testing.T) {
	d := NewMemoryDedup(10 * time.Millisecond)
	defer d.Close()
	ctx := context.Background()

	d.MarkSeen(ctx, "a")
	d.MarkSeen(ctx, "b")
	time.Sleep(20 * time.Millisecond)
	d.Cleanup()

	d.mu.Lock()
	n := len(d.seen)
	d.mu.Unlock()
	if n != 0 {
		t.Fatalf("cleanup left %d entries", n)
	}
}

func TestMemoryDedupSweepsWithoutExplicitCleanup(t *testing.T) {
	d := NewMemoryDedup(10 * time.Millisecond)
	defer d.Close()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		d.MarkSeen(ctx, fmt.Sprintf("single_m%d", i))
	}

	// The background sweep alone must evict expired entries.
	deadline := time.Now().Add(2 * time.Second)
	for {
		d.mu.Lock()
		n := len(d.seen)
		d.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%d expired entries still held after deadline", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMemoryDedupCloseIdempotent(t *testing.T) {
	d := NewMemoryDedup(time.Hour)
	d.Close()
	d.Close()
}
