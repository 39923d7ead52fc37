package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"wasel/internal/transport"
	"wasel/pkg/logx"
)

type fakeTransport struct {
	mu        sync.Mutex
	delivered []Item
	fail      map[string]bool
}

func (f *fakeTransport) IsReady(string) bool { return true }

func (f *fakeTransport) Dispatch(_ context.Context, sessionID, address, body string, kind transport.Kind, opt transport.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[address] {
		return context.DeadlineExceeded
	}
	f.delivered = append(f.delivered, Item{SessionID: sessionID, Address: address, Body: body, Kind: kind, Options: opt})
	return nil
}

func (f *fakeTransport) snapshot() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.delivered))
	copy(out, f.delivered)
	return out
}

func waitDelivered(t *testing.T, f *fakeTransport, n int) []Item {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got := f.snapshot()
		if len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries, got %d", n, len(f.snapshot()))
	return nil
}

func TestQueuePreservesOrder(t *testing.T) {
	t.Parallel()
	ft := &fakeTransport{}
	s := New(Config{Size: 16, RatePerSec: 1000}, ft, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	bodies := []string{"one", "two", "three", "four"}
	for _, b := range bodies {
		if err := s.Enqueue(Item{SessionID: "s1", Address: "100", Body: b, Kind: transport.KindText}); err != nil {
			t.Fatalf("enqueue %q: %v", b, err)
		}
	}
	got := waitDelivered(t, ft, len(bodies))
	for i, b := range bodies {
		if got[i].Body != b {
			t.Fatalf("delivery %d = %q, want %q", i, got[i].Body, b)
		}
	}
}

func TestQueueRejectsWhenFull(t *testing.T) {
	t.Parallel()
	ft := &fakeTransport{}
	s := New(Config{Size: 2, RatePerSec: 0.01}, ft, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	var full bool
	for i := 0; i < 10; i++ {
		if err := s.Enqueue(Item{Address: "100", Body: "x"}); err == ErrQueueFull {
			full = true
			break
		}
	}
	if !full {
		t.Fatal("expected ErrQueueFull once capacity is exceeded")
	}
}

func TestQueueDropsFailedItem(t *testing.T) {
	t.Parallel()
	ft := &fakeTransport{fail: map[string]bool{"bad": true}}
	s := New(Config{Size: 16, RatePerSec: 1000}, ft, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	if err := s.Enqueue(Item{Address: "bad", Body: "lost"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Enqueue(Item{Address: "good", Body: "kept"}); err != nil {
		t.Fatal(err)
	}
	got := waitDelivered(t, ft, 1)
	if got[0].Address != "good" {
		t.Fatalf("delivered %q, want the item after the failure", got[0].Address)
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	t.Parallel()
	s := New(Config{}, &fakeTransport{}, logx.Nop())
	if err := s.Enqueue(Item{Address: "100"}); err == nil {
		t.Fatal("expected error when queue not started")
	}
}
