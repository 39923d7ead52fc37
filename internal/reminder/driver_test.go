package reminder

import (
	"context"
	"testing"
	"time"

	"wasel/internal/transport"
	"wasel/pkg/logx"
)

type fakeTransport struct {
	ready map[string]bool
}

func (f *fakeTransport) IsReady(sessionID string) bool { return f.ready[sessionID] }

func (f *fakeTransport) Dispatch(ctx context.Context, sessionID, address, body string, kind transport.Kind, opt transport.Options) error {
	return nil
}

// 05:00 UTC is 07:00 in the default tenant timezone (Africa/Cairo),
// which fires the morning slot.
var driverTick = time.Date(2026, 3, 3, 5, 0, 0, 0, time.UTC)

func TestTickSkipsUnreadyTransport(t *testing.T) {
	t.Parallel()
	h := newEvalHarness(t)
	ctx := context.Background()

	tr := &fakeTransport{ready: map[string]bool{}}
	d := NewDriver(DriverConfig{Enabled: true}, h.ev, tr, logx.Nop())

	d.Tick(ctx, driverTick)
	if got := len(h.queue.all()); got != 0 {
		t.Fatalf("unready transport queued %d items", got)
	}

	tr.ready["sess-1"] = true
	d.Tick(ctx, driverTick)
	items := h.queue.all()
	if len(items) != 1 {
		t.Fatalf("want 1 item after transport ready, got %d", len(items))
	}
	if items[0].Address != h.cfg.OwnerAddress {
		t.Fatalf("item addressed to %q, want owner %q", items[0].Address, h.cfg.OwnerAddress)
	}
}

func TestTickSkipsDisabledTenant(t *testing.T) {
	t.Parallel()
	h := newEvalHarness(t)
	ctx := context.Background()

	cfg := h.cfg
	cfg.Enabled = false
	if err := h.store.UpdateGeneralSettings(ctx, cfg.ID, cfg); err != nil {
		t.Fatalf("disable tenant: %v", err)
	}

	tr := &fakeTransport{ready: map[string]bool{"sess-1": true}}
	d := NewDriver(DriverConfig{Enabled: true}, h.ev, tr, logx.Nop())

	d.Tick(ctx, driverTick)
	if got := len(h.queue.all()); got != 0 {
		t.Fatalf("disabled tenant queued %d items", got)
	}
}
