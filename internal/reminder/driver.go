package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"wasel/internal/storage"
	"wasel/internal/transport"
)

type DriverConfig struct {
	Enabled bool
}

// Driver ticks once per wall-clock minute, loads the enabled tenant
// configs and evaluates each in its own timezone. A tenant that panics
// or errors never blocks the others.
type Driver struct {
	mu sync.Mutex

	cfg DriverConfig
	ev  *Evaluator
	tr  transport.Transport
	log zerolog.Logger

	c       *cron.Cron
	running bool
	tickMu  sync.Mutex
}

func NewDriver(cfg DriverConfig, ev *Evaluator, tr transport.Transport, log zerolog.Logger) *Driver {
	return &Driver{cfg: cfg, ev: ev, tr: tr, log: log}
}

func (d *Driver) Enabled() bool { return d.cfg.Enabled }

func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}
	d.c = cron.New()
	if _, err := d.c.AddFunc("* * * * *", func() { d.Tick(ctx, time.Now()) }); err != nil {
		return err
	}
	d.c.Start()
	d.running = true
	d.log.Info().Msg("tick driver started")
	return nil
}

func (d *Driver) Stop(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	stop := d.c.Stop()
	d.running = false
	select {
	case <-stop.Done():
	case <-ctx.Done():
	}
	d.log.Info().Msg("tick driver stopped")
}

// Tick evaluates every due tenant once. Overlapping ticks serialize;
// the lock is held for the duration because evaluation only enqueues
// and never waits on the network.
func (d *Driver) Tick(ctx context.Context, now time.Time) {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	configs, err := d.ev.store.ListDueConfigs(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("due config load failed")
		return
	}
	for _, cfg := range configs {
		if !d.tr.IsReady(cfg.SessionID) {
			d.log.Debug().Str("config", cfg.ID).Str("session", cfg.SessionID).Msg("transport not ready, tenant skipped")
			continue
		}
		d.evaluateOne(ctx, cfg, now)
	}
}

func (d *Driver) evaluateOne(ctx context.Context, cfg storage.TenantConfig, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("config", cfg.ID).Msg("tenant evaluation panicked")
		}
	}()
	local := now.In(tenantLocation(cfg.Timezone))
	d.ev.EvaluateTick(ctx, cfg, local)
}
