// Package app wires the process together: config, logging, storage,
// transport, the delivery queue and the reminder tick driver.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wasel/internal/config"
	"wasel/internal/content"
	"wasel/internal/prayer"
	"wasel/internal/queue"
	"wasel/internal/reminder"
	"wasel/internal/storage"
	"wasel/internal/transport/telegram"
	"wasel/pkg/logx"
)

type App struct {
	cfgPath string
	cfgm    *config.Manager

	log      zerolog.Logger
	closeLog func() error

	store    *storage.Store
	adapter  *telegram.Adapter
	q        *queue.Service
	refiller *content.HadithRefiller
	driver   *reminder.Driver

	mu        sync.Mutex
	stopWatch context.CancelFunc
	watchDone chan struct{}
	reloads   chan *config.Config
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logx.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	cfgm.SetLogger(logx.Component(log, "config"))

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		closeLog()
		return nil, err
	}
	store, err := storage.Open(sc, logx.Component(log, "storage"))
	if err != nil {
		closeLog()
		return nil, err
	}

	tc, err := mapTelegramConfig(cfg)
	if err != nil {
		store.Close()
		closeLog()
		return nil, err
	}
	adapter, err := telegram.New(tc, logx.Component(log, "telegram"))
	if err != nil {
		store.Close()
		closeLog()
		return nil, err
	}

	q := queue.New(mapQueueConfig(cfg), adapter, logx.Component(log, "queue"))

	external := content.NewExternalService(logx.Component(log, "content"))

	rc, err := mapRefillConfig(cfg)
	if err != nil {
		store.Close()
		closeLog()
		return nil, err
	}
	refiller := content.NewHadithRefiller(rc, store, logx.Component(log, "hadith"))

	prayers := prayer.NewProvider(store, prayer.NewAlAdhanCalculator(), logx.Component(log, "prayer"))
	resolver := reminder.NewResolver(store, external, logx.Component(log, "resolver"))
	fanout := reminder.NewFanout(store, q, logx.Component(log, "fanout"))
	evaluator := reminder.NewEvaluator(store, prayers, resolver, fanout, logx.Component(log, "evaluator"))
	driver := reminder.NewDriver(reminder.DriverConfig{Enabled: cfg.Ticker.Enabled}, evaluator, adapter, logx.Component(log, "driver"))

	return &App{
		cfgPath:  cfgPath,
		cfgm:     cfgm,
		log:      logx.Component(log, "app"),
		closeLog: closeLog,
		store:    store,
		adapter:  adapter,
		q:        q,
		refiller: refiller,
		driver:   driver,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	cfg := a.cfgm.Get()

	a.q.Start(ctx)

	if cfg.Content.SeedLibrary {
		if err := content.SeedLibrary(ctx, a.store, a.log); err != nil {
			a.log.Warn().Err(err).Msg("content seed failed")
		}
	}
	a.refiller.Start(ctx)

	if a.driver.Enabled() {
		if err := a.driver.Start(ctx); err != nil {
			return err
		}
	} else {
		a.log.Info().Msg("ticker disabled, reminders will not fire")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	reloads := a.cfgm.Subscribe(1)

	a.mu.Lock()
	a.stopWatch = cancel
	a.watchDone = done
	a.reloads = reloads
	a.mu.Unlock()

	go a.watchConfig(watchCtx, done, reloads)

	a.log.Info().Str("config", a.cfgPath).Msg("started")
	return nil
}

// watchConfig runs the file watcher and applies reloads to the live
// services. Only hot-applicable settings take effect; the rest need a
// restart. The channels are passed in so Stop can clear the struct
// fields without racing the loop.
func (a *App) watchConfig(ctx context.Context, done chan struct{}, reloads chan *config.Config) {
	defer close(done)

	go func() {
		if err := a.cfgm.Watch(ctx); err != nil {
			a.log.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-reloads:
			if !ok {
				return
			}
			a.apply(cfg)
		}
	}
}

func (a *App) apply(cfg *config.Config) {
	logx.SetLevel(cfg.Logging.Level)
	a.q.Apply(mapQueueConfig(cfg))
	a.log.Info().Msg("configuration applied")
}

func (a *App) Stop(ctx context.Context) {
	a.mu.Lock()
	cancel := a.stopWatch
	done := a.watchDone
	reloads := a.reloads
	a.stopWatch = nil
	a.watchDone = nil
	a.reloads = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	if reloads != nil {
		a.cfgm.Unsubscribe(reloads)
	}

	if a.driver != nil {
		a.driver.Stop(ctx)
	}
	if a.refiller != nil {
		a.refiller.Stop(ctx)
	}
	if a.q != nil {
		a.q.Stop(ctx)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("storage close failed")
		}
	}
	a.log.Info().Msg("stopped")
	if a.closeLog != nil {
		a.closeLog()
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{Path: cfg.Storage.Path, BusyTimeout: busy}, nil
}

func mapTelegramConfig(cfg *config.Config) (telegram.Config, error) {
	poll, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{Token: cfg.Telegram.Token, PollTimeout: poll}, nil
}

func mapQueueConfig(cfg *config.Config) queue.Config {
	return queue.Config{
		Size:       cfg.Queue.Size,
		RatePerSec: float64(cfg.Queue.RatePerSec),
	}
}

func mapRefillConfig(cfg *config.Config) (content.RefillConfig, error) {
	every, err := config.ParseDurationOrDefault("content.refill_every", cfg.Content.RefillEvery, 6*time.Hour)
	if err != nil {
		return content.RefillConfig{}, err
	}
	return content.RefillConfig{Floor: cfg.Content.RefillFloor, Every: every}, nil
}
