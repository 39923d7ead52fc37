// Package queue serializes outbound deliveries through a single
// rate-limited consumer so bursts from the scheduler cannot flood the
// messaging provider.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wasel/internal/transport"
)

var ErrQueueFull = errors.New("delivery queue is full")

type Config struct {
	Size       int
	RatePerSec float64
}

// Item is one queued delivery. Items are dispatched strictly in
// enqueue order; a failed item is logged and dropped, never requeued.
type Item struct {
	SessionID  string
	Address    string
	Body       string
	Kind       transport.Kind
	Options    transport.Options
	EnqueuedAt time.Time
}

type Service struct {
	mu sync.Mutex

	cfg Config
	tr  transport.Transport
	log zerolog.Logger

	limiter *rate.Limiter
	items   chan Item
	stopCh  chan struct{}
	done    chan struct{}
}

func New(cfg Config, tr transport.Transport, log zerolog.Logger) *Service {
	if cfg.Size <= 0 {
		cfg.Size = 256
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	return &Service{cfg: cfg, tr: tr, log: log}
}

// Apply updates the dispatch rate without draining the queue.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.RatePerSec > 0 {
		s.cfg.RatePerSec = cfg.RatePerSec
		if s.limiter != nil {
			s.limiter.SetLimit(rate.Limit(cfg.RatePerSec))
		}
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(s.cfg.RatePerSec), 1)
	s.items = make(chan Item, s.cfg.Size)
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.consume(ctx)
	s.log.Info().Int("size", s.cfg.Size).Float64("rps", s.cfg.RatePerSec).Msg("delivery queue started")
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	s.log.Info().Msg("delivery queue stopped")
}

// Enqueue adds an item without blocking. A full queue rejects the item
// so a slow provider cannot stall the scheduler tick.
func (s *Service) Enqueue(it Item) error {
	s.mu.Lock()
	ch := s.items
	s.mu.Unlock()
	if ch == nil {
		return errors.New("delivery queue not started")
	}
	if it.EnqueuedAt.IsZero() {
		it.EnqueuedAt = time.Now()
	}
	select {
	case ch <- it:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of items waiting for dispatch.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		return 0
	}
	return len(s.items)
}

func (s *Service) consume(ctx context.Context) {
	defer close(s.done)
	for {
		s.mu.Lock()
		stopCh, ch := s.stopCh, s.items
		s.mu.Unlock()
		if stopCh == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case it := <-ch:
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			s.dispatch(ctx, it)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, it Item) {
	err := s.tr.Dispatch(ctx, it.SessionID, it.Address, it.Body, it.Kind, it.Options)
	if err != nil {
		s.log.Error().Err(err).
			Str("session", it.SessionID).
			Str("address", it.Address).
			Str("kind", string(it.Kind)).
			Msg("delivery failed, dropping item")
		return
	}
	s.log.Debug().
		Str("address", it.Address).
		Dur("queued", time.Since(it.EnqueuedAt)).
		Msg("delivered")
}
