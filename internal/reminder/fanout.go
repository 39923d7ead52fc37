package reminder

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"wasel/internal/queue"
	"wasel/internal/storage"
	"wasel/internal/transport"
)

// Enqueuer is the slice of the delivery queue the fan-out needs.
type Enqueuer interface {
	Enqueue(it queue.Item) error
}

// TargetFilter narrows a fan-out to a recipient kind.
type TargetFilter string

const (
	TargetAll         TargetFilter = "all"
	TargetIndividuals TargetFilter = "individuals"
	TargetGroups      TargetFilter = "groups"
)

// Fanout expands one composed message into queued deliveries, one per
// enabled recipient, falling back to the tenant owner when the filtered
// recipient list is empty.
type Fanout struct {
	store *storage.Store
	q     Enqueuer
	log   zerolog.Logger
}

func NewFanout(store *storage.Store, q Enqueuer, log zerolog.Logger) *Fanout {
	return &Fanout{store: store, q: q, log: log}
}

// Send queues the message and returns how many deliveries were
// accepted. Zero with a nil error means there was nobody to send to or
// the queue rejected everything.
func (f *Fanout) Send(ctx context.Context, cfg storage.TenantConfig, body string, kind transport.Kind, opt transport.Options, filter TargetFilter) (int, error) {
	if strings.TrimSpace(body) == "" && opt.MediaURL == "" {
		return 0, nil
	}

	recipients, err := f.store.Recipients(ctx, cfg.ID)
	if err != nil {
		return 0, err
	}

	var targets []string
	for _, rec := range recipients {
		if !rec.Enabled || strings.TrimSpace(rec.Address) == "" {
			continue
		}
		switch filter {
		case TargetIndividuals:
			if rec.Kind != "individual" {
				continue
			}
		case TargetGroups:
			if rec.Kind != "group" {
				continue
			}
		}
		targets = append(targets, rec.Address)
	}
	if len(targets) == 0 && cfg.OwnerAddress != "" {
		targets = append(targets, cfg.OwnerAddress)
	}

	queued := 0
	for _, addr := range targets {
		it := queue.Item{
			SessionID: cfg.SessionID,
			Address:   addr,
			Body:      body,
			Kind:      kind,
			Options:   opt,
		}
		if err := f.q.Enqueue(it); err != nil {
			f.log.Warn().Err(err).Str("config", cfg.ID).Str("address", addr).Msg("fanout enqueue failed")
			continue
		}
		queued++
	}
	return queued, nil
}

// SendToOwner queues a message to the tenant owner only.
func (f *Fanout) SendToOwner(cfg storage.TenantConfig, body string, kind transport.Kind, opt transport.Options) (int, error) {
	if cfg.OwnerAddress == "" {
		return 0, nil
	}
	it := queue.Item{
		SessionID: cfg.SessionID,
		Address:   cfg.OwnerAddress,
		Body:      body,
		Kind:      kind,
		Options:   opt,
	}
	if err := f.q.Enqueue(it); err != nil {
		return 0, err
	}
	return 1, nil
}
