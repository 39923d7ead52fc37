package reminder

import (
	"context"
	"errors"
	"testing"

	"wasel/internal/content"
	"wasel/internal/storage"
)

func TestLocalHadithExhaustionSkipsOccurrence(t *testing.T) {
	t.Parallel()
	h := newEvalHarness(t)
	ctx := context.Background()

	id, err := h.store.AddContent(ctx, storage.ContentItem{
		Type:        content.CachedHadithType,
		Category:    "hadith",
		Body:        `قال رسول الله ﷺ: "إنما الأعمال بالنيات"`,
		Attribution: "صحيح البخاري - 1",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("add content: %v", err)
	}

	// Every pool entry already used today: the retries exhaust and the
	// occurrence is skipped, to be retried at the same slot tomorrow.
	anti := newAntiRepeat([]storage.ScheduleLogEntry{{ContentID: id}})
	if _, err := h.ev.resolver.localHadith(ctx, "manual", anti); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("exhausted pool: got %v, want ErrNotFound", err)
	}

	// The manual source never falls back to an external provider.
	prefs := h.prefs(t)
	if _, err := h.ev.resolver.Resolve(ctx, *prefs, "hadith", "general", "manual", anti); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("manual resolve: got %v, want ErrNotFound", err)
	}

	// A fresh day resolves the same item normally.
	got, err := h.ev.resolver.Resolve(ctx, *prefs, "hadith", "general", "manual", newAntiRepeat(nil))
	if err != nil {
		t.Fatalf("fresh resolve: %v", err)
	}
	if got.ID != id {
		t.Fatalf("resolved %q, want %q", got.ID, id)
	}
}
