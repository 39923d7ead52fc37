package reminder

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"wasel/internal/content"
	"wasel/internal/storage"
)

// Resolved is one piece of content ready for composition.
type Resolved struct {
	ID        string // local library id, empty for external or digest content
	Text      string
	Source    string
	SourceURL string
	MediaURL  string
	MediaType string
	Local     bool
}

// antiRepeat carries the same-day usage sets for multi-occurrence
// slots. Repeats are tolerated once retries run out.
type antiRepeat struct {
	ids    map[string]bool
	hashes map[string]bool
	images map[string]bool
}

func newAntiRepeat(entries []storage.ScheduleLogEntry) *antiRepeat {
	a := &antiRepeat{
		ids:    map[string]bool{},
		hashes: map[string]bool{},
		images: map[string]bool{},
	}
	for _, e := range entries {
		if e.ContentID != "" {
			a.ids[e.ContentID] = true
		}
		if e.ContentHash != "" {
			a.hashes[e.ContentHash] = true
		}
		if e.ImageURL != "" {
			a.images[e.ImageURL] = true
		}
	}
	return a
}

// Resolver sources content for a due slot: local library first for
// manual-leaning preferences, external endpoints otherwise, with the
// strict per-type media rules applied up front.
type Resolver struct {
	store    *storage.Store
	external *content.ExternalService
	log      zerolog.Logger
}

func NewResolver(store *storage.Store, external *content.ExternalService, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, external: external, log: log}
}

// effectiveMediaPref applies the hard per-type rules before any
// sourcing decision.
func effectiveMediaPref(typ, category, pref string) string {
	if typ == "adhkar" && (category == "morning" || category == "evening" || category == "after_prayer") {
		return "text_only"
	}
	if typ == "quran_part" {
		return "image_only"
	}
	if typ == "hadith" && pref == "video" {
		return "mixed"
	}
	if pref == "" {
		return "mixed"
	}
	return pref
}

func localHadithSource(sourcePref string) bool {
	switch sourcePref {
	case "bukhari", "muslim", "mixed", "manual":
		return true
	}
	return false
}

// Resolve picks content for the slot. anti may be nil for slots without
// same-day repeat tracking.
func (r *Resolver) Resolve(ctx context.Context, prefs storage.ContentPrefs, typ, category, sourcePref string, anti *antiRepeat) (*Resolved, error) {
	if sourcePref == "" {
		sourcePref = "mixed"
	}
	mediaPref := effectiveMediaPref(typ, category, prefs.MediaPreference)

	forceFullText := typ == "adhkar" && prefs.TextLength == "full"
	useLocal := sourcePref == "manual" || sourcePref == "mixed" || forceFullText ||
		(typ == "hadith" && localHadithSource(sourcePref))

	var resolved *Resolved
	if useLocal {
		var err error
		switch typ {
		case "adhkar":
			resolved, err = r.adhkarDigest(ctx, category, prefs.TextLength)
		case "hadith":
			resolved, err = r.localHadith(ctx, sourcePref, anti)
		default:
			resolved, err = r.pickLocal(ctx, typ, category)
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	if resolved == nil && (sourcePref == "auto" || sourcePref == "mixed") {
		resolved = r.externalContent(ctx, mediaPref, typ, category, anti)
	}
	if resolved == nil {
		return nil, storage.ErrNotFound
	}
	if mediaPref == "text_only" {
		resolved.MediaURL, resolved.MediaType = "", ""
	}
	return resolved, nil
}

// adhkarDigest assembles the local adhkar of a category into one
// message. Full mode includes every active item inside the banner;
// short mode picks three at random.
func (r *Resolver) adhkarDigest(ctx context.Context, category, textLength string) (*Resolved, error) {
	items, err := r.store.ListActiveContent(ctx, "adhkar", category)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, storage.ErrNotFound
	}

	if textLength == "short" && len(items) > 3 {
		rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		items = items[:3]
	}

	bodies := make([]string, 0, len(items))
	for _, it := range items {
		bodies = append(bodies, it.Body)
	}
	body := strings.Join(bodies, digestSeparator)

	source := "مقتطفات من الأذكار"
	if textLength == "full" {
		header, footer := digestHeader(category)
		body = header + body + footer
		source = "تم تجميع الأذكار"
	}
	return &Resolved{Text: body, Source: source, Local: true}, nil
}

// localHadith draws from the cached pool, retrying a bounded number of
// times to avoid same-day repeats.
func (r *Resolver) localHadith(ctx context.Context, sourcePref string, anti *antiRepeat) (*Resolved, error) {
	maxTries := 1
	if anti != nil {
		maxTries = 30
	}
	var pattern string
	switch sourcePref {
	case "bukhari":
		pattern = "صحيح البخاري%"
	case "muslim":
		pattern = "صحيح مسلم%"
	}

	for i := 0; i < maxTries; i++ {
		var (
			it  *storage.ContentItem
			err error
		)
		if pattern != "" {
			it, err = r.store.PickContentMatching(ctx, content.CachedHadithType, pattern)
		} else {
			it, err = r.store.PickContent(ctx, content.CachedHadithType, "")
		}
		if err != nil {
			return nil, err
		}
		if anti != nil {
			if anti.ids[it.ID] || anti.hashes[HashText(it.Body)] {
				continue
			}
		}
		return &Resolved{
			ID:        it.ID,
			Text:      it.Body,
			Source:    it.Attribution,
			SourceURL: it.SourceURL,
			MediaURL:  it.MediaURL,
			Local:     true,
		}, nil
	}
	return nil, storage.ErrNotFound
}

func (r *Resolver) pickLocal(ctx context.Context, typ, category string) (*Resolved, error) {
	it, err := r.store.PickContent(ctx, typ, category)
	if err != nil {
		return nil, err
	}
	mediaType := ""
	if it.MediaURL != "" {
		mediaType = "image"
	}
	return &Resolved{
		ID:        it.ID,
		Text:      it.Body,
		Source:    it.Attribution,
		SourceURL: it.SourceURL,
		MediaURL:  it.MediaURL,
		MediaType: mediaType,
		Local:     true,
	}, nil
}

// externalContent fetches from the public endpoints, retrying for
// hadith slots that track same-day hashes.
func (r *Resolver) externalContent(ctx context.Context, mediaPref, typ, category string, anti *antiRepeat) *Resolved {
	tries := 1
	if typ == "hadith" && anti != nil {
		tries = 10
	}
	for i := 0; i < tries; i++ {
		ext := r.external.Daily(ctx, mediaPref, typ, category)
		if ext.Text == "" {
			continue
		}
		if anti != nil && anti.hashes[HashText(ext.Text)] {
			continue
		}
		return &Resolved{
			Text:      ext.Text,
			Source:    ext.Source,
			MediaURL:  ext.MediaURL,
			MediaType: ext.MediaType,
		}
	}
	return nil
}
