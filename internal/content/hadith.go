package content

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wasel/internal/storage"
)

type hadithBook struct {
	Name     string
	BaseURL  string
	Sections int
}

var hadithBooks = []hadithBook{
	{Name: "صحيح البخاري", BaseURL: "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1/editions/ara-bukhari", Sections: 97},
	{Name: "صحيح مسلم", BaseURL: "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1/editions/ara-muslim", Sections: 56},
}

// CachedHadithType is the library type used for auto-fetched hadiths,
// distinct from manually curated "hadith" entries.
const CachedHadithType = "hadith_cached"

type RefillConfig struct {
	Floor int           // refill when the cached pool drops below this
	Every time.Duration // periodic check interval
}

// HadithRefiller keeps the cached hadith pool topped up from the public
// hadith CDN. It runs as a background worker and is safe to stop.
type HadithRefiller struct {
	cfg    RefillConfig
	store  *storage.Store
	client *http.Client
	log    zerolog.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

func NewHadithRefiller(cfg RefillConfig, store *storage.Store, log zerolog.Logger) *HadithRefiller {
	if cfg.Floor <= 0 {
		cfg.Floor = 50
	}
	if cfg.Every <= 0 {
		cfg.Every = 6 * time.Hour
	}
	return &HadithRefiller{
		cfg:    cfg,
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

func (h *HadithRefiller) Start(ctx context.Context) {
	h.mu.Lock()
	if h.stopCh != nil {
		h.mu.Unlock()
		return
	}
	h.stopCh = make(chan struct{})
	stopCh := h.stopCh
	h.mu.Unlock()

	go func() {
		h.RefillIfLow(ctx)
		t := time.NewTicker(h.cfg.Every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-t.C:
				h.RefillIfLow(ctx)
			}
		}
	}()
}

func (h *HadithRefiller) Stop(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
}

// RefillIfLow fetches one random section per book when the cached pool
// is below the floor. At most one refill runs at a time.
func (h *HadithRefiller) RefillIfLow(ctx context.Context) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	count, err := h.store.CountContent(ctx, CachedHadithType)
	if err != nil {
		h.log.Error().Err(err).Msg("hadith cache count failed")
		return
	}
	h.log.Debug().Int("cached", count).Msg("hadith cache check")
	if count >= h.cfg.Floor {
		return
	}
	for _, book := range hadithBooks {
		if err := h.fetchBatch(ctx, book); err != nil {
			h.log.Warn().Err(err).Str("book", book.Name).Msg("hadith batch fetch failed")
		}
	}
}

type hadithSection struct {
	Hadiths []struct {
		HadithNumber json.Number `json:"hadithnumber"`
		Text         string      `json:"text"`
		Grades       []struct {
			Grade string `json:"grade"`
		} `json:"grades"`
	} `json:"hadiths"`
}

func (h *HadithRefiller) fetchBatch(ctx context.Context, book hadithBook) error {
	section := rand.Intn(book.Sections) + 1
	url := fmt.Sprintf("%s/sections/%d.json", book.BaseURL, section)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("section %d: status %d", section, resp.StatusCode)
	}
	var body hadithSection
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}

	// Take a random handful from the section rather than the whole thing.
	idx := rand.Perm(len(body.Hadiths))
	if len(idx) > 10 {
		idx = idx[:10]
	}
	saved := 0
	for _, i := range idx {
		item := body.Hadiths[i]
		if len([]rune(item.Text)) < 10 {
			continue
		}
		it := storage.ContentItem{
			Type:        CachedHadithType,
			Category:    "hadith",
			Body:        CleanHadithText(item.Text),
			Attribution: fmt.Sprintf("%s - %s", book.Name, item.HadithNumber.String()),
			Active:      true,
		}
		if _, err := h.store.AddContent(ctx, it); err != nil {
			continue
		}
		saved++
	}
	h.log.Info().Str("book", book.Name).Int("section", section).Int("saved", saved).Msg("hadith batch cached")
	return nil
}

// matnMarkers introduce the narrated text after the chain of narrators.
var matnMarkers = []string{
	"أن رسول الله صلى الله عليه وسلم قال",
	"أن النبي صلى الله عليه وسلم قال",
	"يقول سمعت النبي صلى الله عليه وسلم يقول",
	"قال قال رسول الله صلى الله عليه وسلم",
	"عن النبي صلى الله عليه وسلم قال",
	"صلى الله عليه وسلم قال",
	"أن رسول الله قال",
	"سمعت النبي صلى الله عليه وسلم يقول",
}

var (
	leadingNumberRe = regexp.MustCompile(`^\d+\s*-\s*`)
	bracketNoteRe   = regexp.MustCompile(`\[[^\]]*\]`)
)

// CleanHadithText strips numbering, bracketed notes and the chain of
// narrators so only the narrated text remains.
func CleanHadithText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := leadingNumberRe.ReplaceAllString(text, "")
	cleaned = bracketNoteRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(StripSanad(cleaned))
}

// StripSanad removes the narrator chain preceding the first matn marker
// and reintroduces the text with a uniform opening. Without a marker it
// only compacts the honorific.
func StripSanad(text string) string {
	if text == "" {
		return ""
	}
	first := -1
	markerLen := 0
	for _, m := range matnMarkers {
		if i := strings.Index(text, m); i != -1 && (first == -1 || i < first) {
			first = i
			markerLen = len(m)
		}
	}
	if first == -1 {
		return strings.ReplaceAll(text, "صلى الله عليه وسلم", "ﷺ")
	}
	matn := strings.TrimSpace(text[first+markerLen:])
	return "قال رسول الله ﷺ: \"" + matn + "\""
}
