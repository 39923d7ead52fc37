package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wasel/internal/content"
	"wasel/internal/prayer"
	"wasel/internal/storage"
	"wasel/internal/transport"
)

// SlotKind tags a ledger entry with the slot family that produced it.
// Per-prayer slots append the prayer name, e.g. "prayer_before:fajr".
type SlotKind string

const (
	SlotPrayerBefore SlotKind = "prayer_before"
	SlotPrayerAfter  SlotKind = "prayer_after"
	SlotFasting      SlotKind = "fasting"
	SlotFriday       SlotKind = "friday_kahf"
	SlotMorning      SlotKind = "morning"
	SlotEvening      SlotKind = "evening"
	SlotHadith       SlotKind = "hadith"
	SlotSelected     SlotKind = "selected"
	SlotDaily        SlotKind = "daily"
	SlotQuran        SlotKind = "quran"
)

func prayerKind(base SlotKind, name string) SlotKind {
	return base + SlotKind(":"+name)
}

const (
	defaultMorningTime = "07:00"
	defaultEveningTime = "17:00"
	defaultDailyTime   = "21:00"
	defaultQuranTime   = "09:00"
	defaultHadithTime  = "12:00"
	defaultFastingTime = "20:00"
	fridayKahfTime     = "09:00"

	defaultQuranPages      = 3
	defaultAfterAdhkarWait = 5
)

// Evaluator runs one tenant's slot checks for one tick. All times are
// tenant-local "HH:MM" strings compared for exact equality.
type Evaluator struct {
	store    *storage.Store
	prayers  *prayer.Provider
	resolver *Resolver
	fanout   *Fanout
	log      zerolog.Logger
}

func NewEvaluator(store *storage.Store, prayers *prayer.Provider, resolver *Resolver, fanout *Fanout, log zerolog.Logger) *Evaluator {
	return &Evaluator{store: store, prayers: prayers, resolver: resolver, fanout: fanout, log: log}
}

// slotOpts tweaks one content reminder invocation.
type slotOpts struct {
	kind       SlotKind
	sendTime   string
	showLink   *bool // nil means use the global pref
	antiRepeat bool
}

// EvaluateTick checks every slot family for one tenant. now must
// already be in the tenant's timezone.
func (ev *Evaluator) EvaluateTick(ctx context.Context, cfg storage.TenantConfig, now time.Time) {
	hhmm := now.Format("15:04")
	date := now.Format("2006-01-02")

	prefs, err := ev.store.ContentPrefs(ctx, cfg.ID)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("content prefs load failed")
		return
	}

	ev.checkPrayers(ctx, cfg, *prefs, now, hhmm, date)
	ev.checkFasting(ctx, cfg, now, hhmm, date)
	ev.checkFriday(ctx, cfg, now, hhmm, date)

	if prefs.Morning.Enabled && hhmm == orDefault(prefs.Morning.Time, defaultMorningTime) {
		ev.contentReminder(ctx, cfg, *prefs, "adhkar", "morning", prefs.Morning.Source, date, slotOpts{
			kind: SlotMorning, sendTime: hhmm, showLink: &prefs.Morning.ShowLink,
		})
	}
	if prefs.Evening.Enabled && hhmm == orDefault(prefs.Evening.Time, defaultEveningTime) {
		ev.contentReminder(ctx, cfg, *prefs, "adhkar", "evening", prefs.Evening.Source, date, slotOpts{
			kind: SlotEvening, sendTime: hhmm, showLink: &prefs.Evening.ShowLink,
		})
	}

	if prefs.Hadith.Enabled {
		fallback := orDefault(prefs.Hadith.Time, defaultHadithTime)
		for _, t := range ExpandTimes(prefs.Hadith.Times, fallback, prefs.Hadith.Count) {
			if hhmm == t {
				ev.contentReminder(ctx, cfg, *prefs, "hadith", "general", prefs.Hadith.Source, date, slotOpts{
					kind: SlotHadith, sendTime: t, showLink: &prefs.Hadith.ShowLink, antiRepeat: true,
				})
			}
		}
	}

	if prefs.Selected.Enabled {
		for _, t := range ExpandTimes(prefs.Selected.Times, defaultHadithTime, prefs.Selected.Count) {
			if hhmm == t {
				ev.selectedAdhkar(ctx, cfg, prefs.Selected, date, t)
			}
		}
	}

	if prefs.Daily.Enabled && hhmm == orDefault(prefs.Daily.Time, defaultDailyTime) {
		ev.contentReminder(ctx, cfg, *prefs, "content", "general", "auto", date, slotOpts{
			kind: SlotDaily, sendTime: hhmm, showLink: &prefs.Daily.ShowLink,
		})
	}

	if prefs.Quran.Enabled && hhmm == orDefault(prefs.Quran.Time, defaultQuranTime) {
		ev.quranPortion(ctx, cfg, prefs.Quran, now, date, hhmm)
	}

	ev.checkCustomJobs(ctx, cfg, now, hhmm, date)
}

func (ev *Evaluator) checkPrayers(ctx context.Context, cfg storage.TenantConfig, prefs storage.ContentPrefs, now time.Time, hhmm, date string) {
	settings, err := ev.store.PrayerSettings(ctx, cfg.ID)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("prayer settings load failed")
		return
	}
	times := ev.prayers.For(ctx, cfg, now)

	for _, setting := range settings {
		pt, ok := times.ByName(setting.Prayer)
		if !ok || pt == "" {
			continue
		}

		if setting.Enabled {
			reminderAt := AddMinutes(pt, -setting.BeforeMinutes, pt)
			if hhmm == reminderAt {
				kind := prayerKind(SlotPrayerBefore, setting.Prayer)
				if !ev.slotSeen(ctx, cfg.ID, kind, date, hhmm) {
					msg := PrayerReminderMessage(setting.Prayer, pt, setting.BeforeMinutes)
					queued, err := ev.fanout.Send(ctx, cfg, msg, transport.KindText, transport.Options{}, TargetAll)
					if err != nil {
						ev.log.Error().Err(err).Str("config", cfg.ID).Str("prayer", setting.Prayer).Msg("prayer reminder fanout failed")
					} else if queued > 0 {
						ev.writeLedger(ctx, storage.ScheduleLogEntry{ConfigID: cfg.ID, Kind: string(kind), Date: date, SendTime: hhmm})
					}
				}
			}
		}

		if setting.AfterAdhkarEnabled {
			delay := setting.AfterAdhkarDelayMin
			if delay <= 0 {
				delay = defaultAfterAdhkarWait
			}
			afterAt := AddMinutes(pt, delay, pt)
			if hhmm == afterAt {
				show := setting.AfterAdhkarShowLink
				ev.contentReminder(ctx, cfg, prefs, "adhkar", "after_prayer", "manual", date, slotOpts{
					kind: prayerKind(SlotPrayerAfter, setting.Prayer), sendTime: hhmm, showLink: &show,
				})
			}
		}
	}
}

func (ev *Evaluator) checkFasting(ctx context.Context, cfg storage.TenantConfig, now time.Time, hhmm, date string) {
	settings, err := ev.store.FastingSettings(ctx, cfg.ID)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("fasting settings load failed")
		return
	}
	if hhmm != orDefault(settings.ReminderTime, defaultFastingTime) {
		return
	}

	kind := ClassifyFastingDay(now, cfg.HijriAdjustment, *settings)
	if kind == FastNone {
		return
	}
	if ev.slotSeen(ctx, cfg.ID, SlotFasting, date, hhmm) {
		return
	}
	queued, err := ev.fanout.Send(ctx, cfg, FastingMessage(kind), transport.KindText, transport.Options{}, TargetAll)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("fasting reminder fanout failed")
		return
	}
	if queued > 0 {
		ev.writeLedger(ctx, storage.ScheduleLogEntry{ConfigID: cfg.ID, Kind: string(SlotFasting), Date: date, SendTime: hhmm, ContentHash: string(kind)})
	}
}

func (ev *Evaluator) checkFriday(ctx context.Context, cfg storage.TenantConfig, now time.Time, hhmm, date string) {
	if !cfg.FridayKahf || now.Weekday() != time.Friday || hhmm != fridayKahfTime {
		return
	}
	if ev.slotSeen(ctx, cfg.ID, SlotFriday, date, hhmm) {
		return
	}
	queued, err := ev.fanout.Send(ctx, cfg, fridayKahfMessage, transport.KindText, transport.Options{}, TargetAll)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("friday reminder fanout failed")
		return
	}
	if queued > 0 {
		ev.writeLedger(ctx, storage.ScheduleLogEntry{ConfigID: cfg.ID, Kind: string(SlotFriday), Date: date, SendTime: hhmm})
	}
}

// contentReminder is the shared path for every library- or
// external-sourced slot: resolve, compose, fan out, ledger, LRU mark.
func (ev *Evaluator) contentReminder(ctx context.Context, cfg storage.TenantConfig, prefs storage.ContentPrefs, typ, category, sourcePref, date string, opt slotOpts) {
	if ev.slotSeen(ctx, cfg.ID, opt.kind, date, opt.sendTime) {
		return
	}

	var anti *antiRepeat
	if opt.antiRepeat {
		entries, err := ev.store.DayScheduleLog(ctx, cfg.ID, string(opt.kind), date)
		if err != nil {
			ev.log.Warn().Err(err).Str("config", cfg.ID).Msg("day ledger load failed")
		}
		anti = newAntiRepeat(entries)
	}

	resolved, err := ev.resolver.Resolve(ctx, prefs, typ, category, sourcePref, anti)
	if err != nil {
		ev.log.Warn().Err(err).Str("config", cfg.ID).Str("type", typ).Str("category", category).Msg("content resolution failed")
		return
	}

	body, sendOpt, imageForLog := ev.compose(cfg, prefs, typ, category, resolved, anti, opt)

	kind := transport.KindText
	if sendOpt.MediaURL != "" {
		kind = transport.KindMedia
	}
	queued, err := ev.fanout.Send(ctx, cfg, body, kind, sendOpt, TargetAll)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Str("type", typ).Msg("content fanout failed")
		return
	}
	if queued == 0 {
		return
	}

	ev.writeLedger(ctx, storage.ScheduleLogEntry{
		ConfigID:    cfg.ID,
		Kind:        string(opt.kind),
		Date:        date,
		SendTime:    opt.sendTime,
		ContentID:   resolved.ID,
		ContentHash: HashText(resolved.Text),
		ImageURL:    imageForLog,
	})
	if resolved.Local && resolved.ID != "" {
		if err := ev.store.MarkContentSent(ctx, resolved.ID); err != nil {
			ev.log.Warn().Err(err).Str("content", resolved.ID).Msg("mark content sent failed")
		}
	}
}

// compose builds the outgoing text and media for a resolved item,
// honoring source and link visibility plus the hadith image modes.
func (ev *Evaluator) compose(cfg storage.TenantConfig, prefs storage.ContentPrefs, typ, category string, resolved *Resolved, anti *antiRepeat, opt slotOpts) (string, transport.Options, string) {
	var b strings.Builder
	b.WriteString(resolved.Text)
	b.WriteString("\n\n")

	showSource := true
	if typ == "hadith" {
		showSource = prefs.Hadith.ShowSourceText
	}
	if showSource && resolved.Source != "" {
		b.WriteString(sourceLine(resolved.Source))
	}

	link := resolved.SourceURL
	if link == "" {
		link = FallbackSourceLink(typ, category, resolved.Text)
	}
	showLink := prefs.ShowSourceLink
	if opt.showLink != nil {
		showLink = *opt.showLink
	}
	if link != "" && showLink {
		b.WriteString("\n")
		b.WriteString(linkLine(link))
	}

	sendOpt := transport.Options{MediaURL: resolved.MediaURL, MediaType: resolved.MediaType}
	imageForLog := resolved.MediaURL

	if typ == "hadith" && (prefs.Hadith.MediaMode == "image" || prefs.Hadith.MediaMode == "both") {
		if prefs.Hadith.ImageSource == "islamic_backgrounds" {
			exclude := map[string]bool{}
			if anti != nil {
				exclude = anti.images
			}
			bg := content.PickBackground(orDefault(prefs.Hadith.ImageTheme, "mixed"), exclude)
			sendOpt.MediaURL, sendOpt.MediaType = bg.URL, "image"
			imageForLog = bg.URL
			if prefs.Hadith.ShowImageSourceText {
				b.WriteString(imageSourceBackgrounds)
			}
		} else {
			url := RandomQuranPageURL()
			sendOpt.MediaURL, sendOpt.MediaType = url, "image"
			imageForLog = url
			if prefs.Hadith.ShowImageSourceText {
				b.WriteString(imageSourceQuranPages)
			}
		}
	}
	return b.String(), sendOpt, imageForLog
}

// selectedAdhkar sends one static dhikr to the owner only.
func (ev *Evaluator) selectedAdhkar(ctx context.Context, cfg storage.TenantConfig, sel storage.SelectedPrefs, date, sendTime string) {
	if ev.slotSeen(ctx, cfg.ID, SlotSelected, date, sendTime) {
		return
	}

	d := content.RandomDhikr(orDefault(sel.Category, "general"))
	var b strings.Builder
	b.WriteString(strings.TrimSpace(d.Text))
	if sel.ShowSourceText && d.Source != "" {
		b.WriteString("\n\n")
		b.WriteString(sourceLine(d.Source))
	}
	if sel.ShowLink && d.SourceURL != "" {
		b.WriteString("\n")
		b.WriteString(linkLine(d.SourceURL))
	}

	var sendOpt transport.Options
	kind := transport.KindText
	imageURL := ""
	if sel.MediaMode == "image" {
		bg := content.PickBackground(orDefault(sel.ImageTheme, "mosques"), nil)
		sendOpt = transport.Options{MediaURL: bg.URL, MediaType: "image"}
		kind = transport.KindMedia
		imageURL = bg.URL
	}

	queued, err := ev.fanout.SendToOwner(cfg, b.String(), kind, sendOpt)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("selected adhkar enqueue failed")
		return
	}
	if queued > 0 {
		ev.writeLedger(ctx, storage.ScheduleLogEntry{
			ConfigID:    cfg.ID,
			Kind:        string(SlotSelected),
			Date:        date,
			SendTime:    sendTime,
			ContentHash: HashText(d.Text),
			ImageURL:    imageURL,
		})
	}
}

// quranPortion sends the daily juz intro plus the first pages as
// images. The juz follows the day of month.
func (ev *Evaluator) quranPortion(ctx context.Context, cfg storage.TenantConfig, q storage.QuranPrefs, now time.Time, date, sendTime string) {
	if ev.slotSeen(ctx, cfg.ID, SlotQuran, date, sendTime) {
		return
	}

	juz := JuzForDay(now.Day())
	start, end, err := JuzPages(juz)
	if err != nil {
		return
	}
	pages, _ := JuzPageURLs(juz)
	limit := q.PagesPerDay
	if limit <= 0 {
		limit = defaultQuranPages
	}
	if len(pages) > limit {
		pages = pages[:limit]
	}

	queued, err := ev.fanout.Send(ctx, cfg, QuranIntroMessage(juz, start, end), transport.KindText, transport.Options{}, TargetAll)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("quran intro fanout failed")
		return
	}
	for _, p := range pages {
		n, err := ev.fanout.Send(ctx, cfg, "", transport.KindMedia, transport.Options{MediaURL: p, MediaType: "image"}, TargetAll)
		if err != nil {
			ev.log.Warn().Err(err).Str("config", cfg.ID).Msg("quran page fanout failed")
			break
		}
		queued += n
	}
	if queued > 0 {
		ev.writeLedger(ctx, storage.ScheduleLogEntry{ConfigID: cfg.ID, Kind: string(SlotQuran), Date: date, SendTime: sendTime})
	}
}

func (ev *Evaluator) checkCustomJobs(ctx context.Context, cfg storage.TenantConfig, now time.Time, hhmm, date string) {
	jobs, err := ev.store.CustomJobs(ctx, cfg.ID)
	if err != nil {
		ev.log.Error().Err(err).Str("config", cfg.ID).Msg("custom jobs load failed")
		return
	}
	for _, job := range jobs {
		if !customJobDue(job.Schedule, now, hhmm, date) {
			continue
		}
		seen, err := ev.store.SeenCustomJobSlot(ctx, job.ID, date, hhmm)
		if err != nil || seen {
			continue
		}

		body, kind, sendOpt := customJobPayload(job.Payload)
		if body == "" && sendOpt.MediaURL == "" {
			continue
		}
		queued, err := ev.fanout.SendToOwner(cfg, body, kind, sendOpt)
		if err != nil {
			ev.log.Warn().Err(err).Str("job", job.ID).Msg("custom job enqueue failed")
			continue
		}
		if queued > 0 {
			if _, err := ev.store.InsertCustomJobLog(ctx, job.ID, cfg.ID, date, hhmm); err != nil {
				ev.log.Warn().Err(err).Str("job", job.ID).Msg("custom job ledger write failed")
			}
		}
	}
}

// customJobDue gates a job on its time list plus either the explicit
// date list or the weekday set (empty set means every day).
func customJobDue(s storage.CustomJobSchedule, now time.Time, hhmm, date string) bool {
	if !containsString(s.Times, hhmm) {
		return false
	}
	if len(s.Dates) > 0 {
		return containsString(s.Dates, date)
	}
	if len(s.Weekdays) == 0 {
		return true
	}
	day := int(now.Weekday())
	for _, d := range s.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func customJobPayload(p storage.CustomJobPayload) (string, transport.Kind, transport.Options) {
	text := strings.TrimSpace(p.Text)
	mediaURL := strings.TrimSpace(p.MediaURL)
	mediaType := strings.TrimSpace(p.MediaType)

	switch mediaType {
	case "image", "video", "audio":
		if mediaURL != "" {
			return text, transport.KindMedia, transport.Options{MediaURL: mediaURL, MediaType: mediaType}
		}
	}
	if mediaURL != "" {
		text = strings.TrimSpace(text + "\n" + mediaURL)
	}
	return text, transport.KindText, transport.Options{}
}

func (ev *Evaluator) slotSeen(ctx context.Context, configID string, kind SlotKind, date, sendTime string) bool {
	seen, err := ev.store.SeenScheduleSlot(ctx, configID, string(kind), date, sendTime)
	if err != nil {
		ev.log.Warn().Err(err).Str("config", configID).Str("kind", string(kind)).Msg("ledger check failed")
		return false
	}
	return seen
}

func (ev *Evaluator) writeLedger(ctx context.Context, e storage.ScheduleLogEntry) {
	if _, err := ev.store.InsertScheduleLog(ctx, e); err != nil {
		ev.log.Warn().Err(err).Str("config", e.ConfigID).Str("kind", e.Kind).Msg("ledger write failed")
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func tenantLocation(tz string) *time.Location {
	if tz == "" {
		tz = "Africa/Cairo"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
