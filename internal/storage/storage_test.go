package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wasel/pkg/logx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "wasel.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetOrCreateConfigInitializesRows(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	cfg, err := s.GetOrCreateConfig(ctx, "owner-1", "100200300")
	if err != nil {
		t.Fatalf("create config: %v", err)
	}
	if cfg.OwnerID != "owner-1" || !cfg.Enabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	prayers, err := s.PrayerSettings(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("prayer settings: %v", err)
	}
	if len(prayers) != 5 {
		t.Fatalf("want 5 prayer rows, got %d", len(prayers))
	}
	for i, name := range PrayerNames {
		if prayers[i].Prayer != name {
			t.Fatalf("prayer order: got %q at %d, want %q", prayers[i].Prayer, i, name)
		}
	}

	if _, err := s.FastingSettings(ctx, cfg.ID); err != nil {
		t.Fatalf("fasting settings: %v", err)
	}
	if _, err := s.ContentPrefs(ctx, cfg.ID); err != nil {
		t.Fatalf("content prefs: %v", err)
	}

	// Second access returns the same config, no duplicate init.
	again, err := s.GetOrCreateConfig(ctx, "owner-1", "100200300")
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if again.ID != cfg.ID {
		t.Fatalf("config recreated: %s vs %s", again.ID, cfg.ID)
	}
}

func TestListDueConfigsRequiresSession(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	cfg, err := s.GetOrCreateConfig(ctx, "owner-2", "addr")
	if err != nil {
		t.Fatalf("create config: %v", err)
	}

	due, err := s.ListDueConfigs(ctx)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("config without session should not be due, got %d", len(due))
	}

	if err := s.LinkSession(ctx, cfg.ID, "sess-1"); err != nil {
		t.Fatalf("link session: %v", err)
	}
	due, err = s.ListDueConfigs(ctx)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].SessionID != "sess-1" {
		t.Fatalf("unexpected due configs: %+v", due)
	}
}

func TestScheduleLogIdempotence(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	e := ScheduleLogEntry{ConfigID: "c1", Kind: "hadith", Date: "2026-01-05", SendTime: "09:00", ContentHash: "abc"}
	ins, err := s.InsertScheduleLog(ctx, e)
	if err != nil || !ins {
		t.Fatalf("first insert: ins=%v err=%v", ins, err)
	}
	ins, err = s.InsertScheduleLog(ctx, e)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if ins {
		t.Fatal("duplicate insert must be a no-op")
	}

	seen, err := s.SeenScheduleSlot(ctx, "c1", "hadith", "2026-01-05", "09:00")
	if err != nil || !seen {
		t.Fatalf("seen: %v %v", seen, err)
	}
	seen, err = s.SeenScheduleSlot(ctx, "c1", "hadith", "2026-01-05", "12:00")
	if err != nil || seen {
		t.Fatalf("unseen slot reported seen: %v %v", seen, err)
	}

	day, err := s.DayScheduleLog(ctx, "c1", "hadith", "2026-01-05")
	if err != nil {
		t.Fatalf("day log: %v", err)
	}
	if len(day) != 1 || day[0].ContentHash != "abc" {
		t.Fatalf("unexpected day log: %+v", day)
	}
}

func TestPickContentPrefersLeastRecentlySent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	idA, err := s.AddContent(ctx, ContentItem{Type: "hadith_cached", Category: "hadith", Body: "a", Active: true})
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	idB, err := s.AddContent(ctx, ContentItem{Type: "hadith_cached", Category: "hadith", Body: "b", Active: true})
	if err != nil {
		t.Fatalf("add b: %v", err)
	}

	if err := s.MarkContentSent(ctx, idA); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	// B has never been sent, so it must win over A.
	it, err := s.PickContent(ctx, "hadith_cached", "")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if it.ID != idB {
		t.Fatalf("picked %s, want never-sent %s", it.ID, idB)
	}

	if _, err := s.PickContent(ctx, "missing-type", ""); err != ErrNotFound {
		t.Fatalf("want ErrNotFound for empty pool, got %v", err)
	}
}

func TestCustomJobRoundTripAndLog(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	job := CustomJob{
		ConfigID: "c1",
		Title:    "daily check-in",
		Enabled:  true,
		Payload:  CustomJobPayload{Text: "hello"},
		Schedule: CustomJobSchedule{Weekdays: []int{1, 4}, Times: []string{"08:30"}},
	}
	id, err := s.UpsertCustomJob(ctx, job)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	jobs, err := s.CustomJobs(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != id || len(jobs[0].Schedule.Weekdays) != 2 {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	ins, err := s.InsertCustomJobLog(ctx, id, "c1", "2026-01-05", "08:30")
	if err != nil || !ins {
		t.Fatalf("first log insert: %v %v", ins, err)
	}
	ins, err = s.InsertCustomJobLog(ctx, id, "c1", "2026-01-05", "08:30")
	if err != nil || ins {
		t.Fatalf("duplicate log insert must be no-op: %v %v", ins, err)
	}

	if err := s.DeleteCustomJob(ctx, "c1", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	jobs, err = s.CustomJobs(ctx, "c1")
	if err != nil || len(jobs) != 0 {
		t.Fatalf("job not deleted: %+v %v", jobs, err)
	}
}

func TestPrayerCacheUpsert(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	row := PrayerTimesRow{
		LocationKey: "30.04_31.24_Egypt", Date: "2026-01-05",
		Fajr: "05:20", Sunrise: "06:50", Dhuhr: "12:05", Asr: "15:10",
		Maghrib: "17:20", Isha: "18:45", CachedAt: time.Now(),
	}
	if err := s.PutPrayerCache(ctx, row); err != nil {
		t.Fatalf("put: %v", err)
	}
	row.Fajr = "05:21"
	if err := s.PutPrayerCache(ctx, row); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := s.PrayerCache(ctx, row.LocationKey, row.Date)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Fajr != "05:21" {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}

	if _, err := s.PrayerCache(ctx, "nowhere", "2026-01-05"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSettingsUpdatesRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	cfg, err := s.GetOrCreateConfig(ctx, "owner-s", "555")
	if err != nil {
		t.Fatalf("create config: %v", err)
	}

	cfg.Timezone = "Asia/Riyadh"
	cfg.HasLocation = true
	cfg.Latitude = 24.71
	cfg.Longitude = 46.68
	cfg.TimeMode = "manual"
	cfg.Manual.Fajr = "04:45"
	cfg.HijriAdjustment = -1
	cfg.FridayKahf = false
	if err := s.UpdateGeneralSettings(ctx, cfg.ID, *cfg); err != nil {
		t.Fatalf("update general: %v", err)
	}
	got, err := s.GetOrCreateConfig(ctx, "owner-s", "555")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Timezone != "Asia/Riyadh" || !got.HasLocation || got.TimeMode != "manual" {
		t.Fatalf("general settings lost: %+v", got)
	}
	if got.Manual.Fajr != "04:45" || got.HijriAdjustment != -1 || got.FridayKahf {
		t.Fatalf("general settings lost: %+v", got)
	}

	prayers, err := s.PrayerSettings(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("prayer settings: %v", err)
	}
	fajr := prayers[0]
	fajr.Enabled = false
	fajr.BeforeMinutes = 25
	fajr.AfterAdhkarDelayMin = 9
	if err := s.UpdatePrayerSetting(ctx, fajr); err != nil {
		t.Fatalf("update prayer: %v", err)
	}
	prayers, err = s.PrayerSettings(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("prayer settings: %v", err)
	}
	if prayers[0].Enabled || prayers[0].BeforeMinutes != 25 || prayers[0].AfterAdhkarDelayMin != 9 {
		t.Fatalf("prayer update lost: %+v", prayers[0])
	}
	if !prayers[1].Enabled {
		t.Fatalf("dhuhr row touched by fajr update")
	}

	fast, err := s.FastingSettings(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("fasting settings: %v", err)
	}
	fast.Thursday = false
	fast.ReminderTime = "19:30"
	if err := s.UpdateFastingSettings(ctx, *fast); err != nil {
		t.Fatalf("update fasting: %v", err)
	}
	fast, err = s.FastingSettings(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("fasting settings: %v", err)
	}
	if fast.Thursday || !fast.Monday || fast.ReminderTime != "19:30" {
		t.Fatalf("fasting update lost: %+v", fast)
	}
}

func TestRecipientCRUD(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	cfg, err := s.GetOrCreateConfig(ctx, "owner-r", "777")
	if err != nil {
		t.Fatalf("create config: %v", err)
	}

	id, err := s.AddRecipient(ctx, Recipient{
		ConfigID: cfg.ID, Kind: "group", Address: "-100999", Name: "family", Enabled: true,
	})
	if err != nil {
		t.Fatalf("add recipient: %v", err)
	}
	if _, err := s.AddRecipient(ctx, Recipient{
		ConfigID: cfg.ID, Kind: "individual", Address: "4242", Enabled: true,
	}); err != nil {
		t.Fatalf("add recipient: %v", err)
	}

	list, err := s.Recipients(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 recipients, got %d", len(list))
	}

	var group Recipient
	for _, r := range list {
		if r.ID == id {
			group = r
		}
	}
	group.Enabled = false
	group.Name = "family (muted)"
	if err := s.UpdateRecipient(ctx, group); err != nil {
		t.Fatalf("update recipient: %v", err)
	}
	list, err = s.Recipients(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	for _, r := range list {
		if r.ID == id && (r.Enabled || r.Name != "family (muted)") {
			t.Fatalf("recipient update lost: %+v", r)
		}
	}

	if err := s.DeleteRecipient(ctx, id); err != nil {
		t.Fatalf("delete recipient: %v", err)
	}
	list, err = s.Recipients(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	if len(list) != 1 || list[0].Kind != "individual" {
		t.Fatalf("delete left %+v", list)
	}
}
