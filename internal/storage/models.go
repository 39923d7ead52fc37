package storage

import "time"

// TenantConfig is one tenant's reminder configuration. It is lazily
// created on first access per owner and never hard-deleted.
type TenantConfig struct {
	ID           string
	OwnerID      string
	OwnerAddress string // the owner's own channel address, fan-out fallback
	SessionID    string // linked transport session; empty until linked
	Timezone     string // IANA name, e.g. "Africa/Cairo"

	Latitude    float64
	Longitude   float64
	HasLocation bool

	CalcMethod string // prayer calculation method name
	TimeMode   string // "auto" or "manual"
	Manual     ManualPrayerTimes

	HijriAdjustment int
	FridayKahf      bool
	Enabled         bool
}

// ManualPrayerTimes are per-prayer "HH:MM" overrides; empty means no
// override for that prayer.
type ManualPrayerTimes struct {
	Fajr    string
	Dhuhr   string
	Asr     string
	Maghrib string
	Isha    string
}

// Canonical prayer names, in day order.
var PrayerNames = []string{"fajr", "dhuhr", "asr", "maghrib", "isha"}

// PrayerSetting is one row per canonical prayer per config.
type PrayerSetting struct {
	ID       string
	ConfigID string
	Prayer   string

	Enabled       bool
	BeforeMinutes int

	AfterAdhkarEnabled  bool
	AfterAdhkarDelayMin int
	AfterAdhkarShowLink bool
}

// FastingSettings holds per-tenant fasting-day reminder toggles.
type FastingSettings struct {
	ID       string
	ConfigID string

	Monday    bool
	Thursday  bool
	WhiteDays bool
	Ashura    bool
	Arafah    bool

	ReminderTime string // "HH:MM", default "20:00"
}

// ContentPrefs is the single content-preference row per config.
type ContentPrefs struct {
	ID       string
	ConfigID string

	Morning  FixedSlotPrefs
	Evening  FixedSlotPrefs
	Daily    FixedSlotPrefs
	Quran    QuranPrefs
	Hadith   HadithPrefs
	Selected SelectedPrefs

	// TextLength selects digest assembly: "full" or "short".
	TextLength string
	// MediaPreference drives external sourcing: "image", "video", "mixed",
	// "text_only".
	MediaPreference string
	ShowSourceLink  bool
}

type FixedSlotPrefs struct {
	Enabled  bool
	Time     string // "HH:MM"
	Source   string // "manual", "mixed", "auto"
	ShowLink bool
}

type QuranPrefs struct {
	Enabled     bool
	Time        string
	PagesPerDay int
}

type HadithPrefs struct {
	Enabled  bool
	Time     string // fallback seed for expansion
	Times    []string
	Count    int
	Source   string // "mixed", "manual", "auto", or a named sub-collection
	ShowLink bool

	MediaMode           string // "text", "image", "both"
	ShowSourceText      bool
	ShowImageSourceText bool
	ImageSource         string // "quran_pages" or "islamic_backgrounds"
	ImageTheme          string
}

type SelectedPrefs struct {
	Enabled        bool
	Category       string
	MediaMode      string // "text" or "image"
	ShowSourceText bool
	ShowLink       bool
	ImageTheme     string
	Times          []string
	Count          int
}

// Recipient is a delivery target owned by a config.
type Recipient struct {
	ID       string
	ConfigID string
	Kind     string // "individual" or "group"
	Address  string
	Name     string
	Enabled  bool
}

// ContentItem is one library entry.
type ContentItem struct {
	ID          string
	Type        string
	Category    string
	Body        string
	Attribution string
	SourceURL   string
	MediaURL    string
	Active      bool
	LastSentAt  *time.Time
}

// ScheduleLogEntry is the idempotency ledger row for one fired slot.
// Uniqueness is (config, kind, date, send_time); a duplicate insert is a
// no-op, never an update.
type ScheduleLogEntry struct {
	ConfigID    string
	Kind        string // slot kind, e.g. "hadith", "selected"
	Date        string // "YYYY-MM-DD", tenant-local
	SendTime    string // "HH:MM", tenant-local
	ContentID   string
	ContentHash string
	ImageURL    string
}

// CustomJob is an arbitrary user-defined scheduled payload.
type CustomJob struct {
	ID       string
	ConfigID string
	Title    string
	Enabled  bool
	Payload  CustomJobPayload
	Schedule CustomJobSchedule
}

type CustomJobPayload struct {
	Text      string `json:"text,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// CustomJobSchedule gates firing: explicit dates take precedence over the
// weekday set; an empty weekday set means every day.
type CustomJobSchedule struct {
	Dates    []string `json:"dates,omitempty"`    // "YYYY-MM-DD"
	Weekdays []int    `json:"weekdays,omitempty"` // time.Weekday values, Sunday=0
	Times    []string `json:"times"`              // "HH:MM"
}

// PrayerTimesRow caches computed prayer times per (location key, date).
type PrayerTimesRow struct {
	LocationKey string
	Date        string
	Fajr        string
	Sunrise     string
	Dhuhr       string
	Asr         string
	Maghrib     string
	Isha        string
	HijriDate   string
	CachedAt    time.Time
}
