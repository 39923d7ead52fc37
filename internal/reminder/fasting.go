package reminder

import (
	"time"

	"wasel/internal/hijri"
	"wasel/internal/storage"
)

// FastKind classifies tomorrow as a recommended fasting day. The
// evaluator reminds today, the evening before.
type FastKind string

const (
	FastNone      FastKind = ""
	FastMonday    FastKind = "monday"
	FastThursday  FastKind = "thursday"
	FastWhiteDays FastKind = "white_days"
	FastAshura    FastKind = "ashura"
	FastArafah    FastKind = "arafah"
)

var fastingMessages = map[FastKind]string{
	FastMonday:    "🌙 تذكير: غداً يوم الإثنين، سنة عن النبي ﷺ صيام هذا اليوم.",
	FastThursday:  "🌙 تذكير: غداً يوم الخميس، ترفع فيه الأعمال، ويستحب الصيام فيه.",
	FastWhiteDays: "🌕 تذكير: غداً من الأيام البيض، أوصى النبي ﷺ بصيامها.",
	FastAshura:    "🌟 تذكير: غداً يوم عاشوراء، يكفر السنة الماضية.",
	FastArafah:    "⛰️ تذكير: غداً يوم عرفة، صومه يكفر السنة الماضية والباقية.",
}

func FastingMessage(kind FastKind) string {
	return fastingMessages[kind]
}

// ClassifyFastingDay inspects tomorrow relative to now. The weekly
// sunnah days are checked before the Hijri ones, and a tenant's Hijri
// adjustment shifts the calendar before classification.
func ClassifyFastingDay(now time.Time, adjustDays int, settings storage.FastingSettings) FastKind {
	tomorrow := now.AddDate(0, 0, 1)
	h := hijri.FromTime(tomorrow, adjustDays)

	switch {
	case settings.Monday && tomorrow.Weekday() == time.Monday:
		return FastMonday
	case settings.Thursday && tomorrow.Weekday() == time.Thursday:
		return FastThursday
	case settings.WhiteDays && h.IsWhiteDay():
		return FastWhiteDays
	case settings.Ashura && h.IsAshura():
		return FastAshura
	case settings.Arafah && h.IsArafah():
		return FastArafah
	}
	return FastNone
}
