// Package prayer resolves the five daily prayer times for a tenant.
// Times come from manual overrides, a per-day cache, or a Calculator,
// in that order, with safe defaults when everything else fails.
package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"wasel/internal/storage"
)

// Times holds one day's schedule as "HH:MM" strings in tenant-local time.
type Times struct {
	Fajr    string
	Dhuhr   string
	Asr     string
	Maghrib string
	Isha    string
	Manual  bool
}

// Defaults are used when a tenant has no location, no manual times and
// the calculator is unreachable.
var Defaults = Times{
	Fajr:    "05:00",
	Dhuhr:   "12:00",
	Asr:     "15:30",
	Maghrib: "18:00",
	Isha:    "19:30",
}

func (t Times) ByName(name string) (string, bool) {
	switch name {
	case "fajr":
		return t.Fajr, true
	case "dhuhr":
		return t.Dhuhr, true
	case "asr":
		return t.Asr, true
	case "maghrib":
		return t.Maghrib, true
	case "isha":
		return t.Isha, true
	}
	return "", false
}

// Names lists the five prayers in daily order.
var Names = []string{"fajr", "dhuhr", "asr", "maghrib", "isha"}

// Next returns the first prayer of the day strictly after now, with its
// time on now's date. When the day is over it wraps to tomorrow's fajr.
func (t Times) Next(now time.Time) (string, time.Time) {
	nowHHMM := now.Format("15:04")
	for _, name := range Names {
		at, _ := t.ByName(name)
		if !validHHMM(at) {
			continue
		}
		if at > nowHHMM {
			return name, atClock(now, at)
		}
	}
	if !validHHMM(t.Fajr) {
		return "", time.Time{}
	}
	return "fajr", atClock(now.AddDate(0, 0, 1), t.Fajr)
}

func atClock(day time.Time, hhmm string) time.Time {
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}

// Calculator computes prayer times for a coordinate. Implementations
// may call out over the network; results are cached per day.
type Calculator interface {
	Calculate(ctx context.Context, lat, lng float64, method string, date time.Time) (Times, error)
}

type Provider struct {
	store *storage.Store
	calc  Calculator
	log   zerolog.Logger
}

func NewProvider(store *storage.Store, calc Calculator, log zerolog.Logger) *Provider {
	return &Provider{store: store, calc: calc, log: log}
}

// For resolves the schedule for one tenant on the given local date.
func (p *Provider) For(ctx context.Context, cfg storage.TenantConfig, date time.Time) Times {
	if cfg.TimeMode == "manual" {
		return manualTimes(cfg.Manual)
	}
	if !cfg.HasLocation || p.calc == nil {
		return Defaults
	}

	key := locationKey(cfg.Latitude, cfg.Longitude, cfg.CalcMethod)
	day := date.Format("2006-01-02")

	if row, err := p.store.PrayerCache(ctx, key, day); err == nil {
		return timesFromRow(*row)
	} else if !errors.Is(err, storage.ErrNotFound) {
		p.log.Warn().Err(err).Str("key", key).Msg("prayer cache read failed")
	}

	t, err := p.calc.Calculate(ctx, cfg.Latitude, cfg.Longitude, cfg.CalcMethod, date)
	if err != nil {
		p.log.Warn().Err(err).Str("config", cfg.ID).Msg("prayer calculation failed, using defaults")
		return Defaults
	}
	row := storage.PrayerTimesRow{
		LocationKey: key,
		Date:        day,
		Fajr:        t.Fajr,
		Dhuhr:       t.Dhuhr,
		Asr:         t.Asr,
		Maghrib:     t.Maghrib,
		Isha:        t.Isha,
	}
	if err := p.store.PutPrayerCache(ctx, row); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("prayer cache write failed")
	}
	return t
}

func manualTimes(m storage.ManualPrayerTimes) Times {
	pick := func(v, def string) string {
		if validHHMM(v) {
			return v
		}
		return def
	}
	return Times{
		Fajr:    pick(m.Fajr, Defaults.Fajr),
		Dhuhr:   pick(m.Dhuhr, Defaults.Dhuhr),
		Asr:     pick(m.Asr, Defaults.Asr),
		Maghrib: pick(m.Maghrib, Defaults.Maghrib),
		Isha:    pick(m.Isha, Defaults.Isha),
		Manual:  true,
	}
}

func timesFromRow(r storage.PrayerTimesRow) Times {
	return Times{Fajr: r.Fajr, Dhuhr: r.Dhuhr, Asr: r.Asr, Maghrib: r.Maghrib, Isha: r.Isha}
}

func locationKey(lat, lng float64, method string) string {
	if method == "" {
		method = "umm_al_qura"
	}
	// Two decimals is roughly a 1km grid, enough for shared cache hits.
	return fmt.Sprintf("%.2f:%.2f:%s", lat, lng, method)
}

func validHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for i, c := range s {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h < 24 && m < 60
}
