package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PrayerCache returns the cached times for (location key, date), or
// ErrNotFound.
func (s *Store) PrayerCache(ctx context.Context, locationKey, date string) (*PrayerTimesRow, error) {
	var r PrayerTimesRow
	err := s.db.QueryRowContext(ctx,
		`SELECT location_key, date, fajr, sunrise, dhuhr, asr, maghrib, isha, hijri_date, cached_at
		 FROM prayer_times_cache WHERE location_key = ? AND date = ?`,
		locationKey, date).
		Scan(&r.LocationKey, &r.Date, &r.Fajr, &r.Sunrise, &r.Dhuhr, &r.Asr,
			&r.Maghrib, &r.Isha, &r.HijriDate, &r.CachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// PutPrayerCache stores one day's computed times; last write wins.
func (s *Store) PutPrayerCache(ctx context.Context, r PrayerTimesRow) error {
	if r.CachedAt.IsZero() {
		r.CachedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prayer_times_cache
			(location_key, date, fajr, sunrise, dhuhr, asr, maghrib, isha, hijri_date, cached_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(location_key, date) DO UPDATE SET
			fajr = excluded.fajr, sunrise = excluded.sunrise, dhuhr = excluded.dhuhr,
			asr = excluded.asr, maghrib = excluded.maghrib, isha = excluded.isha,
			hijri_date = excluded.hijri_date, cached_at = excluded.cached_at`,
		r.LocationKey, r.Date, r.Fajr, r.Sunrise, r.Dhuhr, r.Asr,
		r.Maghrib, r.Isha, r.HijriDate, r.CachedAt)
	return err
}
