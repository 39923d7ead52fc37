package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const configColumns = `id, owner_id, owner_address, session_id, timezone,
	latitude, longitude, calc_method, time_mode,
	manual_fajr, manual_dhuhr, manual_asr, manual_maghrib, manual_isha,
	hijri_adjustment, friday_kahf, enabled`

func scanConfig(row interface{ Scan(...any) error }) (*TenantConfig, error) {
	var (
		c                   TenantConfig
		sessionID           sql.NullString
		lat, lon            sql.NullFloat64
		mf, md, ma, mm, mi  sql.NullString
		fridayKahf, enabled int
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.OwnerAddress, &sessionID, &c.Timezone,
		&lat, &lon, &c.CalcMethod, &c.TimeMode,
		&mf, &md, &ma, &mm, &mi,
		&c.HijriAdjustment, &fridayKahf, &enabled)
	if err != nil {
		return nil, err
	}
	c.SessionID = sessionID.String
	if lat.Valid && lon.Valid {
		c.Latitude, c.Longitude, c.HasLocation = lat.Float64, lon.Float64, true
	}
	c.Manual = ManualPrayerTimes{
		Fajr: mf.String, Dhuhr: md.String, Asr: ma.String,
		Maghrib: mm.String, Isha: mi.String,
	}
	c.FridayKahf = fridayKahf != 0
	c.Enabled = enabled != 0
	return &c, nil
}

// GetOrCreateConfig returns the owner's config, creating it together with
// its five prayer settings rows, fasting row and content-prefs row the
// first time the owner is seen.
func (s *Store) GetOrCreateConfig(ctx context.Context, ownerID, ownerAddress string) (*TenantConfig, error) {
	cfg, err := s.configByOwner(ctx, ownerID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	configID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reminder_configs (id, owner_id, owner_address) VALUES (?,?,?)`,
		configID, ownerID, ownerAddress,
	); err != nil {
		return nil, err
	}
	for _, prayer := range PrayerNames {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO prayer_settings (id, config_id, prayer_name) VALUES (?,?,?)`,
			uuid.NewString(), configID, prayer,
		); err != nil {
			return nil, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO fasting_settings (id, config_id) VALUES (?,?)`,
		uuid.NewString(), configID,
	); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO content_prefs (id, config_id) VALUES (?,?)`,
		uuid.NewString(), configID,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.configByOwner(ctx, ownerID)
}

func (s *Store) configByOwner(ctx context.Context, ownerID string) (*TenantConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM reminder_configs WHERE owner_id = ?`, ownerID)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cfg, err
}

// ListDueConfigs returns every enabled config with a linked session.
// Session readiness is the caller's concern.
func (s *Store) ListDueConfigs(ctx context.Context) ([]TenantConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+configColumns+` FROM reminder_configs
		 WHERE enabled = 1 AND session_id IS NOT NULL AND session_id != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TenantConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cfg)
	}
	return out, rows.Err()
}

// LinkSession attaches a transport session to the config.
func (s *Store) LinkSession(ctx context.Context, configID, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE reminder_configs SET session_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullStr(sessionID), configID)
	return err
}

// UpdateGeneralSettings mutates the tenant-level knobs set from the
// settings surface.
func (s *Store) UpdateGeneralSettings(ctx context.Context, configID string, c TenantConfig) error {
	var lat, lon any
	if c.HasLocation {
		lat, lon = c.Latitude, c.Longitude
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE reminder_configs SET
			owner_address = ?, timezone = ?, latitude = ?, longitude = ?,
			calc_method = ?, time_mode = ?,
			manual_fajr = ?, manual_dhuhr = ?, manual_asr = ?, manual_maghrib = ?, manual_isha = ?,
			hijri_adjustment = ?, friday_kahf = ?, enabled = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.OwnerAddress, c.Timezone, lat, lon,
		c.CalcMethod, c.TimeMode,
		nullStr(c.Manual.Fajr), nullStr(c.Manual.Dhuhr), nullStr(c.Manual.Asr),
		nullStr(c.Manual.Maghrib), nullStr(c.Manual.Isha),
		c.HijriAdjustment, boolInt(c.FridayKahf), boolInt(c.Enabled),
		configID)
	return err
}

// PrayerSettings returns the five per-prayer rows in day order.
func (s *Store) PrayerSettings(ctx context.Context, configID string) ([]PrayerSetting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config_id, prayer_name, enabled, before_minutes,
			after_adhkar_enabled, after_adhkar_delay, after_adhkar_show_link
		 FROM prayer_settings WHERE config_id = ?
		 ORDER BY CASE prayer_name
			WHEN 'fajr' THEN 1 WHEN 'dhuhr' THEN 2 WHEN 'asr' THEN 3
			WHEN 'maghrib' THEN 4 WHEN 'isha' THEN 5 END`,
		configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PrayerSetting
	for rows.Next() {
		var (
			p                   PrayerSetting
			enabled, aaEn, aaSL int
		)
		if err := rows.Scan(&p.ID, &p.ConfigID, &p.Prayer, &enabled, &p.BeforeMinutes,
			&aaEn, &p.AfterAdhkarDelayMin, &aaSL); err != nil {
			return nil, err
		}
		p.Enabled = enabled != 0
		p.AfterAdhkarEnabled = aaEn != 0
		p.AfterAdhkarShowLink = aaSL != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePrayerSetting(ctx context.Context, p PrayerSetting) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prayer_settings SET enabled = ?, before_minutes = ?,
			after_adhkar_enabled = ?, after_adhkar_delay = ?, after_adhkar_show_link = ?
		 WHERE id = ?`,
		boolInt(p.Enabled), p.BeforeMinutes,
		boolInt(p.AfterAdhkarEnabled), p.AfterAdhkarDelayMin, boolInt(p.AfterAdhkarShowLink),
		p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FastingSettings(ctx context.Context, configID string) (*FastingSettings, error) {
	var (
		f                   FastingSettings
		mo, th, wd, ash, ar int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, config_id, monday, thursday, white_days, ashura, arafah, reminder_time
		 FROM fasting_settings WHERE config_id = ?`, configID).
		Scan(&f.ID, &f.ConfigID, &mo, &th, &wd, &ash, &ar, &f.ReminderTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.Monday, f.Thursday, f.WhiteDays = mo != 0, th != 0, wd != 0
	f.Ashura, f.Arafah = ash != 0, ar != 0
	return &f, nil
}

func (s *Store) UpdateFastingSettings(ctx context.Context, f FastingSettings) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE fasting_settings SET monday = ?, thursday = ?, white_days = ?,
			ashura = ?, arafah = ?, reminder_time = ?
		 WHERE config_id = ?`,
		boolInt(f.Monday), boolInt(f.Thursday), boolInt(f.WhiteDays),
		boolInt(f.Ashura), boolInt(f.Arafah), f.ReminderTime, f.ConfigID)
	return err
}

func (s *Store) ContentPrefs(ctx context.Context, configID string) (*ContentPrefs, error) {
	var (
		p                                  ContentPrefs
		moEn, moSL, evEn, evSL, daEn, daSL int
		quEn                               int
		haEn, haSL, haSS, haSIS            int
		seEn, seSS, seSL                   int
		showSrcLink                        int
		hadithTimesJSON, selectedTimesJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, config_id,
			morning_enabled, morning_time, morning_source, morning_show_link,
			evening_enabled, evening_time, evening_source, evening_show_link,
			daily_enabled, daily_time, daily_source, daily_show_link,
			quran_enabled, quran_time, quran_pages_per_day,
			hadith_enabled, hadith_time, hadith_times_json, hadith_count, hadith_source,
			hadith_show_link, hadith_media_mode, hadith_show_source, hadith_show_img_source,
			hadith_image_source, hadith_image_theme,
			selected_enabled, selected_category, selected_media_mode, selected_show_source,
			selected_show_link, selected_image_theme, selected_times_json, selected_count,
			text_length, media_preference, show_source_link
		 FROM content_prefs WHERE config_id = ?`, configID).
		Scan(&p.ID, &p.ConfigID,
			&moEn, &p.Morning.Time, &p.Morning.Source, &moSL,
			&evEn, &p.Evening.Time, &p.Evening.Source, &evSL,
			&daEn, &p.Daily.Time, &p.Daily.Source, &daSL,
			&quEn, &p.Quran.Time, &p.Quran.PagesPerDay,
			&haEn, &p.Hadith.Time, &hadithTimesJSON, &p.Hadith.Count, &p.Hadith.Source,
			&haSL, &p.Hadith.MediaMode, &haSS, &haSIS,
			&p.Hadith.ImageSource, &p.Hadith.ImageTheme,
			&seEn, &p.Selected.Category, &p.Selected.MediaMode, &seSS,
			&seSL, &p.Selected.ImageTheme, &selectedTimesJSON, &p.Selected.Count,
			&p.TextLength, &p.MediaPreference, &showSrcLink)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Morning.Enabled, p.Morning.ShowLink = moEn != 0, moSL != 0
	p.Evening.Enabled, p.Evening.ShowLink = evEn != 0, evSL != 0
	p.Daily.Enabled, p.Daily.ShowLink = daEn != 0, daSL != 0
	p.Quran.Enabled = quEn != 0
	p.Hadith.Enabled, p.Hadith.ShowLink = haEn != 0, haSL != 0
	p.Hadith.ShowSourceText, p.Hadith.ShowImageSourceText = haSS != 0, haSIS != 0
	p.Selected.Enabled, p.Selected.ShowSourceText, p.Selected.ShowLink = seEn != 0, seSS != 0, seSL != 0
	p.ShowSourceLink = showSrcLink != 0
	p.Hadith.Times = decodeTimes(hadithTimesJSON.String)
	p.Selected.Times = decodeTimes(selectedTimesJSON.String)
	return &p, nil
}

func (s *Store) UpdateContentPrefs(ctx context.Context, p ContentPrefs) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE content_prefs SET
			morning_enabled = ?, morning_time = ?, morning_source = ?, morning_show_link = ?,
			evening_enabled = ?, evening_time = ?, evening_source = ?, evening_show_link = ?,
			daily_enabled = ?, daily_time = ?, daily_source = ?, daily_show_link = ?,
			quran_enabled = ?, quran_time = ?, quran_pages_per_day = ?,
			hadith_enabled = ?, hadith_time = ?, hadith_times_json = ?, hadith_count = ?,
			hadith_source = ?, hadith_show_link = ?, hadith_media_mode = ?,
			hadith_show_source = ?, hadith_show_img_source = ?,
			hadith_image_source = ?, hadith_image_theme = ?,
			selected_enabled = ?, selected_category = ?, selected_media_mode = ?,
			selected_show_source = ?, selected_show_link = ?, selected_image_theme = ?,
			selected_times_json = ?, selected_count = ?,
			text_length = ?, media_preference = ?, show_source_link = ?
		 WHERE config_id = ?`,
		boolInt(p.Morning.Enabled), p.Morning.Time, p.Morning.Source, boolInt(p.Morning.ShowLink),
		boolInt(p.Evening.Enabled), p.Evening.Time, p.Evening.Source, boolInt(p.Evening.ShowLink),
		boolInt(p.Daily.Enabled), p.Daily.Time, p.Daily.Source, boolInt(p.Daily.ShowLink),
		boolInt(p.Quran.Enabled), p.Quran.Time, p.Quran.PagesPerDay,
		boolInt(p.Hadith.Enabled), p.Hadith.Time, encodeTimes(p.Hadith.Times), p.Hadith.Count,
		p.Hadith.Source, boolInt(p.Hadith.ShowLink), p.Hadith.MediaMode,
		boolInt(p.Hadith.ShowSourceText), boolInt(p.Hadith.ShowImageSourceText),
		p.Hadith.ImageSource, p.Hadith.ImageTheme,
		boolInt(p.Selected.Enabled), p.Selected.Category, p.Selected.MediaMode,
		boolInt(p.Selected.ShowSourceText), boolInt(p.Selected.ShowLink), p.Selected.ImageTheme,
		encodeTimes(p.Selected.Times), p.Selected.Count,
		p.TextLength, p.MediaPreference, boolInt(p.ShowSourceLink),
		p.ConfigID)
	return err
}

func decodeTimes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeTimes(times []string) any {
	if len(times) == 0 {
		return nil
	}
	b, err := json.Marshal(times)
	if err != nil {
		return nil
	}
	return string(b)
}
