package storage

import (
	"context"
	"database/sql"
	"errors"
)

// InsertScheduleLog appends one ledger row. The insert is atomic at the
// storage layer: a row that already exists for (config, kind, date,
// send_time) makes this a no-op and the method reports false.
func (s *Store) InsertScheduleLog(ctx context.Context, e ScheduleLogEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schedule_log
			(config_id, kind, date, send_time, content_id, content_hash, image_url)
		 VALUES (?,?,?,?,?,?,?)`,
		e.ConfigID, e.Kind, e.Date, e.SendTime,
		nullStr(e.ContentID), nullStr(e.ContentHash), nullStr(e.ImageURL))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SeenScheduleSlot reports whether the slot already has a ledger row.
func (s *Store) SeenScheduleSlot(ctx context.Context, configID, kind, date, sendTime string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM schedule_log WHERE config_id = ? AND kind = ? AND date = ? AND send_time = ?`,
		configID, kind, date, sendTime).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DayScheduleLog returns the day's ledger rows for a kind; the evaluator
// uses them to build the same-day anti-repeat sets.
func (s *Store) DayScheduleLog(ctx context.Context, configID, kind, date string) ([]ScheduleLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT config_id, kind, date, send_time, content_id, content_hash, image_url
		 FROM schedule_log WHERE config_id = ? AND kind = ? AND date = ?`,
		configID, kind, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScheduleLogEntry
	for rows.Next() {
		var (
			e                   ScheduleLogEntry
			cid, hash, imageURL sql.NullString
		)
		if err := rows.Scan(&e.ConfigID, &e.Kind, &e.Date, &e.SendTime, &cid, &hash, &imageURL); err != nil {
			return nil, err
		}
		e.ContentID, e.ContentHash, e.ImageURL = cid.String, hash.String, imageURL.String
		out = append(out, e)
	}
	return out, rows.Err()
}
