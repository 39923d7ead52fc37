package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// CustomJobs returns the config's enabled jobs.
func (s *Store) CustomJobs(ctx context.Context, configID string) ([]CustomJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config_id, title, enabled, payload_json, schedule_json
		 FROM custom_jobs WHERE config_id = ? AND enabled = 1
		 ORDER BY created_at DESC`,
		configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomJob
	for rows.Next() {
		var (
			j                   CustomJob
			enabled             int
			payloadB, scheduleB string
		)
		if err := rows.Scan(&j.ID, &j.ConfigID, &j.Title, &enabled, &payloadB, &scheduleB); err != nil {
			return nil, err
		}
		j.Enabled = enabled != 0
		// A job with an unreadable payload or schedule is skipped rather
		// than failing the whole listing.
		if err := json.Unmarshal([]byte(payloadB), &j.Payload); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(scheduleB), &j.Schedule); err != nil {
			continue
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *Store) UpsertCustomJob(ctx context.Context, j CustomJob) (string, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	payloadB, err := json.Marshal(j.Payload)
	if err != nil {
		return "", err
	}
	scheduleB, err := json.Marshal(j.Schedule)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_jobs (id, config_id, title, enabled, payload_json, schedule_json)
		 VALUES (?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, enabled = excluded.enabled,
			payload_json = excluded.payload_json, schedule_json = excluded.schedule_json,
			updated_at = CURRENT_TIMESTAMP`,
		j.ID, j.ConfigID, j.Title, boolInt(j.Enabled), string(payloadB), string(scheduleB))
	return j.ID, err
}

func (s *Store) DeleteCustomJob(ctx context.Context, configID, jobID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM custom_job_log WHERE job_id = ? AND config_id = ?`, jobID, configID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM custom_jobs WHERE id = ? AND config_id = ?`, jobID, configID)
	return err
}

// InsertCustomJobLog appends a job occurrence row; reports false when the
// (job, date, send_time) slot was already recorded.
func (s *Store) InsertCustomJobLog(ctx context.Context, jobID, configID, date, sendTime string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO custom_job_log (job_id, config_id, date, send_time) VALUES (?,?,?,?)`,
		jobID, configID, date, sendTime)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SeenCustomJobSlot reports whether the job already fired for the slot.
func (s *Store) SeenCustomJobSlot(ctx context.Context, jobID, date, sendTime string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM custom_job_log WHERE job_id = ? AND date = ? AND send_time = ?`,
		jobID, date, sendTime).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
