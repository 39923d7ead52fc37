package storage

import (
	"context"

	"github.com/google/uuid"
)

func (s *Store) AddRecipient(ctx context.Context, r Recipient) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Kind == "" {
		r.Kind = "individual"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipients (id, config_id, kind, address, name, enabled)
		 VALUES (?,?,?,?,?,?)`,
		r.ID, r.ConfigID, r.Kind, r.Address, r.Name, boolInt(r.Enabled))
	return r.ID, err
}

// Recipients returns every recipient of the config, enabled or not.
func (s *Store) Recipients(ctx context.Context, configID string) ([]Recipient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config_id, kind, address, name, enabled
		 FROM recipients WHERE config_id = ? ORDER BY created_at`,
		configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var (
			r       Recipient
			enabled int
		)
		if err := rows.Scan(&r.ID, &r.ConfigID, &r.Kind, &r.Address, &r.Name, &enabled); err != nil {
			return nil, err
		}
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRecipient(ctx context.Context, r Recipient) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recipients SET kind = ?, address = ?, name = ?, enabled = ? WHERE id = ?`,
		r.Kind, r.Address, r.Name, boolInt(r.Enabled), r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRecipient(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipients WHERE id = ?`, id)
	return err
}
