package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

const contentColumns = `id, type, category, body, attribution, source_url, media_url, active, last_sent_at`

func scanContentItem(row interface{ Scan(...any) error }) (*ContentItem, error) {
	var (
		it                            ContentItem
		attribution, srcURL, mediaURL sql.NullString
		active                        int
		lastSent                      sql.NullTime
	)
	err := row.Scan(&it.ID, &it.Type, &it.Category, &it.Body,
		&attribution, &srcURL, &mediaURL, &active, &lastSent)
	if err != nil {
		return nil, err
	}
	it.Attribution = attribution.String
	it.SourceURL = srcURL.String
	it.MediaURL = mediaURL.String
	it.Active = active != 0
	if lastSent.Valid {
		t := lastSent.Time
		it.LastSentAt = &t
	}
	return &it, nil
}

func (s *Store) AddContent(ctx context.Context, it ContentItem) (string, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content_library (id, type, category, body, attribution, source_url, media_url, active)
		 VALUES (?,?,?,?,?,?,?,?)`,
		it.ID, it.Type, it.Category, it.Body,
		nullStr(it.Attribution), nullStr(it.SourceURL), nullStr(it.MediaURL), boolInt(it.Active))
	return it.ID, err
}

// ListActiveContent returns every active item of the type, in stable
// order, optionally narrowed to a category.
func (s *Store) ListActiveContent(ctx context.Context, typ, category string) ([]ContentItem, error) {
	q := `SELECT ` + contentColumns + ` FROM content_library WHERE type = ? AND active = 1`
	args := []any{typ}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContentItem
	for rows.Next() {
		it, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// PickContent returns one active item, least-recently-sent first (never
// sent wins), ties broken randomly. Returns ErrNotFound when the pool is
// empty.
func (s *Store) PickContent(ctx context.Context, typ, category string) (*ContentItem, error) {
	q := `SELECT ` + contentColumns + ` FROM content_library WHERE type = ? AND active = 1`
	args := []any{typ}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY last_sent_at IS NOT NULL, last_sent_at ASC, RANDOM() LIMIT 1`

	it, err := scanContentItem(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

// PickContentMatching returns one active random item whose attribution
// matches the given LIKE pattern (used for named hadith sub-collections).
func (s *Store) PickContentMatching(ctx context.Context, typ, attributionLike string) (*ContentItem, error) {
	it, err := scanContentItem(s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content_library
		 WHERE type = ? AND active = 1 AND attribution LIKE ?
		 ORDER BY RANDOM() LIMIT 1`,
		typ, attributionLike))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (s *Store) MarkContentSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE content_library SET last_sent_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

func (s *Store) CountContent(ctx context.Context, typ string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_library WHERE type = ?`, typ).Scan(&n)
	return n, err
}

func (s *Store) TotalContent(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_library`).Scan(&n)
	return n, err
}
