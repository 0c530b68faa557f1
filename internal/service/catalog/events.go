package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const eventColumns = "id, title, description, venue, starts_at, ends_at, created_at, updated_at"

// CreateEvent inserts a new campus event.
func (s *Service) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	now := s.now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Venue, e.StartsAt, e.EndsAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// GetEvent fetches one event by id.
func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns events soonest first, capped at limit when limit > 0.
func (s *Service) ListEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEvent replaces the mutable fields of an event.
func (s *Service) UpdateEvent(ctx context.Context, id string, e *models.Event) (*models.Event, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, venue = ?, starts_at = ?, ends_at = ?, updated_at = ? WHERE id = ?`,
		e.Title, e.Description, e.Venue, e.StartsAt, e.EndsAt, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetEvent(ctx, id)
}

// DeleteEvent removes one event by id.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(r rowScanner) (*models.Event, error) {
	var e models.Event
	err := r.Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
