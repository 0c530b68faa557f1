package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const noticeColumns = "id, title, body, category, published, created_at, updated_at"

// CreateNotice inserts a new notice. Notices default to published.
func (s *Service) CreateNotice(ctx context.Context, n *models.Notice) (*models.Notice, error) {
	now := s.now()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Category == "" {
		n.Category = "general"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notices (`+noticeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Body, n.Category, n.Published, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notice: %w", err)
	}
	return n, nil
}

// GetNotice fetches one notice by id.
func (s *Service) GetNotice(ctx context.Context, id string) (*models.Notice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = ?`, id)
	n, err := scanNotice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return n, nil
}

// ListNotices returns notices newest first. publishedOnly restricts the list
// to what visitors may see; limit caps the result when > 0.
func (s *Service) ListNotices(ctx context.Context, publishedOnly bool, limit int) ([]*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices`
	args := []interface{}{}
	if publishedOnly {
		query += ` WHERE published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var out []*models.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateNotice replaces the mutable fields of a notice.
func (s *Service) UpdateNotice(ctx context.Context, id string, n *models.Notice) (*models.Notice, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notices SET title = ?, body = ?, category = ?, published = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Body, n.Category, n.Published, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update notice: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetNotice(ctx, id)
}

// DeleteNotice removes one notice by id.
func (s *Service) DeleteNotice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNotice(r rowScanner) (*models.Notice, error) {
	var n models.Notice
	err := r.Scan(&n.ID, &n.Title, &n.Body, &n.Category, &n.Published, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
