package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const scholarshipColumns = "id, name, provider, amount, eligibility, deadline, created_at, updated_at"

// CreateScholarship inserts a new scholarship scheme.
func (s *Service) CreateScholarship(ctx context.Context, sc *models.Scholarship) (*models.Scholarship, error) {
	now := s.now()
	sc.ID = uuid.NewString()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scholarships (`+scholarshipColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Provider, sc.Amount, sc.Eligibility, sc.Deadline, sc.CreatedAt, sc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scholarship: %w", err)
	}
	return sc, nil
}

// GetScholarship fetches one scholarship by id.
func (s *Service) GetScholarship(ctx context.Context, id string) (*models.Scholarship, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scholarshipColumns+` FROM scholarships WHERE id = ?`, id)
	sc, err := scanScholarship(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scholarship: %w", err)
	}
	return sc, nil
}

// ListScholarships returns scholarships ordered by name, capped at limit when
// limit > 0.
func (s *Service) ListScholarships(ctx context.Context, limit int) ([]*models.Scholarship, error) {
	query := `SELECT ` + scholarshipColumns + ` FROM scholarships ORDER BY name`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	defer rows.Close()

	var out []*models.Scholarship
	for rows.Next() {
		sc, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// UpdateScholarship replaces the mutable fields of a scholarship.
func (s *Service) UpdateScholarship(ctx context.Context, id string, sc *models.Scholarship) (*models.Scholarship, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scholarships SET name = ?, provider = ?, amount = ?, eligibility = ?, deadline = ?, updated_at = ? WHERE id = ?`,
		sc.Name, sc.Provider, sc.Amount, sc.Eligibility, sc.Deadline, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update scholarship: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetScholarship(ctx, id)
}

// DeleteScholarship removes one scholarship by id.
func (s *Service) DeleteScholarship(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scholarships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanScholarship(r rowScanner) (*models.Scholarship, error) {
	var sc models.Scholarship
	err := r.Scan(&sc.ID, &sc.Name, &sc.Provider, &sc.Amount, &sc.Eligibility, &sc.Deadline, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}
