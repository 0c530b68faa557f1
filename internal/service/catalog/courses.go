package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const courseColumns = "id, name, code, department, duration, fees, eligibility, description, created_at, updated_at"

// CreateCourse inserts a new course and returns it with generated fields set.
func (s *Service) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	now := s.now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (`+courseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Code, c.Department, c.Duration, c.Fees, c.Eligibility, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return c, nil
}

// GetCourse fetches one course by id.
func (s *Service) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// ListCourses returns courses ordered by name, capped at limit when limit > 0.
func (s *Service) ListCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY name`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCourse replaces the mutable fields of an existing course.
func (s *Service) UpdateCourse(ctx context.Context, id string, c *models.Course) (*models.Course, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET name = ?, code = ?, department = ?, duration = ?, fees = ?, eligibility = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Code, c.Department, c.Duration, c.Fees, c.Eligibility, c.Description, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetCourse(ctx, id)
}

// DeleteCourse removes one course by id.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(r rowScanner) (*models.Course, error) {
	var c models.Course
	err := r.Scan(&c.ID, &c.Name, &c.Code, &c.Department, &c.Duration, &c.Fees, &c.Eligibility, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
