package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const staffColumns = "id, name, designation, department_id, employee_id, email, phone, cabin, created_at, updated_at"

// CreateStaff inserts a new staff directory entry.
func (s *Service) CreateStaff(ctx context.Context, m *models.StaffMember) (*models.StaffMember, error) {
	now := s.now()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff_members (`+staffColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Designation, nullIfEmpty(m.DepartmentID), m.EmployeeID, m.Email, m.Phone, m.Cabin, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert staff member: %w", err)
	}
	return m, nil
}

// GetStaff fetches one staff member by id.
func (s *Service) GetStaff(ctx context.Context, id string) (*models.StaffMember, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id = ?`, id)
	m, err := scanStaff(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff member: %w", err)
	}
	return m, nil
}

// ListStaff returns staff ordered by name, capped at limit when limit > 0.
func (s *Service) ListStaff(ctx context.Context, limit int) ([]*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members ORDER BY name`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []*models.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateStaff replaces the mutable fields of a staff member.
func (s *Service) UpdateStaff(ctx context.Context, id string, m *models.StaffMember) (*models.StaffMember, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE staff_members SET name = ?, designation = ?, department_id = ?, employee_id = ?, email = ?, phone = ?, cabin = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.Designation, nullIfEmpty(m.DepartmentID), m.EmployeeID, m.Email, m.Phone, m.Cabin, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update staff member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetStaff(ctx, id)
}

// DeleteStaff removes one staff member by id.
func (s *Service) DeleteStaff(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete staff member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStaff(r rowScanner) (*models.StaffMember, error) {
	var (
		m    models.StaffMember
		dept sql.NullString
	)
	err := r.Scan(&m.ID, &m.Name, &m.Designation, &dept, &m.EmployeeID, &m.Email, &m.Phone, &m.Cabin, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.DepartmentID = dept.String
	return &m, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
