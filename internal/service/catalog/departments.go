package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/auth"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const (
	departmentColumns = "id, name, code, description, created_at, updated_at"
	deptDataColumns   = "id, department_id, category, title, content, created_at, updated_at"
	deptAcctColumns   = "id, department_id, username, password_hash, created_at"
)

// ErrInvalidLogin is returned when department account credentials are wrong.
var ErrInvalidLogin = errors.New("invalid username or password")

// CreateDepartment inserts a new department.
func (s *Service) CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error) {
	now := s.now()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO departments (`+departmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Code, d.Description, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert department: %w", err)
	}
	return d, nil
}

// GetDepartment fetches one department by id.
func (s *Service) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = ?`, id)
	d, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

// ListDepartments returns all departments ordered by name.
func (s *Service) ListDepartments(ctx context.Context, limit int) ([]*models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY name`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []*models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDepartment replaces the mutable fields of a department.
func (s *Service) UpdateDepartment(ctx context.Context, id string, d *models.Department) (*models.Department, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE departments SET name = ?, code = ?, description = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.Code, d.Description, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetDepartment(ctx, id)
}

// DeleteDepartment removes a department. Owned data rows and accounts go with
// it through the foreign key cascade.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDepartmentData inserts a content row owned by one department.
func (s *Service) CreateDepartmentData(ctx context.Context, d *models.DepartmentData) (*models.DepartmentData, error) {
	now := s.now()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Category == "" {
		d.Category = "general"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO department_data (`+deptDataColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DepartmentID, d.Category, d.Title, d.Content, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert department data: %w", err)
	}
	return d, nil
}

// ListDepartmentData returns data rows for one department, newest first.
func (s *Service) ListDepartmentData(ctx context.Context, departmentID string, limit int) ([]*models.DepartmentData, error) {
	query := `SELECT ` + deptDataColumns + ` FROM department_data WHERE department_id = ? ORDER BY created_at DESC`
	args := []interface{}{departmentID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list department data: %w", err)
	}
	defer rows.Close()

	var out []*models.DepartmentData
	for rows.Next() {
		d, err := scanDepartmentData(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department data: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDepartmentData replaces a data row. departmentID scopes the update so
// one department cannot edit another's rows.
func (s *Service) UpdateDepartmentData(ctx context.Context, departmentID, id string, d *models.DepartmentData) (*models.DepartmentData, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE department_data SET category = ?, title = ?, content = ?, updated_at = ? WHERE id = ? AND department_id = ?`,
		d.Category, d.Title, d.Content, s.now(), id, departmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("update department data: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+deptDataColumns+` FROM department_data WHERE id = ?`, id)
	out, err := scanDepartmentData(row)
	if err != nil {
		return nil, fmt.Errorf("reload department data: %w", err)
	}
	return out, nil
}

// DeleteDepartmentData removes a data row scoped to its owning department.
func (s *Service) DeleteDepartmentData(ctx context.Context, departmentID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM department_data WHERE id = ? AND department_id = ?`, id, departmentID)
	if err != nil {
		return fmt.Errorf("delete department data: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDepartmentAccount stores a hashed login for the department panel.
func (s *Service) CreateDepartmentAccount(ctx context.Context, departmentID, username, password string) (*models.DepartmentAccount, error) {
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	acct := &models.DepartmentAccount{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		Username:     username,
		PasswordHash: auth.HashPassword(password),
		CreatedAt:    s.now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO department_accounts (`+deptAcctColumns+`) VALUES (?, ?, ?, ?, ?)`,
		acct.ID, acct.DepartmentID, acct.Username, acct.PasswordHash, acct.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert department account: %w", err)
	}
	return acct, nil
}

// VerifyDepartmentAccount checks department panel credentials and returns the
// matching account.
func (s *Service) VerifyDepartmentAccount(ctx context.Context, username, password string) (*models.DepartmentAccount, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+deptAcctColumns+` FROM department_accounts WHERE username = ?`, username)

	var acct models.DepartmentAccount
	err := row.Scan(&acct.ID, &acct.DepartmentID, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("lookup department account: %w", err)
	}
	if !auth.CheckPassword(password, acct.PasswordHash) {
		return nil, ErrInvalidLogin
	}
	return &acct, nil
}

// DeleteDepartmentAccount removes a panel login.
func (s *Service) DeleteDepartmentAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM department_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete department account: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDepartment(r rowScanner) (*models.Department, error) {
	var d models.Department
	err := r.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDepartmentData(r rowScanner) (*models.DepartmentData, error) {
	var d models.DepartmentData
	err := r.Scan(&d.ID, &d.DepartmentID, &d.Category, &d.Title, &d.Content, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
