package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

const courtColumns = "id, name, room_number, building, floor, services, created_at, updated_at"

// CreateCourtOffice inserts a courthouse office row.
func (s *Service) CreateCourtOffice(ctx context.Context, o *models.CourtOffice) (*models.CourtOffice, error) {
	now := s.now()
	o.ID = uuid.NewString()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO court_offices (`+courtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.RoomNumber, o.Building, o.Floor, o.Services, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert court office: %w", err)
	}
	return o, nil
}

// GetCourtOffice fetches one office by id.
func (s *Service) GetCourtOffice(ctx context.Context, id string) (*models.CourtOffice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM court_offices WHERE id = ?`, id)
	o, err := scanCourtOffice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get court office: %w", err)
	}
	return o, nil
}

// ListCourtOffices returns offices ordered by room number.
func (s *Service) ListCourtOffices(ctx context.Context, limit int) ([]*models.CourtOffice, error) {
	query := `SELECT ` + courtColumns + ` FROM court_offices ORDER BY room_number`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list court offices: %w", err)
	}
	defer rows.Close()

	var out []*models.CourtOffice
	for rows.Next() {
		o, err := scanCourtOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan court office: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateCourtOffice replaces the mutable fields of an office.
func (s *Service) UpdateCourtOffice(ctx context.Context, id string, o *models.CourtOffice) (*models.CourtOffice, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE court_offices SET name = ?, room_number = ?, building = ?, floor = ?, services = ?, updated_at = ? WHERE id = ?`,
		o.Name, o.RoomNumber, o.Building, o.Floor, o.Services, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update court office: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetCourtOffice(ctx, id)
}

// DeleteCourtOffice removes one office by id.
func (s *Service) DeleteCourtOffice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM court_offices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete court office: %w", err)
	}
	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCourtOffice(r rowScanner) (*models.CourtOffice, error) {
	var o models.CourtOffice
	err := r.Scan(&o.ID, &o.Name, &o.RoomNumber, &o.Building, &o.Floor, &o.Services, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
