// internal/records/staff.go
package records

import (
	"context"
	"database/sql"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/models"
)

// ListStaff returns every back-office user, ordered by name.
func (s *Store) ListStaff(ctx context.Context) ([]models.StaffProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, email, nivel, criado_em FROM usuarios ORDER BY nome",
	)
	if err != nil {
		return nil, errors.NewStorageError("list staff", err)
	}
	defer rows.Close()

	var staff []models.StaffProfile
	for rows.Next() {
		var p models.StaffProfile
		if err := rows.Scan(&p.ID, &p.Nome, &p.Email, &p.Nivel, &p.CriadoEm); err != nil {
			return nil, errors.NewStorageError("scan staff", err)
		}
		staff = append(staff, p)
	}
	return staff, rows.Err()
}

// GetStaffByID loads one back-office user profile.
func (s *Store) GetStaffByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	var p models.StaffProfile
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nome, email, nivel, criado_em FROM usuarios WHERE id = $1", id,
	).Scan(&p.ID, &p.Nome, &p.Email, &p.Nivel, &p.CriadoEm)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("usuario", id)
	}
	if err != nil {
		return nil, errors.NewStorageError("get staff", err)
	}
	return &p, nil
}
