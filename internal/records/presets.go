// internal/records/presets.go
package records

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/models"
)

// ListPresets returns the saved filter presets of one user, newest first.
func (s *Store) ListPresets(ctx context.Context, userID string) ([]models.FilterPreset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, user_name, name, filters, created_at FROM user_filter_presets WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, errors.NewStorageError("list presets", err)
	}
	defer rows.Close()

	var presets []models.FilterPreset
	for rows.Next() {
		var p models.FilterPreset
		var filters []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.Name, &filters, &p.CreatedAt); err != nil {
			return nil, errors.NewStorageError("scan preset", err)
		}
		p.Filters = json.RawMessage(filters)
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// SavePreset stores a named filter combination for later reuse.
func (s *Store) SavePreset(ctx context.Context, userID, userName, name string, filters json.RawMessage) (*models.FilterPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "preset name is required")
	}
	if len(filters) == 0 {
		filters = json.RawMessage("{}")
	}

	p := models.FilterPreset{
		ID:        uuid.New().String(),
		UserID:    userID,
		UserName:  userName,
		Name:      name,
		Filters:   filters,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_filter_presets (id, user_id, user_name, name, filters, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		p.ID, p.UserID, p.UserName, p.Name, []byte(p.Filters), p.CreatedAt)
	if err != nil {
		return nil, errors.NewStorageError("save preset", err)
	}
	return &p, nil
}

// UpdatePreset renames a preset and/or replaces its filter payload.
func (s *Store) UpdatePreset(ctx context.Context, id string, name *string, filters json.RawMessage) error {
	if name == nil && len(filters) == 0 {
		return errors.NewValidationError("preset", "nothing to update")
	}
	var (
		sets []string
		args []interface{}
	)
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return errors.NewValidationError("name", "preset name is required")
		}
		args = append(args, trimmed)
		sets = append(sets, "name = $1")
	}
	if len(filters) > 0 {
		args = append(args, []byte(filters))
		if len(args) == 1 {
			sets = append(sets, "filters = $1")
		} else {
			sets = append(sets, "filters = $2")
		}
	}
	args = append(args, id)
	query := "UPDATE user_filter_presets SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewStorageError("update preset", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("preset", id)
	}
	return nil
}

// DeletePreset removes a saved preset.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM user_filter_presets WHERE id = $1", id)
	if err != nil {
		return errors.NewStorageError("delete preset", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("preset", id)
	}
	return nil
}
