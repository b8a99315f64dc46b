// internal/models/preset.go
package models

import (
	"encoding/json"
	"time"
)

// FilterPreset is a saved filter combination, scoped to the staff member who
// created it.
type FilterPreset struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	UserName  string          `json:"user_name" db:"user_name"`
	Name      string          `json:"name" db:"name"`
	Filters   json.RawMessage `json:"filters" db:"filters"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
