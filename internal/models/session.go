// internal/models/session.go
package models

import "time"

// Session holds the current authentication token. A token past ExpiresAt is
// treated as absent regardless of presence in storage.
type Session struct {
	UserID      string    `json:"userId"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Valid reports whether the token can still be presented at the given time.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// StaffProfile is a row of the usuarios table. Nivel governs which panel
// operations a staff member may issue; the backend enforces it again.
type StaffProfile struct {
	ID       string    `json:"id" db:"id"`
	Nome     string    `json:"nome" db:"nome"`
	Email    string    `json:"email" db:"email"`
	Nivel    string    `json:"nivel" db:"nivel"`
	CriadoEm time.Time `json:"criado_em" db:"criado_em"`
}

// Staff role levels, most to least privileged.
const (
	NivelAdmin    = "admin"
	NivelLider    = "lider"
	NivelAnalista = "analista"
)

// HasPermission reports whether the profile's level covers the required one.
// admin covers everything, lider covers lider and analista.
func (p *StaffProfile) HasPermission(required string) bool {
	if p == nil {
		return false
	}
	covers := map[string][]string{
		NivelAdmin:    {NivelAdmin, NivelLider, NivelAnalista},
		NivelLider:    {NivelLider, NivelAnalista},
		NivelAnalista: {NivelAnalista},
	}
	for _, level := range covers[p.Nivel] {
		if level == required {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the profile carries the admin level.
func (p *StaffProfile) IsAdmin() bool {
	return p != nil && p.Nivel == NivelAdmin
}
