// internal/models/experience.go
package models

import "time"

// Contract types for an experience (probation) period.
type ContractType string

const (
	Contract40Days ContractType = "40days"
	Contract80Days ContractType = "80days"
	// ContractRenewal marks the second 40-day window of a renewed period.
	ContractRenewal ContractType = "renewal"
)

// Phase of a probation chain. A first-phase period may be renewed exactly
// once into a second-phase one; single-phase (80-day) periods are terminal.
type ExperiencePhase string

const (
	PhaseFirst  ExperiencePhase = "first"
	PhaseSecond ExperiencePhase = "second"
	PhaseSingle ExperiencePhase = "single"
)

// Persisted status of a probation period. expired and completed are also
// derived at read time from the dates and override the stored value.
type ExperienceStatus string

const (
	ExperienceActive    ExperienceStatus = "active"
	ExperienceCompleted ExperienceStatus = "completed"
	ExperienceExpired   ExperienceStatus = "expired"
	ExperienceRenewed   ExperienceStatus = "renewed"
)

// ProbationPeriod is a row of the employee_experience table. Applicant
// identity fields are snapshotted at hire time.
type ProbationPeriod struct {
	ID               string           `json:"id" db:"id"`
	ApplicantID      string           `json:"candidatura_id" db:"candidatura_id"`
	Nome             string           `json:"nome" db:"nome"`
	Vaga             string           `json:"vaga" db:"vaga"`
	Cidade           string           `json:"cidade" db:"cidade"`
	ContractType     ContractType     `json:"contract_type" db:"contract_type"`
	StartDate        time.Time        `json:"start_date" db:"start_date"`
	EndDate          time.Time        `json:"end_date" db:"end_date"`
	Phase            ExperiencePhase  `json:"phase" db:"phase"`
	Status           ExperienceStatus `json:"status" db:"status"`
	RenewedToID      *string          `json:"renewed_to_id,omitempty" db:"renewed_to_id"`
	OriginalPeriodID *string          `json:"original_period_id,omitempty" db:"original_period_id"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}
