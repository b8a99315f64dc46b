// internal/models/applicant.go
package models

import "time"

// ApplicantRecord is a row of the candidaturas table. Column names stay in
// Portuguese to match the store owned by the hosted backend.
type ApplicantRecord struct {
	ID         string     `json:"id" db:"id"`
	Nome       string     `json:"nome" db:"nome"`
	Email      string     `json:"email" db:"email"`
	Vaga       string     `json:"vaga" db:"vaga"`
	Cidade     string     `json:"cidade" db:"cidade"`
	Bairro     string     `json:"bairro" db:"bairro"`
	Rua        string     `json:"rua" db:"rua"`
	CPF        string     `json:"cpf" db:"cpf"`
	Transporte string     `json:"transporte" db:"transporte"`
	Status     string     `json:"status" db:"status"`
	Observacao string     `json:"observacao,omitempty" db:"observacao"`
	EnviadoEm  time.Time  `json:"enviado_em" db:"enviado_em"`
	LastViewed *ViewStamp `json:"ultima_visualizacao,omitempty" db:"ultima_visualizacao"`
}

// ViewStamp records who opened an applicant last. Last write wins, no
// history is kept.
type ViewStamp struct {
	ViewerName  string    `json:"viewer_name"`
	ViewerEmail string    `json:"viewer_email"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusHistoryEntry is an append-only record of a status transition,
// created exactly once per transition.
type StatusHistoryEntry struct {
	ID             string    `json:"id" db:"id"`
	ApplicantID    string    `json:"candidatura_id" db:"candidatura_id"`
	ActorUserID    string    `json:"usuario_id" db:"usuario_id"`
	PreviousStatus string    `json:"status_anterior" db:"status_anterior"`
	NewStatus      string    `json:"status_novo" db:"status_novo"`
	CreatedAt      time.Time `json:"criado_em" db:"criado_em"`
}

// ApplicantPage is one page of a filtered listing.
type ApplicantPage struct {
	Records    []ApplicantRecord `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// StatusHired is the transition that opens a probation period.
const StatusHired = "Contratado"
