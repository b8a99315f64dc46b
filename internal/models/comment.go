// internal/models/comment.go
package models

import "time"

// Comment belongs to an applicant and is mutable by its author or an
// authorized role. owner_name is filled by a backend trigger, never joined.
type Comment struct {
	ID          string    `json:"id" db:"id"`
	ApplicantID string    `json:"candidatura_id" db:"candidatura_id"`
	AuthorID    *string   `json:"usuario_id" db:"usuario_id"`
	OwnerName   string    `json:"owner_name" db:"owner_name"`
	Body        string    `json:"comentario" db:"comentario"`
	Kind        string    `json:"tipo" db:"tipo"`
	CreatedAt   time.Time `json:"criado_em" db:"criado_em"`

	// Derived for presentation: owner_name, or Sistema/Usuário fallback.
	DisplayName string `json:"nome_exibicao" db:"-"`
}

// Comment kinds accepted by the store.
const (
	CommentKindNote      = "observacao"
	CommentKindInterview = "entrevista"
	CommentKindSystem    = "sistema"
)
