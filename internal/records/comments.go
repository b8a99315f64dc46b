// internal/records/comments.go
package records

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/models"
)

// ListComments returns an applicant's comments, newest first. The display
// name falls back per the author linkage when the snapshot is missing.
func (s *Store) ListComments(ctx context.Context, applicantID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, candidatura_id, usuario_id, owner_name, comentario, tipo, criado_em FROM comentarios WHERE candidatura_id = $1 ORDER BY criado_em DESC",
		applicantID)
	if err != nil {
		return nil, errors.NewStorageError("list comments", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var authorID, ownerName sql.NullString
		if err := rows.Scan(&c.ID, &c.ApplicantID, &authorID, &ownerName, &c.Body, &c.Kind, &c.CreatedAt); err != nil {
			return nil, errors.NewStorageError("scan comment", err)
		}
		if authorID.Valid {
			c.AuthorID = &authorID.String
		}
		c.OwnerName = ownerName.String
		c.DisplayName = displayName(c.OwnerName, c.AuthorID)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func displayName(ownerName string, authorID *string) string {
	if ownerName != "" {
		return ownerName
	}
	if authorID == nil {
		return "Sistema"
	}
	return "Usuário"
}

// CreateComment records a comment against an applicant. Kind defaults to a
// plain observation when empty.
func (s *Store) CreateComment(ctx context.Context, applicantID, authorID, body, kind string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewValidationError("comentario", "comment body is required")
	}
	if kind == "" {
		kind = models.CommentKindNote
	}

	c := models.Comment{
		ID:          uuid.New().String(),
		ApplicantID: applicantID,
		Body:        body,
		Kind:        kind,
		CreatedAt:   s.now().UTC(),
	}
	if authorID != "" {
		c.AuthorID = &authorID
	}

	err := s.db.QueryRowContext(ctx,
		"INSERT INTO comentarios (id, candidatura_id, usuario_id, comentario, tipo, criado_em) VALUES ($1, $2, $3, $4, $5, $6) RETURNING owner_name",
		c.ID, c.ApplicantID, c.AuthorID, c.Body, c.Kind, c.CreatedAt,
	).Scan(&c.OwnerName)
	if err != nil {
		return nil, errors.NewStorageError("create comment", err)
	}
	c.DisplayName = displayName(c.OwnerName, c.AuthorID)
	return &c, nil
}

// UpdateComment changes the body and/or kind of an existing comment.
func (s *Store) UpdateComment(ctx context.Context, id string, body, kind *string) error {
	if body == nil && kind == nil {
		return errors.NewValidationError("comentario", "nothing to update")
	}
	var (
		sets []string
		args []interface{}
	)
	if body != nil {
		trimmed := strings.TrimSpace(*body)
		if trimmed == "" {
			return errors.NewValidationError("comentario", "comment body is required")
		}
		args = append(args, trimmed)
		sets = append(sets, "comentario = $1")
	}
	if kind != nil {
		args = append(args, *kind)
		if len(args) == 1 {
			sets = append(sets, "tipo = $1")
		} else {
			sets = append(sets, "tipo = $2")
		}
	}
	args = append(args, id)
	query := "UPDATE comentarios SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewStorageError("update comment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("comentario", id)
	}
	return nil
}

// DeleteComment removes a comment by id.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comentarios WHERE id = $1", id)
	if err != nil {
		return errors.NewStorageError("delete comment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("comentario", id)
	}
	return nil
}
