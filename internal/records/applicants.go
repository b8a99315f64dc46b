// internal/records/applicants.go
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/metrics"
	"recruit-admin/internal/models"
)

const applicantColumns = "id, nome, email, vaga, cidade, bairro, rua, cpf, transporte, status, observacao, enviado_em, ultima_visualizacao"

func scanApplicant(row interface{ Scan(...interface{}) error }) (*models.ApplicantRecord, error) {
	var rec models.ApplicantRecord
	var observacao sql.NullString
	var transporte sql.NullString
	var lastView []byte
	err := row.Scan(&rec.ID, &rec.Nome, &rec.Email, &rec.Vaga, &rec.Cidade,
		&rec.Bairro, &rec.Rua, &rec.CPF, &transporte, &rec.Status,
		&observacao, &rec.EnviadoEm, &lastView)
	if err != nil {
		return nil, err
	}
	rec.Observacao = observacao.String
	rec.Transporte = transporte.String
	if len(lastView) > 0 {
		var stamp models.ViewStamp
		if err := json.Unmarshal(lastView, &stamp); err == nil {
			rec.LastViewed = &stamp
		}
	}
	return &rec, nil
}

// ListApplicants returns one page of applicant records matching the filters,
// newest submissions first, together with the unfiltered-by-pagination total.
func (s *Store) ListApplicants(ctx context.Context, filters ApplicantFilters, page, limit int) (*models.ApplicantPage, error) {
	start := time.Now()
	defer func() { metrics.RecordOpDuration.WithLabelValues("list").Observe(time.Since(start).Seconds()) }()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where, args := filters.buildWhere()

	var total int
	countQuery := "SELECT COUNT(*) FROM candidaturas" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, errors.NewStorageError("count applicants", err)
	}

	query := fmt.Sprintf("SELECT %s FROM candidaturas%s ORDER BY enviado_em DESC LIMIT $%d OFFSET $%d",
		applicantColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError("list applicants", err)
	}
	defer rows.Close()

	records := make([]models.ApplicantRecord, 0, limit)
	for rows.Next() {
		rec, err := scanApplicant(rows)
		if err != nil {
			return nil, errors.NewStorageError("scan applicant", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("list applicants", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &models.ApplicantPage{
		Records:    records,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetApplicant loads a single record by id.
func (s *Store) GetApplicant(ctx context.Context, id string) (*models.ApplicantRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM candidaturas WHERE id = $1", applicantColumns)
	rec, err := scanApplicant(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("candidatura", id)
	}
	if err != nil {
		return nil, errors.NewStorageError("get applicant", err)
	}
	return rec, nil
}

// UpdateStatus changes an applicant's status and optional note, appends a
// history entry and triggers the hired hook when the new status is the hired
// one. History and hook failures are logged but never roll back the update.
func (s *Store) UpdateStatus(ctx context.Context, id, newStatus string, observacao *string, actorID string) (*models.ApplicantRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordOpDuration.WithLabelValues("update_status").Observe(time.Since(start).Seconds()) }()

	current, err := s.GetApplicant(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := current.Status

	var query string
	var args []interface{}
	if observacao != nil {
		query = fmt.Sprintf("UPDATE candidaturas SET status = $1, observacao = $2 WHERE id = $3 RETURNING %s", applicantColumns)
		args = []interface{}{newStatus, *observacao, id}
	} else {
		query = fmt.Sprintf("UPDATE candidaturas SET status = $1 WHERE id = $2 RETURNING %s", applicantColumns)
		args = []interface{}{newStatus, id}
	}
	updated, err := scanApplicant(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("candidatura", id)
	}
	if err != nil {
		return nil, errors.NewStorageError("update status", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO status_history (id, candidatura_id, usuario_id, status_anterior, status_novo, criado_em) VALUES ($1, $2, $3, $4, $5, $6)",
		uuid.New().String(), id, actorID, previous, newStatus, s.now().UTC()); err != nil {
		s.log.WithError(err).Warn("failed to append status history", map[string]interface{}{
			"candidatura_id": id,
			"status":         newStatus,
		})
	}

	if newStatus == models.StatusHired && previous != models.StatusHired && s.onHired != nil {
		if err := s.onHired(ctx, updated); err != nil {
			s.log.WithError(err).Warn("hired hook failed", map[string]interface{}{
				"candidatura_id": id,
			})
		}
	}
	if s.onStatusChange != nil && previous != newStatus {
		s.onStatusChange(ctx, updated, previous)
	}
	return updated, nil
}

// StatusHistory returns the transition log of one applicant, newest first.
func (s *Store) StatusHistory(ctx context.Context, applicantID string) ([]models.StatusHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, candidatura_id, usuario_id, status_anterior, status_novo, criado_em FROM status_history WHERE candidatura_id = $1 ORDER BY criado_em DESC",
		applicantID)
	if err != nil {
		return nil, errors.NewStorageError("status history", err)
	}
	defer rows.Close()

	var entries []models.StatusHistoryEntry
	for rows.Next() {
		var e models.StatusHistoryEntry
		var prev sql.NullString
		if err := rows.Scan(&e.ID, &e.ApplicantID, &e.ActorUserID, &prev, &e.NewStatus, &e.CreatedAt); err != nil {
			return nil, errors.NewStorageError("scan status history", err)
		}
		e.PreviousStatus = prev.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordView stamps who looked at the record last. Concurrent viewers
// overwrite each other; last write wins.
func (s *Store) RecordView(ctx context.Context, id string, viewer models.ViewStamp) error {
	if viewer.Timestamp.IsZero() {
		viewer.Timestamp = s.now().UTC()
	}
	payload, err := json.Marshal(viewer)
	if err != nil {
		return errors.NewValidationError("view stamp", err.Error())
	}
	res, err := s.db.ExecContext(ctx, "UPDATE candidaturas SET ultima_visualizacao = $1 WHERE id = $2", payload, id)
	if err != nil {
		return errors.NewStorageError("record view", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("candidatura", id)
	}
	return nil
}

// DeleteApplicant removes a record permanently. Dependent rows (comments,
// history) go with it via ON DELETE CASCADE.
func (s *Store) DeleteApplicant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM candidaturas WHERE id = $1", id)
	if err != nil {
		return errors.NewStorageError("delete applicant", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("candidatura", id)
	}
	return nil
}
