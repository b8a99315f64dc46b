// internal/experience/engine.go
package experience

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/models"
)

const (
	firstPhaseDays  = 40
	singlePhaseDays = 80
	renewalDays     = 40

	// renewWindowDays is how close to the end date a first-phase period
	// must be before renewal becomes available.
	renewWindowDays = 5
)

// RecordSource is the slice of the record layer the engine needs.
type RecordSource interface {
	GetApplicant(ctx context.Context, id string) (*models.ApplicantRecord, error)
}

// Engine manages probation (experience) periods: creation on hire, derived
// live views and one-time renewal.
type Engine struct {
	db      *sql.DB
	records RecordSource
	log     logger.Logger
	now     func() time.Time
}

func NewEngine(db *sql.DB, records RecordSource, log logger.Logger) *Engine {
	return &Engine{
		db:      db,
		records: records,
		log:     log.WithFields(map[string]interface{}{"component": "experience"}),
		now:     time.Now,
	}
}

const periodColumns = "id, candidatura_id, nome, vaga, cidade, contract_type, start_date, end_date, phase, status, renewed_to_id, original_period_id, created_at"

func scanPeriod(row interface{ Scan(...interface{}) error }) (*models.ProbationPeriod, error) {
	var p models.ProbationPeriod
	var renewedTo, original sql.NullString
	err := row.Scan(&p.ID, &p.ApplicantID, &p.Nome, &p.Vaga, &p.Cidade,
		&p.ContractType, &p.StartDate, &p.EndDate, &p.Phase, &p.Status,
		&renewedTo, &original, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if renewedTo.Valid {
		p.RenewedToID = &renewedTo.String
	}
	if original.Valid {
		p.OriginalPeriodID = &original.String
	}
	return &p, nil
}

// Start opens a probation period for a hired applicant. The applicant must
// exist; identity fields are snapshotted so later record edits do not bleed
// into the probation view.
func (e *Engine) Start(ctx context.Context, applicantID string, contractType models.ContractType) (*models.ProbationPeriod, error) {
	if contractType != models.Contract40Days && contractType != models.Contract80Days {
		return nil, errors.NewValidationError("contract_type", "contract type must be 40days or 80days")
	}

	rec, err := e.records.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	start := e.now().UTC()
	days := firstPhaseDays
	phase := models.PhaseFirst
	if contractType == models.Contract80Days {
		days = singlePhaseDays
		phase = models.PhaseSingle
	}

	p := models.ProbationPeriod{
		ID:           uuid.New().String(),
		ApplicantID:  rec.ID,
		Nome:         rec.Nome,
		Vaga:         rec.Vaga,
		Cidade:       rec.Cidade,
		ContractType: contractType,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, days),
		Phase:        phase,
		Status:       models.ExperienceActive,
		CreatedAt:    start,
	}
	if err := insertPeriod(ctx, e.db, &p); err != nil {
		return nil, err
	}

	e.log.Info("probation period started", map[string]interface{}{
		"period_id":      p.ID,
		"candidatura_id": p.ApplicantID,
		"contract_type":  string(contractType),
		"end_date":       p.EndDate.Format("2006-01-02"),
	})
	return &p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertPeriod(ctx context.Context, db execer, p *models.ProbationPeriod) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO employee_experience (id, candidatura_id, nome, vaga, cidade, contract_type, start_date, end_date, phase, status, original_period_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
		p.ID, p.ApplicantID, p.Nome, p.Vaga, p.Cidade, p.ContractType,
		p.StartDate, p.EndDate, p.Phase, p.Status, p.OriginalPeriodID, p.CreatedAt)
	if err != nil {
		return errors.NewStorageError("insert probation period", err)
	}
	return nil
}

// Renew extends a first-phase period into its second 40-day phase. Second
// and single-phase periods are never renewable; the phase check makes the
// one-renewal limit structural.
func (e *Engine) Renew(ctx context.Context, periodID string) (*models.ProbationPeriod, error) {
	original, err := e.getPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if original.Phase == models.PhaseSecond {
		return nil, errors.NewInvalidPhaseError("period has already been renewed")
	}
	if original.Phase == models.PhaseSingle {
		return nil, errors.NewInvalidPhaseError("fixed-term periods cannot be renewed")
	}

	now := e.now().UTC()
	renewed := models.ProbationPeriod{
		ID:               uuid.New().String(),
		ApplicantID:      original.ApplicantID,
		Nome:             original.Nome,
		Vaga:             original.Vaga,
		Cidade:           original.Cidade,
		ContractType:     models.ContractRenewal,
		StartDate:        original.EndDate,
		EndDate:          original.EndDate.AddDate(0, 0, renewalDays),
		Phase:            models.PhaseSecond,
		Status:           models.ExperienceActive,
		OriginalPeriodID: &original.ID,
		CreatedAt:        now,
	}
	// Insert and mark-renewed commit together so a failure cannot leave
	// the original open for a second renewal.
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewStorageError("begin renewal", err)
	}
	if err := insertPeriod(ctx, tx, &renewed); err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE employee_experience SET status = $1, renewed_to_id = $2 WHERE id = $3 AND renewed_to_id IS NULL",
		models.ExperienceRenewed, renewed.ID, original.ID)
	if err != nil {
		tx.Rollback()
		return nil, errors.NewStorageError("mark period renewed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return nil, errors.NewInvalidPhaseError("period has already been renewed")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewStorageError("commit renewal", err)
	}

	e.log.Info("probation period renewed", map[string]interface{}{
		"original_id": original.ID,
		"renewed_id":  renewed.ID,
		"end_date":    renewed.EndDate.Format("2006-01-02"),
	})
	return &renewed, nil
}

func (e *Engine) getPeriod(ctx context.Context, id string) (*models.ProbationPeriod, error) {
	p, err := scanPeriod(e.db.QueryRowContext(ctx,
		"SELECT "+periodColumns+" FROM employee_experience WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("experience period", id)
	}
	if err != nil {
		return nil, errors.NewStorageError("get probation period", err)
	}
	return p, nil
}

// Get returns a single period with its derived view.
func (e *Engine) Get(ctx context.Context, id string) (*View, error) {
	p, err := e.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	view := Derive(p, e.now().UTC())
	return &view, nil
}

// List returns all periods with derived views, active chains first by
// nearest end date.
func (e *Engine) List(ctx context.Context) ([]View, error) {
	rows, err := e.db.QueryContext(ctx,
		"SELECT "+periodColumns+" FROM employee_experience ORDER BY end_date ASC")
	if err != nil {
		return nil, errors.NewStorageError("list probation periods", err)
	}
	defer rows.Close()

	now := e.now().UTC()
	views := []View{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, errors.NewStorageError("scan probation period", err)
		}
		views = append(views, Derive(p, now))
	}
	return views, rows.Err()
}

// ListRenewable returns the periods currently inside their renewal window.
func (e *Engine) ListRenewable(ctx context.Context) ([]View, error) {
	views, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	renewable := []View{}
	for _, v := range views {
		if v.CanRenew {
			renewable = append(renewable, v)
		}
	}
	return renewable, nil
}
