// internal/experience/engine_test.go
package experience

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeRecords struct {
	applicant *models.ApplicantRecord
	err       error
}

func (f *fakeRecords) GetApplicant(ctx context.Context, id string) (*models.ApplicantRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.applicant, nil
}

func createTestEngine(t *testing.T, records RecordSource) (*Engine, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := NewEngine(db, records, logger.NewTestLogger(t))
	e.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return e, mock
}

func periodRows(p *models.ProbationPeriod) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "candidatura_id", "nome", "vaga", "cidade", "contract_type",
		"start_date", "end_date", "phase", "status", "renewed_to_id",
		"original_period_id", "created_at",
	}).AddRow(p.ID, p.ApplicantID, p.Nome, p.Vaga, p.Cidade, string(p.ContractType),
		p.StartDate, p.EndDate, string(p.Phase), string(p.Status), p.RenewedToID,
		p.OriginalPeriodID, p.CreatedAt)
}

// ==========================
// Start Tests
// ==========================

func TestEngine_Start(t *testing.T) {
	applicant := &models.ApplicantRecord{
		ID:     "cand-1",
		Nome:   "Maria Silva",
		Vaga:   "Atendente",
		Cidade: "Arapiraca",
	}

	tests := []struct {
		name          string
		contractType  models.ContractType
		expectedDays  int
		expectedPhase models.ExperiencePhase
	}{
		{
			name:          "40 day contract opens a first phase",
			contractType:  models.Contract40Days,
			expectedDays:  40,
			expectedPhase: models.PhaseFirst,
		},
		{
			name:          "80 day contract opens a single phase",
			contractType:  models.Contract80Days,
			expectedDays:  80,
			expectedPhase: models.PhaseSingle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mock := createTestEngine(t, &fakeRecords{applicant: applicant})
			mock.ExpectExec("INSERT INTO employee_experience").
				WillReturnResult(sqlmock.NewResult(0, 1))

			period, err := e.Start(context.Background(), "cand-1", tt.contractType)
			require.NoError(t, err)

			assert.Equal(t, "cand-1", period.ApplicantID)
			assert.Equal(t, "Maria Silva", period.Nome)
			assert.Equal(t, tt.expectedPhase, period.Phase)
			assert.Equal(t, models.ExperienceActive, period.Status)
			assert.Equal(t, period.StartDate.AddDate(0, 0, tt.expectedDays), period.EndDate)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngine_Start_UnknownApplicant(t *testing.T) {
	e, mock := createTestEngine(t, &fakeRecords{err: errors.NewNotFoundError("candidatura", "ghost")})

	_, err := e.Start(context.Background(), "ghost", models.Contract40Days)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_Start_InvalidContractType(t *testing.T) {
	e, _ := createTestEngine(t, &fakeRecords{})

	_, err := e.Start(context.Background(), "cand-1", models.ContractType("indefinite"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

// ==========================
// Renew Tests
// ==========================

func TestEngine_Renew(t *testing.T) {
	start := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)
	original := &models.ProbationPeriod{
		ID:           "period-1",
		ApplicantID:  "cand-1",
		Nome:         "Maria Silva",
		Vaga:         "Atendente",
		Cidade:       "Arapiraca",
		ContractType: models.Contract40Days,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 40),
		Phase:        models.PhaseFirst,
		Status:       models.ExperienceActive,
		CreatedAt:    start,
	}

	e, mock := createTestEngine(t, &fakeRecords{})
	mock.ExpectQuery("SELECT (.+) FROM employee_experience WHERE id").
		WithArgs("period-1").
		WillReturnRows(periodRows(original))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO employee_experience").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE employee_experience SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	renewed, err := e.Renew(context.Background(), "period-1")
	require.NoError(t, err)

	assert.Equal(t, models.PhaseSecond, renewed.Phase)
	assert.Equal(t, models.ContractRenewal, renewed.ContractType)
	assert.Equal(t, original.EndDate, renewed.StartDate)
	assert.Equal(t, original.EndDate.AddDate(0, 0, 40), renewed.EndDate)
	require.NotNil(t, renewed.OriginalPeriodID)
	assert.Equal(t, "period-1", *renewed.OriginalPeriodID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func firstPhasePeriod(id string) *models.ProbationPeriod {
	start := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)
	return &models.ProbationPeriod{
		ID:           id,
		ApplicantID:  "cand-1",
		Nome:         "Maria Silva",
		Vaga:         "Atendente",
		Cidade:       "Arapiraca",
		ContractType: models.Contract40Days,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 40),
		Phase:        models.PhaseFirst,
		Status:       models.ExperienceActive,
		CreatedAt:    start,
	}
}

func TestEngine_Renew_MarkFailureRollsBackInsert(t *testing.T) {
	e, mock := createTestEngine(t, &fakeRecords{})
	mock.ExpectQuery("SELECT (.+) FROM employee_experience WHERE id").
		WithArgs("period-1").
		WillReturnRows(periodRows(firstPhasePeriod("period-1")))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO employee_experience").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE employee_experience SET status").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := e.Renew(context.Background(), "period-1")
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
	// The rollback leaves no orphan second-phase period behind.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_Renew_AlreadyRenewedRaceIsRejected(t *testing.T) {
	e, mock := createTestEngine(t, &fakeRecords{})
	mock.ExpectQuery("SELECT (.+) FROM employee_experience WHERE id").
		WithArgs("period-1").
		WillReturnRows(periodRows(firstPhasePeriod("period-1")))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO employee_experience").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Another renewal won between the read and the guarded update.
	mock.ExpectExec("UPDATE employee_experience SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := e.Renew(context.Background(), "period-1")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPhase))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_Renew_InvalidPhases(t *testing.T) {
	start := time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		phase models.ExperiencePhase
	}{
		{name: "second phase is already renewed", phase: models.PhaseSecond},
		{name: "single phase has no renewal path", phase: models.PhaseSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.ProbationPeriod{
				ID:           "period-9",
				ApplicantID:  "cand-1",
				Nome:         "Maria Silva",
				Vaga:         "Atendente",
				Cidade:       "Arapiraca",
				ContractType: models.Contract40Days,
				StartDate:    start,
				EndDate:      start.AddDate(0, 0, 40),
				Phase:        tt.phase,
				Status:       models.ExperienceActive,
				CreatedAt:    start,
			}

			e, mock := createTestEngine(t, &fakeRecords{})
			mock.ExpectQuery("SELECT (.+) FROM employee_experience WHERE id").
				WithArgs("period-9").
				WillReturnRows(periodRows(p))

			_, err := e.Renew(context.Background(), "period-9")
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPhase))
			// No insert and no update may follow a rejected renewal.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
