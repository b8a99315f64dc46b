// internal/records/applicants_test.go
package records

import (
	"context"
	"regexp"
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

func createTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(Deps{DB: db}, logger.NewTestLogger(t))
	s.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s, mock
}

func applicantColumnsList() []string {
	return []string{"id", "nome", "email", "vaga", "cidade", "bairro", "rua",
		"cpf", "transporte", "status", "observacao", "enviado_em", "ultima_visualizacao"}
}

func applicantRow(rows *sqlmock.Rows, id, nome, status string, enviadoEm time.Time) *sqlmock.Rows {
	return rows.AddRow(id, nome, nome+"@example.com", "Atendente", "Arapiraca",
		"Centro", "Rua A", "12345678901", "onibus", status, nil, enviadoEm, nil)
}

// ==========================
// Listing Tests
// ==========================

func TestListApplicants_CityFilterAndPagination(t *testing.T) {
	s, mock := createTestStore(t)
	submitted := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM candidaturas WHERE cidade ILIKE $1")).
		WithArgs("%Arapiraca%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	rows := sqlmock.NewRows(applicantColumnsList())
	applicantRow(rows, "c1", "Maria", "Novo", submitted)
	applicantRow(rows, "c2", "Joana", "Novo", submitted.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY enviado_em DESC LIMIT $2 OFFSET $3")).
		WithArgs("%Arapiraca%", 20, 20).
		WillReturnRows(rows)

	page, err := s.ListApplicants(context.Background(), ApplicantFilters{Cidade: "Arapiraca"}, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, "Maria", page.Records[0].Nome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicants_SearchMatchesNameEmailCPF(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("(nome ILIKE $1 OR email ILIKE $2 OR cpf ILIKE $3)")).
		WithArgs("%123.456%", "%123.456%", "%123456%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("ORDER BY enviado_em DESC").
		WillReturnRows(sqlmock.NewRows(applicantColumnsList()))

	page, err := s.ListApplicants(context.Background(), ApplicantFilters{Search: "123.456"}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicants_DateRangeExtendsEndOfDay(t *testing.T) {
	s, mock := createTestStore(t)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	endOfDayBound := time.Date(2026, 5, 1, 23, 59, 59, 999000000, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM candidaturas WHERE enviado_em >= $1 AND enviado_em <= $2")).
		WithArgs(from, endOfDayBound).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(applicantColumnsList())
	applicantRow(rows, "c1", "Maria", "Novo", from.Add(20*time.Hour))
	mock.ExpectQuery("ORDER BY enviado_em DESC").
		WithArgs(from, endOfDayBound, 20, 0).
		WillReturnRows(rows)

	page, err := s.ListApplicants(context.Background(),
		ApplicantFilters{DataInicio: &from, DataFim: &to}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Status Update Tests
// ==========================

func TestUpdateStatus_WritesHistoryAndFiresHiredHook(t *testing.T) {
	s, mock := createTestStore(t)
	submitted := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	var hookRecord *models.ApplicantRecord
	s.SetHiredHook(func(ctx context.Context, rec *models.ApplicantRecord) error {
		hookRecord = rec
		return nil
	})

	current := sqlmock.NewRows(applicantColumnsList())
	applicantRow(current, "c1", "Maria", "Entrevista", submitted)
	mock.ExpectQuery("SELECT (.+) FROM candidaturas WHERE id").
		WithArgs("c1").
		WillReturnRows(current)

	updated := sqlmock.NewRows(applicantColumnsList())
	applicantRow(updated, "c1", "Maria", models.StatusHired, submitted)
	mock.ExpectQuery("UPDATE candidaturas SET status").
		WithArgs(models.StatusHired, "c1").
		WillReturnRows(updated)

	mock.ExpectExec("INSERT INTO status_history").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := s.UpdateStatus(context.Background(), "c1", models.StatusHired, nil, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusHired, rec.Status)
	require.NotNil(t, hookRecord)
	assert.Equal(t, "c1", hookRecord.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_HistoryFailureDoesNotRollBack(t *testing.T) {
	s, mock := createTestStore(t)
	submitted := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	current := sqlmock.NewRows(applicantColumnsList())
	applicantRow(current, "c1", "Maria", "Novo", submitted)
	mock.ExpectQuery("SELECT (.+) FROM candidaturas WHERE id").
		WithArgs("c1").
		WillReturnRows(current)

	updated := sqlmock.NewRows(applicantColumnsList())
	applicantRow(updated, "c1", "Maria", "Entrevista", submitted)
	mock.ExpectQuery("UPDATE candidaturas SET status").
		WithArgs("Entrevista", "c1").
		WillReturnRows(updated)

	mock.ExpectExec("INSERT INTO status_history").
		WillReturnError(assert.AnError)

	// The status change is the durable fact of record; the history append
	// is best-effort.
	rec, err := s.UpdateStatus(context.Background(), "c1", "Entrevista", nil, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "Entrevista", rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_UnknownApplicant(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM candidaturas WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(applicantColumnsList()))

	_, err := s.UpdateStatus(context.Background(), "ghost", "Entrevista", nil, "staff-1")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// View Stamp Tests
// ==========================

func TestRecordView(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec("UPDATE candidaturas SET ultima_visualizacao").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.RecordView(context.Background(), "c1", models.ViewStamp{
		ViewerName:  "Maria",
		ViewerEmail: "maria@example.com",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView_UnknownApplicant(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec("UPDATE candidaturas SET ultima_visualizacao").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RecordView(context.Background(), "ghost", models.ViewStamp{ViewerName: "Maria"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

// ==========================
// Filter Rendering Tests
// ==========================

func TestBuildWhere_TextSearchSkipsCPFBranch(t *testing.T) {
	where, args := ApplicantFilters{Search: "maria"}.buildWhere()
	assert.Equal(t, " WHERE (nome ILIKE $1 OR email ILIKE $2)", where)
	require.Len(t, args, 2)
	assert.Equal(t, "%maria%", args[0])
	assert.Equal(t, "%maria%", args[1])
}

func TestBuildWhere_DigitSearchKeepsCPFBranch(t *testing.T) {
	where, args := ApplicantFilters{Search: "123.456"}.buildWhere()
	assert.Equal(t, " WHERE (nome ILIKE $1 OR email ILIKE $2 OR cpf ILIKE $3)", where)
	require.Len(t, args, 3)
	assert.Equal(t, "%123456%", args[2])
}

func TestBuildWhere_CPFNormalization(t *testing.T) {
	where, args := ApplicantFilters{CPF: "123.456.789-01"}.buildWhere()
	assert.Equal(t, " WHERE cpf ILIKE $1", where)
	require.Len(t, args, 1)
	assert.Equal(t, "%12345678901%", args[0])
}

func TestBuildWhere_Empty(t *testing.T) {
	where, args := ApplicantFilters{}.buildWhere()
	assert.Empty(t, where)
	assert.Nil(t, args)
}
