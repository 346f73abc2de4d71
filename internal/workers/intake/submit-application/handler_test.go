// internal/workers/intake/submit-application/handler_test.go
package submitapplication

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/engine/intake"
	"origination-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

type stubPortalSink struct {
	err   error
	calls int
}

func (s *stubPortalSink) SubmitApplication(ctx context.Context, payload interface{}) error {
	s.calls++
	return s.err
}

func createTestHandler(t *testing.T, db *sql.DB, portal PortalSink) *Handler {
	testLog := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), db, portal, testLog)
}

func completeDraft(t *testing.T) intake.Draft {
	wf := intake.NewWorkflow("app-001", "PERSONAL_LOAN")
	wf, err := wf.SelectCategory(models.CategorySalaried, 15000)
	require.NoError(t, err)

	wf.Draft.Employment.CompanyName = "Acme Industries"
	wf.Draft.Employment.JobTitle = "Engineer"
	wf.Draft.Employment.StartDate = "2020-04-01"
	wf.Draft.Employment.CompanyAddress = "12 MG Road, Bengaluru"
	wf.Draft.Income.MonthlyIncome = 80000
	wf.Draft.Bank.BankName = "State Bank"
	wf.Draft.Bank.AccountNumber = "123456789012"
	wf.Draft.Bank.IFSCCode = "SBIN0001234"
	wf.Draft.Bank.AccountType = "SAVINGS"
	wf.Draft.Bank.Branch = "MG Road"
	wf.Draft.Obligations.MonthlyExpenses = 25000
	wf.Draft.Obligations.ExistingLoanEMI = 10000
	return wf.Draft
}

func createInput(draft *intake.Draft) *Input {
	return &Input{
		SessionID:     "sess-1",
		Step:          intake.StepObligations,
		MinimumIncome: 15000,
		Draft:         draft,
	}
}

func expectDuplicateCheck(mock sqlmock.Sqlmock, applicationID string, exists bool) {
	rows := sqlmock.NewRows([]string{"exists"}).AddRow(exists)
	mock.ExpectQuery(`SELECT EXISTS\(`).
		WithArgs(applicationID).
		WillReturnRows(rows)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectDuplicateCheck(mock, "app-001", false)
	mock.ExpectExec(`INSERT INTO loan_submissions`).
		WithArgs(sqlmock.AnyArg(), "app-001", "PERSONAL_LOAN", "SALARIED",
			sqlmock.AnyArg(), 80000.0, 10000.0, 25000.0, "submitted", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	portal := &stubPortalSink{}
	handler := createTestHandler(t, db, portal)
	draft := completeDraft(t)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "app-001", output.ApplicationID)
	assert.NotEmpty(t, output.SubmissionID)
	assert.Equal(t, "submitted", output.ApplicationStatus)
	assert.NotEmpty(t, output.SubmittedAt)
	assert.True(t, output.PortalSynced)
	assert.Equal(t, 1, portal.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicateSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectDuplicateCheck(mock, "app-001", true)

	portal := &stubPortalSink{}
	handler := createTestHandler(t, db, portal)
	draft := completeDraft(t)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateApplication)
	assert.Equal(t, 0, portal.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectDuplicateCheck(mock, "app-001", false)
	mock.ExpectExec(`INSERT INTO loan_submissions`).
		WillReturnError(errors.New("connection reset"))

	handler := createTestHandler(t, db, &stubPortalSink{})
	draft := completeDraft(t)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditFailureIsNonFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectDuplicateCheck(mock, "app-001", false)
	mock.ExpectExec(`INSERT INTO loan_submissions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("audit table locked"))

	handler := createTestHandler(t, db, &stubPortalSink{})
	draft := completeDraft(t)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "submitted", output.ApplicationStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PortalSyncFailureIsNonFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectDuplicateCheck(mock, "app-001", false)
	mock.ExpectExec(`INSERT INTO loan_submissions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	portal := &stubPortalSink{err: errors.New("portal unavailable")}
	handler := createTestHandler(t, db, portal)
	draft := completeDraft(t)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.PortalSynced)
	assert.Equal(t, 1, portal.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_NilDraft(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := createTestHandler(t, db, &stubPortalSink{})

	output, err := handler.Execute(context.Background(), createInput(nil))

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestHandler_Execute_IncompleteDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wf := intake.NewWorkflow("app-001", "PERSONAL_LOAN")
	wf, selErr := wf.SelectCategory(models.CategorySalaried, 15000)
	require.NoError(t, selErr)
	draft := wf.Draft

	portal := &stubPortalSink{}
	handler := createTestHandler(t, db, portal)

	output, err := handler.Execute(context.Background(), createInput(&draft))

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, portal.calls)

	// The database is never touched for an incomplete draft.
	assert.NoError(t, mock.ExpectationsWereMet())
}
