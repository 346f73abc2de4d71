// internal/workers/intake/validate-intake-step/handler_test.go
package validateintakestep

import (
	"context"
	"errors"
	"testing"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/engine/intake"
	"origination-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		PreviewRate: 12.5,
	}
}

type stubApplications struct {
	application *models.LoanApplication
	err         error
}

func (s *stubApplications) GetApplication(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.application, nil
}

func createTestHandler(t *testing.T, applications *stubApplications) *Handler {
	testLog := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), applications, testLog)
}

func testApplication() *models.LoanApplication {
	return &models.LoanApplication{
		ID:              "app-001",
		ApplicantID:     "applicant-7",
		LoanType:        "PERSONAL_LOAN",
		RequestedAmount: 500000,
		RequestedTenure: 60,
		Status:          "INTAKE",
	}
}

// salariedDraft builds a complete salaried draft through the engine so the
// worker tests exercise the same transitions the portal drives.
func salariedDraft(t *testing.T) intake.Draft {
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

// ==========================
// Session Lifecycle Tests
// ==========================

func TestHandler_Execute_StartSeedsFromApplication(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:     "sess-1",
		ApplicationID: "app-001",
		Action:        ActionStart,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, intake.StepCategory, output.Step)
	assert.Equal(t, "app-001", output.Draft.ApplicationID)
	assert.Equal(t, "PERSONAL_LOAN", output.Draft.LoanType)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Fields)
}

func TestHandler_Execute_StartRequiresApplicationID(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})

	output, err := handler.Execute(context.Background(), &Input{Action: ActionStart})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingApplicationID)
}

func TestHandler_Execute_StartFailsWhenApplicationMissing(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{err: errors.New("application app-001 not found")})

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionStart,
	})

	assert.Nil(t, output)
	require.Error(t, err)
}

func TestHandler_Execute_DraftRequiredAfterStart(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionNext,
		Step:          intake.StepDetails,
	})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDraft)
}

func TestHandler_Execute_UnknownAction(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})
	draft := salariedDraft(t)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        "teleport",
		Step:          intake.StepDetails,
		Draft:         &draft,
	})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

// ==========================
// Transition Tests
// ==========================

func TestHandler_Execute_SelectCategory(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})
	draft := intake.NewWorkflow("app-001", "PERSONAL_LOAN").Draft

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionSelectCategory,
		Category:      "SALARIED",
		Step:          intake.StepCategory,
		MinimumIncome: 15000,
		Draft:         &draft,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Valid)
	assert.Equal(t, models.CategorySalaried, output.Draft.Category)
	assert.NotNil(t, output.Draft.Employment)
	assert.Equal(t, 15000.0, output.MinimumIncome)
}

func TestHandler_Execute_SelectCategory_Invalid(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})
	draft := intake.NewWorkflow("app-001", "PERSONAL_LOAN").Draft

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionSelectCategory,
		Category:      "ASTRONAUT",
		Step:          intake.StepCategory,
		Draft:         &draft,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Valid)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, intake.CodeInvalidCategory, output.Errors[0].Code)
}

func TestHandler_Execute_NextGatedOnInvalidStep(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})

	wf := intake.NewWorkflow("app-001", "PERSONAL_LOAN")
	wf, err := wf.SelectCategory(models.CategorySalaried, 15000)
	require.NoError(t, err)
	draft := wf.Draft

	output, execErr := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionNext,
		Step:          intake.StepDetails,
		MinimumIncome: 15000,
		Draft:         &draft,
	})

	require.NoError(t, execErr)
	require.NotNil(t, output)
	assert.False(t, output.Valid)
	assert.Equal(t, intake.StepDetails, output.Step)
	assert.NotEmpty(t, output.Errors)
}

func TestHandler_Execute_NextReseedsDerivedIncome(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})

	wf := intake.NewWorkflow("app-001", "EDUCATION_LOAN")
	wf, err := wf.SelectCategory(models.CategoryStudent, 0)
	require.NoError(t, err)
	wf.Draft.Student = &intake.StudentDetails{
		Institution:           "IIT Delhi",
		Course:                "B.Tech",
		YearOfStudy:           3,
		CourseDurationYears:   4,
		GraduationYear:        2027,
		GuardianName:          "R. Sharma",
		GuardianRelation:      "Father",
		GuardianOccupation:    "Doctor",
		GuardianEmployer:      "Apollo Hospitals",
		GuardianMonthlyIncome: 90000,
		GuardianContact:       "9876543210",
	}
	// The applicant edited the derived figure, went back to the details
	// step, and moves forward again. Each forward 2 to 3 transition
	// re-derives income from the guardian source, so the edit is replaced.
	wf.Draft.Income.MonthlyIncome = 150000
	draft := wf.Draft

	output, execErr := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionNext,
		Step:          intake.StepDetails,
		Draft:         &draft,
	})

	require.NoError(t, execErr)
	require.NotNil(t, output)
	assert.True(t, output.Valid)
	assert.Equal(t, intake.StepIncome, output.Step)
	assert.Equal(t, 90000.0, output.Draft.Income.MonthlyIncome)
	assert.Equal(t, "Guardian Support", output.Draft.Income.IncomeSource)
}

func TestHandler_Execute_PreviousIsUnconditional(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})
	draft := salariedDraft(t)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionPrevious,
		Step:          intake.StepBanking,
		MinimumIncome: 15000,
		Draft:         &draft,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Valid)
	assert.Equal(t, intake.StepIncome, output.Step)
}

// ==========================
// FOIR Preview Tests
// ==========================

func TestHandler_Execute_ObligationsStepAttachesPreview(t *testing.T) {
	handler := createTestHandler(t, &stubApplications{application: testApplication()})
	draft := salariedDraft(t)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionNext,
		Step:          intake.StepBanking,
		MinimumIncome: 15000,
		Draft:         &draft,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, intake.StepObligations, output.Step)
	assert.Greater(t, output.EstimatedEMI, 0.0)
	require.NotNil(t, output.FOIRPreview)
	assert.Equal(t, 80000.0, output.FOIRPreview.MonthlyIncome)
	assert.Equal(t, 10000.0, output.FOIRPreview.ExistingObligations)
	assert.Equal(t, output.EstimatedEMI, output.FOIRPreview.NewEMI)
}

func TestHandler_Execute_PreviewSkippedWhenLookupFails(t *testing.T) {
	apps := &stubApplications{err: errors.New("portal unavailable")}
	handler := createTestHandler(t, apps)
	draft := salariedDraft(t)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Action:        ActionValidate,
		Step:          intake.StepObligations,
		MinimumIncome: 15000,
		Draft:         &draft,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Valid)
	assert.Nil(t, output.FOIRPreview)
	assert.Zero(t, output.EstimatedEMI)
}
