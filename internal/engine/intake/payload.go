// internal/engine/intake/payload.go
package intake

// SubmissionPayload is the finished intake handed to application submission.
// Derived figures are computed here once so downstream workers never re-derive
// them from the raw draft.
type SubmissionPayload struct {
	ApplicationID      string `json:"applicationId"`
	LoanType           string `json:"loanType"`
	EmploymentCategory string `json:"employmentCategory"`
	Draft              Draft  `json:"draft"`

	MonthlyIncome       float64 `json:"monthlyIncome"`
	ExistingObligations float64 `json:"existingObligations"`
	MonthlyExpenses     float64 `json:"monthlyExpenses"`
}

// Submit validates every step and, when the draft is complete, freezes it
// into a SubmissionPayload. Any failure returns the full error list and no
// payload.
func (w Workflow) Submit() (*SubmissionPayload, []ValidationError) {
	var errs []ValidationError
	for step := StepCategory; step <= StepObligations; step++ {
		errs = append(errs, w.ValidateStep(step)...)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &SubmissionPayload{
		ApplicationID:       w.Draft.ApplicationID,
		LoanType:            w.Draft.LoanType,
		EmploymentCategory:  string(w.Draft.Category),
		Draft:               w.Draft,
		MonthlyIncome:       w.Draft.TotalMonthlyIncome(),
		ExistingObligations: w.Draft.ExistingObligations(),
		MonthlyExpenses:     w.Draft.Obligations.MonthlyExpenses,
	}, nil
}
