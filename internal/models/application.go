// internal/models/application.go
package models

// LoanApplication is the persisted application record retrieved from the
// application-persistence collaborator to pre-seed the intake workflow.
type LoanApplication struct {
	ID              string  `json:"id"`
	ApplicantID     string  `json:"applicantId"`
	LoanType        string  `json:"loanType"`
	RequestedAmount float64 `json:"requestedAmount"`
	RequestedTenure int     `json:"requestedTenureMonths"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}
