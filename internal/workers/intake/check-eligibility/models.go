// internal/workers/intake/check-eligibility/models.go
package checkeligibility

import "origination-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	LoanType  string `json:"loanType"`
}

type Output struct {
	LoanType             string                        `json:"loanType"`
	EmploymentCategories []models.EligibilityCriterion `json:"employmentCategories"`
	SelectableCategories []string                      `json:"selectableCategories"`
	Degraded             bool                          `json:"degraded"`
	Warning              string                        `json:"warning,omitempty"`
}
