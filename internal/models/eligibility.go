// internal/models/eligibility.go
package models

// EligibilityCriterion states whether one (loanType, employmentCategory)
// combination qualifies, and under what minimums. Immutable once fetched for
// a session.
type EligibilityCriterion struct {
	LoanType              string             `json:"loanType"`
	EmploymentCategory    EmploymentCategory `json:"employmentCategory"`
	Eligible              bool               `json:"eligible"`
	Reason                string             `json:"reason,omitempty"`
	MinimumDurationMonths int                `json:"minimumDurationMonths,omitempty"`
	MinimumIncome         float64            `json:"minimumIncome"`
}

// EligibilityResponse is the payload returned by the eligibility collaborator.
type EligibilityResponse struct {
	EmploymentCategories []EligibilityCriterion `json:"employmentCategories"`
	MinimumIncome        float64                `json:"minimumIncome"`
}
