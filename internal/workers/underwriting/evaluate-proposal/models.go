// internal/workers/underwriting/evaluate-proposal/models.go
package evaluateproposal

import "origination-workers/internal/models"

type Input struct {
	ApplicationID string                      `json:"applicationId"`
	OfficerID     string                      `json:"officerId"`
	Proposal      models.UnderwritingProposal `json:"proposal"`

	MonthlyIncome       float64                    `json:"monthlyIncome"`
	ExistingObligations float64                    `json:"existingObligations"`
	Signals             models.VerificationSignals `json:"signals"`
}

type Output struct {
	ApplicationID string                      `json:"applicationId"`
	Proposal      models.UnderwritingProposal `json:"proposal"`
	Result        models.UnderwritingResult   `json:"result"`
	EvaluatedAt   string                      `json:"evaluatedAt"`
	Audited       bool                        `json:"audited"`
}

// decisionAudit is the document written to the decision audit index. One
// document per evaluation, keyed by application and timestamp, so overridden
// warnings stay reviewable after the fact.
type decisionAudit struct {
	ApplicationID string                      `json:"applicationId"`
	OfficerID     string                      `json:"officerId,omitempty"`
	Proposal      models.UnderwritingProposal `json:"proposal"`
	Result        models.UnderwritingResult   `json:"result"`
	Signals       models.VerificationSignals  `json:"signals"`
	EvaluatedAt   string                      `json:"evaluatedAt"`
}
