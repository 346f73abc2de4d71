// internal/models/underwriting.go
package models

// RiskLevel is the external-verification risk classification of an applicant.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// VerificationSignals are the external-verification facts consumed at
// decision time.
type VerificationSignals struct {
	CreditScore      int       `json:"creditScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	HasDefaults      bool      `json:"hasDefaults"`
	ActiveFraudCases int       `json:"activeFraudCases"`
}

// UnderwritingProposal carries the terms an officer proposes for a loan
// application, alongside what the applicant originally requested.
type UnderwritingProposal struct {
	RequestedAmount       float64 `json:"requestedAmount"`
	RequestedTenureMonths int     `json:"requestedTenureMonths"`
	ProposedAmount        float64 `json:"proposedAmount"`
	ProposedTenureMonths  int     `json:"proposedTenureMonths"`
	ProposedRate          float64 `json:"proposedRate"`
	DecisionReason        string  `json:"decisionReason,omitempty"`
}

// UnderwritingResult is the engine's evaluation of a proposal. Warnings are
// advisory and never block submission.
type UnderwritingResult struct {
	MonthlyEMI     float64    `json:"monthlyEmi"`
	TotalInterest  float64    `json:"totalInterest"`
	TotalRepayment float64    `json:"totalRepayment"`
	FOIRRatio      float64    `json:"foirRatio"`
	FOIRStatus     FOIRStatus `json:"foirStatus"`
	Warnings       []string   `json:"warnings"`
}
