// internal/engine/underwriting/proposal.go
package underwriting

import (
	"fmt"
	"math"

	"origination-workers/internal/engine/affordability"
	"origination-workers/internal/models"
)

// maxRateDeviation is the tolerated gap, in percentage points, between a
// proposed rate and the table recommendation before a warning fires.
const maxRateDeviation = 2.0

// ApplicationFacts are the verified facts a proposal is checked against.
type ApplicationFacts struct {
	MonthlyIncome       float64                    `json:"monthlyIncome"`
	ExistingObligations float64                    `json:"existingObligations"`
	Signals             models.VerificationSignals `json:"signals"`
}

// EvaluateProposal computes the repayment schedule and FOIR for the proposed
// terms and collects advisory warnings. All checks run independently; an
// officer may see several warnings at once and is permitted to override all
// of them.
func EvaluateProposal(proposal models.UnderwritingProposal, facts ApplicationFacts) (models.UnderwritingResult, error) {
	schedule, err := ComputeEMI(proposal.ProposedAmount, proposal.ProposedRate, proposal.ProposedTenureMonths)
	if err != nil {
		return models.UnderwritingResult{}, err
	}

	foir := affordability.ComputeFOIR(facts.MonthlyIncome, facts.ExistingObligations, schedule.MonthlyEMI)

	result := models.UnderwritingResult{
		MonthlyEMI:     schedule.MonthlyEMI,
		TotalInterest:  schedule.TotalInterest,
		TotalRepayment: schedule.TotalRepayment,
		FOIRRatio:      foir.FOIRPercentage,
		FOIRStatus:     foir.Status,
		Warnings:       ValidateProposal(proposal, facts, schedule.MonthlyEMI),
	}
	return result, nil
}

// ValidateProposal returns zero or more advisory strings for the proposal.
// None of the checks short-circuits another and none blocks submission.
func ValidateProposal(proposal models.UnderwritingProposal, facts ApplicationFacts, monthlyEMI float64) []string {
	warnings := []string{}

	if proposal.ProposedAmount > proposal.RequestedAmount {
		warnings = append(warnings, fmt.Sprintf(
			"proposed amount %.2f exceeds requested amount %.2f",
			proposal.ProposedAmount, proposal.RequestedAmount))
	}

	if proposal.ProposedTenureMonths > proposal.RequestedTenureMonths {
		warnings = append(warnings, fmt.Sprintf(
			"proposed tenure %d months exceeds requested tenure %d months",
			proposal.ProposedTenureMonths, proposal.RequestedTenureMonths))
	}

	if facts.MonthlyIncome > 0 {
		emiRatio := monthlyEMI / facts.MonthlyIncome * 100
		if emiRatio > affordability.FOIRExcellentMax {
			warnings = append(warnings, fmt.Sprintf(
				"EMI is %.2f%% of monthly income, above the %.0f%% comfort bound",
				emiRatio, affordability.FOIRExcellentMax))
		}
	}

	recommended := RecommendRate(facts.Signals.CreditScore, facts.Signals.RiskLevel,
		facts.Signals.HasDefaults, facts.Signals.ActiveFraudCases)
	if math.Abs(proposal.ProposedRate-recommended) > maxRateDeviation {
		warnings = append(warnings, fmt.Sprintf(
			"proposed rate %.2f%% deviates from recommended %.2f%% by more than %.0f points",
			proposal.ProposedRate, recommended, maxRateDeviation))
	}

	return warnings
}
