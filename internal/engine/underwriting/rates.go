// internal/engine/underwriting/rates.go

// Package underwriting derives rate recommendations, EMI math and advisory
// deviation warnings for officer proposals.
package underwriting

import (
	"fmt"

	"origination-workers/internal/models"
)

// rateTier is one row of the descending rate table. Rows are evaluated
// top-down and the first match wins; the ordering IS the algorithm. riskAny
// means the row matches regardless of risk level.
type rateTier struct {
	minScore int
	risks    []models.RiskLevel
	riskAny  bool
	rate     float64
}

var rateTiers = []rateTier{
	{minScore: 750, risks: []models.RiskLevel{models.RiskLevelLow}, rate: 10.5},
	{minScore: 700, risks: []models.RiskLevel{models.RiskLevelLow, models.RiskLevelMedium}, rate: 11.5},
	{minScore: 650, risks: []models.RiskLevel{models.RiskLevelMedium}, rate: 12.5},
	{minScore: 600, riskAny: true, rate: 13.5},
	{minScore: 550, riskAny: true, rate: 14.5},
	{minScore: 500, riskAny: true, rate: 15.5},
}

// fallbackRate applies when no tier matches.
const fallbackRate = 16.5

// RecommendRate returns the annual interest rate (percent) for the given
// signals. Default history and fraud cases do not change the table itself;
// they surface through ExplainRecommendation and proposal warnings.
func RecommendRate(creditScore int, riskLevel models.RiskLevel, hasDefaults bool, activeFraudCases int) float64 {
	for _, tier := range rateTiers {
		if creditScore < tier.minScore {
			continue
		}
		if tier.riskAny {
			return tier.rate
		}
		for _, r := range tier.risks {
			if riskLevel == r {
				return tier.rate
			}
		}
	}
	return fallbackRate
}

// ExplainRecommendation produces a single rationale clause for the signals.
// Priority cascade, not a concatenation: active fraud cases override default
// history, which overrides the score/risk narrative.
func ExplainRecommendation(signals models.VerificationSignals) string {
	if signals.ActiveFraudCases > 0 {
		return fmt.Sprintf("%d active fraud case(s) on record; manual review required before any offer", signals.ActiveFraudCases)
	}
	if signals.HasDefaults {
		return "applicant has a default history; pricing reflects elevated recovery risk"
	}

	rate := RecommendRate(signals.CreditScore, signals.RiskLevel, signals.HasDefaults, signals.ActiveFraudCases)
	switch {
	case signals.CreditScore >= 750 && signals.RiskLevel == models.RiskLevelLow:
		return fmt.Sprintf("prime applicant (score %d, low risk); best tier rate %.1f%%", signals.CreditScore, rate)
	case signals.CreditScore >= 650:
		return fmt.Sprintf("credit score %d with %s risk qualifies for %.1f%%", signals.CreditScore, signals.RiskLevel, rate)
	case signals.CreditScore >= 500:
		return fmt.Sprintf("sub-prime score %d; risk-adjusted rate %.1f%%", signals.CreditScore, rate)
	default:
		return fmt.Sprintf("credit score %d below all tiers; ceiling rate %.1f%% applies", signals.CreditScore, rate)
	}
}
