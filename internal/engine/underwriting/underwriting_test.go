// internal/engine/underwriting/underwriting_test.go
package underwriting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/models"
)

func TestRecommendRate(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		risk        models.RiskLevel
		hasDefaults bool
		fraudCases  int
		expected    float64
	}{
		{"prime low risk", 760, models.RiskLevelLow, false, 0, 10.5},
		{"boundary 750 low", 750, models.RiskLevelLow, false, 0, 10.5},
		{"high score medium risk drops a tier", 760, models.RiskLevelMedium, false, 0, 11.5},
		{"700 low risk", 700, models.RiskLevelLow, false, 0, 11.5},
		{"650 medium risk", 650, models.RiskLevelMedium, false, 0, 12.5},
		{"650 low risk falls through to 600 tier", 660, models.RiskLevelLow, false, 0, 13.5},
		{"650 high risk falls through to 600 tier", 680, models.RiskLevelHigh, false, 0, 13.5},
		{"600 any risk", 610, models.RiskLevelHigh, false, 0, 13.5},
		{"550 tier", 560, models.RiskLevelMedium, false, 0, 14.5},
		{"500 tier", 510, models.RiskLevelHigh, false, 0, 15.5},
		{"below all tiers", 480, models.RiskLevelHigh, true, 1, 16.5},
		{"fraud does not change the table", 760, models.RiskLevelLow, false, 3, 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := RecommendRate(tt.score, tt.risk, tt.hasDefaults, tt.fraudCases)
			assert.Equal(t, tt.expected, rate)
		})
	}
}

func TestExplainRecommendation_PriorityCascade(t *testing.T) {
	// Fraud overrides everything, including defaults.
	explanation := ExplainRecommendation(models.VerificationSignals{
		CreditScore: 480, RiskLevel: models.RiskLevelHigh, HasDefaults: true, ActiveFraudCases: 1,
	})
	assert.Contains(t, explanation, "fraud")
	assert.NotContains(t, explanation, "default")

	// Defaults override the score narrative.
	explanation = ExplainRecommendation(models.VerificationSignals{
		CreditScore: 720, RiskLevel: models.RiskLevelLow, HasDefaults: true,
	})
	assert.Contains(t, explanation, "default")

	// Clean signals get the score/risk narrative.
	explanation = ExplainRecommendation(models.VerificationSignals{
		CreditScore: 760, RiskLevel: models.RiskLevelLow,
	})
	assert.Contains(t, explanation, "prime")
	assert.Contains(t, explanation, "10.5")
}

func TestComputeEMI(t *testing.T) {
	schedule, err := ComputeEMI(500000, 10.5, 60)
	require.NoError(t, err)

	// monthlyEmi * n must land within one currency unit of totalRepayment.
	assert.InDelta(t, schedule.TotalRepayment, schedule.MonthlyEMI*60, 1.0)
	assert.InDelta(t, schedule.TotalRepayment-500000, schedule.TotalInterest, 0.01)
	assert.Greater(t, schedule.MonthlyEMI, 500000.0/60)

	// Reference value for the standard annuity formula.
	assert.InDelta(t, 10746.9, schedule.MonthlyEMI, 0.5)
}

func TestComputeEMI_ZeroRate(t *testing.T) {
	schedule, err := ComputeEMI(120000, 0, 12)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, schedule.MonthlyEMI)
	assert.Equal(t, 0.0, schedule.TotalInterest)
	assert.Equal(t, 120000.0, schedule.TotalRepayment)
}

func TestComputeEMI_InvalidTenure(t *testing.T) {
	_, err := ComputeEMI(100000, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidTenure)

	_, err = ComputeEMI(100000, 10, -6)
	assert.ErrorIs(t, err, ErrInvalidTenure)
}

func TestValidateProposal_AllChecksIndependent(t *testing.T) {
	facts := ApplicationFacts{
		MonthlyIncome:       50000,
		ExistingObligations: 5000,
		Signals: models.VerificationSignals{
			CreditScore: 760,
			RiskLevel:   models.RiskLevelLow,
		},
	}
	proposal := models.UnderwritingProposal{
		RequestedAmount:       400000,
		RequestedTenureMonths: 36,
		ProposedAmount:        500000,
		ProposedTenureMonths:  48,
		ProposedRate:          14.0, // recommended 10.5, deviation 3.5
	}

	schedule, err := ComputeEMI(proposal.ProposedAmount, proposal.ProposedRate, proposal.ProposedTenureMonths)
	require.NoError(t, err)
	// EMI on 500k at 14% over 48 months is ~13663, 27% of income: below the
	// comfort bound, so exactly three warnings fire.
	warnings := ValidateProposal(proposal, facts, schedule.MonthlyEMI)

	assert.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "exceeds requested amount")
	assert.Contains(t, warnings[1], "exceeds requested tenure")
	assert.Contains(t, warnings[2], "deviates from recommended")
}

func TestValidateProposal_EMIRatioWarning(t *testing.T) {
	facts := ApplicationFacts{
		MonthlyIncome: 20000,
		Signals:       models.VerificationSignals{CreditScore: 760, RiskLevel: models.RiskLevelLow},
	}
	proposal := models.UnderwritingProposal{
		RequestedAmount:       500000,
		RequestedTenureMonths: 60,
		ProposedAmount:        500000,
		ProposedTenureMonths:  60,
		ProposedRate:          10.5,
	}

	schedule, err := ComputeEMI(proposal.ProposedAmount, proposal.ProposedRate, proposal.ProposedTenureMonths)
	require.NoError(t, err)
	warnings := ValidateProposal(proposal, facts, schedule.MonthlyEMI)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "of monthly income")
}

func TestValidateProposal_NoWarnings(t *testing.T) {
	facts := ApplicationFacts{
		MonthlyIncome: 100000,
		Signals:       models.VerificationSignals{CreditScore: 760, RiskLevel: models.RiskLevelLow},
	}
	proposal := models.UnderwritingProposal{
		RequestedAmount:       500000,
		RequestedTenureMonths: 60,
		ProposedAmount:        400000,
		ProposedTenureMonths:  48,
		ProposedRate:          11.0,
	}

	schedule, err := ComputeEMI(proposal.ProposedAmount, proposal.ProposedRate, proposal.ProposedTenureMonths)
	require.NoError(t, err)
	warnings := ValidateProposal(proposal, facts, schedule.MonthlyEMI)
	assert.Empty(t, warnings)
}

func TestEvaluateProposal(t *testing.T) {
	facts := ApplicationFacts{
		MonthlyIncome:       80000,
		ExistingObligations: 10000,
		Signals:             models.VerificationSignals{CreditScore: 760, RiskLevel: models.RiskLevelLow},
	}
	proposal := models.UnderwritingProposal{
		RequestedAmount:       800000,
		RequestedTenureMonths: 60,
		ProposedAmount:        800000,
		ProposedTenureMonths:  60,
		ProposedRate:          10.5,
	}

	result, err := EvaluateProposal(proposal, facts)
	require.NoError(t, err)

	assert.InDelta(t, 17195.13, result.MonthlyEMI, 0.5)
	expected := math.Round((10000+result.MonthlyEMI)/80000*100*100) / 100
	assert.Equal(t, expected, result.FOIRRatio)
	assert.Equal(t, models.FOIRStatusExcellent, result.FOIRStatus)
	assert.Empty(t, result.Warnings)
}

func TestEvaluateProposal_InvalidTenure(t *testing.T) {
	_, err := EvaluateProposal(models.UnderwritingProposal{ProposedAmount: 100000}, ApplicationFacts{})
	assert.ErrorIs(t, err, ErrInvalidTenure)
}
