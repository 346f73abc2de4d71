// internal/engine/affordability/calculator.go

// Package affordability implements the FOIR (Fixed Obligation to Income
// Ratio) calculator. It is pure: no side effects, no workflow state, usable
// both as the live intake preview and as a standalone what-if calculator.
// When the server-authoritative FOIR service is reachable its result is
// preferred; this package is the offline estimate with identical thresholds.
package affordability

import (
	"fmt"
	"math"

	"origination-workers/internal/models"
)

// ComputeFOIR derives the obligation ratio and risk band for the given
// monthly figures. monthlyIncome == 0 is zero-guarded: the result carries
// foirPercentage 0, HIGH_RISK and an explanatory message instead of a
// division by zero. Negative disposable income is preserved, not clamped.
func ComputeFOIR(monthlyIncome, existingObligations, newEMI float64) models.FOIRResult {
	total := existingObligations + newEMI

	result := models.FOIRResult{
		MonthlyIncome:       monthlyIncome,
		ExistingObligations: existingObligations,
		NewEMI:              newEMI,
		TotalObligations:    total,
		DisposableIncome:    monthlyIncome - total,
	}

	if monthlyIncome <= 0 {
		result.FOIRPercentage = 0
		result.Acceptable = false
		result.Status = models.FOIRStatusHighRisk
		result.Message = "Monthly income is zero; affordability cannot be established"
		return result
	}

	result.FOIRPercentage = round2(total / monthlyIncome * 100)
	result.Status = classify(result.FOIRPercentage)
	result.Acceptable = result.FOIRPercentage <= FOIRAcceptableMax
	result.Message = statusMessage(result.Status, result.FOIRPercentage)
	return result
}

func classify(foir float64) models.FOIRStatus {
	switch {
	case foir <= FOIRExcellentMax:
		return models.FOIRStatusExcellent
	case foir <= FOIRGoodMax:
		return models.FOIRStatusGood
	case foir <= FOIRAcceptableMax:
		return models.FOIRStatusAcceptable
	default:
		return models.FOIRStatusHighRisk
	}
}

func statusMessage(status models.FOIRStatus, foir float64) string {
	switch status {
	case models.FOIRStatusExcellent:
		return fmt.Sprintf("FOIR %.2f%%: excellent repayment capacity", foir)
	case models.FOIRStatusGood:
		return fmt.Sprintf("FOIR %.2f%%: good repayment capacity", foir)
	case models.FOIRStatusAcceptable:
		return fmt.Sprintf("FOIR %.2f%%: acceptable, limited headroom", foir)
	default:
		return fmt.Sprintf("FOIR %.2f%%: obligations exceed the acceptable limit", foir)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
