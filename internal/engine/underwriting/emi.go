// internal/engine/underwriting/emi.go
package underwriting

import (
	"errors"
	"math"
)

// ErrInvalidTenure reports a zero or negative tenure; EMI is undefined in
// that case and must surface as an error, never a silent zero.
var ErrInvalidTenure = errors.New("INVALID_TENURE")

// EMISchedule summarises the repayment of an amortizing loan.
type EMISchedule struct {
	MonthlyEMI     float64 `json:"monthlyEmi"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalRepayment float64 `json:"totalRepayment"`
}

// ComputeEMI applies the standard amortization formula
// emi = P*r*(1+r)^n / ((1+r)^n - 1) with r = annualRatePercent/12/100.
// A zero rate degenerates to straight-line division.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) (EMISchedule, error) {
	if tenureMonths <= 0 {
		return EMISchedule{}, ErrInvalidTenure
	}

	n := float64(tenureMonths)
	r := annualRatePercent / 12 / 100

	var emi float64
	if r == 0 {
		emi = principal / n
	} else {
		factor := math.Pow(1+r, n)
		emi = principal * r * factor / (factor - 1)
	}

	emi = round2(emi)
	total := round2(emi * n)
	return EMISchedule{
		MonthlyEMI:     emi,
		TotalInterest:  round2(total - principal),
		TotalRepayment: total,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
