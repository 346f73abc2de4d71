// internal/models/affordability.go
package models

// FOIRStatus is the risk band derived from the FOIR percentage.
type FOIRStatus string

const (
	FOIRStatusExcellent  FOIRStatus = "EXCELLENT"
	FOIRStatusGood       FOIRStatus = "GOOD"
	FOIRStatusAcceptable FOIRStatus = "ACCEPTABLE"
	FOIRStatusHighRisk   FOIRStatus = "HIGH_RISK"
)

// FOIRResult is the outcome of a Fixed-Obligation-to-Income-Ratio
// calculation. Value type, recomputed on demand, never mutated in place.
type FOIRResult struct {
	MonthlyIncome       float64    `json:"monthlyIncome"`
	ExistingObligations float64    `json:"existingObligations"`
	NewEMI              float64    `json:"newEmi"`
	TotalObligations    float64    `json:"totalObligations"`
	DisposableIncome    float64    `json:"disposableIncome"`
	FOIRPercentage      float64    `json:"foirPercentage"`
	Acceptable          bool       `json:"acceptable"`
	Status              FOIRStatus `json:"status"`
	Message             string     `json:"message"`
}
