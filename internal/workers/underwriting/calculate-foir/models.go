// internal/workers/underwriting/calculate-foir/models.go
package calculatefoir

import "origination-workers/internal/models"

type Input struct {
	ApplicationID       string  `json:"applicationId"`
	MonthlyIncome       float64 `json:"monthlyIncome"`
	ExistingObligations float64 `json:"existingObligations"`
	NewEMI              float64 `json:"newEmi"`
}

type Output struct {
	ApplicationID string            `json:"applicationId"`
	Result        models.FOIRResult `json:"result"`

	// Source is "portal" for an authoritative result, "local" when the
	// calculation degraded to the in-process engine.
	Source   string `json:"source"`
	Degraded bool   `json:"degraded"`
}
