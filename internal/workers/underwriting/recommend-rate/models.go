// internal/workers/underwriting/recommend-rate/models.go
package recommendrate

import "origination-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`

	// Signals override the verification lookup when present, for what-if
	// pricing against hypothetical facts.
	Signals *models.VerificationSignals `json:"signals,omitempty"`
}

type Output struct {
	ApplicationID   string                     `json:"applicationId"`
	Signals         models.VerificationSignals `json:"signals"`
	RecommendedRate float64                    `json:"recommendedRate"`
	Rationale       string                     `json:"rationale"`
}
