// internal/workers/intake/submit-application/models.go
package submitapplication

import "origination-workers/internal/engine/intake"

type Input struct {
	SessionID     string        `json:"sessionId"`
	Step          int           `json:"step"`
	MinimumIncome float64       `json:"minimumIncome"`
	Draft         *intake.Draft `json:"draft"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	SubmissionID      string `json:"submissionId"`
	ApplicationStatus string `json:"applicationStatus"`
	SubmittedAt       string `json:"submittedAt"`
	PortalSynced      bool   `json:"portalSynced"`
}
