// internal/workers/intake/validate-intake-step/models.go
package validateintakestep

import (
	"origination-workers/internal/engine/intake"
	"origination-workers/internal/models"
)

type Input struct {
	SessionID     string `json:"sessionId"`
	ApplicationID string `json:"applicationId"`

	// Action is one of start, select-category, validate, next, previous.
	Action   string `json:"action"`
	Category string `json:"category,omitempty"`

	Step          int           `json:"step"`
	MinimumIncome float64       `json:"minimumIncome"`
	Draft         *intake.Draft `json:"draft,omitempty"`
}

type Output struct {
	Step          int                      `json:"step"`
	Draft         intake.Draft             `json:"draft"`
	Fields        []intake.FieldSpec       `json:"fields"`
	Valid         bool                     `json:"valid"`
	Errors        []intake.ValidationError `json:"errors,omitempty"`
	MinimumIncome float64                  `json:"minimumIncome"`

	// Advisory FOIR preview, present on the obligations step only.
	EstimatedEMI float64            `json:"estimatedEmi,omitempty"`
	FOIRPreview  *models.FOIRResult `json:"foirPreview,omitempty"`
}
