// internal/workers/communication/decision-notification/models.go
package decisionnotification

type Input struct {
	ApplicantID   string                 `json:"applicantId"`
	ApplicationID string                 `json:"applicationId"`
	Decision      string                 `json:"decision"` // "approved", "rejected", "review"
	Priority      string                 `json:"priority,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Decisions
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionReview   = "review"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
