// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Loan origination error codes. BPMN boundary events catch these by code,
// so the strings are part of the process contract.
const (
	ErrCodeEligibilityFetchFailed ErrorCode = "ELIGIBILITY_FETCH_FAILED"
	ErrCodeEligibilityNotMet      ErrorCode = "ELIGIBILITY_NOT_MET"

	ErrCodeFOIRServiceUnavailable ErrorCode = "FOIR_SERVICE_UNAVAILABLE"
	ErrCodeFOIRTimeout            ErrorCode = "FOIR_TIMEOUT"

	ErrCodeIntakeValidationFailed     ErrorCode = "INTAKE_VALIDATION_FAILED"
	ErrCodeInvalidEmploymentCategory  ErrorCode = "INVALID_EMPLOYMENT_CATEGORY"
	ErrCodeInvalidTenure              ErrorCode = "INVALID_TENURE"
	ErrCodeApplicationSchemaViolation ErrorCode = "APPLICATION_SCHEMA_VIOLATION"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateApplication     ErrorCode = "DUPLICATE_APPLICATION"

	ErrCodeVerificationFetchFailed ErrorCode = "VERIFICATION_FETCH_FAILED"
	ErrCodeVerificationTimeout     ErrorCode = "VERIFICATION_TIMEOUT"

	ErrCodeAuditIndexFailed              ErrorCode = "AUDIT_INDEX_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeParseError ErrorCode = "PARSE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewEligibilityFetchFailedError creates a retryable portal eligibility error.
func NewEligibilityFetchFailedError(loanType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEligibilityFetchFailed,
		Message:   "Eligibility criteria fetch failed",
		Details:   fmt.Sprintf("loanType: %s, error: %s", loanType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEligibilityNotMetError creates a non-retryable business rule error.
func NewEligibilityNotMetError(category, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEligibilityNotMet,
		Message:   "Applicant does not meet eligibility criteria",
		Details:   fmt.Sprintf("category: %s, reason: %s", category, reason),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFOIRServiceUnavailableError creates a retryable affordability service error.
func NewFOIRServiceUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFOIRServiceUnavailable,
		Message:   "Affordability service error during FOIR calculation",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFOIRTimeoutError creates a retryable affordability timeout error.
func NewFOIRTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeFOIRTimeout,
		Message:   "Affordability service timeout",
		Details:   "FOIR call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntakeValidationFailedError creates a non-retryable intake validation error.
func NewIntakeValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntakeValidationFailed,
		Message:   "Intake step validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidEmploymentCategoryError creates a non-retryable category error.
func NewInvalidEmploymentCategoryError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEmploymentCategory,
		Message:   "Unknown employment category",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTenureError creates a non-retryable tenure error.
func NewInvalidTenureError(tenureMonths int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTenure,
		Message:   "Loan tenure must be positive",
		Details:   fmt.Sprintf("tenureMonths: %d", tenureMonths),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationSchemaViolationError creates a non-retryable schema error.
func NewApplicationSchemaViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationSchemaViolation,
		Message:   "Application payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate application error.
func NewDuplicateApplicationError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "Application already exists",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationFetchFailedError creates a retryable verification signal error.
func NewVerificationFetchFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationFetchFailed,
		Message:   "Verification signal fetch failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationTimeoutError creates a retryable verification timeout error.
func NewVerificationTimeoutError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationTimeout,
		Message:   "Verification service timeout",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable decision audit error.
func NewAuditIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Decision audit indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable job variable parse error.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The codes
// are identical on both sides; the map exists so a future process model can
// diverge without touching worker code.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeEligibilityFetchFailed:        "ELIGIBILITY_FETCH_FAILED",
	ErrCodeEligibilityNotMet:             "ELIGIBILITY_NOT_MET",
	ErrCodeFOIRServiceUnavailable:        "FOIR_SERVICE_UNAVAILABLE",
	ErrCodeFOIRTimeout:                   "FOIR_TIMEOUT",
	ErrCodeIntakeValidationFailed:        "INTAKE_VALIDATION_FAILED",
	ErrCodeInvalidEmploymentCategory:     "INVALID_EMPLOYMENT_CATEGORY",
	ErrCodeInvalidTenure:                 "INVALID_TENURE",
	ErrCodeApplicationSchemaViolation:    "APPLICATION_SCHEMA_VIOLATION",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:          "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateApplication:          "DUPLICATE_APPLICATION",
	ErrCodeVerificationFetchFailed:       "VERIFICATION_FETCH_FAILED",
	ErrCodeVerificationTimeout:           "VERIFICATION_TIMEOUT",
	ErrCodeAuditIndexFailed:              "AUDIT_INDEX_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
	ErrCodeParseError:                    "PARSE_ERROR",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEligibilityFetchFailed,
		ErrCodeFOIRServiceUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeVerificationFetchFailed,
		ErrCodeAuditIndexFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeFOIRTimeout,
		ErrCodeVerificationTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ELIGIBILITY"):
		return "ELIGIBILITY"
	case strings.Contains(codeStr, "FOIR"):
		return "AFFORDABILITY"
	case strings.Contains(codeStr, "VERIFICATION"):
		return "VERIFICATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "AUDIT") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "AUDIT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
