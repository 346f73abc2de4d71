// internal/workers/intake/submit-application/handler.go
package submitapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/intake"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "submit-application"
)

var (
	ErrValidationFailed     = errors.New("INTAKE_VALIDATION_FAILED")
	ErrSchemaViolation      = errors.New("APPLICATION_SCHEMA_VIOLATION")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
)

// PortalSink mirrors an accepted submission back to the portal. The local
// Postgres row is the system of record; a sync failure is logged, not fatal.
type PortalSink interface {
	SubmitApplication(ctx context.Context, payload interface{}) error
}

type Handler struct {
	config *Config
	db     *sql.DB
	portal PortalSink
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, portal PortalSink, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		portal: portal,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		switch {
		case errors.Is(err, ErrDatabaseInsertFailed):
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		case errors.Is(err, ErrDuplicateApplication):
			errorCode = "DUPLICATE_APPLICATION"
		case errors.Is(err, ErrValidationFailed):
			errorCode = "INTAKE_VALIDATION_FAILED"
		case errors.Is(err, ErrSchemaViolation):
			errorCode = "APPLICATION_SCHEMA_VIOLATION"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Draft == nil {
		return nil, fmt.Errorf("%w: draft is required", ErrValidationFailed)
	}

	// Re-run the full five-step validation server side. The portal already
	// validated step by step, but submission is the trust boundary.
	wf := intake.ReloadDraft(*input.Draft, intake.StepObligations, input.MinimumIncome)
	payload, verrs := wf.Submit()
	if len(verrs) > 0 {
		fields := make([]string, len(verrs))
		for i, verr := range verrs {
			fields[i] = verr.Field
		}
		return nil, fmt.Errorf("%w: incomplete draft, invalid fields: %v", ErrValidationFailed, fields)
	}

	if err := h.validatePayload(payload); err != nil {
		return nil, err
	}

	// Check for duplicate submission
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM loan_submissions
			WHERE application_id = $1
		)`, payload.ApplicationID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: application %s was already submitted",
			ErrDuplicateApplication, payload.ApplicationID)
	}

	submissionID := uuid.New().String()
	submittedAt := time.Now().UTC().Format(time.RFC3339)

	// Serialize the frozen draft for the JSONB column
	draftJSON, err := json.Marshal(payload.Draft)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal draft: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO loan_submissions (
			id, application_id, loan_type, employment_category, draft,
			monthly_income, existing_obligations, monthly_expenses,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		submissionID,
		payload.ApplicationID,
		payload.LoanType,
		payload.EmploymentCategory,
		draftJSON,
		payload.MonthlyIncome,
		payload.ExistingObligations,
		payload.MonthlyExpenses,
		"submitted",
		submittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit log entry (non-critical, log error but don't fail)
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicationId":      payload.ApplicationID,
		"loanType":           payload.LoanType,
		"employmentCategory": payload.EmploymentCategory,
		"monthlyIncome":      payload.MonthlyIncome,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_submitted",
		"loan_submission",
		submissionID,
		auditDetailsJSON,
		submittedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"submissionId": submissionID,
		})
	}

	portalSynced := false
	if h.portal != nil {
		if err := h.portal.SubmitApplication(ctx, payload); err != nil {
			h.logger.Warn("portal sync failed, local record kept", map[string]interface{}{
				"error":         err,
				"applicationId": payload.ApplicationID,
			})
		} else {
			portalSynced = true
		}
	}

	h.logger.Info("application submitted", map[string]interface{}{
		"applicationId":      payload.ApplicationID,
		"submissionId":       submissionID,
		"loanType":           payload.LoanType,
		"employmentCategory": payload.EmploymentCategory,
		"portalSynced":       portalSynced,
	})

	return &Output{
		ApplicationID:     payload.ApplicationID,
		SubmissionID:      submissionID,
		ApplicationStatus: "submitted",
		SubmittedAt:       submittedAt,
		PortalSynced:      portalSynced,
	}, nil
}

func (h *Handler) validatePayload(payload *intake.SubmissionPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrSchemaViolation, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: failed to decode payload: %v", ErrSchemaViolation, err)
	}

	schemaLoader := gojsonschema.NewGoLoader(submissionSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: validation error: %v", ErrSchemaViolation, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %v", ErrSchemaViolation, errs)
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
