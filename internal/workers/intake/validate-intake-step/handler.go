// internal/workers/intake/validate-intake-step/handler.go
package validateintakestep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/intake"
	"origination-workers/internal/engine/underwriting"
	"origination-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-intake-step"

	ActionStart          = "start"
	ActionSelectCategory = "select-category"
	ActionValidate       = "validate"
	ActionNext           = "next"
	ActionPrevious       = "previous"
)

var (
	ErrMissingApplicationID = errors.New("MISSING_APPLICATION_ID")
	ErrMissingDraft         = errors.New("MISSING_DRAFT")
	ErrUnknownAction        = errors.New("UNKNOWN_ACTION")
)

// ApplicationSource loads the persisted application record that seeds a new
// intake session and supplies the requested terms for the FOIR preview.
type ApplicationSource interface {
	GetApplication(ctx context.Context, applicationID string) (*models.LoanApplication, error)
}

type Handler struct {
	config       *Config
	applications ApplicationSource
	logger       logger.Logger
}

func NewHandler(config *Config, applications ApplicationSource, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		applications: applications,
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INTAKE_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute drives one workflow transition. Validation failures are not
// errors: they come back on the output so the portal can render them next
// to the offending fields. An error return means the request itself was
// unusable.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Action == ActionStart {
		if input.ApplicationID == "" {
			return nil, fmt.Errorf("%w: applicationId is required to start a session", ErrMissingApplicationID)
		}
		app, err := h.applications.GetApplication(ctx, input.ApplicationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load application %s: %w", input.ApplicationID, err)
		}
		wf := intake.NewWorkflow(app.ID, app.LoanType)
		return h.snapshot(ctx, wf, nil), nil
	}

	if input.Draft == nil {
		return nil, fmt.Errorf("%w: draft is required for action %q", ErrMissingDraft, input.Action)
	}

	wf := intake.ReloadDraft(*input.Draft, input.Step, input.MinimumIncome)

	var errs []intake.ValidationError
	switch input.Action {
	case ActionSelectCategory:
		next, err := wf.SelectCategory(models.EmploymentCategory(input.Category), input.MinimumIncome)
		var verr intake.ValidationError
		switch {
		case err == nil:
			wf = next
		case errors.As(err, &verr):
			errs = append(errs, verr)
		default:
			return nil, err
		}
	case ActionValidate:
		errs = wf.ValidateStep(wf.Step)
	case ActionNext:
		wf, errs = wf.NextStep()
	case ActionPrevious:
		wf = wf.PreviousStep()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, input.Action)
	}

	return h.snapshot(ctx, wf, errs), nil
}

// snapshot renders the workflow state for the portal, attaching the advisory
// FOIR preview on the obligations step. A preview failure is logged and
// dropped; it never blocks the step.
func (h *Handler) snapshot(ctx context.Context, wf intake.Workflow, errs []intake.ValidationError) *Output {
	output := &Output{
		Step:          wf.Step,
		Draft:         wf.Draft,
		Fields:        wf.StepFields(wf.Step),
		Valid:         len(errs) == 0,
		Errors:        errs,
		MinimumIncome: wf.MinimumIncome,
	}

	if wf.Step == intake.StepObligations && h.applications != nil {
		app, err := h.applications.GetApplication(ctx, wf.Draft.ApplicationID)
		if err != nil {
			h.logger.Warn("skipping FOIR preview, application lookup failed", map[string]interface{}{
				"applicationId": wf.Draft.ApplicationID,
				"error":         err,
			})
			return output
		}
		schedule, err := underwriting.ComputeEMI(app.RequestedAmount, h.config.PreviewRate, app.RequestedTenure)
		if err != nil {
			h.logger.Warn("skipping FOIR preview, EMI estimate failed", map[string]interface{}{
				"applicationId": wf.Draft.ApplicationID,
				"error":         err,
			})
			return output
		}
		preview := wf.FOIRPreview(schedule.MonthlyEMI)
		output.EstimatedEMI = schedule.MonthlyEMI
		output.FOIRPreview = &preview
	}

	return output
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
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
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
