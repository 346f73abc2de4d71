// internal/workers/underwriting/calculate-foir/handler.go
package calculatefoir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/affordability"
	"origination-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-foir"

	SourcePortal = "portal"
	SourceLocal  = "local"
)

var (
	ErrNegativeInput = errors.New("NEGATIVE_INPUT")
)

// FOIRSource is the authoritative portal calculator. The local engine
// implements the identical classification contract and takes over when the
// portal is unreachable or slow.
type FOIRSource interface {
	CalculateFOIR(ctx context.Context, monthlyIncome, existingObligations, newEMI float64) (*models.FOIRResult, error)
}

type Handler struct {
	config *Config
	portal FOIRSource
	logger logger.Logger
}

func NewHandler(config *Config, portal FOIRSource, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "FOIR_SERVICE_UNAVAILABLE", err.Error())
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute prefers the portal result and degrades to the local engine on any
// portal failure, including a timeout. Both calculators share the same
// thresholds, so a degraded answer differs only in freshness of the portal's
// own obligation data.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.MonthlyIncome < 0 || input.ExistingObligations < 0 || input.NewEMI < 0 {
		return nil, fmt.Errorf("%w: income, obligations and EMI must be non-negative", ErrNegativeInput)
	}

	if h.portal != nil {
		portalCtx, cancel := context.WithTimeout(ctx, h.config.PortalTimeout)
		result, err := h.portal.CalculateFOIR(portalCtx, input.MonthlyIncome, input.ExistingObligations, input.NewEMI)
		cancel()
		if err == nil {
			h.logger.Info("FOIR calculated by portal", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"foir":          result.FOIRPercentage,
				"status":        result.Status,
			})
			return &Output{
				ApplicationID: input.ApplicationID,
				Result:        *result,
				Source:        SourcePortal,
			}, nil
		}
		h.logger.Warn("portal FOIR unavailable, degrading to local engine", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"error":         err,
		})
	}

	result := affordability.ComputeFOIR(input.MonthlyIncome, input.ExistingObligations, input.NewEMI)

	h.logger.Info("FOIR calculated locally", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"foir":          result.FOIRPercentage,
		"status":        result.Status,
	})

	return &Output{
		ApplicationID: input.ApplicationID,
		Result:        result,
		Source:        SourceLocal,
		Degraded:      h.portal != nil,
	}, nil
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
