// internal/workers/underwriting/recommend-rate/handler.go
package recommendrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/underwriting"
	"origination-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-rate"
)

var (
	ErrMissingApplicationID   = errors.New("MISSING_APPLICATION_ID")
	ErrVerificationFetch      = errors.New("VERIFICATION_FETCH_FAILED")
	ErrVerificationTimeout    = errors.New("VERIFICATION_TIMEOUT")
	errNoVerificationBackends = errors.New("no verification source configured and no signals supplied")
)

// SignalsSource provides the verified credit facts for an application.
type SignalsSource interface {
	GetSignals(ctx context.Context, applicationID string) (*models.VerificationSignals, error)
}

type Handler struct {
	config       *Config
	verification SignalsSource
	logger       logger.Logger
}

func NewHandler(config *Config, verification SignalsSource, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		verification: verification,
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
		errorCode := "VERIFICATION_FETCH_FAILED"
		if errors.Is(err, ErrVerificationTimeout) {
			errorCode = "VERIFICATION_TIMEOUT"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	signals := input.Signals
	if signals == nil {
		if input.ApplicationID == "" {
			return nil, fmt.Errorf("%w: applicationId is required", ErrMissingApplicationID)
		}
		if h.verification == nil {
			return nil, errNoVerificationBackends
		}
		fetched, err := h.verification.GetSignals(ctx, input.ApplicationID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrVerificationTimeout, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrVerificationFetch, err)
		}
		signals = fetched
	}

	rate := underwriting.RecommendRate(signals.CreditScore, signals.RiskLevel,
		signals.HasDefaults, signals.ActiveFraudCases)
	rationale := underwriting.ExplainRecommendation(*signals)

	h.logger.Info("rate recommended", map[string]interface{}{
		"applicationId":   input.ApplicationID,
		"creditScore":     signals.CreditScore,
		"riskLevel":       signals.RiskLevel,
		"recommendedRate": rate,
	})

	return &Output{
		ApplicationID:   input.ApplicationID,
		Signals:         *signals,
		RecommendedRate: rate,
		Rationale:       rationale,
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
