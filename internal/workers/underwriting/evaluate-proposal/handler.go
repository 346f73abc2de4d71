// internal/workers/underwriting/evaluate-proposal/handler.go
package evaluateproposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/underwriting"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const (
	TaskType = "evaluate-proposal"
)

var (
	ErrMissingApplicationID = errors.New("MISSING_APPLICATION_ID")
)

// AuditSink records one document per proposal evaluation. Indexing is
// non-critical; a failed write must never block a decision.
type AuditSink interface {
	IndexDecision(ctx context.Context, docID string, doc interface{}) error
}

// esAuditSink writes decision audits to Elasticsearch.
type esAuditSink struct {
	client *elasticsearch.Client
	index  string
}

func NewESAuditSink(client *elasticsearch.Client, index string) AuditSink {
	return &esAuditSink{client: client, index: index}
}

func (s *esAuditSink) IndexDecision(ctx context.Context, docID string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal audit document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: docID,
		Body:       strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to index audit document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("audit index failed: %s", res.String())
	}

	return nil
}

type Handler struct {
	config *Config
	audit  AuditSink
	logger logger.Logger
}

func NewHandler(config *Config, audit AuditSink, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		audit:  audit,
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
		errorCode := "PROPOSAL_EVALUATION_FAILED"
		if errors.Is(err, underwriting.ErrInvalidTenure) {
			errorCode = "INVALID_TENURE"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, fmt.Errorf("%w: applicationId is required", ErrMissingApplicationID)
	}

	facts := underwriting.ApplicationFacts{
		MonthlyIncome:       input.MonthlyIncome,
		ExistingObligations: input.ExistingObligations,
		Signals:             input.Signals,
	}

	result, err := underwriting.EvaluateProposal(input.Proposal, facts)
	if err != nil {
		return nil, err
	}

	evaluatedAt := time.Now().UTC().Format(time.RFC3339)

	audited := false
	if h.audit != nil {
		doc := decisionAudit{
			ApplicationID: input.ApplicationID,
			OfficerID:     input.OfficerID,
			Proposal:      input.Proposal,
			Result:        result,
			Signals:       input.Signals,
			EvaluatedAt:   evaluatedAt,
		}
		if err := h.audit.IndexDecision(ctx, uuid.New().String(), doc); err != nil {
			h.logger.Warn("decision audit write failed", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"error":         err,
			})
		} else {
			audited = true
		}
	}

	h.logger.Info("proposal evaluated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"monthlyEmi":    result.MonthlyEMI,
		"foirRatio":     result.FOIRRatio,
		"foirStatus":    result.FOIRStatus,
		"warnings":      len(result.Warnings),
		"audited":       audited,
	})

	return &Output{
		ApplicationID: input.ApplicationID,
		Proposal:      input.Proposal,
		Result:        result,
		EvaluatedAt:   evaluatedAt,
		Audited:       audited,
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
