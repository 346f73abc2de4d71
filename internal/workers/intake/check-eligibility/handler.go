// internal/workers/intake/check-eligibility/handler.go
package checkeligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/metrics"
	"origination-workers/internal/engine/eligibility"
	"origination-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-eligibility"
)

var (
	ErrMissingLoanType = errors.New("MISSING_LOAN_TYPE")
)

// cachedFetcher is a Redis read-through over the portal eligibility API.
// Cache misses and Redis failures both fall through to the portal; the
// catalog's degraded fallback only kicks in when the portal itself fails.
type cachedFetcher struct {
	portal eligibility.Fetcher
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func (f *cachedFetcher) GetEligibility(ctx context.Context, loanType string) (*models.EligibilityResponse, error) {
	cacheKey := "eligibility:criteria:" + loanType
	if val, err := f.redis.Get(ctx, cacheKey).Result(); err == nil {
		var resp models.EligibilityResponse
		if err := json.Unmarshal([]byte(val), &resp); err == nil {
			return &resp, nil
		}
	}

	resp, err := f.portal.GetEligibility(ctx, loanType)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := f.redis.Set(ctx, cacheKey, data, f.ttl).Err(); err != nil {
			f.logger.Warn("failed to cache eligibility criteria", map[string]interface{}{
				"loanType": loanType,
				"error":    err,
			})
		}
	}

	return resp, nil
}

type Handler struct {
	config  *Config
	fetcher eligibility.Fetcher
	logger  logger.Logger
}

func NewHandler(config *Config, portal eligibility.Fetcher, redisClient *redis.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		fetcher: &cachedFetcher{
			portal: portal,
			redis:  redisClient,
			ttl:    config.CacheTTL,
			logger: log,
		},
		logger: log,
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
		h.failJob(client, job, "ELIGIBILITY_FETCH_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.LoanType == "" {
		return nil, fmt.Errorf("%w: loanType is required", ErrMissingLoanType)
	}

	// A fresh catalog per job keeps the memoization scoped to one session
	// query. Cross-session caching belongs to the Redis layer, where the
	// TTL controls how long criteria may go stale.
	catalog := eligibility.NewCatalog(h.fetcher)
	result := catalog.EligibleCategories(ctx, input.LoanType)

	selectable := eligibility.SelectableCategories(result)
	names := make([]string, 0, len(selectable))
	for _, criterion := range selectable {
		names = append(names, string(criterion.EmploymentCategory))
	}

	if result.Degraded {
		h.logger.Warn("eligibility degraded to show-all fallback", map[string]interface{}{
			"loanType":  input.LoanType,
			"sessionId": input.SessionID,
		})
	}

	h.logger.Info("eligibility criteria resolved", map[string]interface{}{
		"loanType":   input.LoanType,
		"selectable": len(names),
		"degraded":   result.Degraded,
	})

	return &Output{
		LoanType:             input.LoanType,
		EmploymentCategories: result.Criteria,
		SelectableCategories: names,
		Degraded:             result.Degraded,
		Warning:              result.Warning,
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
