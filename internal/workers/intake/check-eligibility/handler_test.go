// internal/workers/intake/check-eligibility/handler_test.go
package checkeligibility

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 15 * time.Minute,
		Timeout:  10 * time.Second,
	}
}

// stubPortal is a canned eligibility collaborator. Calls counts how many
// times the portal was actually hit, so cache behavior is observable.
type stubPortal struct {
	response *models.EligibilityResponse
	err      error
	calls    int
}

func (s *stubPortal) GetEligibility(ctx context.Context, loanType string) (*models.EligibilityResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func createTestHandler(t *testing.T, portal *stubPortal, redisClient *redis.Client, config *Config) *Handler {
	if config == nil {
		config = createTestConfig()
	}
	testLog := logger.NewTestLogger(t)
	return NewHandler(config, portal, redisClient, testLog)
}

func createInput(sessionID, loanType string) *Input {
	return &Input{
		SessionID: sessionID,
		LoanType:  loanType,
	}
}

func personalLoanResponse() *models.EligibilityResponse {
	return &models.EligibilityResponse{
		MinimumIncome: 15000,
		EmploymentCategories: []models.EligibilityCriterion{
			{EmploymentCategory: models.CategorySalaried, Eligible: true, MinimumDurationMonths: 6},
			{EmploymentCategory: models.CategorySelfEmployed, Eligible: true, MinimumDurationMonths: 12},
			{EmploymentCategory: models.CategoryStudent, Eligible: false, Reason: "students require a guarantor product"},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CacheMissFetchesPortal(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{response: personalLoanResponse()}

	cacheKey := "eligibility:criteria:PERSONAL_LOAN"
	redisMock.ExpectGet(cacheKey).RedisNil()

	cachedData, _ := json.Marshal(portal.response)
	redisMock.ExpectSet(cacheKey, cachedData, 15*time.Minute).SetVal("OK")

	handler := createTestHandler(t, portal, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput("sess-1", "PERSONAL_LOAN"))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 1, portal.calls)
	assert.Equal(t, "PERSONAL_LOAN", output.LoanType)
	assert.False(t, output.Degraded)
	assert.Empty(t, output.Warning)

	// Normalization fills every category, eligible or not.
	assert.Len(t, output.EmploymentCategories, len(models.AllCategories))
	assert.Equal(t, []string{"SALARIED", "SELF_EMPLOYED"}, output.SelectableCategories)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheHitSkipsPortal(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{err: errors.New("portal must not be called")}

	cachedData, _ := json.Marshal(personalLoanResponse())
	redisMock.ExpectGet("eligibility:criteria:PERSONAL_LOAN").SetVal(string(cachedData))

	handler := createTestHandler(t, portal, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput("sess-2", "PERSONAL_LOAN"))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 0, portal.calls)
	assert.False(t, output.Degraded)
	assert.Equal(t, []string{"SALARIED", "SELF_EMPLOYED"}, output.SelectableCategories)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_SecondSessionServedFromRedis(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{response: personalLoanResponse()}

	cacheKey := "eligibility:criteria:PERSONAL_LOAN"
	redisMock.ExpectGet(cacheKey).RedisNil()
	cachedData, _ := json.Marshal(portal.response)
	redisMock.ExpectSet(cacheKey, cachedData, 15*time.Minute).SetVal("OK")
	redisMock.ExpectGet(cacheKey).SetVal(string(cachedData))

	handler := createTestHandler(t, portal, redisClient, nil)
	ctx := context.Background()

	_, err := handler.Execute(ctx, createInput("sess-3", "PERSONAL_LOAN"))
	require.NoError(t, err)

	// A second session re-consults Redis rather than an in-process copy.
	// Within the TTL the entry is warm, so the portal is still hit once.
	output, err := handler.Execute(ctx, createInput("sess-3b", "PERSONAL_LOAN"))
	require.NoError(t, err)
	assert.Equal(t, 1, portal.calls)
	assert.Equal(t, []string{"SALARIED", "SELF_EMPLOYED"}, output.SelectableCategories)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_CriteriaChangesVisibleAfterExpiry(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{response: personalLoanResponse()}

	cacheKey := "eligibility:criteria:PERSONAL_LOAN"
	redisMock.ExpectGet(cacheKey).RedisNil()
	firstData, _ := json.Marshal(portal.response)
	redisMock.ExpectSet(cacheKey, firstData, 15*time.Minute).SetVal("OK")

	handler := createTestHandler(t, portal, redisClient, nil)
	ctx := context.Background()

	output, err := handler.Execute(ctx, createInput("sess-4a", "PERSONAL_LOAN"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SALARIED", "SELF_EMPLOYED"}, output.SelectableCategories)

	// The product pulls the salaried offering between sessions. Once the
	// Redis entry expires, the next session must see the new criteria, not
	// a copy frozen in the process.
	flipped := personalLoanResponse()
	flipped.EmploymentCategories[0].Eligible = false
	flipped.EmploymentCategories[0].Reason = "salaried offering suspended for this product"
	portal.response = flipped

	redisMock.ExpectGet(cacheKey).RedisNil()
	secondData, _ := json.Marshal(flipped)
	redisMock.ExpectSet(cacheKey, secondData, 15*time.Minute).SetVal("OK")

	output, err = handler.Execute(ctx, createInput("sess-4b", "PERSONAL_LOAN"))
	require.NoError(t, err)
	assert.Equal(t, 2, portal.calls)
	assert.Equal(t, []string{"SELF_EMPLOYED"}, output.SelectableCategories)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Degraded Fallback Tests
// ==========================

func TestHandler_Execute_PortalFailureDegrades(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{err: errors.New("connection refused")}

	redisMock.ExpectGet("eligibility:criteria:HOME_LOAN").RedisNil()

	handler := createTestHandler(t, portal, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput("sess-4", "HOME_LOAN"))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Degraded)
	assert.NotEmpty(t, output.Warning)

	// Every category is selectable when the collaborator is down.
	assert.Len(t, output.SelectableCategories, len(models.AllCategories))
	for _, criterion := range output.EmploymentCategories {
		assert.True(t, criterion.Eligible)
	}

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_DegradedResultNotCached(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{err: errors.New("connection refused")}

	cacheKey := "eligibility:criteria:HOME_LOAN"
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectGet(cacheKey).RedisNil()

	handler := createTestHandler(t, portal, redisClient, nil)
	ctx := context.Background()
	input := createInput("sess-5", "HOME_LOAN")

	_, err := handler.Execute(ctx, input)
	require.NoError(t, err)

	// Degraded results are not memoized, so a retry goes back to the portal.
	output, err := handler.Execute(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, portal.calls)
	assert.True(t, output.Degraded)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_RedisWriteFailureIsNonFatal(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	portal := &stubPortal{response: personalLoanResponse()}

	cacheKey := "eligibility:criteria:PERSONAL_LOAN"
	redisMock.ExpectGet(cacheKey).RedisNil()
	cachedData, _ := json.Marshal(portal.response)
	redisMock.ExpectSet(cacheKey, cachedData, 15*time.Minute).SetErr(errors.New("redis down"))

	handler := createTestHandler(t, portal, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput("sess-6", "PERSONAL_LOAN"))

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Degraded)
	assert.Equal(t, []string{"SALARIED", "SELF_EMPLOYED"}, output.SelectableCategories)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_MissingLoanType(t *testing.T) {
	redisClient, _ := redismock.NewClientMock()

	portal := &stubPortal{response: personalLoanResponse()}

	handler := createTestHandler(t, portal, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput("sess-7", ""))

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLoanType)
	assert.Equal(t, 0, portal.calls)
}
