// internal/engine/eligibility/catalog_test.go
package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/models"
)

type stubFetcher struct {
	response *models.EligibilityResponse
	err      error
	calls    int
}

func (s *stubFetcher) GetEligibility(_ context.Context, _ string) (*models.EligibilityResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func personalLoanResponse() *models.EligibilityResponse {
	return &models.EligibilityResponse{
		MinimumIncome: 15000,
		EmploymentCategories: []models.EligibilityCriterion{
			{EmploymentCategory: models.CategorySalaried, Eligible: true, MinimumIncome: 20000, MinimumDurationMonths: 6},
			{EmploymentCategory: models.CategorySelfEmployed, Eligible: true, MinimumIncome: 25000, MinimumDurationMonths: 12},
			{EmploymentCategory: models.CategoryStudent, Eligible: false, Reason: "students are not eligible for personal loans"},
			{EmploymentCategory: models.CategoryUnemployed, Eligible: false, Reason: "independent income required"},
		},
	}
}

func TestCatalog_EligibleCategories(t *testing.T) {
	fetcher := &stubFetcher{response: personalLoanResponse()}
	catalog := NewCatalog(fetcher)

	result := catalog.EligibleCategories(context.Background(), "PERSONAL")

	require.NotNil(t, result)
	assert.False(t, result.Degraded)
	assert.Len(t, result.Criteria, len(models.AllCategories))

	selectable := SelectableCategories(result)
	assert.Len(t, selectable, 2)
	for _, criterion := range selectable {
		assert.True(t, criterion.Eligible)
		assert.NotEqual(t, models.CategoryStudent, criterion.EmploymentCategory)
		assert.NotEqual(t, models.CategoryUnemployed, criterion.EmploymentCategory)
	}
}

func TestCatalog_FillsMissingCategoriesAsIneligible(t *testing.T) {
	fetcher := &stubFetcher{response: personalLoanResponse()}
	catalog := NewCatalog(fetcher)

	result := catalog.EligibleCategories(context.Background(), "PERSONAL")

	var retired *models.EligibilityCriterion
	for i := range result.Criteria {
		if result.Criteria[i].EmploymentCategory == models.CategoryRetired {
			retired = &result.Criteria[i]
		}
	}
	require.NotNil(t, retired)
	assert.False(t, retired.Eligible)
	assert.NotEmpty(t, retired.Reason)
}

func TestCatalog_MemoizesPerLoanType(t *testing.T) {
	fetcher := &stubFetcher{response: personalLoanResponse()}
	catalog := NewCatalog(fetcher)

	first := catalog.EligibleCategories(context.Background(), "PERSONAL")
	second := catalog.EligibleCategories(context.Background(), "PERSONAL")

	assert.Equal(t, 1, fetcher.calls)
	assert.Same(t, first, second)
}

func TestCatalog_DegradedFallback(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	catalog := NewCatalog(fetcher)

	result := catalog.EligibleCategories(context.Background(), "HOME")

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Warning)
	assert.Len(t, result.Criteria, len(models.AllCategories))
	// Degraded mode shows everything, marked as not pre-validated.
	assert.Len(t, SelectableCategories(result), len(models.AllCategories))
}

func TestCatalog_DegradedResultNotMemoized(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("timeout")}
	catalog := NewCatalog(fetcher)

	_ = catalog.EligibleCategories(context.Background(), "HOME")

	// Service recovers; the next lookup must hit the fetcher again.
	fetcher.err = nil
	fetcher.response = personalLoanResponse()
	result := catalog.EligibleCategories(context.Background(), "HOME")

	assert.False(t, result.Degraded)
	assert.Equal(t, 2, fetcher.calls)
}

func TestCatalog_DefaultMinimumIncomeApplied(t *testing.T) {
	resp := &models.EligibilityResponse{
		MinimumIncome: 18000,
		EmploymentCategories: []models.EligibilityCriterion{
			{EmploymentCategory: models.CategoryFreelancer, Eligible: true},
		},
	}
	catalog := NewCatalog(&stubFetcher{response: resp})

	result := catalog.EligibleCategories(context.Background(), "PERSONAL")
	selectable := SelectableCategories(result)

	require.Len(t, selectable, 1)
	assert.Equal(t, 18000.0, selectable[0].MinimumIncome)
}
