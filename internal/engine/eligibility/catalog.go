// internal/engine/eligibility/catalog.go

// Package eligibility resolves which employment categories qualify for a
// loan product. Remote lookups are memoized per session; a failed lookup
// degrades to "all categories, none pre-validated" instead of blocking the
// intake workflow.
package eligibility

import (
	"context"
	"sync"

	"origination-workers/internal/models"
)

// Fetcher retrieves eligibility criteria from the eligibility collaborator.
type Fetcher interface {
	GetEligibility(ctx context.Context, loanType string) (*models.EligibilityResponse, error)
}

// Result carries the criteria for one loan type. Degraded marks the
// show-all fallback; Warning is the non-blocking notice to surface.
type Result struct {
	LoanType string                        `json:"loanType"`
	Criteria []models.EligibilityCriterion `json:"criteria"`
	Degraded bool                          `json:"degraded"`
	Warning  string                        `json:"warning,omitempty"`
}

// Catalog memoizes eligibility lookups per loan type for the lifetime of
// one session query. Callers create a catalog per session; longer-lived
// caching belongs to the Fetcher. The memo map is guarded so a catalog is
// safe to share within a query.
type Catalog struct {
	fetcher Fetcher

	mu   sync.Mutex
	memo map[string]*Result
}

func NewCatalog(fetcher Fetcher) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		memo:    make(map[string]*Result),
	}
}

// EligibleCategories returns one criterion per employment category for the
// loan type. A collaborator failure is not an error: the result degrades to
// every category with no pre-validation and a warning attached.
func (c *Catalog) EligibleCategories(ctx context.Context, loanType string) *Result {
	c.mu.Lock()
	if cached, ok := c.memo[loanType]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	resp, err := c.fetcher.GetEligibility(ctx, loanType)
	if err != nil {
		// Deliberate fallback, not an error path. Degraded results are not
		// memoized so a later attempt can recover.
		return degradedResult(loanType)
	}

	result := &Result{
		LoanType: loanType,
		Criteria: normalize(loanType, resp),
	}

	c.mu.Lock()
	c.memo[loanType] = result
	c.mu.Unlock()
	return result
}

// SelectableCategories filters a result to the criteria an applicant may
// actually choose from. Showing ineligible categories is against the product
// rule, so callers must present only this list in the category step.
func SelectableCategories(result *Result) []models.EligibilityCriterion {
	selectable := make([]models.EligibilityCriterion, 0, len(result.Criteria))
	for _, criterion := range result.Criteria {
		if criterion.Eligible {
			selectable = append(selectable, criterion)
		}
	}
	return selectable
}

// normalize guarantees at most one criterion per category and fills any
// category the collaborator omitted as ineligible.
func normalize(loanType string, resp *models.EligibilityResponse) []models.EligibilityCriterion {
	byCategory := make(map[models.EmploymentCategory]models.EligibilityCriterion, len(resp.EmploymentCategories))
	for _, criterion := range resp.EmploymentCategories {
		if !criterion.EmploymentCategory.IsValid() {
			continue
		}
		if _, seen := byCategory[criterion.EmploymentCategory]; seen {
			continue
		}
		if criterion.MinimumIncome == 0 {
			criterion.MinimumIncome = resp.MinimumIncome
		}
		criterion.LoanType = loanType
		byCategory[criterion.EmploymentCategory] = criterion
	}

	criteria := make([]models.EligibilityCriterion, 0, len(models.AllCategories))
	for _, category := range models.AllCategories {
		if criterion, ok := byCategory[category]; ok {
			criteria = append(criteria, criterion)
			continue
		}
		criteria = append(criteria, models.EligibilityCriterion{
			LoanType:           loanType,
			EmploymentCategory: category,
			Eligible:           false,
			Reason:             "not offered for this loan product",
		})
	}
	return criteria
}

func degradedResult(loanType string) *Result {
	criteria := make([]models.EligibilityCriterion, 0, len(models.AllCategories))
	for _, category := range models.AllCategories {
		criteria = append(criteria, models.EligibilityCriterion{
			LoanType:           loanType,
			EmploymentCategory: category,
			Eligible:           true,
			Reason:             "eligibility service unavailable; not pre-validated",
		})
	}
	return &Result{
		LoanType: loanType,
		Criteria: criteria,
		Degraded: true,
		Warning:  "eligibility service unavailable; all categories shown without pre-validation",
	}
}
