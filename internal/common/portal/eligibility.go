// Package portal holds HTTP clients for the loan portal backend services.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	commonhttp "origination-workers/internal/common/http"
	"origination-workers/internal/models"
)

type EligibilityClient struct {
	baseURL    string
	apiKey     string
	httpClient *commonhttp.Client
}

func NewEligibilityClient(baseURL, apiKey string, timeout time.Duration) *EligibilityClient {
	return &EligibilityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// GetEligibility fetches the eligibility criteria configured for a loan type.
func (c *EligibilityClient) GetEligibility(ctx context.Context, loanType string) (*models.EligibilityResponse, error) {
	u := fmt.Sprintf("%s/api/v1/loan-types/%s/eligibility", c.baseURL, url.PathEscape(loanType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch eligibility (status %d): %s", resp.StatusCode, string(body))
	}

	var result models.EligibilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
