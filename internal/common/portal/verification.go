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

type VerificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *commonhttp.Client
}

func NewVerificationClient(baseURL, apiKey string, timeout time.Duration) *VerificationClient {
	return &VerificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// GetSignals fetches the post-verification credit signals for an application.
func (c *VerificationClient) GetSignals(ctx context.Context, applicationID string) (*models.VerificationSignals, error) {
	u := fmt.Sprintf("%s/api/v1/applications/%s/verification", c.baseURL, url.PathEscape(applicationID))

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

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("verification signals not found for application %s", applicationID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch verification signals (status %d): %s", resp.StatusCode, string(body))
	}

	var result models.VerificationSignals
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
