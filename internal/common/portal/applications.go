package portal

import (
	"bytes"
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

// ApplicationsClient talks to the portal's application-persistence API. The
// local Postgres record stays authoritative; this client pre-seeds intake
// sessions and mirrors accepted submissions back to the portal.
type ApplicationsClient struct {
	baseURL    string
	apiKey     string
	httpClient *commonhttp.Client
}

func NewApplicationsClient(baseURL, apiKey string, timeout time.Duration) *ApplicationsClient {
	return &ApplicationsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// GetApplication fetches the persisted application record, used to pre-seed
// the intake workflow with loan type and requested terms.
func (c *ApplicationsClient) GetApplication(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	u := fmt.Sprintf("%s/api/v1/applications/%s", c.baseURL, url.PathEscape(applicationID))

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
		return nil, fmt.Errorf("application %s not found", applicationID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch application (status %d): %s", resp.StatusCode, string(body))
	}

	var result models.LoanApplication
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// SubmitApplication mirrors an accepted submission to the portal. Callers
// treat a failure here as non-critical; the local record already exists.
func (c *ApplicationsClient) SubmitApplication(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	u := fmt.Sprintf("%s/api/v1/applications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to submit application (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
