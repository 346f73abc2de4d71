package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "origination-workers/internal/common/http"
	"origination-workers/internal/models"
)

type AffordabilityClient struct {
	baseURL    string
	apiKey     string
	httpClient *commonhttp.Client
}

type foirRequest struct {
	MonthlyIncome       float64 `json:"monthlyIncome"`
	ExistingObligations float64 `json:"existingObligations"`
	NewEMI              float64 `json:"newEmi"`
}

func NewAffordabilityClient(baseURL, apiKey string, timeout time.Duration) *AffordabilityClient {
	return &AffordabilityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// CalculateFOIR asks the portal affordability service for the authoritative
// FOIR result.
func (c *AffordabilityClient) CalculateFOIR(ctx context.Context, monthlyIncome, existingObligations, newEMI float64) (*models.FOIRResult, error) {
	u := fmt.Sprintf("%s/api/v1/affordability/foir", c.baseURL)

	jsonData, err := json.Marshal(foirRequest{
		MonthlyIncome:       monthlyIncome,
		ExistingObligations: existingObligations,
		NewEMI:              newEMI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to calculate FOIR (status %d): %s", resp.StatusCode, string(body))
	}

	var result models.FOIRResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
