// internal/workers/underwriting/recommend-rate/handler_test.go
package recommendrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"origination-workers/internal/common/logger"
	"origination-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

type stubSignals struct {
	signals *models.VerificationSignals
	err     error
	calls   int
}

func (s *stubSignals) GetSignals(ctx context.Context, applicationID string) (*models.VerificationSignals, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.signals, nil
}

func createTestHandler(t *testing.T, verification SignalsSource) *Handler {
	testLog := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), verification, testLog)
}

func createSignals(score int, risk models.RiskLevel, hasDefaults bool, fraudCases int) *models.VerificationSignals {
	return &models.VerificationSignals{
		CreditScore:      score,
		RiskLevel:        risk,
		HasDefaults:      hasDefaults,
		ActiveFraudCases: fraudCases,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RateTiers(t *testing.T) {
	tests := []struct {
		name         string
		signals      *models.VerificationSignals
		expectedRate float64
	}{
		{
			name:         "prime low risk gets best tier",
			signals:      createSignals(760, models.RiskLevelLow, false, 0),
			expectedRate: 10.5,
		},
		{
			name:         "prime score with medium risk falls through",
			signals:      createSignals(760, models.RiskLevelMedium, false, 0),
			expectedRate: 11.5,
		},
		{
			name:         "700 low risk",
			signals:      createSignals(700, models.RiskLevelLow, false, 0),
			expectedRate: 11.5,
		},
		{
			name:         "650 medium risk",
			signals:      createSignals(650, models.RiskLevelMedium, false, 0),
			expectedRate: 12.5,
		},
		{
			name:         "650 high risk skips to the any-risk tier",
			signals:      createSignals(650, models.RiskLevelHigh, false, 0),
			expectedRate: 13.5,
		},
		{
			name:         "600 any risk",
			signals:      createSignals(600, models.RiskLevelHigh, false, 0),
			expectedRate: 13.5,
		},
		{
			name:         "550 any risk",
			signals:      createSignals(560, models.RiskLevelHigh, true, 0),
			expectedRate: 14.5,
		},
		{
			name:         "500 any risk",
			signals:      createSignals(510, models.RiskLevelHigh, false, 0),
			expectedRate: 15.5,
		},
		{
			name:         "below all tiers gets ceiling rate",
			signals:      createSignals(480, models.RiskLevelHigh, true, 2),
			expectedRate: 16.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verification := &stubSignals{signals: tt.signals}
			handler := createTestHandler(t, verification)

			output, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-001"})

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectedRate, output.RecommendedRate)
			assert.Equal(t, *tt.signals, output.Signals)
			assert.NotEmpty(t, output.Rationale)
			assert.Equal(t, 1, verification.calls)
		})
	}
}

func TestHandler_Execute_RationalePriority(t *testing.T) {
	t.Run("fraud overrides defaults", func(t *testing.T) {
		handler := createTestHandler(t, &stubSignals{signals: createSignals(760, models.RiskLevelLow, true, 3)})

		output, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-001"})

		require.NoError(t, err)
		assert.Contains(t, output.Rationale, "fraud")
		assert.NotContains(t, output.Rationale, "default history")
	})

	t.Run("defaults override score narrative", func(t *testing.T) {
		handler := createTestHandler(t, &stubSignals{signals: createSignals(760, models.RiskLevelLow, true, 0)})

		output, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-001"})

		require.NoError(t, err)
		assert.Contains(t, output.Rationale, "default history")
	})
}

func TestHandler_Execute_InlineSignalsSkipLookup(t *testing.T) {
	verification := &stubSignals{err: errors.New("must not be called")}
	handler := createTestHandler(t, verification)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Signals:       createSignals(720, models.RiskLevelLow, false, 0),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 11.5, output.RecommendedRate)
	assert.Equal(t, 0, verification.calls)
}

// ==========================
// Failure Tests
// ==========================

func TestHandler_Execute_MissingApplicationID(t *testing.T) {
	handler := createTestHandler(t, &stubSignals{})

	output, err := handler.Execute(context.Background(), &Input{})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingApplicationID)
}

func TestHandler_Execute_VerificationFetchFailure(t *testing.T) {
	handler := createTestHandler(t, &stubSignals{err: errors.New("connection refused")})

	output, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-001"})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFetch)
}

func TestHandler_Execute_VerificationTimeout(t *testing.T) {
	handler := createTestHandler(t, &stubSignals{err: context.DeadlineExceeded})

	output, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-001"})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationTimeout)
}
