// internal/engine/affordability/calculator_test.go
package affordability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"origination-workers/internal/models"
)

func TestComputeFOIR(t *testing.T) {
	tests := []struct {
		name               string
		income             float64
		obligations        float64
		newEMI             float64
		expectedTotal      float64
		expectedFOIR       float64
		expectedStatus     models.FOIRStatus
		expectedAcceptable bool
	}{
		{
			name:               "excellent band",
			income:             80000,
			obligations:        10000,
			newEMI:             16000,
			expectedTotal:      26000,
			expectedFOIR:       32.5,
			expectedStatus:     models.FOIRStatusExcellent,
			expectedAcceptable: true,
		},
		{
			name:               "high risk band",
			income:             30000,
			obligations:        5000,
			newEMI:             17000,
			expectedTotal:      22000,
			expectedFOIR:       73.33,
			expectedStatus:     models.FOIRStatusHighRisk,
			expectedAcceptable: false,
		},
		{
			name:               "no obligations is excellent",
			income:             45000,
			obligations:        0,
			newEMI:             0,
			expectedTotal:      0,
			expectedFOIR:       0,
			expectedStatus:     models.FOIRStatusExcellent,
			expectedAcceptable: true,
		},
		{
			name:               "good band upper bound inclusive",
			income:             100000,
			obligations:        30000,
			newEMI:             25000,
			expectedTotal:      55000,
			expectedFOIR:       55,
			expectedStatus:     models.FOIRStatusGood,
			expectedAcceptable: true,
		},
		{
			name:               "acceptable band upper bound inclusive",
			income:             100000,
			obligations:        50000,
			newEMI:             20000,
			expectedTotal:      70000,
			expectedFOIR:       70,
			expectedStatus:     models.FOIRStatusAcceptable,
			expectedAcceptable: true,
		},
		{
			name:               "just over acceptable",
			income:             100000,
			obligations:        50000,
			newEMI:             20010,
			expectedTotal:      70010,
			expectedFOIR:       70.01,
			expectedStatus:     models.FOIRStatusHighRisk,
			expectedAcceptable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeFOIR(tt.income, tt.obligations, tt.newEMI)

			assert.Equal(t, tt.expectedTotal, result.TotalObligations)
			assert.Equal(t, tt.income-tt.expectedTotal, result.DisposableIncome)
			assert.Equal(t, tt.expectedFOIR, result.FOIRPercentage)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.expectedAcceptable, result.Acceptable)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestComputeFOIR_ZeroIncome(t *testing.T) {
	result := ComputeFOIR(0, 5000, 10000)

	assert.Equal(t, 0.0, result.FOIRPercentage)
	assert.False(t, result.Acceptable)
	assert.Equal(t, models.FOIRStatusHighRisk, result.Status)
	assert.Equal(t, 15000.0, result.TotalObligations)
	assert.Equal(t, -15000.0, result.DisposableIncome)
	assert.Contains(t, result.Message, "income is zero")
}

func TestComputeFOIR_NegativeDisposableIncomeNotClamped(t *testing.T) {
	result := ComputeFOIR(20000, 15000, 10000)

	assert.Equal(t, -5000.0, result.DisposableIncome)
	assert.Equal(t, models.FOIRStatusHighRisk, result.Status)
	assert.False(t, result.Acceptable)
}

func TestComputeFOIR_Rounding(t *testing.T) {
	// 10000/30000*100 = 33.333... must round to 33.33
	result := ComputeFOIR(30000, 10000, 0)
	assert.Equal(t, 33.33, result.FOIRPercentage)
}
