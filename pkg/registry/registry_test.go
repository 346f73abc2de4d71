// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity-registry.json")

	payload := `{
		"version": "1.0.0",
		"lastUpdated": "2026-08-28T10:00:00Z",
		"activities": [
			{
				"id": "check-eligibility",
				"displayName": "Check Eligibility",
				"category": "intake",
				"taskType": "check-eligibility",
				"implementationStatus": "completed",
				"errorCodes": ["ELIGIBILITY_FETCH_FAILED"],
				"timeout": "30s",
				"retries": 0
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)

	activity := reg.Activities[0]
	assert.Equal(t, "check-eligibility", activity.ID)
	assert.Equal(t, "intake", activity.Category)
	assert.Equal(t, "check-eligibility", activity.TaskType)
	assert.Equal(t, []string{"ELIGIBILITY_FETCH_FAILED"}, activity.ErrorCodes)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
