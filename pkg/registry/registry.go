// pkg/registry/registry.go

// Package registry reads the origination activity catalog that
// configs/activity-registry.json maintains. The registry-updater and
// worker-generator tools both consume it.
package registry

import (
	"encoding/json"
	"os"
)

// LoadRegistry parses the activity registry at path.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}
