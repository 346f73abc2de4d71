// internal/workers/underwriting/evaluate-proposal/config.go
package evaluateproposal

import "time"

type Config struct {
	Timeout time.Duration

	// AuditIndex is the Elasticsearch index evaluations are written to.
	AuditIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		AuditIndex: "underwriting-decisions",
	}
}
