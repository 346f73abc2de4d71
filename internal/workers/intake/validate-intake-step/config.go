// internal/workers/intake/validate-intake-step/config.go
package validateintakestep

import "time"

type Config struct {
	Timeout time.Duration

	// PreviewRate is the indicative annual rate for the step-5 EMI estimate.
	PreviewRate float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		PreviewRate: 12.5,
	}
}
