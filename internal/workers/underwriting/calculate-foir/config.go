// internal/workers/underwriting/calculate-foir/config.go
package calculatefoir

import "time"

type Config struct {
	Timeout time.Duration

	// PortalTimeout bounds the authoritative portal call separately, so a
	// slow portal degrades to the local engine before the job runs out.
	PortalTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		PortalTimeout: 5 * time.Second,
	}
}
