package config

import "time"

// TelemetryCfg enables the periodic occupancy reporter.
// If nil, no background goroutine is started.
type TelemetryCfg struct {
	// Interval between two reports. Example: "5s".
	Interval time.Duration `yaml:"interval"`

	// Name tags every log line and metric of this filter.
	Name string `yaml:"name"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}

const defaultTelemetryInterval = 5 * time.Second
