// Package worker refreshes the dashboard in the background, on a schedule
// and on Pub/Sub triggers.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for background refreshes.
type RefreshConfig struct {
	// Interval between scheduled refreshes of the current city.
	// Zero disables the scheduler.
	// Default: 10 minutes
	Interval time.Duration

	// Timeout bounds each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval: 10 * time.Minute,
		Timeout:  30 * time.Second,
	}
}
