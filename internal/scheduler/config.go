package scheduler

import "time"

// Config controls when full reconciliation runs happen.
type Config struct {
	Interval     time.Duration
	StartupDelay time.Duration
	RunTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:     5 * time.Minute,
		StartupDelay: 15 * time.Minute,
		RunTimeout:   4 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.StartupDelay < 0 {
		c.StartupDelay = defaults.StartupDelay
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	return c
}
