package scheduler

import "time"

// Config controls the billing sweep and reminder loops.
type Config struct {
	BatchSize        int
	PollInterval     time.Duration
	ReminderLookback time.Duration
}

func DefaultConfig() Config {
	return Config{
		BatchSize:        50,
		PollInterval:     30 * time.Second,
		ReminderLookback: 6 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.ReminderLookback <= 0 {
		c.ReminderLookback = defaults.ReminderLookback
	}
	return c
}
