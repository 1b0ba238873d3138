package scheduler

import "time"

// Config controls sweep cadence and per-job timeouts.
type Config struct {
	// SweepInterval is how often the full exposure sweep runs. Zero or
	// negative disables the scheduler entirely.
	SweepInterval time.Duration

	// UserTimeout bounds one user's pipeline run inside a sweep.
	UserTimeout time.Duration

	// SummaryRetention purges monthly buckets older than this; zero keeps
	// everything. Buckets inside the rolling or calendar window are always
	// retained regardless of this setting.
	SummaryRetention time.Duration
}

func DefaultConfig() Config {
	return Config{
		SweepInterval: 24 * time.Hour,
		UserTimeout:   2 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.UserTimeout <= 0 {
		c.UserTimeout = defaults.UserTimeout
	}
	return c
}
