package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRefreshPoll     = time.Minute
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
)
