package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 90 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const AbandonJobInterval = 15 * time.Minute

// SessionLockWait bounds how long a SubmitAnswer call waits for the
// per-session lock before failing with SESSION_BUSY.
const SessionLockWait = 2 * time.Second

// DefaultRole is used when a candidate profile carries no role label.
const DefaultRole = "Software Engineer"
