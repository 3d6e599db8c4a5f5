package application

import "expvar"

// Process-wide counters, exposed through /api/debug/vars.
var (
	populateAttempts = expvar.NewInt("populate_attempts")
	populateFailures = expvar.NewInt("populate_failures")
	populatedUsers   = expvar.NewInt("populated_users")
)
