package application

import "expvar"

// Counters published under /api/debug/vars.
var (
	metricRegistrations   = expvar.NewInt("auth_registrations")
	metricLogins          = expvar.NewInt("auth_logins")
	metricLoginFailures   = expvar.NewInt("auth_login_failures")
	metricTokenRefreshes  = expvar.NewInt("auth_token_refreshes")
	metricStandupsCreated = expvar.NewInt("standups_created")
	metricStandupsUpdated = expvar.NewInt("standups_updated")
	metricTokensSwept     = expvar.NewInt("refresh_tokens_swept")
)
