// Package config loads service configuration from environment variables.
//
// Every setting has a default, so an empty environment yields a working
// configuration:
//
//	PORT, HOST                     HTTP listen address
//	EDITOR_MAX_CALL_STACK          JS call depth limit per evaluation
//	EDITOR_TIMEOUT                 per-evaluation deadline, 0 disables
//	EDITOR_MAX_CONCURRENT          in-flight evaluation cap, 0 disables
//	EDITOR_CONSOLE                 forward script console output to the log
//	LOG_LEVEL, LOG_DEV             logging
//	RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//	CORS_ORIGINS                   comma separated list
package config
