// Package config provides configuration management for the conference server.
//
// Settings are loaded from defaults, then an optional YAML file, then
// environment variables. Each attribute remembers which source set it.
//
// # Configuration Sources
//
//   - $CONFERENCE_CONFIG_PATH/conference.yml (default /etc/conference)
//   - Environment variables (take precedence)
//
// # Key Configuration Options
//
//   - JWT_SECRET: HS256 signing secret (required for the server)
//   - MAX_LOGIN_ATTEMPTS, LOCKOUT_DURATION_MINUTES: attendee lockout policy
//   - EMAIL_PROVIDER: smtp or log
//   - REDIS_URL: delivery queue backend
//
// Process settings (DATABASE_URL, DATA_KEY, PORT, LOG_LEVEL) are read by
// conferencectl directly.
package config
