// Command conferencectl runs the conference survey server and administers it.
//
// Organizers create conferences and surveys through the HTTP API. Attendees
// register through a conference's public code, receive a generated password by
// email and answer the conference's active survey.
//
// # Quick Start
//
//	# Generate a data key for encrypting queued passwords
//	export DATA_KEY="$(conferencectl data-key generate)"
//	export JWT_SECRET="change-me"
//	export DATABASE_URL="postgres://localhost/conference?sslmode=disable"
//
//	# Run database migrations
//	conferencectl db migrate
//
//	# Create the first organizer
//	conferencectl admin create org@example.com
//
//	# Start the server
//	conferencectl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - DATA_KEY: Base64-encoded 256-bit key for data encryption
//   - JWT_SECRET: secret for signing access tokens
//   - REDIS_URL: optional shared delivery queue
//   - AUDIT_DATABASE_URL: optional database for audit messages
//   - LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
//
// The remaining settings are listed by "conferencectl configuration show".
package main
