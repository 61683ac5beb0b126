// Package model defines the database models for the conference platform.
//
// The models map onto the schema created by db/migrations and are shared by
// the GORM stores, the seed loader and the delivery worker.
//
// # Core Models
//
//   - Admin: organizer account that owns conferences
//   - Conference: event reachable by attendees through its URL code
//   - Survey: ordered questions; at most one active per conference
//   - Question: typed question with a JSON options payload
//   - Attendee: conference participant, unique per email and conference
//   - Response: one answer per attendee and question
//   - PasswordQueue: scheduled delivery of a generated attendee password
//   - PasswordReset: admin password reset request
//
// Enumerations (QuestionType, AttendeeStatus, DeliveryStatus) are generated
// with enumer and stored as text.
package model
