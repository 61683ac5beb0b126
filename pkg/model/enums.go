package model

//go:generate go run github.com/dmarkham/enumer -type QuestionType -trimprefix QuestionType -transform snake -json -sql -yaml -output question_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type AttendeeStatus -trimprefix AttendeeStatus -transform snake -json -sql -yaml -output attendee_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type DeliveryStatus -trimprefix DeliveryStatus -transform snake -json -sql -yaml -output delivery_status.gen.go

// QuestionType determines how a question is answered and aggregated
type QuestionType int

const (
	QuestionTypeText QuestionType = iota
	QuestionTypeSingleChoice
	QuestionTypeMultipleChoice
	QuestionTypeRating
	QuestionTypeYesNo
)

// IsChoice reports whether answers are picked from Options.Choices
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultipleChoice
}

// AttendeeStatus moves from first_login to active after a password change,
// and to locked after too many failed logins.
type AttendeeStatus int

const (
	AttendeeStatusFirstLogin AttendeeStatus = iota
	AttendeeStatusActive
	AttendeeStatusLocked
)

// DeliveryStatus is the state of a PasswordQueue row
type DeliveryStatus int

const (
	DeliveryStatusPending DeliveryStatus = iota
	DeliveryStatusProcessing
	DeliveryStatusSent
	DeliveryStatusFailed
)
