package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

var (
	ErrInvalidOptions = errors.New("invalid question options")
	ErrInvalidAnswer  = errors.New("invalid answer")
)

const (
	DefaultRatingMin = 1
	DefaultRatingMax = 5
	maxRatingSpan    = 10
)

type Question struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	SurveyID uint           `gorm:"not null;index" json:"surveyId"`
	Text     string         `gorm:"not null" json:"text"`
	Type     QuestionType   `gorm:"type:varchar(32);not null" json:"type"`
	Options  datatypes.JSON `json:"options,omitempty"`
	Required bool           `gorm:"not null" json:"required"`
	Position int            `gorm:"not null;default:0" json:"position"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionOptions is the decoded form of Question.Options. Which fields
// apply depends on the question type.
type QuestionOptions struct {
	Choices   []string `json:"choices,omitempty"`
	Min       *int     `json:"min,omitempty"`
	Max       *int     `json:"max,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`
}

func (q *Question) ParsedOptions() (QuestionOptions, error) {
	var opts QuestionOptions
	raw := bytes.TrimSpace(q.Options)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return opts, nil
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return opts, nil
}

// RatingRange returns the inclusive bounds of a rating question
func (o QuestionOptions) RatingRange() (int, int) {
	lo, hi := DefaultRatingMin, DefaultRatingMax
	if o.Min != nil {
		lo = *o.Min
	}
	if o.Max != nil {
		hi = *o.Max
	}
	return lo, hi
}

// ValidateOptions checks that the options payload fits the question type
func (q *Question) ValidateOptions() error {
	opts, err := q.ParsedOptions()
	if err != nil {
		return err
	}

	switch q.Type {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice:
		if len(opts.Choices) < 2 {
			return fmt.Errorf("%w: %s needs at least two choices", ErrInvalidOptions, q.Type)
		}
		seen := make(map[string]bool, len(opts.Choices))
		for _, c := range opts.Choices {
			c = strings.TrimSpace(c)
			if c == "" {
				return fmt.Errorf("%w: empty choice", ErrInvalidOptions)
			}
			if seen[c] {
				return fmt.Errorf("%w: duplicate choice %q", ErrInvalidOptions, c)
			}
			seen[c] = true
		}
	case QuestionTypeRating:
		lo, hi := opts.RatingRange()
		if lo >= hi {
			return fmt.Errorf("%w: rating min must be below max", ErrInvalidOptions)
		}
		if hi-lo > maxRatingSpan {
			return fmt.Errorf("%w: rating scale spans more than %d points", ErrInvalidOptions, maxRatingSpan)
		}
	case QuestionTypeText:
		if opts.MaxLength < 0 {
			return fmt.Errorf("%w: maxLength must not be negative", ErrInvalidOptions)
		}
	case QuestionTypeYesNo:
	default:
		return fmt.Errorf("%w: unknown question type %d", ErrInvalidOptions, q.Type)
	}
	return nil
}

// ValidateAnswer checks a raw JSON answer against the question type and options
func (q *Question) ValidateAnswer(value []byte) error {
	opts, err := q.ParsedOptions()
	if err != nil {
		return err
	}
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: question %d: %s", ErrInvalidAnswer, q.ID, fmt.Sprintf(format, args...))
	}

	switch q.Type {
	case QuestionTypeText:
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return invalid("expected a string")
		}
		if strings.TrimSpace(s) == "" {
			return invalid("answer is empty")
		}
		if opts.MaxLength > 0 && len([]rune(s)) > opts.MaxLength {
			return invalid("answer exceeds %d characters", opts.MaxLength)
		}
	case QuestionTypeSingleChoice:
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return invalid("expected a string")
		}
		if !contains(opts.Choices, s) {
			return invalid("%q is not a valid choice", s)
		}
	case QuestionTypeMultipleChoice:
		var picked []string
		if err := json.Unmarshal(value, &picked); err != nil {
			return invalid("expected an array of strings")
		}
		if len(picked) == 0 {
			return invalid("no choice selected")
		}
		seen := make(map[string]bool, len(picked))
		for _, p := range picked {
			if !contains(opts.Choices, p) {
				return invalid("%q is not a valid choice", p)
			}
			if seen[p] {
				return invalid("%q selected twice", p)
			}
			seen[p] = true
		}
	case QuestionTypeRating:
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return invalid("expected a number")
		}
		v, err := n.Int64()
		if err != nil {
			return invalid("expected a whole number")
		}
		lo, hi := opts.RatingRange()
		if v < int64(lo) || v > int64(hi) {
			return invalid("rating must be between %d and %d", lo, hi)
		}
	case QuestionTypeYesNo:
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			return invalid("expected true or false")
		}
	default:
		return invalid("unknown question type")
	}
	return nil
}

// IsEmptyAnswer reports whether a raw answer should count as unanswered
func IsEmptyAnswer(value []byte) bool {
	v := bytes.TrimSpace(value)
	return len(v) == 0 || bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte(`""`)) || bytes.Equal(v, []byte("[]"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
