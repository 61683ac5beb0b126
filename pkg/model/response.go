package model

import (
	"database/sql/driver"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Response struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	SurveyID   uint        `gorm:"not null;index" json:"surveyId"`
	QuestionID uint        `gorm:"not null;uniqueIndex:idx_responses_question_attendee" json:"questionId"`
	AttendeeID uint        `gorm:"not null;uniqueIndex:idx_responses_question_attendee" json:"attendeeId"`
	Value      AnswerValue `gorm:"not null" json:"value"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (Response) TableName() string {
	return "responses"
}

// AnswerValue is the JSON encoding of a single answer.
//
// SQLite gives a JSON column numeric affinity and hands a bare number such
// as a rating back as an integer, so the column is TEXT there and JSONB on
// postgres.
type AnswerValue []byte

func (v AnswerValue) Value() (driver.Value, error) {
	return datatypes.JSON(v).Value()
}

func (v *AnswerValue) Scan(value interface{}) error {
	switch n := value.(type) {
	case int64:
		*v = AnswerValue(strconv.FormatInt(n, 10))
		return nil
	case float64:
		*v = AnswerValue(strconv.FormatFloat(n, 'g', -1, 64))
		return nil
	}
	return (*datatypes.JSON)(v).Scan(value)
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	return datatypes.JSON(v).MarshalJSON()
}

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	return (*datatypes.JSON)(v).UnmarshalJSON(b)
}

func (AnswerValue) GormDataType() string {
	return "json"
}

func (AnswerValue) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "TEXT"
	case "postgres":
		return "JSONB"
	}
	return ""
}
