package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

const definition = `
owner: Org@Example.com
conference:
  name: GopherCon EU
  location: Berlin
  url_code: gopher26
  start_date: 2026-06-01
  end_date: 2026-06-03
surveys:
  - title: Day one
    active: true
    questions:
      - text: Which track did you follow?
        type: single_choice
        required: true
        choices: [Go, Rust]
      - text: Rate the venue
        type: rating
      - text: Anything else?
        type: text
        max_length: 500
  - title: Day two
    questions:
      - text: Would you come again?
        type: yes_no
`

func newDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	require.NoError(t, db.Create(&model.Admin{Email: "org@example.com", Name: "Org", PasswordHash: "x"}).Error)
	return db
}

func TestParse(t *testing.T) {
	def, err := Parse(strings.NewReader(definition))
	require.NoError(t, err)

	assert.Equal(t, "GopherCon EU", def.Conference.Name)
	require.NotNil(t, def.Conference.StartDate)
	assert.Equal(t, 2026, def.Conference.StartDate.Year())
	require.Len(t, def.Surveys, 2)
	assert.Equal(t, model.QuestionTypeSingleChoice, def.Surveys[0].Questions[0].Type)
	assert.Equal(t, model.QuestionTypeYesNo, def.Surveys[1].Questions[0].Type)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "empty"},
		{"unknown key", "owner: a@b.c\nconference: {name: X}\ncolour: red\n", "colour"},
		{"no owner", "conference: {name: X}\n", "owner is required"},
		{"short code", "owner: a@b.c\nconference: {name: X, url_code: ABC}\n", "url_code"},
		{"two active", "owner: a@b.c\nconference: {name: X}\nsurveys:\n  - {title: A, active: true}\n  - {title: B, active: true}\n", "at most one survey"},
		{"duplicate title", "owner: a@b.c\nconference: {name: X}\nsurveys:\n  - {title: A}\n  - {title: A}\n", "duplicate title"},
		{"one choice", "owner: a@b.c\nconference: {name: X}\nsurveys:\n  - title: A\n    questions:\n      - {text: Q, type: single_choice, choices: [only]}\n", "two choices"},
		{"bad type", "owner: a@b.c\nconference: {name: X}\nsurveys:\n  - title: A\n    questions:\n      - {text: Q, type: essay}\n", "essay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_CreateThenUpdate(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	result, err := NewLoader(db).LoadFromReader(ctx, strings.NewReader(definition))
	require.NoError(t, err)
	assert.True(t, result.ConferenceCreated)
	assert.Equal(t, "GOPHER26", result.URLCode)
	assert.Equal(t, 2, result.SurveysCreated)
	assert.Equal(t, 4, result.QuestionsWritten)
	assert.NotZero(t, result.ActiveSurveyID)

	var conference model.Conference
	require.NoError(t, db.Where("url_code = ?", "GOPHER26").First(&conference).Error)
	assert.True(t, conference.IsActive)
	assert.Equal(t, "Berlin", conference.Location)

	var questions []model.Question
	require.NoError(t, db.Joins("JOIN surveys ON surveys.id = questions.survey_id").
		Where("surveys.title = ?", "Day one").Order("position").Find(&questions).Error)
	require.Len(t, questions, 3)
	assert.Equal(t, 1, questions[0].Position)
	assert.Equal(t, model.QuestionTypeRating, questions[1].Type)

	// An attendee answers day one; reloading must keep those questions
	attendee := &model.Attendee{ConferenceID: conference.ID, Email: "guest@example.com", Name: "G", PasswordHash: "x"}
	require.NoError(t, db.Create(attendee).Error)
	require.NoError(t, db.Create(&model.Response{
		SurveyID: result.ActiveSurveyID, QuestionID: questions[0].ID, AttendeeID: attendee.ID, Value: model.AnswerValue(`"Go"`),
	}).Error)

	updated := strings.Replace(definition, "location: Berlin", "location: Amsterdam", 1)
	updated = strings.Replace(updated, "  - title: Day two\n", "  - title: Day two\n    active: true\n", 1)
	updated = strings.Replace(updated, "    active: true\n    questions:\n      - text: Which", "    questions:\n      - text: Which", 1)

	result, err = NewLoader(db).LoadFromReader(ctx, strings.NewReader(updated))
	require.NoError(t, err)
	assert.False(t, result.ConferenceCreated)
	assert.Equal(t, 0, result.SurveysCreated)
	assert.Equal(t, 2, result.SurveysUpdated)
	assert.Equal(t, []string{"Day one"}, result.SurveysLocked)

	require.NoError(t, db.First(&conference, conference.ID).Error)
	assert.Equal(t, "Amsterdam", conference.Location)

	var surveys []model.Survey
	require.NoError(t, db.Where("conference_id = ?", conference.ID).Order("id").Find(&surveys).Error)
	require.Len(t, surveys, 2)
	assert.False(t, surveys[0].IsActive)
	assert.True(t, surveys[1].IsActive)

	var kept int64
	require.NoError(t, db.Model(&model.Question{}).Where("id = ?", questions[0].ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}

func TestLoader_DryRun(t *testing.T) {
	db := newDB(t)

	result, err := NewLoader(db).WithDryRun(true).LoadFromReader(context.Background(), strings.NewReader(definition))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.True(t, result.ConferenceCreated)

	var n int64
	require.NoError(t, db.Model(&model.Conference{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLoader_UnknownOwner(t *testing.T) {
	db := newDB(t)
	def := strings.Replace(definition, "Org@Example.com", "stranger@example.com", 1)

	_, err := NewLoader(db).LoadFromReader(context.Background(), strings.NewReader(def))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an admin")
}

func TestLoader_ForeignConference(t *testing.T) {
	db := newDB(t)
	other := &model.Admin{Email: "other@example.com", Name: "Other", PasswordHash: "x"}
	require.NoError(t, db.Create(other).Error)
	require.NoError(t, db.Create(&model.Conference{AdminID: other.ID, Name: "Taken", URLCode: "GOPHER26"}).Error)

	_, err := NewLoader(db).LoadFromReader(context.Background(), strings.NewReader(definition))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another admin")
}

func TestLoader_LoadFile(t *testing.T) {
	db := newDB(t)
	path := filepath.Join(t.TempDir(), "conference.yml")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o600))

	result, err := NewLoader(db).LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "GOPHER26", result.URLCode)

	_, err = NewLoader(db).LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
