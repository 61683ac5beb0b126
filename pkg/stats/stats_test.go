package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func answer(questionID, attendeeID uint, value string, minutes int) model.Response {
	return model.Response{
		SurveyID:   1,
		QuestionID: questionID,
		AttendeeID: attendeeID,
		Value:      model.AnswerValue(value),
		CreatedAt:  t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func testSurvey() *model.Survey {
	return &model.Survey{
		ID:       1,
		Title:    "Day one",
		IsActive: true,
		Questions: []model.Question{
			{ID: 13, Position: 4, Type: model.QuestionTypeText, Text: "Comments"},
			{ID: 10, Position: 1, Type: model.QuestionTypeSingleChoice, Text: "Track", Options: datatypes.JSON(`{"choices":["Go","Rust","Zig"]}`), Required: true},
			{ID: 11, Position: 2, Type: model.QuestionTypeMultipleChoice, Text: "Topics", Options: datatypes.JSON(`{"choices":["db","web","ops"]}`)},
			{ID: 12, Position: 3, Type: model.QuestionTypeRating, Text: "Venue"},
			{ID: 14, Position: 5, Type: model.QuestionTypeYesNo, Text: "Again?"},
		},
	}
}

func TestSurvey(t *testing.T) {
	responses := []model.Response{
		answer(10, 1, `"Go"`, 0),
		answer(10, 2, `"Go"`, 1),
		answer(10, 3, `"Rust"`, 2),
		answer(11, 1, `["db","web"]`, 0),
		answer(11, 2, `["web"]`, 1),
		answer(12, 1, `4`, 0),
		answer(12, 2, `5`, 1),
		answer(12, 3, `2`, 2),
		answer(13, 1, `"great"`, 0),
		answer(13, 3, `"too cold"`, 2),
		answer(14, 1, `true`, 0),
		answer(14, 2, `false`, 1),
		answer(14, 3, `true`, 2),
	}

	s := Survey(testSurvey(), responses, 4)

	assert.Equal(t, 3, s.TotalRespondents)
	assert.Equal(t, int64(4), s.TotalAttendees)
	assert.Equal(t, 75.0, s.ResponseRate)
	require.NotNil(t, s.LastResponseAt)
	assert.Equal(t, t0.Add(2*time.Minute), *s.LastResponseAt)

	require.Len(t, s.Questions, 5)
	ids := []uint{}
	for _, q := range s.Questions {
		ids = append(ids, q.QuestionID)
	}
	assert.Equal(t, []uint{10, 11, 12, 13, 14}, ids, "questions follow position order")

	single := s.Questions[0]
	assert.Equal(t, 3, single.ResponseCount)
	assert.Equal(t, []Bucket{
		{Value: "Go", Count: 2, Percentage: 66.7},
		{Value: "Rust", Count: 1, Percentage: 33.3},
		{Value: "Zig", Count: 0, Percentage: 0},
	}, single.Distribution)

	multi := s.Questions[1]
	assert.Equal(t, 2, multi.ResponseCount)
	assert.Equal(t, []Bucket{
		{Value: "db", Count: 1, Percentage: 50},
		{Value: "web", Count: 2, Percentage: 100},
		{Value: "ops", Count: 0, Percentage: 0},
	}, multi.Distribution)

	rating := s.Questions[2]
	assert.Equal(t, 3, rating.ResponseCount)
	require.NotNil(t, rating.Average)
	assert.Equal(t, 3.67, *rating.Average)
	assert.Equal(t, 2, *rating.Min)
	assert.Equal(t, 5, *rating.Max)
	require.Len(t, rating.Distribution, 5)
	assert.Equal(t, "1", rating.Distribution[0].Value)
	assert.Equal(t, 0, rating.Distribution[0].Count)
	assert.Equal(t, 1, rating.Distribution[3].Count)

	text := s.Questions[3]
	require.Len(t, text.TextAnswers, 2)
	assert.Equal(t, "too cold", text.TextAnswers[0].Value, "latest first")
	assert.Equal(t, "great", text.TextAnswers[1].Value)

	yn := s.Questions[4]
	assert.Equal(t, []Bucket{
		{Value: "yes", Count: 2, Percentage: 66.7},
		{Value: "no", Count: 1, Percentage: 33.3},
	}, yn.Distribution)
}

func TestSurvey_NoResponses(t *testing.T) {
	s := Survey(testSurvey(), nil, 0)

	assert.Equal(t, 0, s.TotalRespondents)
	assert.Equal(t, 0.0, s.ResponseRate)
	assert.Nil(t, s.LastResponseAt)
	for _, q := range s.Questions {
		assert.Zero(t, q.ResponseCount)
		for _, b := range q.Distribution {
			assert.Zero(t, b.Count)
		}
	}
	assert.Nil(t, s.Questions[2].Average)
}

func TestQuestion_CustomRatingScale(t *testing.T) {
	q := &model.Question{ID: 1, Type: model.QuestionTypeRating, Options: datatypes.JSON(`{"min":0,"max":10}`)}
	qs := Question(q, []model.Response{answer(1, 1, `10`, 0), answer(1, 2, `0`, 0)})

	require.Len(t, qs.Distribution, 11)
	assert.Equal(t, "0", qs.Distribution[0].Value)
	assert.Equal(t, "10", qs.Distribution[10].Value)
	assert.Equal(t, 5.0, *qs.Average)
}

func TestAnswerStrings(t *testing.T) {
	s := testSurvey()
	byID := map[uint]*model.Question{}
	for i := range s.Questions {
		byID[s.Questions[i].ID] = &s.Questions[i]
	}

	assert.Equal(t, []string{"Go"}, AnswerStrings(byID[10], []byte(`"Go"`)))
	assert.Equal(t, []string{"db", "ops"}, AnswerStrings(byID[11], []byte(`["db","ops"]`)))
	assert.Equal(t, []string{"4"}, AnswerStrings(byID[12], []byte(`4`)))
	assert.Equal(t, []string{"no"}, AnswerStrings(byID[14], []byte(`false`)))
	assert.Nil(t, AnswerStrings(byID[13], []byte(`42`)))
}

func TestConference(t *testing.T) {
	surveys := []model.Survey{
		{ID: 1, Title: "Day one", IsActive: true},
		{ID: 2, Title: "Day two"},
	}
	c := Conference(3, map[string]int64{"active": 5, "locked": 1}, surveys, map[uint]int64{1: 4})

	assert.Equal(t, int64(6), c.TotalAttendees)
	assert.Equal(t, map[string]int64{"first_login": 0, "active": 5, "locked": 1}, c.AttendeesByStatus)
	assert.Equal(t, 2, c.SurveyCount)
	assert.Equal(t, int64(4), c.TotalResponses)
	assert.Equal(t, int64(0), c.Surveys[1].Respondents)
}
