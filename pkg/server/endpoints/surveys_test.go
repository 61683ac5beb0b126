package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

func TestCreateSurvey(t *testing.T) {
	t.Run("with questions", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectConference(ownedConference())
		env.surveys.On("CreateSurvey", mock.Anything, mock.MatchedBy(func(s *model.Survey) bool {
			return s.ConferenceID == 10 && !s.IsActive && len(s.Questions) == 2 &&
				s.Questions[0].Type == model.QuestionTypeRating &&
				s.Questions[1].Type == model.QuestionTypeMultipleChoice
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Survey).ID = 30
		}).Return(nil)

		rec := env.do(t, "POST", "/api/conferences/10/surveys", map[string]interface{}{
			"title": "Day 1 feedback",
			"questions": []map[string]interface{}{
				{"text": "Rate the keynote", "type": "rating", "options": map[string]int{"min": 1, "max": 5}, "required": true},
				{"text": "Which talks did you attend?", "type": "multiple_choice", "options": map[string][]string{"choices": {"Intro", "Generics", "Tracing"}}},
			},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusCreated, rec)
		assert.Equal(t, float64(30), decode(t, rec)["id"])
	})

	t.Run("question options must fit the type", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectConference(ownedConference())

		rec := env.do(t, "POST", "/api/conferences/10/surveys", map[string]interface{}{
			"title": "Broken",
			"questions": []map[string]interface{}{
				{"text": "Ok", "type": "yes_no"},
				{"text": "Pick one", "type": "single_choice", "options": map[string][]string{"choices": {"only"}}},
			},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
		assert.Contains(t, rec.Body.String(), `"field":"questions[1].options"`)
		env.surveys.AssertNotCalled(t, "CreateSurvey", mock.Anything, mock.Anything)
	})

	t.Run("unknown question type", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectConference(ownedConference())

		rec := env.do(t, "POST", "/api/conferences/10/surveys", map[string]interface{}{
			"title":     "Broken",
			"questions": []map[string]interface{}{{"text": "Draw it", "type": "drawing"}},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
		assert.Contains(t, rec.Body.String(), `"field":"questions[0].type"`)
	})

	t.Run("title is required", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectConference(ownedConference())

		rec := env.do(t, "POST", "/api/conferences/10/surveys", map[string]interface{}{}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
		assert.Contains(t, rec.Body.String(), `"field":"title"`)
	})
}

func TestSurveyCRUD(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectConference(ownedConference())
		env.surveys.On("ListSurveys", mock.Anything, uint(10)).Return([]model.Survey{*sampleSurvey(false)}, nil)

		rec := env.do(t, "GET", "/api/conferences/10/surveys", nil, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
		assert.Contains(t, rec.Body.String(), "Day 1 feedback")
	})

	t.Run("get checks ownership through the conference", func(t *testing.T) {
		env := newTestEnv(t)
		foreign := sampleSurvey(false)
		foreign.ConferenceID = 20
		env.expectSurvey(foreign)
		env.expectConference(foreignConference())

		rec := env.do(t, "GET", "/api/surveys/30", nil, env.ownerToken(t))
		assertStatus(t, http.StatusForbidden, rec)
	})

	t.Run("get missing", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("GetSurvey", mock.Anything, uint(31)).Return(nil, store.ErrNotFound)

		rec := env.do(t, "GET", "/api/surveys/31", nil, env.ownerToken(t))
		assertStatus(t, http.StatusNotFound, rec)
		assert.Equal(t, "survey not found", decode(t, rec)["error"])
	})

	t.Run("update", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("UpdateSurvey", mock.Anything, mock.MatchedBy(func(s *model.Survey) bool {
			return s.Title == "Day 1 (morning)" && s.Description == "Short one"
		})).Return(nil)

		rec := env.do(t, "PUT", "/api/surveys/30", map[string]string{
			"title": "Day 1 (morning)", "description": "Short one",
		}, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("DeleteSurvey", mock.Anything, uint(30)).Return(nil)

		rec := env.do(t, "DELETE", "/api/surveys/30", nil, env.ownerToken(t))
		assertStatus(t, http.StatusNoContent, rec)
	})
}

func TestSurveyActivation(t *testing.T) {
	t.Run("activate reports the new state", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("ActivateSurvey", mock.Anything, uint(30)).Return([]uint{29}, nil)

		rec := env.do(t, "POST", "/api/surveys/30/activate", nil, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
		assert.Equal(t, true, decode(t, rec)["isActive"])
		env.surveys.AssertExpectations(t)
	})

	t.Run("deactivate", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(true))
		env.expectConference(ownedConference())
		env.surveys.On("DeactivateSurvey", mock.Anything, uint(30)).Return(nil)

		rec := env.do(t, "POST", "/api/surveys/30/deactivate", nil, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
		assert.Equal(t, false, decode(t, rec)["isActive"])
	})

	t.Run("only the owner can activate", func(t *testing.T) {
		env := newTestEnv(t)
		foreign := sampleSurvey(false)
		foreign.ConferenceID = 20
		env.expectSurvey(foreign)
		env.expectConference(foreignConference())

		rec := env.do(t, "POST", "/api/surveys/30/activate", nil, env.ownerToken(t))
		assertStatus(t, http.StatusForbidden, rec)
		env.surveys.AssertNotCalled(t, "ActivateSurvey", mock.Anything, mock.Anything)
	})
}

func TestAttendeeSurvey(t *testing.T) {
	t.Run("active survey with submission flag", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("ActiveSurvey", mock.Anything, uint(10)).Return(sampleSurvey(true), nil)
		env.responses.On("HasSubmitted", mock.Anything, uint(30), uint(50)).Return(true, nil)

		rec := env.do(t, "GET", "/api/attendee/survey", nil, env.attendeeToken(t, 50, 10))
		assertStatus(t, http.StatusOK, rec)
		body := decode(t, rec)
		assert.Equal(t, float64(30), body["id"])
		assert.Equal(t, true, body["submitted"])
		assert.Len(t, body["questions"], 3)
	})

	t.Run("no active survey", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("ActiveSurvey", mock.Anything, uint(10)).Return(nil, store.ErrNotFound)

		rec := env.do(t, "GET", "/api/attendee/survey", nil, env.attendeeToken(t, 50, 10))
		assertStatus(t, http.StatusNotFound, rec)
		assert.Equal(t, "no active survey", decode(t, rec)["error"])
	})

	t.Run("admins use the management endpoints", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "GET", "/api/attendee/survey", nil, env.ownerToken(t))
		assertStatus(t, http.StatusForbidden, rec)
	})
}
