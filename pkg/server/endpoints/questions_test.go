package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

func TestCreateQuestion(t *testing.T) {
	t.Run("appends a question", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(q *model.Question) bool {
			return q.SurveyID == 30 && q.Type == model.QuestionTypeYesNo && q.Position == 0
		})).Run(func(args mock.Arguments) {
			q := args.Get(1).(*model.Question)
			q.ID = 104
			q.Position = 4
		}).Return(nil)

		rec := env.do(t, "POST", "/api/surveys/30/questions", map[string]interface{}{
			"text": "Would you come back?", "type": "yes_no", "required": true,
		}, env.ownerToken(t))
		assertStatus(t, http.StatusCreated, rec)
		body := decode(t, rec)
		assert.Equal(t, float64(104), body["id"])
		assert.Equal(t, "yes_no", body["type"])
		assert.Equal(t, float64(4), body["position"])
	})

	t.Run("answered survey is frozen", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(true))
		env.expectConference(ownedConference())
		env.surveys.On("CreateQuestion", mock.Anything, mock.Anything).Return(store.ErrHasResponses)

		rec := env.do(t, "POST", "/api/surveys/30/questions", map[string]interface{}{
			"text": "Late addition", "type": "text",
		}, env.ownerToken(t))
		assertStatus(t, http.StatusConflict, rec)
		assert.Equal(t, store.ErrHasResponses.Error(), decode(t, rec)["error"])
	})

	t.Run("rating scale too wide", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())

		rec := env.do(t, "POST", "/api/surveys/30/questions", map[string]interface{}{
			"text": "Rate", "type": "rating", "options": map[string]int{"min": 0, "max": 100},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
		assert.Contains(t, rec.Body.String(), `"field":"options"`)
	})
}

func TestUpdateAndDeleteQuestion(t *testing.T) {
	question := func() *model.Question {
		q := sampleSurvey(false).Questions[1]
		return &q
	}

	t.Run("update keeps id, survey and position", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("GetQuestion", mock.Anything, uint(102)).Return(question(), nil)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("UpdateQuestion", mock.Anything, mock.MatchedBy(func(q *model.Question) bool {
			return q.ID == 102 && q.SurveyID == 30 && q.Position == 2 && q.Text == "Favourite language?"
		})).Return(nil)

		rec := env.do(t, "PUT", "/api/questions/102", map[string]interface{}{
			"text":     "Favourite language?",
			"type":     "single_choice",
			"options":  map[string][]string{"choices": {"Go", "Rust"}},
			"position": 9,
		}, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
		env.surveys.AssertExpectations(t)
	})

	t.Run("update on an answered survey", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("GetQuestion", mock.Anything, uint(102)).Return(question(), nil)
		env.expectSurvey(sampleSurvey(true))
		env.expectConference(ownedConference())
		env.surveys.On("UpdateQuestion", mock.Anything, mock.Anything).Return(store.ErrHasResponses)

		rec := env.do(t, "PUT", "/api/questions/102", map[string]interface{}{
			"text": "Changed", "type": "text",
		}, env.ownerToken(t))
		assertStatus(t, http.StatusConflict, rec)
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)
		env.surveys.On("GetQuestion", mock.Anything, uint(102)).Return(question(), nil)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("DeleteQuestion", mock.Anything, uint(102)).Return(nil)

		rec := env.do(t, "DELETE", "/api/questions/102", nil, env.ownerToken(t))
		assertStatus(t, http.StatusNoContent, rec)
	})

	t.Run("question of another admin", func(t *testing.T) {
		env := newTestEnv(t)
		foreign := sampleSurvey(false)
		foreign.ConferenceID = 20
		env.surveys.On("GetQuestion", mock.Anything, uint(102)).Return(question(), nil)
		env.expectSurvey(foreign)
		env.expectConference(foreignConference())

		rec := env.do(t, "DELETE", "/api/questions/102", nil, env.ownerToken(t))
		assertStatus(t, http.StatusForbidden, rec)
		env.surveys.AssertNotCalled(t, "DeleteQuestion", mock.Anything, mock.Anything)
	})
}

func TestReorderQuestions(t *testing.T) {
	t.Run("returns the reordered survey", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("ReorderQuestions", mock.Anything, uint(30), []uint{103, 101, 102}).Return(nil)

		rec := env.do(t, "PUT", "/api/surveys/30/questions/order", map[string]interface{}{
			"questionIds": []uint{103, 101, 102},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusOK, rec)
		assert.Equal(t, float64(30), decode(t, rec)["id"])
		env.surveys.AssertNumberOfCalls(t, "GetSurvey", 2)
	})

	t.Run("must be a permutation", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())
		env.surveys.On("ReorderQuestions", mock.Anything, uint(30), []uint{101, 101}).Return(store.ErrInvalidOrder)

		rec := env.do(t, "PUT", "/api/surveys/30/questions/order", map[string]interface{}{
			"questionIds": []uint{101, 101},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
	})

	t.Run("empty list", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectSurvey(sampleSurvey(false))
		env.expectConference(ownedConference())

		rec := env.do(t, "PUT", "/api/surveys/30/questions/order", map[string]interface{}{
			"questionIds": []uint{},
		}, env.ownerToken(t))
		assertStatus(t, http.StatusBadRequest, rec)
		env.surveys.AssertNotCalled(t, "ReorderQuestions", mock.Anything, mock.Anything, mock.Anything)
	})
}
