package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/datatypes"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

type questionRequest struct {
	Text     string          `json:"text" validate:"required,max=1000"`
	Type     string          `json:"type" validate:"required,oneof=text single_choice multiple_choice rating yes_no"`
	Options  json.RawMessage `json:"options"`
	Required bool            `json:"required"`
	// Position 0 appends the question
	Position int `json:"position" validate:"min=0"`
}

type questionOrderRequest struct {
	QuestionIDs []uint `json:"questionIds" validate:"required,min=1"`
}

// toModel builds the question and checks its options against its type.
// prefix qualifies the field name of a reported error.
func (req *questionRequest) toModel(prefix string) (*model.Question, *FieldError) {
	qt, err := model.QuestionTypeString(req.Type)
	if err != nil {
		return nil, &FieldError{Field: prefix + "type", Message: "must be one of " + strings.Join(model.QuestionTypeStrings(), " ")}
	}
	q := &model.Question{
		Text:     strings.TrimSpace(req.Text),
		Type:     qt,
		Options:  datatypes.JSON(req.Options),
		Required: req.Required,
		Position: req.Position,
	}
	if err := q.ValidateOptions(); err != nil {
		return nil, &FieldError{Field: prefix + "options", Message: err.Error()}
	}
	return q, nil
}

// RegisterQuestionsEndpoints registers question editing. Questions of a
// survey that already has responses cannot be changed.
func RegisterQuestionsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.Handle("/surveys/{id:[0-9]+}/questions", adminOnly(s, handleCreateQuestion(s.ConferencesStore, s.SurveysStore, s.QuestionsStore))).Methods("POST")
	r.Handle("/surveys/{id:[0-9]+}/questions/order", adminOnly(s, handleReorderQuestions(s.ConferencesStore, s.SurveysStore, s.QuestionsStore))).Methods("PUT")
	r.Handle("/questions/{id:[0-9]+}", adminOnly(s, handleUpdateQuestion(s.ConferencesStore, s.SurveysStore, s.QuestionsStore))).Methods("PUT")
	r.Handle("/questions/{id:[0-9]+}", adminOnly(s, handleDeleteQuestion(s.ConferencesStore, s.SurveysStore, s.QuestionsStore))).Methods("DELETE")
}

func handleCreateQuestion(conferences store.ConferencesStore, surveys store.SurveysStore, questions store.QuestionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		var req questionRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		q, fe := req.toModel("")
		if fe != nil {
			respondWithValidationErrors(w, []FieldError{*fe})
			return
		}

		q.SurveyID = survey.ID
		if err := questions.CreateQuestion(r.Context(), q); err != nil {
			respondWithStoreError(w, err, "question")
			return
		}
		respondWithJSON(w, http.StatusCreated, q)
	}
}

// ownQuestionParam loads the {id} question and checks ownership through
// its survey
func ownQuestionParam(w http.ResponseWriter, r *http.Request, conferences store.ConferencesStore, surveys store.SurveysStore, questions store.QuestionsStore) (*model.Question, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	q, err := questions.GetQuestion(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "question")
		return nil, false
	}
	if _, _, ok := ownSurvey(w, r, surveys, conferences, q.SurveyID); !ok {
		return nil, false
	}
	return q, true
}

func handleUpdateQuestion(conferences store.ConferencesStore, surveys store.SurveysStore, questions store.QuestionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := ownQuestionParam(w, r, conferences, surveys, questions)
		if !ok {
			return
		}
		var req questionRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		q, fe := req.toModel("")
		if fe != nil {
			respondWithValidationErrors(w, []FieldError{*fe})
			return
		}

		q.ID = existing.ID
		q.SurveyID = existing.SurveyID
		q.Position = existing.Position
		if err := questions.UpdateQuestion(r.Context(), q); err != nil {
			respondWithStoreError(w, err, "question")
			return
		}
		respondWithJSON(w, http.StatusOK, q)
	}
}

func handleDeleteQuestion(conferences store.ConferencesStore, surveys store.SurveysStore, questions store.QuestionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := ownQuestionParam(w, r, conferences, surveys, questions)
		if !ok {
			return
		}
		if err := questions.DeleteQuestion(r.Context(), q.ID); err != nil {
			respondWithStoreError(w, err, "question")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReorderQuestions(conferences store.ConferencesStore, surveys store.SurveysStore, questions store.QuestionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		var req questionOrderRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		if err := questions.ReorderQuestions(r.Context(), survey.ID, req.QuestionIDs); err != nil {
			respondWithStoreError(w, err, "question")
			return
		}

		updated, err := surveys.GetSurvey(r.Context(), survey.ID)
		if err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}
