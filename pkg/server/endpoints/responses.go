package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/realtime"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

type answerRequest struct {
	QuestionID uint            `json:"questionId" validate:"required"`
	Value      json.RawMessage `json:"value"`
}

type submitResponsesRequest struct {
	SurveyID uint            `json:"surveyId" validate:"required"`
	Answers  []answerRequest `json:"answers" validate:"required,min=1,dive"`
}

// Answer is one stored answer in a grouped response listing
type Answer struct {
	QuestionID uint            `json:"questionId"`
	Value      json.RawMessage `json:"value"`
}

// AttendeeResponses groups the answers one attendee gave to a survey
type AttendeeResponses struct {
	AttendeeID  uint      `json:"attendeeId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submittedAt"`
	Answers     []Answer  `json:"answers"`
}

// NewResponseEvent is broadcast after an attendee submits a survey
type NewResponseEvent struct {
	SurveyID     uint      `json:"surveyId"`
	ConferenceID uint      `json:"conferenceId"`
	AttendeeID   uint      `json:"attendeeId"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// RegisterResponsesEndpoints registers survey submission and the
// organizer's response listing
func RegisterResponsesEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.Handle("/responses", attendeeOnly(s, handleSubmitResponses(s))).Methods("POST")
	r.Handle("/surveys/{id:[0-9]+}/responses", adminOnly(s, handleListResponses(s.ConferencesStore, s.SurveysStore, s.AttendeesStore, s.ResponsesStore))).Methods("GET")
}

// handleSubmitResponses stores all answers of one attendee in a single
// transaction, then pushes the new response and fresh statistics to the
// conference room.
func handleSubmitResponses(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitResponsesRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		id := caller(r)

		survey, err := s.SurveysStore.GetSurvey(r.Context(), req.SurveyID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && survey.ConferenceID != id.ConferenceID) {
			respondWithError(w, http.StatusBadRequest, "survey is not available")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		if !survey.IsActive {
			respondWithError(w, http.StatusBadRequest, "survey is not active")
			return
		}

		responses, details := collectAnswers(survey, req.Answers)
		if len(details) > 0 {
			respondWithValidationErrors(w, details)
			return
		}
		if len(responses) == 0 {
			respondWithError(w, http.StatusBadRequest, "at least one question must be answered")
			return
		}

		if err := s.ResponsesStore.SubmitResponses(r.Context(), survey.ID, id.ID, responses); err != nil {
			if errors.Is(err, store.ErrAlreadySubmitted) {
				respondWithError(w, http.StatusConflict, "you have already submitted this survey")
				return
			}
			respondWithStoreError(w, err, "response")
			return
		}

		s.Hub.BroadcastAdmins(survey.ConferenceID, realtime.EventNewResponse, NewResponseEvent{
			SurveyID:     survey.ID,
			ConferenceID: survey.ConferenceID,
			AttendeeID:   id.ID,
			SubmittedAt:  time.Now().UTC(),
		})
		if st, err := surveyStatistics(r.Context(), survey, s.AttendeesStore, s.ResponsesStore); err != nil {
			log.Error().Err(err).Uint("survey_id", survey.ID).Msg("failed to recompute statistics")
		} else {
			s.Hub.BroadcastAdmins(survey.ConferenceID, realtime.EventStatsUpdate, st)
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":  "Thank you for your responses.",
			"surveyId": survey.ID,
			"count":    len(responses),
		})
	}
}

// collectAnswers validates answers against the survey's questions. Empty
// answers count as unanswered; every required question needs an answer.
func collectAnswers(survey *model.Survey, answers []answerRequest) ([]model.Response, []FieldError) {
	questions := make(map[uint]*model.Question, len(survey.Questions))
	for i := range survey.Questions {
		questions[survey.Questions[i].ID] = &survey.Questions[i]
	}

	var (
		details   []FieldError
		responses []model.Response
	)
	answered := make(map[uint]bool, len(answers))
	invalid := make(map[uint]bool)
	seen := make(map[uint]bool, len(answers))
	for i, a := range answers {
		field := "answers[" + strconv.Itoa(i) + "]"
		q, ok := questions[a.QuestionID]
		if !ok {
			details = append(details, FieldError{Field: field + ".questionId", Message: "question does not belong to this survey"})
			continue
		}
		if seen[a.QuestionID] {
			details = append(details, FieldError{Field: field + ".questionId", Message: "question answered twice"})
			continue
		}
		seen[a.QuestionID] = true

		if model.IsEmptyAnswer(a.Value) {
			continue
		}
		if err := q.ValidateAnswer(a.Value); err != nil {
			details = append(details, FieldError{Field: field + ".value", Message: err.Error()})
			invalid[q.ID] = true
			continue
		}
		answered[q.ID] = true
		responses = append(responses, model.Response{
			QuestionID: q.ID,
			Value:      model.AnswerValue(a.Value),
		})
	}

	for _, q := range survey.Questions {
		if q.Required && !answered[q.ID] && !invalid[q.ID] {
			details = append(details, FieldError{
				Field:   "answers",
				Message: "question " + strconv.FormatUint(uint64(q.ID), 10) + " is required",
			})
		}
	}
	return responses, details
}

func handleListResponses(conferences store.ConferencesStore, surveys store.SurveysStore, attendees store.AttendeesStore, responses store.ResponsesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, conference, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}

		answers, err := responses.ListSurveyResponses(r.Context(), survey.ID)
		if err != nil {
			respondWithStoreError(w, err, "response")
			return
		}
		people, err := attendees.ListAttendees(r.Context(), conference.ID, nil)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		respondWithJSON(w, http.StatusOK, groupResponses(answers, people))
	}
}

// groupResponses keeps the order of answers, which the store returns
// newest first
func groupResponses(answers []model.Response, people []model.Attendee) []AttendeeResponses {
	byID := make(map[uint]*model.Attendee, len(people))
	for i := range people {
		byID[people[i].ID] = &people[i]
	}

	out := []AttendeeResponses{}
	index := map[uint]int{}
	for _, a := range answers {
		i, ok := index[a.AttendeeID]
		if !ok {
			group := AttendeeResponses{AttendeeID: a.AttendeeID, SubmittedAt: a.CreatedAt}
			if p := byID[a.AttendeeID]; p != nil {
				group.Name = p.Name
				group.Email = p.Email
			}
			out = append(out, group)
			i = len(out) - 1
			index[a.AttendeeID] = i
		}
		out[i].Answers = append(out[i].Answers, Answer{QuestionID: a.QuestionID, Value: json.RawMessage(a.Value)})
	}
	return out
}
