package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/realtime"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

type surveyRequest struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description string            `json:"description" validate:"max=5000"`
	Questions   []questionRequest `json:"questions" validate:"omitempty,dive"`
}

type surveyUpdateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// SurveyEvent is broadcast when a survey is switched on or off
type SurveyEvent struct {
	SurveyID     uint   `json:"surveyId"`
	ConferenceID uint   `json:"conferenceId"`
	Title        string `json:"title,omitempty"`
}

// AttendeeSurvey is the active survey as an attendee sees it
type AttendeeSurvey struct {
	*model.Survey
	Submitted bool `json:"submitted"`
}

// RegisterSurveysEndpoints registers survey authoring, activation and the
// attendee's view of the active survey
func RegisterSurveysEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.Handle("/conferences/{id:[0-9]+}/surveys", adminOnly(s, handleListSurveys(s.ConferencesStore, s.SurveysStore))).Methods("GET")
	r.Handle("/conferences/{id:[0-9]+}/surveys", adminOnly(s, handleCreateSurvey(s.ConferencesStore, s.SurveysStore))).Methods("POST")
	r.Handle("/surveys/{id:[0-9]+}", adminOnly(s, handleGetSurvey(s.ConferencesStore, s.SurveysStore))).Methods("GET")
	r.Handle("/surveys/{id:[0-9]+}", adminOnly(s, handleUpdateSurvey(s.ConferencesStore, s.SurveysStore))).Methods("PUT")
	r.Handle("/surveys/{id:[0-9]+}", adminOnly(s, handleDeleteSurvey(s.ConferencesStore, s.SurveysStore))).Methods("DELETE")
	r.Handle("/surveys/{id:[0-9]+}/activate", adminOnly(s, handleActivateSurvey(s.ConferencesStore, s.SurveysStore, s.Hub))).Methods("POST")
	r.Handle("/surveys/{id:[0-9]+}/deactivate", adminOnly(s, handleDeactivateSurvey(s.ConferencesStore, s.SurveysStore, s.Hub))).Methods("POST")

	r.Handle("/attendee/survey", attendeeOnly(s, handleAttendeeSurvey(s.SurveysStore, s.ResponsesStore))).Methods("GET")
}

func handleListSurveys(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}
		list, err := surveys.ListSurveys(r.Context(), conference.ID)
		if err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		if list == nil {
			list = []model.Survey{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateSurvey(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}
		var req surveyRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		survey := &model.Survey{
			ConferenceID: conference.ID,
			Title:        strings.TrimSpace(req.Title),
			Description:  req.Description,
		}
		var details []FieldError
		for i := range req.Questions {
			q, fe := req.Questions[i].toModel("questions[" + strconv.Itoa(i) + "].")
			if fe != nil {
				details = append(details, *fe)
				continue
			}
			survey.Questions = append(survey.Questions, *q)
		}
		if len(details) > 0 {
			respondWithValidationErrors(w, details)
			return
		}

		if err := surveys.CreateSurvey(r.Context(), survey); err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}

		audit.Log(audit.ResourceEvent{
			Admin:        auditName(caller(r)),
			ClientIP:     callerIP(r),
			Kind:         "survey",
			ID:           survey.ID,
			ConferenceID: survey.ConferenceID,
			Operation:    "create",
			Detail:       survey.Title,
		})
		respondWithJSON(w, http.StatusCreated, survey)
	}
}

func handleGetSurvey(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, survey)
	}
}

func handleUpdateSurvey(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		var req surveyUpdateRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		survey.Title = strings.TrimSpace(req.Title)
		survey.Description = req.Description
		if err := surveys.UpdateSurvey(r.Context(), survey); err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		respondWithJSON(w, http.StatusOK, survey)
	}
}

func handleDeleteSurvey(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		if err := surveys.DeleteSurvey(r.Context(), survey.ID); err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}

		audit.Log(audit.ResourceEvent{
			Admin:        auditName(caller(r)),
			ClientIP:     callerIP(r),
			Kind:         "survey",
			ID:           survey.ID,
			ConferenceID: survey.ConferenceID,
			Operation:    "delete",
			Detail:       survey.Title,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleActivateSurvey switches the conference's active survey. The store
// deactivates the previous one in the same transaction.
func handleActivateSurvey(conferences store.ConferencesStore, surveys store.SurveysStore, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, conference, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}

		deactivated, err := surveys.ActivateSurvey(r.Context(), survey.ID)
		if err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		survey.IsActive = true

		for _, id := range deactivated {
			hub.Broadcast(conference.ID, realtime.EventSurveyDeactivated, SurveyEvent{SurveyID: id, ConferenceID: conference.ID})
		}
		hub.Broadcast(conference.ID, realtime.EventSurveyActivated, SurveyEvent{
			SurveyID:     survey.ID,
			ConferenceID: conference.ID,
			Title:        survey.Title,
		})

		audit.Log(audit.ResourceEvent{
			Admin:        auditName(caller(r)),
			ClientIP:     callerIP(r),
			Kind:         "survey",
			ID:           survey.ID,
			ConferenceID: survey.ConferenceID,
			Operation:    "activate",
		})
		respondWithJSON(w, http.StatusOK, survey)
	}
}

func handleDeactivateSurvey(conferences store.ConferencesStore, surveys store.SurveysStore, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, conference, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}

		if err := surveys.DeactivateSurvey(r.Context(), survey.ID); err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}
		survey.IsActive = false

		hub.Broadcast(conference.ID, realtime.EventSurveyDeactivated, SurveyEvent{
			SurveyID:     survey.ID,
			ConferenceID: conference.ID,
			Title:        survey.Title,
		})

		audit.Log(audit.ResourceEvent{
			Admin:        auditName(caller(r)),
			ClientIP:     callerIP(r),
			Kind:         "survey",
			ID:           survey.ID,
			ConferenceID: survey.ConferenceID,
			Operation:    "deactivate",
		})
		respondWithJSON(w, http.StatusOK, survey)
	}
}

func handleAttendeeSurvey(surveys store.SurveysStore, responses store.ResponsesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)

		survey, err := surveys.ActiveSurvey(r.Context(), id.ConferenceID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "no active survey")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "survey")
			return
		}

		submitted, err := responses.HasSubmitted(r.Context(), survey.ID, id.ID)
		if err != nil {
			respondWithStoreError(w, err, "response")
			return
		}
		respondWithJSON(w, http.StatusOK, AttendeeSurvey{Survey: survey, Submitted: submitted})
	}
}
