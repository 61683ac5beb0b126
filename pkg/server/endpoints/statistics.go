package endpoints

import (
	"context"
	"net/http"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
	"github.com/pmcoe-ai1/conference-app/pkg/stats"
)

// RegisterStatisticsEndpoints registers survey and conference statistics
func RegisterStatisticsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.Handle("/surveys/{id:[0-9]+}/statistics", adminOnly(s, handleSurveyStatistics(s.ConferencesStore, s.SurveysStore, s.AttendeesStore, s.ResponsesStore))).Methods("GET")
	r.Handle("/conferences/{id:[0-9]+}/statistics", adminOnly(s, handleConferenceStatistics(s.ConferencesStore, s.SurveysStore, s.AttendeesStore, s.ResponsesStore))).Methods("GET")
}

// surveyStatistics recomputes a survey's statistics from its stored answers
func surveyStatistics(ctx context.Context, survey *model.Survey, attendees store.AttendeesStore, responses store.ResponsesStore) (*stats.SurveyStats, error) {
	answers, err := responses.ListSurveyResponses(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	byStatus, err := attendees.CountAttendeesByStatus(ctx, survey.ConferenceID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	return stats.Survey(survey, answers, total), nil
}

func handleSurveyStatistics(conferences store.ConferencesStore, surveys store.SurveysStore, attendees store.AttendeesStore, responses store.ResponsesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, _, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}
		out, err := surveyStatistics(r.Context(), survey, attendees, responses)
		if err != nil {
			respondWithStoreError(w, err, "statistics")
			return
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleConferenceStatistics(conferences store.ConferencesStore, surveys store.SurveysStore, attendees store.AttendeesStore, responses store.ResponsesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}

		byStatus, err := attendees.CountAttendeesByStatus(r.Context(), conference.ID)
		if err != nil {
			respondWithStoreError(w, err, "statistics")
			return
		}
		list, err := surveys.ListSurveys(r.Context(), conference.ID)
		if err != nil {
			respondWithStoreError(w, err, "statistics")
			return
		}
		respondents := make(map[uint]int64, len(list))
		for _, sv := range list {
			n, err := responses.CountRespondents(r.Context(), sv.ID)
			if err != nil {
				respondWithStoreError(w, err, "statistics")
				return
			}
			respondents[sv.ID] = n
		}

		respondWithJSON(w, http.StatusOK, stats.Conference(conference.ID, byStatus, list, respondents))
	}
}
