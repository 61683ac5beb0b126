package endpoints

import (
	"net/http"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// The own* helpers load a resource and check that the calling admin owns
// the conference it belongs to. On failure they write the response and
// return false.

func ownConference(w http.ResponseWriter, r *http.Request, conferences store.ConferencesStore, id uint) (*model.Conference, bool) {
	conference, err := conferences.GetConference(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "conference")
		return nil, false
	}
	if c := caller(r); c == nil || !c.IsAdmin() || conference.AdminID != c.ID {
		respondWithError(w, http.StatusForbidden, "you do not have access to this conference")
		return nil, false
	}
	return conference, true
}

func ownConferenceParam(w http.ResponseWriter, r *http.Request, conferences store.ConferencesStore) (*model.Conference, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return ownConference(w, r, conferences, id)
}

func ownSurvey(w http.ResponseWriter, r *http.Request, surveys store.SurveysStore, conferences store.ConferencesStore, id uint) (*model.Survey, *model.Conference, bool) {
	survey, err := surveys.GetSurvey(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "survey")
		return nil, nil, false
	}
	conference, ok := ownConference(w, r, conferences, survey.ConferenceID)
	if !ok {
		return nil, nil, false
	}
	return survey, conference, true
}

func ownSurveyParam(w http.ResponseWriter, r *http.Request, surveys store.SurveysStore, conferences store.ConferencesStore) (*model.Survey, *model.Conference, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return ownSurvey(w, r, surveys, conferences, id)
}

func ownAttendeeParam(w http.ResponseWriter, r *http.Request, attendees store.AttendeesStore, conferences store.ConferencesStore) (*model.Attendee, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	attendee, err := attendees.GetAttendee(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "attendee")
		return nil, false
	}
	if _, ok := ownConference(w, r, conferences, attendee.ConferenceID); !ok {
		return nil, false
	}
	return attendee, true
}
