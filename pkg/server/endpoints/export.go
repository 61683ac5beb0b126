package endpoints

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/export"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// RegisterExportEndpoints registers CSV and PDF downloads
func RegisterExportEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/export").Subrouter()

	r.Handle("/surveys/{id:[0-9]+}/csv", adminOnly(s, handleExportSurveyCSV(s.ConferencesStore, s.SurveysStore, s.AttendeesStore, s.ResponsesStore, s.Config))).Methods("GET")
	r.Handle("/surveys/{id:[0-9]+}/pdf", adminOnly(s, handleExportSurveyPDF(s.ConferencesStore, s.SurveysStore, s.AttendeesStore, s.ResponsesStore))).Methods("GET")
	r.Handle("/conferences/{id:[0-9]+}/attendees/csv", adminOnly(s, handleExportAttendeesCSV(s.ConferencesStore, s.AttendeesStore, s.Config))).Methods("GET")
}

// sendDownload writes a rendered export as an attachment
func sendDownload(w http.ResponseWriter, contentType, filename string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

func respondWithExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrTooManyRows) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithStoreError(w, err, "export")
}

func auditExport(r *http.Request, kind string, id, conferenceID uint, filename string) {
	audit.Log(audit.ResourceEvent{
		Admin:        auditName(caller(r)),
		ClientIP:     callerIP(r),
		Kind:         "export",
		ID:           id,
		Operation:    "download",
		Detail:       kind + " " + filename,
		ConferenceID: conferenceID,
	})
}

func handleExportSurveyCSV(conferences store.ConferencesStore, surveys store.SurveysStore, attendees store.AttendeesStore, responses store.ResponsesStore, cfg *config.ConferenceConfig) http.HandlerFunc {
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

		var buf bytes.Buffer
		if err := export.SurveyCSV(&buf, survey, people, answers, cfg.ExportRowLimit); err != nil {
			respondWithExportError(w, err)
			return
		}

		filename := export.SurveyFilename(conference, survey, "responses.csv")
		auditExport(r, "survey csv", survey.ID, conference.ID, filename)
		sendDownload(w, "text/csv; charset=utf-8", filename, &buf)
	}
}

func handleExportSurveyPDF(conferences store.ConferencesStore, surveys store.SurveysStore, attendees store.AttendeesStore, responses store.ResponsesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, conference, ok := ownSurveyParam(w, r, surveys, conferences)
		if !ok {
			return
		}

		st, err := surveyStatistics(r.Context(), survey, attendees, responses)
		if err != nil {
			respondWithStoreError(w, err, "statistics")
			return
		}

		var buf bytes.Buffer
		if err := export.SurveyPDF(&buf, conference, st, time.Now()); err != nil {
			respondWithExportError(w, err)
			return
		}

		filename := export.SurveyFilename(conference, survey, "report.pdf")
		auditExport(r, "survey pdf", survey.ID, conference.ID, filename)
		sendDownload(w, "application/pdf", filename, &buf)
	}
}

func handleExportAttendeesCSV(conferences store.ConferencesStore, attendees store.AttendeesStore, cfg *config.ConferenceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}

		people, err := attendees.ListAttendees(r.Context(), conference.ID, nil)
		if err != nil {
			respondWithStoreError(w, err, "attendee")
			return
		}

		var buf bytes.Buffer
		if err := export.AttendeesCSV(&buf, people, cfg.ExportRowLimit); err != nil {
			respondWithExportError(w, err)
			return
		}

		filename := export.AttendeesFilename(conference)
		auditExport(r, "attendees csv", conference.ID, conference.ID, filename)
		sendDownload(w, "text/csv; charset=utf-8", filename, &buf)
	}
}
