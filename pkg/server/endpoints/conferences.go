package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/export"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

type conferenceRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=5000"`
	Location    string     `json:"location" validate:"max=255"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	URLCode     string     `json:"urlCode" validate:"omitempty,alphanum,min=4,max=16"`
	IsActive    *bool      `json:"isActive"`
}

func (req *conferenceRequest) validDates(w http.ResponseWriter) bool {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		respondWithValidationErrors(w, []FieldError{{Field: "endDate", Message: "must not be before startDate"}})
		return false
	}
	return true
}

func (req *conferenceRequest) apply(c *model.Conference) {
	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	c.Location = req.Location
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate
	if req.URLCode != "" {
		c.URLCode = model.NormalizeURLCode(req.URLCode)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

// PublicConference is what unauthenticated visitors of a registration
// link can see
type PublicConference struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	URLCode         string     `json:"urlCode"`
	HasActiveSurvey bool       `json:"hasActiveSurvey"`
}

// RegisterConferencesEndpoints registers conference management and the
// public conference lookup
func RegisterConferencesEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api").Subrouter()

	r.Handle("/conferences", adminOnly(s, handleListConferences(s.ConferencesStore))).Methods("GET")
	r.Handle("/conferences", adminOnly(s, handleCreateConference(s.ConferencesStore))).Methods("POST")
	r.Handle("/conferences/{id:[0-9]+}", adminOnly(s, handleGetConference(s.ConferencesStore, s.SurveysStore))).Methods("GET")
	r.Handle("/conferences/{id:[0-9]+}", adminOnly(s, handleUpdateConference(s.ConferencesStore))).Methods("PUT")
	r.Handle("/conferences/{id:[0-9]+}", adminOnly(s, handleDeleteConference(s.ConferencesStore))).Methods("DELETE")
	r.Handle("/conferences/{id:[0-9]+}/qrcode", adminOnly(s, handleConferenceQRCode(s.ConferencesStore, s.Config))).Methods("GET")

	r.HandleFunc("/public/conferences/{urlCode}", handlePublicConference(s.ConferencesStore, s.SurveysStore)).Methods("GET")
}

func handleListConferences(conferences store.ConferencesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := conferences.ListConferences(r.Context(), caller(r).ID)
		if err != nil {
			respondWithStoreError(w, err, "conference")
			return
		}
		if list == nil {
			list = []model.Conference{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateConference(conferences store.ConferencesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conferenceRequest
		if !decodeRequest(w, r, &req) || !req.validDates(w) {
			return
		}

		conference := &model.Conference{AdminID: caller(r).ID, IsActive: true}
		req.apply(conference)
		if err := conferences.CreateConference(r.Context(), conference); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "url code is already in use")
				return
			}
			respondWithStoreError(w, err, "conference")
			return
		}

		audit.Log(audit.ResourceEvent{
			Admin:     auditName(caller(r)),
			ClientIP:  callerIP(r),
			Kind:      "conference",
			ID:        conference.ID,
			Operation: "create",
			Detail:    conference.URLCode,
		})
		respondWithJSON(w, http.StatusCreated, conference)
	}
}

func handleGetConference(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
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
		conference.Surveys = list
		respondWithJSON(w, http.StatusOK, conference)
	}
}

func handleUpdateConference(conferences store.ConferencesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}
		var req conferenceRequest
		if !decodeRequest(w, r, &req) || !req.validDates(w) {
			return
		}

		req.apply(conference)
		if err := conferences.UpdateConference(r.Context(), conference); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respondWithError(w, http.StatusConflict, "url code is already in use")
				return
			}
			respondWithStoreError(w, err, "conference")
			return
		}
		respondWithJSON(w, http.StatusOK, conference)
	}
}

func handleDeleteConference(conferences store.ConferencesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}
		if err := conferences.DeleteConference(r.Context(), conference.ID); err != nil {
			respondWithStoreError(w, err, "conference")
			return
		}

		audit.Log(audit.ResourceEvent{
			Admin:     auditName(caller(r)),
			ClientIP:  callerIP(r),
			Kind:      "conference",
			ID:        conference.ID,
			Operation: "delete",
			Detail:    conference.Name,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleConferenceQRCode(conferences store.ConferencesStore, cfg *config.ConferenceConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference, ok := ownConferenceParam(w, r, conferences)
		if !ok {
			return
		}

		size := export.DefaultQRSize
		if v := r.URL.Query().Get("size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < export.MinQRSize || n > export.MaxQRSize {
				respondWithValidationErrors(w, []FieldError{{
					Field:   "size",
					Message: "must be a number between " + strconv.Itoa(export.MinQRSize) + " and " + strconv.Itoa(export.MaxQRSize),
				}})
				return
			}
			size = n
		}

		png, err := export.QRCodePNG(export.RegistrationURL(cfg.FrontendURL, conference.URLCode), size)
		if err != nil {
			respondWithStoreError(w, err, "qr code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `inline; filename="`+conference.URLCode+`.png"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		_, _ = w.Write(png)
	}
}

func handlePublicConference(conferences store.ConferencesStore, surveys store.SurveysStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := model.NormalizeURLCode(mux.Vars(r)["urlCode"])

		conference, err := conferences.FindConferenceByURLCode(r.Context(), code)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !conference.IsActive) {
			respondWithError(w, http.StatusNotFound, "conference not found")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "conference")
			return
		}

		_, err = surveys.ActiveSurvey(r.Context(), conference.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithStoreError(w, err, "survey")
			return
		}

		respondWithJSON(w, http.StatusOK, PublicConference{
			ID:              conference.ID,
			Name:            conference.Name,
			Description:     conference.Description,
			Location:        conference.Location,
			StartDate:       conference.StartDate,
			EndDate:         conference.EndDate,
			URLCode:         conference.URLCode,
			HasActiveSurvey: err == nil,
		})
	}
}
