package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithValidationErrors(w http.ResponseWriter, details []FieldError) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "validation failed",
		"details": details,
	})
}

// decodeRequest reads a JSON body into dst and runs struct validation. It
// writes the 400 response itself and returns false when the body is rejected.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	err := validate.Struct(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fieldName(fe), Message: fieldMessage(fe)})
	}
	respondWithValidationErrors(w, details)
	return false
}

// fieldName drops the top-level struct name from the namespace, keeping
// nested paths such as questions[0].text
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " items"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return "is invalid"
	}
}

// pathID parses a numeric route variable
func pathID(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}

// respondWithStoreError maps store and validation sentinels to status codes.
// Anything unexpected is logged and reported as a generic 500.
func respondWithStoreError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, store.ErrAlreadySubmitted),
		errors.Is(err, store.ErrHasResponses):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidOrder),
		errors.Is(err, model.ErrInvalidOptions),
		errors.Is(err, model.ErrInvalidAnswer):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("resource", what).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func caller(r *http.Request) *identity.Identity {
	id, _ := identity.Get(r.Context())
	return id
}

func callerIP(r *http.Request) string {
	if id := caller(r); id != nil && id.RemoteIP != nil {
		return id.RemoteIP.String()
	}
	return ""
}

func auditName(id *identity.Identity) string {
	if id == nil {
		return "anonymous"
	}
	if id.Email != "" {
		return id.Email
	}
	return id.Subject()
}
