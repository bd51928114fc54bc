// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Resources holds all HTTP resource handlers
type Resources struct {
	Auth    *AuthHandlers
	Sites   *SiteHandlers
	Users   *UserHandlers
	Sensors *SensorHandlers
	Health  *HealthHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *service.Service) *Resources {
	return &Resources{
		Auth:    &AuthHandlers{service: svc},
		Sites:   &SiteHandlers{service: svc},
		Users:   &UserHandlers{service: svc},
		Sensors: &SensorHandlers{service: svc},
		Health:  &HealthHandlers{service: svc},
	}
}

// OKResponse is the envelope of mutation replies.
type OKResponse struct {
	OK bool `json:"ok"`
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// Helper functions

func decodeBody(r *http.Request, v any) *errors.APIError {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil {
		return errors.NewValidationError("invalid request body", err)
	}
	return nil
}

func decodeQuery(r *http.Request, v any) *errors.APIError {
	if err := queryDecoder.Decode(v, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err)
	}
	return nil
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err.Response())
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
	} else {
		nuts.L.Debugf("[API] %s", err.Error())
	}
}

// respondWithServiceError maps a service error onto its status code.
func respondWithServiceError(w http.ResponseWriter, err error, fallback, requestID string) {
	respondWithError(w, errors.ToAPIError(err, fallback).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
