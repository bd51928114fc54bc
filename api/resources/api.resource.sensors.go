// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"net/http"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	service *service.Service
}

type IngestResponse struct {
	OK          bool                `json:"ok"`
	Measurement *models.Measurement `json:"measurement"`
}

// @Summary Ingest a sensor reading
// @Description Registers unknown sensor codes on the site. Non-numeric shake or bending are stored as null
// @Tags sensors
// @Accept json
// @Produce json
// @Param X-Ingest-Key header string true "Gateway key"
// @Param reading body service.IngestRequest true "Reading"
// @Success 201 {object} IngestResponse
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /sensors/ingest [post]
func (h *SensorHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req service.IngestRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	m, err := h.service.Ingest(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, err, "failed to ingest reading", requestID)
		return
	}
	respondWithJSON(w, http.StatusCreated, IngestResponse{OK: true, Measurement: m})
}

// @Summary Sensors of a site
// @Description Each sensor carries offline and lastDiffSec
// @Tags sensors
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {array} status.SensorState
// @Failure 404 {object} errors.Response
// @Router /sites/{id}/sensors [get]
// @Security BearerAuth
func (h *SensorHandlers) ListSiteSensors(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	user, ok := viewer(w, r, requestID)
	if !ok {
		return
	}

	if _, err := h.service.GetSiteFor(r.Context(), user, id); err != nil {
		respondWithServiceError(w, err, "failed to get site", requestID)
		return
	}
	sensors, err := h.service.SensorsWithStatus(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "failed to list sensors", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, sensors)
}

// @Summary Recent measurements of a site
// @Description Oldest first
// @Tags sensors
// @Produce json
// @Param id path string true "Site ID"
// @Param limit query int false "How many readings, default 50, max 500"
// @Success 200 {array} models.Measurement
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /sites/{id}/measurements [get]
// @Security BearerAuth
func (h *SensorHandlers) ListSiteMeasurements(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	user, ok := viewer(w, r, requestID)
	if !ok {
		return
	}

	var filters models.MeasurementFilters
	if apiErr := decodeQuery(r, &filters); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	list, err := h.service.SiteMeasurements(r.Context(), user, id, filters.EffectiveLimit())
	if err != nil {
		respondWithServiceError(w, err, "failed to list measurements", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
