// FilePath: api/resources/api.resource.health.go
package resources

import (
	"net/http"

	"github.com/airx/beds/server/hub/internal/service"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

type HealthHandlers struct {
	service *service.Service
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "BEDS",
		Version: nuts.GetVersion(),
		Storage: h.service.Store.Kind(),
	})
}

// SwaggerDoc serves the registered OpenAPI document.
func (h *HealthHandlers) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "swagger doc not registered", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
