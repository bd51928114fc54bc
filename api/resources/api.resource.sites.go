// FilePath: api/resources/api.resource.sites.go
package resources

import (
	"net/http"

	"github.com/airx/beds/server/hub/api/middleware"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// SiteHandlers encapsulates the site-related HTTP handlers
type SiteHandlers struct {
	service *service.Service
}

type SiteResponse struct {
	OK   bool         `json:"ok"`
	Site *models.Site `json:"site"`
}

type StatusRequest struct {
	Status *string `json:"status"`
}

func viewer(w http.ResponseWriter, r *http.Request, requestID string) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("authentication required", nil).WithRequestID(requestID))
	}
	return user, ok
}

// @Summary List sites
// @Description Sites visible to the caller. Admins without assignments see every site
// @Tags sites
// @Produce json
// @Success 200 {array} models.Site
// @Failure 401 {object} errors.Response
// @Router /sites [get]
// @Security BearerAuth
func (h *SiteHandlers) ListSites(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	user, ok := viewer(w, r, requestID)
	if !ok {
		return
	}

	sites, err := h.service.ListSitesFor(r.Context(), user)
	if err != nil {
		respondWithServiceError(w, err, "failed to list sites", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, sites)
}

// @Summary List sites for the public map
// @Tags sites
// @Produce json
// @Success 200 {array} models.PublicSite
// @Router /public/sites [get]
func (h *SiteHandlers) PublicSites(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sites, err := h.service.PublicSites(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to list sites", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, sites)
}

// @Summary Register a site
// @Description Name and address are required. Unknown status values become SAFE
// @Tags sites
// @Accept json
// @Produce json
// @Param site body models.Site true "Site details"
// @Success 201 {object} SiteResponse
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /sites [post]
// @Security BearerAuth
func (h *SiteHandlers) CreateSite(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var patch models.SitePatch
	if apiErr := decodeBody(r, &patch); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	site, err := h.service.AddSite(r.Context(), &patch)
	if err != nil {
		respondWithServiceError(w, err, "failed to create site", requestID)
		return
	}
	respondWithJSON(w, http.StatusCreated, SiteResponse{OK: true, Site: site})
}

// @Summary Update a site
// @Description Only the fields present in the body change
// @Tags sites
// @Accept json
// @Produce json
// @Param id path string true "Site ID"
// @Param site body models.Site true "Fields to change"
// @Success 200 {object} SiteResponse
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /sites/{id} [put]
// @Security BearerAuth
func (h *SiteHandlers) UpdateSite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	var patch models.SitePatch
	if apiErr := decodeBody(r, &patch); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	site, err := h.service.UpdateSite(r.Context(), id, &patch)
	if err != nil {
		respondWithServiceError(w, err, "failed to update site", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, SiteResponse{OK: true, Site: site})
}

// @Summary Override the status of a site
// @Tags sites
// @Accept json
// @Produce json
// @Param id path string true "Site ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} SiteResponse
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /sites/{id}/status [patch]
// @Security BearerAuth
func (h *SiteHandlers) PatchSiteStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	var req StatusRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	if req.Status == nil {
		respondWithError(w, errors.NewValidationError("status is required", nil).WithRequestID(requestID))
		return
	}

	site, err := h.service.SetSiteStatus(r.Context(), id, *req.Status)
	if err != nil {
		respondWithServiceError(w, err, "failed to update site status", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, SiteResponse{OK: true, Site: site})
}

// @Summary Delete a site
// @Description Removes the site from every user and drops its sensors and measurements
// @Tags sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} OKResponse
// @Failure 404 {object} errors.Response
// @Router /sites/{id} [delete]
// @Security BearerAuth
func (h *SiteHandlers) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	if err := h.service.DeleteSite(r.Context(), id); err != nil {
		respondWithServiceError(w, err, "failed to delete site", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, OKResponse{OK: true})
}

// @Summary Site status report
// @Description Derived level, sensors with recency and recent measurements
// @Tags sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} service.SiteStatusReport
// @Failure 404 {object} errors.Response
// @Router /sites/{id}/status [get]
// @Security BearerAuth
func (h *SiteHandlers) GetSiteStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)
	user, ok := viewer(w, r, requestID)
	if !ok {
		return
	}

	report, err := h.service.SiteStatus(r.Context(), user, id)
	if err != nil {
		respondWithServiceError(w, err, "failed to build site status", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
