// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"net/http"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// AuthHandlers encapsulates the login handler
type AuthHandlers struct {
	service *service.Service
}

// LoginRequest accepts either a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool         `json:"ok"`
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// @Summary Log in
// @Description Exchange a username or email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req LoginRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	res, err := h.service.Login(r.Context(), identifier, req.Password)
	if err != nil {
		respondWithServiceError(w, err, "failed to log in", requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{OK: true, Token: res.Token, User: res.User})
}
