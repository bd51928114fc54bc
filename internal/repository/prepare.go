// FilePath: internal/repository/prepare.go
package repository

import (
	"strings"
	"time"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ID prefixes for generated identifiers.
const (
	SitePrefix        = "site"
	UserPrefix        = "user"
	SensorPrefix      = "sns"
	MeasurementPrefix = "msr"
)

// NewID returns a random identifier with the given prefix.
func NewID(prefix string) string {
	return nuts.NID(prefix, 16)
}

// PrepareSite turns a registration payload into a validated site.
func PrepareSite(patch *models.SitePatch, now time.Time) (*models.Site, error) {
	site := patch.NewSite(NewID(SitePrefix))
	site.Normalize()
	if !site.Validate() {
		return nil, errors.NewValidationError("name and address are required", nil)
	}
	site.CreatedAt = now
	site.UpdatedAt = now
	return site, nil
}

// MergeSite applies patch to current and validates the result.
func MergeSite(current *models.Site, patch *models.SitePatch, now time.Time) (*models.Site, error) {
	next := patch.Apply(current)
	if !next.Validate() {
		return nil, errors.NewValidationError("name and address must not be empty", nil)
	}
	next.UpdatedAt = now
	return next, nil
}

// PrepareUser validates an account payload and hashes its password. The
// duplicate check is left to the backend.
func PrepareUser(in *models.NewUser, opts Options, now time.Time) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, errors.NewValidationError("username and password are required", nil)
	}
	hash, err := opts.Verifier.Hash(in.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}
	return &models.User{
		ID:           NewID(UserPrefix),
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		Name:         strings.TrimSpace(in.Name),
		Role:         models.NormalizeRole(in.Role),
		SiteIDs:      CleanSiteIDs(in.SiteIDs),
		PasswordHash: hash,
		CreatedAt:    now,
	}, nil
}

// CleanSiteIDs drops blanks and duplicates, keeping order. Never returns nil.
func CleanSiteIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DuplicateUsername is returned when an account name is taken.
func DuplicateUsername(username string) error {
	return errors.NewDuplicateError("username already exists: "+username, nil)
}

// ProtectedUser is returned when deleting a privileged account.
func ProtectedUser(id string) error {
	return errors.NewProtectedError("admin accounts cannot be deleted", nil).WithDetails(map[string]string{"id": id})
}
