// FilePath: internal/repository/seed.go
package repository

import (
	"time"

	"github.com/airx/beds/server/hub/internal/models"
)

// Fixed ids for seeded records, so re-seeding a wiped backend yields the same references.
const (
	SampleSiteID     = "site-sample"
	AdminUserID      = "admin-operator"
	DemoCustomerID   = "user-demo-customer"
	DemoSensorCode   = "DEMO-SENSOR-001"
	defaultAdminName = "operator"
	defaultAdminPass = "beds2025!"
)

// SeedConfig controls first-boot fixtures.
type SeedConfig struct {
	AdminUsername    string
	AdminPassword    string
	AdminEmail       string
	DemoCustomer     bool
	CustomerUsername string
	CustomerPassword string
	DemoSensor       bool
}

func (c SeedConfig) withDefaults() SeedConfig {
	if c.AdminUsername == "" {
		c.AdminUsername = defaultAdminName
	}
	if c.AdminPassword == "" {
		c.AdminPassword = defaultAdminPass
	}
	if c.CustomerUsername == "" {
		c.CustomerUsername = "customer"
	}
	if c.CustomerPassword == "" {
		c.CustomerPassword = "customer123"
	}
	return c
}

// SampleSite is the demo site seeded into an empty store.
func SampleSite(now time.Time) *models.Site {
	lat, lng := 37.5665, 126.978
	return &models.Site{
		ID:                SampleSiteID,
		Name:              "샘플 현장",
		Address:           "서울특별시 중구 세종대로 110",
		Latitude:          &lat,
		Longitude:         &lng,
		SensorCount:       3,
		BuildingSize:      "지상 20F, 연면적 12,000㎡",
		BuildingYear:      "2010",
		Notes:             "데모용 샘플 현장",
		Status:            models.SiteStatusSafe,
		ConstructionState: models.ConstructionInProgress,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// SeedUsers returns the accounts seeded into an empty user store, passwords
// already hashed by opts.Verifier.
func SeedUsers(opts Options, now time.Time) ([]*models.User, error) {
	adminHash, err := opts.Verifier.Hash(opts.Seed.AdminPassword)
	if err != nil {
		return nil, err
	}
	users := []*models.User{{
		ID:           AdminUserID,
		Username:     opts.Seed.AdminUsername,
		Email:        opts.Seed.AdminEmail,
		Name:         "Operator",
		Role:         models.RoleAdmin,
		SiteIDs:      []string{},
		PasswordHash: adminHash,
		CreatedAt:    now,
	}}

	if opts.Seed.DemoCustomer {
		hash, err := opts.Verifier.Hash(opts.Seed.CustomerPassword)
		if err != nil {
			return nil, err
		}
		users = append(users, &models.User{
			ID:           DemoCustomerID,
			Username:     opts.Seed.CustomerUsername,
			Name:         "Demo Customer",
			Role:         models.RoleCustomer,
			SiteIDs:      []string{SampleSiteID},
			PasswordHash: hash,
			CreatedAt:    now,
		})
	}
	return users, nil
}
