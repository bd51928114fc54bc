// FilePath: internal/models/models.user.go
package models

import (
	"slices"
	"time"
)

// User is an account. PasswordHash never leaves the storage layer in JSON.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	Name         string    `json:"name,omitempty" db:"name"`
	Role         Role      `json:"role" db:"role"`
	SiteIDs      []string  `json:"siteIds" db:"-"`
	PasswordHash string    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// NewUser is the payload for account creation.
type NewUser struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	SiteIDs  []string `json:"siteIds"`
}

// CanAccessSite applies the site-scoping rule: an admin with no site list sees
// every site, anyone else only sees listed sites.
func (u *User) CanAccessSite(siteID string) bool {
	if u.Role.IsPrivileged() && len(u.SiteIDs) == 0 {
		return true
	}
	return slices.Contains(u.SiteIDs, siteID)
}

// Sanitized returns a copy without credential material and with a non-nil site list.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	c.SiteIDs = append([]string{}, u.SiteIDs...)
	return &c
}

// RemoveSite drops siteID from the user's list, reporting whether it was present.
func (u *User) RemoveSite(siteID string) bool {
	before := len(u.SiteIDs)
	u.SiteIDs = slices.DeleteFunc(u.SiteIDs, func(id string) bool { return id == siteID })
	return len(u.SiteIDs) != before
}
