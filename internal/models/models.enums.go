// FilePath: internal/models/models.enums.go
package models

import "github.com/airx/beds/server/hub/internal/normalize"

// SiteStatus is the admin-settable condition of a site.
type SiteStatus string

const (
	SiteStatusSafe    SiteStatus = "SAFE"
	SiteStatusCaution SiteStatus = "CAUTION"
	SiteStatusAlert   SiteStatus = "ALERT"
)

// ConstructionState describes physical construction progress, independent of risk.
type ConstructionState string

const (
	ConstructionInProgress ConstructionState = "IN_PROGRESS"
	ConstructionDone       ConstructionState = "DONE"
)

// ConstructionStateKeys are the serialized names construction state has had,
// in read priority order.
var ConstructionStateKeys = []string{"constructionState", "constructionStatus", "construction_state"}

// Role is a user's privilege level.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleCustomer   Role = "CUSTOMER"
	RoleClient     Role = "CLIENT"
)

// NormalizeStatus maps v case-insensitively onto a SiteStatus; anything else is SAFE.
func NormalizeStatus(v any) SiteStatus {
	switch normalize.Upper(v) {
	case string(SiteStatusAlert):
		return SiteStatusAlert
	case string(SiteStatusCaution):
		return SiteStatusCaution
	default:
		return SiteStatusSafe
	}
}

// NormalizeConstructionState maps v case-insensitively; anything else is IN_PROGRESS.
func NormalizeConstructionState(v any) ConstructionState {
	if normalize.Upper(v) == string(ConstructionDone) {
		return ConstructionDone
	}
	return ConstructionInProgress
}

// ConstructionStateFrom reads the first legacy construction key present in m.
func ConstructionStateFrom(m map[string]any) (ConstructionState, bool) {
	v, ok := normalize.FirstPresent(m, ConstructionStateKeys...)
	if !ok {
		return ConstructionInProgress, false
	}
	return NormalizeConstructionState(v), true
}

// NormalizeRole maps v case-insensitively onto a Role; unknown values become CLIENT.
func NormalizeRole(v any) Role {
	switch normalize.Upper(v) {
	case string(RoleSuperAdmin):
		return RoleSuperAdmin
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleCustomer):
		return RoleCustomer
	default:
		return RoleClient
	}
}

// IsPrivileged reports whether the role administers sites and accounts.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
