// Package access holds the role predicates shared by the services.
package access

import (
	"net/http"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"

	"github.com/pkg/errors"
)

var ErrNoSite = errors.New("account has no assigned site")

// RequireAdministrator fails with 403 unless actor is ADMIN or SUPERADMIN.
func RequireAdministrator(actor entity.Account) error {
	if !auth.IsAdministrative(actor.Role) {
		return web.NewRequestError(errors.New("administrator role required"), http.StatusForbidden)
	}
	return nil
}

// SiteScope resolves the site filter for a read. ADMIN is pinned to its own
// site, SUPERADMIN may narrow to requested or see every site (nil).
func SiteScope(actor entity.Account, requested *string) (*string, error) {
	switch actor.Role {
	case auth.RoleSuperAdmin:
		if requested != nil && *requested == "" {
			return nil, nil
		}
		return requested, nil
	case auth.RoleAdmin:
		if actor.SiteID == nil {
			return nil, web.NewRequestError(ErrNoSite, http.StatusPreconditionFailed)
		}
		site := *actor.SiteID
		return &site, nil
	default:
		return nil, web.NewRequestError(errors.New("administrator role required"), http.StatusForbidden)
	}
}

// CanManage reports whether actor may act on a resource tied to siteID.
func CanManage(actor entity.Account, siteID string) bool {
	switch actor.Role {
	case auth.RoleSuperAdmin:
		return true
	case auth.RoleAdmin:
		return actor.SiteID != nil && *actor.SiteID == siteID
	default:
		return false
	}
}
