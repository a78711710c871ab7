// Package site administers sites and their geofences.
package site

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/geo"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/service/access"
	"geoattendance/backend/internal/service/verification"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Sites interface {
	GetByID(ctx context.Context, id string) (entity.Site, error)
	List(ctx context.Context) ([]entity.Site, error)
	Create(ctx context.Context, site *entity.Site, entry *entity.AuditLog) error
	Update(ctx context.Context, site entity.Site, entry *entity.AuditLog) error
}

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
}

type ActionGuard interface {
	RequireAction(token, actorID, action string) error
}

type Service struct {
	sites    Sites
	accounts Accounts
	guard    ActionGuard
	now      func() time.Time
}

func NewService(sites Sites, accounts Accounts, guard ActionGuard) *Service {
	return &Service{sites: sites, accounts: accounts, guard: guard, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, actorID string) ([]entity.Site, error) {
	if _, err := s.superAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.sites.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (entity.Site, error) {
	actor, err := s.superAdmin(ctx, req.ActorID)
	if err != nil {
		return entity.Site{}, err
	}

	site := entity.Site{
		BasicEntity:  entity.BasicEntity{ID: uuid.NewString(), CreatedAt: s.now().UTC()},
		Name:         strings.TrimSpace(req.Name),
		Latitude:     strings.TrimSpace(req.Latitude),
		Longitude:    strings.TrimSpace(req.Longitude),
		RadiusMeters: req.RadiusMeters,
		Address:      req.Address,
	}
	if err = validate(site); err != nil {
		return entity.Site{}, err
	}

	entry := audit.NewEntry(actor.ID, audit.EntitySite, site.ID, "CREATE", req.IP, map[string]interface{}{
		"name": site.Name,
	}, s.now())
	if err = s.sites.Create(ctx, &site, &entry); err != nil {
		return entity.Site{}, err
	}

	return site, nil
}

// Update edits any site. SUPERADMIN only.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (entity.Site, error) {
	actor, err := s.superAdmin(ctx, req.ActorID)
	if err != nil {
		return entity.Site{}, err
	}

	site, err := s.sites.GetByID(ctx, req.SiteID)
	if err != nil {
		return entity.Site{}, err
	}

	return s.apply(ctx, actor, site, req, "UPDATE")
}

// Mine returns the site of the authenticated administrator.
func (s *Service) Mine(ctx context.Context, actorID string) (entity.Site, error) {
	_, site, err := s.ownSite(ctx, actorID)
	return site, err
}

// UpdateMine changes the geofence of the administrator's own site under a
// SEDE_EDIT action token. ADMIN cannot rename the site.
func (s *Service) UpdateMine(ctx context.Context, req UpdateRequest) (entity.Site, error) {
	actor, site, err := s.ownSite(ctx, req.ActorID)
	if err != nil {
		return entity.Site{}, err
	}

	if err = s.guard.RequireAction(req.ActionToken, actor.ID, verification.ActionSiteEdit); err != nil {
		return entity.Site{}, err
	}

	action := "UPDATE"
	if actor.Role == auth.RoleAdmin {
		req.Name = nil
		action = "UPDATE_GEOFENCE"
	}

	return s.apply(ctx, actor, site, req, action)
}

func (s *Service) apply(ctx context.Context, actor entity.Account, site entity.Site, req UpdateRequest, action string) (entity.Site, error) {
	before := map[string]interface{}{
		"name":          site.Name,
		"latitude":      site.Latitude,
		"longitude":     site.Longitude,
		"radius_meters": site.RadiusMeters,
		"address":       site.Address,
	}
	after := map[string]interface{}{}

	if req.Name != nil {
		site.Name = strings.TrimSpace(*req.Name)
		after["name"] = site.Name
	}
	if req.Latitude != nil {
		site.Latitude = strings.TrimSpace(*req.Latitude)
		after["latitude"] = site.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = strings.TrimSpace(*req.Longitude)
		after["longitude"] = site.Longitude
	}
	if req.RadiusMeters != nil {
		site.RadiusMeters = *req.RadiusMeters
		after["radius_meters"] = site.RadiusMeters
	}
	if req.Address != nil {
		site.Address = req.Address
		after["address"] = *req.Address
	}

	if err := validate(site); err != nil {
		return entity.Site{}, err
	}

	now := s.now().UTC()
	site.UpdatedAt = &now

	entry := audit.NewEntry(actor.ID, audit.EntitySite, site.ID, action, req.IP, map[string]interface{}{
		"before": before,
		"after":  after,
	}, now)
	if err := s.sites.Update(ctx, site, &entry); err != nil {
		return entity.Site{}, err
	}

	return site, nil
}

func (s *Service) superAdmin(ctx context.Context, actorID string) (entity.Account, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return entity.Account{}, err
	}
	if actor.Role != auth.RoleSuperAdmin {
		return entity.Account{}, web.NewRequestError(errors.New("SUPERADMIN role required"), http.StatusForbidden)
	}
	return actor, nil
}

func (s *Service) ownSite(ctx context.Context, actorID string) (entity.Account, entity.Site, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return entity.Account{}, entity.Site{}, err
	}
	if err = access.RequireAdministrator(actor); err != nil {
		return entity.Account{}, entity.Site{}, err
	}
	if actor.SiteID == nil {
		return entity.Account{}, entity.Site{}, web.NewRequestError(access.ErrNoSite, http.StatusPreconditionFailed)
	}

	site, err := s.sites.GetByID(ctx, *actor.SiteID)
	if err != nil {
		return entity.Account{}, entity.Site{}, err
	}
	return actor, site, nil
}

// validate checks the name, both coordinates and the radius of site.
func validate(site entity.Site) error {
	var fields []web.FieldError

	if site.Name == "" {
		fields = append(fields, web.FieldError{Field: "name", Error: "required"})
	}
	if !inRange(site.Latitude, 90) {
		fields = append(fields, web.FieldError{Field: "latitude", Error: "must be a number between -90 and 90"})
	}
	if !inRange(site.Longitude, 180) {
		fields = append(fields, web.FieldError{Field: "longitude", Error: "must be a number between -180 and 180"})
	}
	if site.RadiusMeters <= 0 {
		fields = append(fields, web.FieldError{Field: "radius_meters", Error: "must be greater than 0"})
	}

	if len(fields) > 0 {
		return &web.Error{Err: errors.New("invalid site"), Status: http.StatusUnprocessableEntity, Fields: fields}
	}
	return nil
}

func inRange(raw string, bound float64) bool {
	v, err := geo.ParseCoordinate(raw)
	return err == nil && !math.IsNaN(v) && math.Abs(v) <= bound
}
