package site_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/service/site"
	"geoattendance/backend/internal/service/verification"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func intp(n int) *int { return &n }

type fakeSites struct {
	byID  map[string]entity.Site
	audit []entity.AuditLog
}

func (f *fakeSites) GetByID(_ context.Context, id string) (entity.Site, error) {
	s, ok := f.byID[id]
	if !ok {
		return entity.Site{}, web.NewRequestError(errors.New("site not found"), http.StatusNotFound)
	}
	return s, nil
}

func (f *fakeSites) List(_ context.Context) ([]entity.Site, error) {
	out := make([]entity.Site, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSites) Create(_ context.Context, s *entity.Site, e *entity.AuditLog) error {
	f.byID[s.ID] = *s
	f.audit = append(f.audit, *e)
	return nil
}

func (f *fakeSites) Update(_ context.Context, s entity.Site, e *entity.AuditLog) error {
	f.byID[s.ID] = s
	f.audit = append(f.audit, *e)
	return nil
}

type fakeAccounts map[string]entity.Account

func (f fakeAccounts) GetByID(_ context.Context, id string) (entity.Account, error) {
	a, ok := f[id]
	if !ok {
		return entity.Account{}, web.NewRequestError(errors.New("account not found"), http.StatusNotFound)
	}
	return a, nil
}

type fakeGuard struct{}

func (fakeGuard) RequireAction(token, actorID, action string) error {
	if token != action+":"+actorID {
		return web.NewRequestError(errors.New("action verification required"), http.StatusUnauthorized)
	}
	return nil
}

func editToken(actor string) string { return verification.ActionSiteEdit + ":" + actor }

func newService() (*site.Service, *fakeSites) {
	sites := &fakeSites{byID: map[string]entity.Site{
		"site-a": {BasicEntity: entity.BasicEntity{ID: "site-a"}, Name: "Matriz", Latitude: "-2.170998", Longitude: "-79.922359", RadiusMeters: 100},
	}}
	accounts := fakeAccounts{
		"admin-a":  {BasicEntity: entity.BasicEntity{ID: "admin-a"}, Role: auth.RoleAdmin, SiteID: str("site-a")},
		"admin-x":  {BasicEntity: entity.BasicEntity{ID: "admin-x"}, Role: auth.RoleAdmin},
		"super":    {BasicEntity: entity.BasicEntity{ID: "super"}, Role: auth.RoleSuperAdmin, SiteID: str("site-a")},
		"employee": {BasicEntity: entity.BasicEntity{ID: "employee"}, Role: auth.RoleEmployee, SiteID: str("site-a")},
	}
	svc := site.NewService(sites, accounts, fakeGuard{}).
		WithClock(func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) })
	return svc, sites
}

func TestCreate(t *testing.T) {
	svc, sites := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, site.CreateRequest{ActorID: "super", Name: " Norte ", Latitude: "-2.1", Longitude: "-79.9", RadiusMeters: 50})
	require.NoError(t, err)
	assert.Equal(t, "Norte", created.Name)
	assert.Contains(t, sites.byID, created.ID)
	assert.Equal(t, "CREATE", sites.audit[0].Action)

	_, err = svc.Create(ctx, site.CreateRequest{ActorID: "admin-a", Name: "Sur", Latitude: "0", Longitude: "0", RadiusMeters: 10})
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))

	_, err = svc.Create(ctx, site.CreateRequest{ActorID: "super", Name: "Sur", Latitude: "95", Longitude: "abc", RadiusMeters: 0})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, web.StatusOf(err))

	var webErr *web.Error
	require.True(t, errors.As(err, &webErr))
	assert.Len(t, webErr.Fields, 3)
}

func TestListSuperAdminOnly(t *testing.T) {
	svc, _ := newService()

	list, err := svc.List(context.Background(), "super")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(context.Background(), "admin-a")
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))
}

func TestUpdateMine(t *testing.T) {
	svc, sites := newService()
	ctx := context.Background()

	_, err := svc.UpdateMine(ctx, site.UpdateRequest{ActorID: "admin-a", RadiusMeters: intp(150)})
	assert.Equal(t, http.StatusUnauthorized, web.StatusOf(err))

	_, err = svc.UpdateMine(ctx, site.UpdateRequest{ActorID: "admin-x", ActionToken: editToken("admin-x")})
	assert.Equal(t, http.StatusPreconditionFailed, web.StatusOf(err))

	_, err = svc.UpdateMine(ctx, site.UpdateRequest{ActorID: "employee", ActionToken: editToken("employee")})
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))

	_, err = svc.UpdateMine(ctx, site.UpdateRequest{ActorID: "admin-a", ActionToken: editToken("admin-a"), RadiusMeters: intp(0)})
	assert.Equal(t, http.StatusUnprocessableEntity, web.StatusOf(err))

	updated, err := svc.UpdateMine(ctx, site.UpdateRequest{
		ActorID:      "admin-a",
		ActionToken:  editToken("admin-a"),
		Name:         str("Renamed"),
		Latitude:     str("-2.171000"),
		RadiusMeters: intp(150),
	})
	require.NoError(t, err)
	assert.Equal(t, "Matriz", updated.Name)
	assert.Equal(t, 150, sites.byID["site-a"].RadiusMeters)
	assert.Equal(t, "-2.171000", sites.byID["site-a"].Latitude)

	require.Len(t, sites.audit, 1)
	assert.Equal(t, "UPDATE_GEOFENCE", sites.audit[0].Action)
	before := sites.audit[0].Detail["before"].(map[string]interface{})
	assert.Equal(t, 100, before["radius_meters"])

	updated, err = svc.UpdateMine(ctx, site.UpdateRequest{ActorID: "super", ActionToken: editToken("super"), Name: str("Matriz Central")})
	require.NoError(t, err)
	assert.Equal(t, "Matriz Central", updated.Name)
	assert.Equal(t, "UPDATE", sites.audit[1].Action)

	mine, err := svc.Mine(ctx, "admin-a")
	require.NoError(t, err)
	assert.Equal(t, "Matriz Central", mine.Name)
}

func TestUpdate(t *testing.T) {
	svc, sites := newService()
	ctx := context.Background()

	_, err := svc.Update(ctx, site.UpdateRequest{ActorID: "super", SiteID: "nope", Name: str("x")})
	assert.Equal(t, http.StatusNotFound, web.StatusOf(err))

	_, err = svc.Update(ctx, site.UpdateRequest{ActorID: "admin-a", SiteID: "site-a", Name: str("x")})
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))

	_, err = svc.Update(ctx, site.UpdateRequest{ActorID: "super", SiteID: "site-a", Address: str("Av. 9 de Octubre")})
	require.NoError(t, err)
	require.NotNil(t, sites.byID["site-a"].Address)
	assert.Equal(t, "Av. 9 de Octubre", *sites.byID["site-a"].Address)
	assert.Equal(t, "UPDATE", sites.audit[0].Action)
}
