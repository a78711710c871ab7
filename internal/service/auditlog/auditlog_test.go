package auditlog_test

import (
	"context"
	"net/http"
	"testing"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/service/auditlog"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

type fakeAccounts map[string]entity.Account

func (f fakeAccounts) GetByID(_ context.Context, id string) (entity.Account, error) {
	a, ok := f[id]
	if !ok {
		return entity.Account{}, web.NewRequestError(errors.New("account not found"), http.StatusNotFound)
	}
	return a, nil
}

type fakeEntries struct {
	last audit.Filter
}

func (f *fakeEntries) List(_ context.Context, filter audit.Filter) ([]entity.AuditLog, error) {
	f.last = filter
	return []entity.AuditLog{{ID: "1", Action: "CREATE"}}, nil
}

func TestList(t *testing.T) {
	accounts := fakeAccounts{
		"super":   {BasicEntity: entity.BasicEntity{ID: "super"}, Role: auth.RoleSuperAdmin, SiteID: str("site-a")},
		"admin-a": {BasicEntity: entity.BasicEntity{ID: "admin-a"}, Role: auth.RoleAdmin, SiteID: str("site-a")},
		"admin-x": {BasicEntity: entity.BasicEntity{ID: "admin-x"}, Role: auth.RoleAdmin},
		"emp":     {BasicEntity: entity.BasicEntity{ID: "emp"}, Role: auth.RoleEmployee, SiteID: str("site-a")},
	}
	entries := &fakeEntries{}
	svc := auditlog.NewService(accounts, entries)
	ctx := context.Background()

	list, err := svc.List(ctx, "super", auditlog.Query{Action: str(" view_detail ")})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Nil(t, entries.last.SiteID)
	require.NotNil(t, entries.last.Action)
	assert.Equal(t, "VIEW_DETAIL", *entries.last.Action)

	_, err = svc.List(ctx, "admin-a", auditlog.Query{Action: str("  ")})
	require.NoError(t, err)
	require.NotNil(t, entries.last.SiteID)
	assert.Equal(t, "site-a", *entries.last.SiteID)
	assert.Nil(t, entries.last.Action)

	_, err = svc.List(ctx, "admin-x", auditlog.Query{})
	assert.Equal(t, http.StatusPreconditionFailed, web.StatusOf(err))

	_, err = svc.List(ctx, "emp", auditlog.Query{})
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))
}
