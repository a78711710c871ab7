// Package account implements sign-in and the administration of accounts.
package account

import (
	"context"
	"net/http"
	"strings"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	repo "geoattendance/backend/internal/repository/postgres/account"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/service/access"
	"geoattendance/backend/internal/service/verification"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
	GetByEmail(ctx context.Context, email string) (entity.Account, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter repo.Filter) ([]entity.Account, error)
	Create(ctx context.Context, account *entity.Account, entry *entity.AuditLog) error
	Update(ctx context.Context, account entity.Account, entry *entity.AuditLog) error
}

type Sites interface {
	GetByID(ctx context.Context, id string) (entity.Site, error)
}

type ActionGuard interface {
	RequireAction(token, actorID, action string) error
}

type Service struct {
	accounts   Accounts
	sites      Sites
	guard      ActionGuard
	auth       *auth.Auth
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(accounts Accounts, sites Sites, guard ActionGuard, a *auth.Auth, sessionTTL time.Duration) *Service {
	return &Service{
		accounts:   accounts,
		sites:      sites,
		guard:      guard,
		auth:       a,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

var errBadCredentials = errors.New("invalid credentials")

// Login checks email and password and issues a session token. Employees
// must have an assigned site.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if web.StatusOf(err) == http.StatusNotFound {
			return Session{}, web.NewRequestError(errBadCredentials, http.StatusUnauthorized)
		}
		return Session{}, err
	}
	if !auth.VerifyPassword(password, account.PasswordHash) {
		return Session{}, web.NewRequestError(errBadCredentials, http.StatusUnauthorized)
	}

	var site *SiteInfo
	if account.SiteID != nil {
		st, err := s.sites.GetByID(ctx, *account.SiteID)
		if err != nil && web.StatusOf(err) != http.StatusNotFound {
			return Session{}, err
		}
		if err == nil {
			site = &SiteInfo{ID: st.ID, Name: st.Name, Latitude: st.Latitude, Longitude: st.Longitude, RadiusMeters: st.RadiusMeters}
		}
	}
	if site == nil && account.Role == auth.RoleEmployee {
		return Session{}, web.NewRequestError(access.ErrNoSite, http.StatusPreconditionFailed)
	}

	token, err := s.auth.IssueSession(account.ID, account.Role, s.sessionTTL)
	if err != nil {
		return Session{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	return Session{
		Token:     token,
		ExpiresIn: int(s.sessionTTL / time.Second),
		AccountID: account.ID,
		Role:      account.Role,
		SiteID:    account.SiteID,
		Site:      site,
	}, nil
}

// Me returns the non sensitive profile of the authenticated account.
func (s *Service) Me(ctx context.Context, actorID string) (Profile, error) {
	account, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{AccountID: account.ID, Code: account.Code, Role: account.Role, SiteID: account.SiteID}, nil
}

// List returns the accounts visible to actor with emails masked. ADMIN sees
// only the employees of its own site.
func (s *Service) List(ctx context.Context, actorID string) ([]Listed, error) {
	actor, err := s.administrator(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var filter repo.Filter
	if actor.Role == auth.RoleAdmin {
		if actor.SiteID == nil {
			return nil, web.NewRequestError(access.ErrNoSite, http.StatusPreconditionFailed)
		}
		filter = repo.Filter{SiteID: actor.SiteID, EmployeesOnly: true}
	}

	list, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]Listed, 0, len(list))
	for _, a := range list {
		out = append(out, Listed{AccountID: a.ID, Code: a.Code, Role: a.Role, SiteID: a.SiteID, EmailMask: MaskEmail(a.Email)})
	}
	return out, nil
}

// Create adds an account. ADMIN may only create employees of its own site.
// Employee codes are always generated.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Created, error) {
	actor, err := s.administrator(ctx, req.ActorID)
	if err != nil {
		return Created{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = auth.RoleEmployee
	}
	if !validRole(role) {
		return Created{}, web.NewRequestError(errors.Errorf("unknown role %q", req.Role), http.StatusBadRequest)
	}

	var siteID string
	if actor.Role == auth.RoleAdmin {
		if role != auth.RoleEmployee {
			return Created{}, web.NewRequestError(errors.New("an ADMIN can only create employees"), http.StatusForbidden)
		}
		if actor.SiteID == nil {
			return Created{}, web.NewRequestError(access.ErrNoSite, http.StatusPreconditionFailed)
		}
		siteID = *actor.SiteID
	} else {
		if req.SiteID == nil || strings.TrimSpace(*req.SiteID) == "" {
			return Created{}, web.NewRequestError(errors.New("site_id is required"), http.StatusBadRequest)
		}
		siteID = strings.TrimSpace(*req.SiteID)
	}

	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return Created{}, err
	}

	email := normalizeEmail(req.Email)
	exists, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return Created{}, err
	}
	if exists {
		return Created{}, web.NewRequestError(errors.New("email already exists"), http.StatusConflict)
	}

	code, err := s.code(ctx, role, site, req.Code)
	if err != nil {
		return Created{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Created{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	now := s.now().UTC()
	account := entity.Account{
		BasicEntity:  entity.BasicEntity{ID: uuid.NewString(), CreatedAt: now},
		Code:         code,
		RealName:     normalizeName(req.RealName),
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
		SiteID:       &site.ID,
		Role:         role,
		GeoConsent:   true,
	}
	entry := audit.NewEntry(actor.ID, audit.EntityAccount, account.ID, "CREATE", req.IP, map[string]interface{}{
		"code":    account.Code,
		"role":    account.Role,
		"site_id": site.ID,
	}, now)

	if err = s.accounts.Create(ctx, &account, &entry); err != nil {
		return Created{}, err
	}

	return Created{AccountID: account.ID, Code: account.Code}, nil
}

// Update edits an account under a USER_EDIT action token. ADMIN is limited
// to employees of its own site and cannot change role or site. The code is
// never editable.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	actor, err := s.administrator(ctx, req.ActorID)
	if err != nil {
		return err
	}

	target, err := s.accounts.GetByID(ctx, req.TargetID)
	if err != nil {
		return err
	}

	if actor.Role == auth.RoleAdmin {
		if !access.CanManage(actor, deref(target.SiteID)) {
			return web.NewRequestError(errors.New("account belongs to another site"), http.StatusForbidden)
		}
		if auth.IsAdministrative(target.Role) {
			return web.NewRequestError(errors.New("administrative accounts cannot be edited"), http.StatusForbidden)
		}
	}

	if err = s.guard.RequireAction(req.ActionToken, actor.ID, verification.ActionUserEdit); err != nil {
		return err
	}

	if actor.Role == auth.RoleAdmin {
		req.Role, req.SiteID = nil, nil
	}

	// PII changes are recorded as flags only.
	before := map[string]interface{}{"code": target.Code, "role": target.Role, "site_id": target.SiteID}
	after := map[string]interface{}{}

	if req.RealName != nil {
		target.RealName = normalizeName(*req.RealName)
		after["real_name_changed"] = true
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != target.Email {
			exists, err := s.accounts.EmailExists(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return web.NewRequestError(errors.New("email already exists"), http.StatusConflict)
			}
		}
		target.Email = email
		after["email_changed"] = true
		after["email_mask"] = MaskEmail(email)
	}
	if req.Phone != nil {
		target.Phone = req.Phone
		after["phone_changed"] = true
	}
	if req.GeoConsent != nil {
		target.GeoConsent = *req.GeoConsent
		after["geo_consent"] = *req.GeoConsent
	}
	if req.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*req.Role))
		if !validRole(role) {
			return web.NewRequestError(errors.Errorf("unknown role %q", *req.Role), http.StatusBadRequest)
		}
		target.Role = role
		after["role"] = role
	}
	if req.SiteID != nil && strings.TrimSpace(*req.SiteID) != "" {
		site, err := s.sites.GetByID(ctx, strings.TrimSpace(*req.SiteID))
		if err != nil {
			return err
		}
		target.SiteID = &site.ID
		after["site_id"] = site.ID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return web.NewRequestError(err, http.StatusInternalServerError)
		}
		target.PasswordHash = hash
		after["password_changed"] = true
	}

	now := s.now().UTC()
	target.UpdatedAt = &now

	entry := audit.NewEntry(actor.ID, audit.EntityAccount, target.ID, "UPDATE", req.IP, map[string]interface{}{
		"before": before,
		"after":  after,
	}, now)

	return s.accounts.Update(ctx, target, &entry)
}

func (s *Service) administrator(ctx context.Context, actorID string) (entity.Account, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return entity.Account{}, err
	}
	if err = access.RequireAdministrator(actor); err != nil {
		return entity.Account{}, err
	}
	return actor, nil
}

func validRole(role string) bool {
	switch role {
	case auth.RoleEmployee, auth.RoleAdmin, auth.RoleSuperAdmin:
		return true
	}
	return false
}

// normalizeEmail folds full-width forms to ASCII before lower-casing.
func normalizeEmail(email string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(email)))
}

func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
