// Package verification implements the re-authentication protocols that mint
// the 60 second action and reveal tokens.
package verification

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/repository/postgres/audit"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	ActionUserEdit       = "USER_EDIT"
	ActionSiteEdit       = "SEDE_EDIT"
	ActionAttendanceView = "ATTENDANCE_VIEW"
	ActionManualReview   = "MANUAL_REVIEW"
)

var supportedActions = map[string]bool{
	ActionUserEdit:       true,
	ActionSiteEdit:       true,
	ActionAttendanceView: true,
	ActionManualReview:   true,
}

// MinReasonLength applies to every free text justification.
const MinReasonLength = 15

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
}

type AuditLog interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	CreateRevealGrant(ctx context.Context, grant *entity.RevealGrant, entry *entity.AuditLog) error
}

type Service struct {
	accounts Accounts
	audit    AuditLog
	auth     *auth.Auth
	now      func() time.Time
}

func NewService(accounts Accounts, audit AuditLog, a *auth.Auth) *Service {
	return &Service{accounts: accounts, audit: audit, auth: a, now: time.Now}
}

// WithClock replaces the clock used for audit timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// VerifyAction re-authenticates an administrator and mints an action token
// bound to them and to one action name.
func (s *Service) VerifyAction(ctx context.Context, req ActionRequest) (Token, error) {
	actor, err := s.administrator(ctx, req.ActorID)
	if err != nil {
		return Token{}, err
	}

	action := strings.ToUpper(strings.TrimSpace(req.Action))
	if !supportedActions[action] {
		return Token{}, web.NewRequestError(errors.Errorf("unsupported action %q", req.Action), http.StatusBadRequest)
	}
	reason, err := checkReason(req.Reason)
	if err != nil {
		return Token{}, err
	}
	if !auth.VerifyPassword(req.Password, actor.PasswordHash) {
		return Token{}, web.NewRequestError(errors.New("incorrect password"), http.StatusUnauthorized)
	}

	entry := s.entry(actor.ID, audit.EntityAction, actor.ID, "ACTION_VERIFY", req.IP, map[string]interface{}{
		"action":      action,
		"reason":      reason,
		"ttl_seconds": ttlSeconds(),
	})
	if err = s.audit.Create(ctx, &entry); err != nil {
		return Token{}, err
	}

	token, err := s.auth.IssueAction(actor.ID, actor.Role, action)
	if err != nil {
		return Token{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	return Token{Token: token, ExpiresIn: ttlSeconds()}, nil
}

// RequireAction checks that token is a live action token for action, minted
// for actorID.
func (s *Service) RequireAction(token, actorID, action string) error {
	if strings.TrimSpace(token) == "" {
		return web.NewRequestError(errors.New("action verification required"), http.StatusUnauthorized)
	}

	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "action token"), http.StatusUnauthorized)
	}

	switch {
	case claims.Scope != auth.ScopeAction:
		return web.NewRequestError(errors.New("token is not an action token"), http.StatusForbidden)
	case claims.Action != action:
		return web.NewRequestError(errors.Errorf("token does not authorize %s", action), http.StatusForbidden)
	case claims.Subject != actorID:
		return web.NewRequestError(errors.New("token was issued to another account"), http.StatusForbidden)
	}

	return nil
}

// GrantReveal re-authenticates an administrator and mints a reveal token
// bound to one target account.
func (s *Service) GrantReveal(ctx context.Context, req RevealRequest) (Token, error) {
	actor, err := s.administrator(ctx, req.ActorID)
	if err != nil {
		return Token{}, err
	}

	reason, err := checkReason(req.Reason)
	if err != nil {
		return Token{}, err
	}
	if !auth.VerifyPassword(req.Password, actor.PasswordHash) {
		return Token{}, web.NewRequestError(errors.New("incorrect password"), http.StatusUnauthorized)
	}

	target, err := s.accounts.GetByID(ctx, req.TargetID)
	if err != nil {
		return Token{}, err
	}

	if actor.Role == auth.RoleAdmin {
		if !sameSite(actor.SiteID, target.SiteID) {
			return Token{}, web.NewRequestError(errors.New("target belongs to another site"), http.StatusForbidden)
		}
		if auth.IsAdministrative(target.Role) {
			return Token{}, web.NewRequestError(errors.New("administrative accounts cannot be revealed"), http.StatusForbidden)
		}
	}

	grant := entity.RevealGrant{
		ID:          uuid.NewString(),
		RequesterID: actor.ID,
		TargetID:    target.ID,
		Reason:      reason,
		CreatedAt:   s.now().UTC(),
	}
	entry := s.entry(actor.ID, audit.EntityAccount, target.ID, "PII_REVEAL_GRANTED", req.IP, map[string]interface{}{
		"target_account_id": target.ID,
		"reason":            reason,
		"ttl_seconds":       ttlSeconds(),
	})
	if err = s.audit.CreateRevealGrant(ctx, &grant, &entry); err != nil {
		return Token{}, err
	}

	token, err := s.auth.IssueReveal(actor.ID, target.ID, actor.Role)
	if err != nil {
		return Token{}, web.NewRequestError(err, http.StatusInternalServerError)
	}

	return Token{Token: token, ExpiresIn: ttlSeconds()}, nil
}

// ReadPII returns the PII of targetID to the bearer of a reveal token minted
// for that same target. The read itself is not audited, the grant was.
func (s *Service) ReadPII(ctx context.Context, targetID, token string) (PII, error) {
	if strings.TrimSpace(token) == "" {
		return PII{}, web.NewRequestError(errors.New("reveal token required"), http.StatusUnauthorized)
	}

	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		return PII{}, web.NewRequestError(errors.Wrap(err, "reveal token"), http.StatusUnauthorized)
	}
	if claims.Scope != auth.ScopeRevealPII {
		return PII{}, web.NewRequestError(errors.New("token is not a reveal token"), http.StatusForbidden)
	}
	if claims.TargetSubject != targetID {
		return PII{}, web.NewRequestError(errors.New("token was issued for another account"), http.StatusForbidden)
	}

	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		return PII{}, err
	}

	return PII{
		AccountID: target.ID,
		Code:      target.Code,
		RealName:  target.RealName,
		Email:     target.Email,
		Phone:     target.Phone,
		SiteID:    target.SiteID,
		Role:      target.Role,
	}, nil
}

func (s *Service) administrator(ctx context.Context, actorID string) (entity.Account, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		if web.StatusOf(err) == http.StatusNotFound {
			return entity.Account{}, web.NewRequestError(errors.New("unknown account"), http.StatusUnauthorized)
		}
		return entity.Account{}, err
	}
	if !auth.IsAdministrative(actor.Role) {
		return entity.Account{}, web.NewRequestError(errors.New("administrator role required"), http.StatusForbidden)
	}
	return actor, nil
}

func (s *Service) entry(actorID, entityName, entityID, action, ip string, detail map[string]interface{}) entity.AuditLog {
	return audit.NewEntry(actorID, entityName, entityID, action, ip, detail, s.now())
}

func checkReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < MinReasonLength {
		return "", &web.Error{
			Err:    errors.Errorf("reason must be at least %d characters", MinReasonLength),
			Status: http.StatusUnprocessableEntity,
			Fields: []web.FieldError{{Field: "reason", Error: "too short"}},
		}
	}
	return reason, nil
}

func sameSite(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func ttlSeconds() int {
	return int(auth.EphemeralTTL / time.Second)
}
