// Package auth issues and validates the signed tokens used for sessions and
// for the short lived action and reveal capabilities.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"geoattendance/backend/foundation/web"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	RoleEmployee   = "EMPLOYEE"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

const (
	ScopeAction    = "action"
	ScopeRevealPII = "reveal_pii"
)

// ActionTokenHeader carries the action token on privileged requests.
const ActionTokenHeader = "X-Action-Token"

// EphemeralTTL is the lifetime of action and reveal tokens.
const EphemeralTTL = 60 * time.Second

// ErrTokenInvalid is returned for tokens that are malformed, badly signed or
// expired.
var ErrTokenInvalid = errors.New("token invalid")

type ctxKey int

// Key is used to store and retrieve Claims from a context.Context.
const Key ctxKey = 1

// Claims is the single claim set shared by every token shape. Session tokens
// leave Scope empty.
type Claims struct {
	jwt.StandardClaims
	Role          string `json:"role,omitempty"`
	Scope         string `json:"scope,omitempty"`
	Action        string `json:"action,omitempty"`
	TargetSubject string `json:"target_sub,omitempty"`
	ActorRole     string `json:"actor_role,omitempty"`
}

// Authorized reports whether the claims hold one of the given roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether role belongs to the ADMIN or SUPERADMIN
// tier.
func IsAdministrative(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// ClaimsFromContext returns the session claims stored by the Authenticate
// middleware.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(Key).(Claims)
	if !ok {
		return Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}
	return claims, nil
}

// Auth signs tokens with HS256. It keeps no record of issued tokens.
type Auth struct {
	secret []byte
	now    func() time.Time
}

func NewAuth(secret string) (*Auth, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	return &Auth{secret: []byte(secret), now: time.Now}, nil
}

// WithClock replaces the clock used for issuing and validating tokens.
func (a *Auth) WithClock(now func() time.Time) *Auth {
	a.now = now
	return a
}

// Issue signs claims with an expiry of now+ttl.
func (a *Auth) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := a.now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return str, nil
}

func (a *Auth) IssueSession(subject, role string, ttl time.Duration) (string, error) {
	return a.Issue(Claims{
		StandardClaims: jwt.StandardClaims{Subject: subject},
		Role:           role,
	}, ttl)
}

func (a *Auth) IssueAction(subject, role, action string) (string, error) {
	return a.Issue(Claims{
		StandardClaims: jwt.StandardClaims{Subject: subject},
		Role:           role,
		Scope:          ScopeAction,
		Action:         action,
	}, EphemeralTTL)
}

func (a *Auth) IssueReveal(subject, target, actorRole string) (string, error) {
	return a.Issue(Claims{
		StandardClaims: jwt.StandardClaims{Subject: subject},
		Scope:          ScopeRevealPII,
		TargetSubject:  target,
		ActorRole:      actorRole,
	}, EphemeralTTL)
}

// ValidateToken verifies the signature and expiry of token. Expiry is checked
// against the Auth clock, a token is valid up to and including its exp second.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if !claims.VerifyExpiresAt(a.now().Unix(), true) {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearer(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", web.NewRequestError(errors.New("expected authorization header format: Bearer <token>"), http.StatusUnauthorized)
	}
	return parts[1], nil
}
