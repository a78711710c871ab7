package account

import (
	"context"
	"net/http"
	"strings"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const codeAttempts = 20

// code returns the internal code of a new account. Employees get
// EMP-<TAG>-<4 hex>, retried against existing codes before falling back to
// a 6 hex suffix. Other roles keep a supplied code or get a prefixed one.
func (s *Service) code(ctx context.Context, role string, site entity.Site, supplied *string) (string, error) {
	if role != auth.RoleEmployee {
		if supplied != nil && strings.TrimSpace(*supplied) != "" {
			code := strings.TrimSpace(*supplied)
			exists, err := s.accounts.CodeExists(ctx, code)
			if err != nil {
				return "", err
			}
			if exists {
				return "", web.NewRequestError(errors.Errorf("code %q already exists", code), http.StatusConflict)
			}
			return code, nil
		}
		return rolePrefix(role) + "-" + randomHex(6), nil
	}

	tag := SiteTag(site)
	for i := 0; i < codeAttempts; i++ {
		code := "EMP-" + tag + "-" + randomHex(4)
		exists, err := s.accounts.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "EMP-" + tag + "-" + randomHex(6), nil
}

// SiteTag is the first three ASCII letters or digits of the upper-cased site
// name, padded from the site id.
func SiteTag(site entity.Site) string {
	name := alnum(strings.ToUpper(strings.TrimSpace(site.Name)))
	if len(name) >= 3 {
		return name[:3]
	}
	padded := name + alnum(strings.ToUpper(site.ID))
	if len(padded) < 3 {
		return "GEN"
	}
	return padded[:3]
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func rolePrefix(role string) string {
	switch role {
	case auth.RoleAdmin:
		return "ADM"
	case auth.RoleSuperAdmin:
		return "SUP"
	default:
		return "USR"
	}
}

func randomHex(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:n])
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	name, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(name) <= 1 {
		return "*@" + domain
	}
	return name[:1] + "***@" + domain
}
