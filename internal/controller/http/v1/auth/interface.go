package auth

import (
	"context"

	"geoattendance/backend/internal/service/account"
)

type Accounts interface {
	Login(ctx context.Context, email, password string) (account.Session, error)
	Me(ctx context.Context, actorID string) (account.Profile, error)
}
