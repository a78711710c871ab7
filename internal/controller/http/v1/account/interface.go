package account

import (
	"context"

	"geoattendance/backend/internal/service/account"
)

type Accounts interface {
	List(ctx context.Context, actorID string) ([]account.Listed, error)
	Create(ctx context.Context, req account.CreateRequest) (account.Created, error)
	Update(ctx context.Context, req account.UpdateRequest) error
}
