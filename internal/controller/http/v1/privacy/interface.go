package privacy

import (
	"context"

	"geoattendance/backend/internal/service/verification"
)

type Verification interface {
	VerifyAction(ctx context.Context, req verification.ActionRequest) (verification.Token, error)
	GrantReveal(ctx context.Context, req verification.RevealRequest) (verification.Token, error)
	ReadPII(ctx context.Context, targetID, token string) (verification.PII, error)
}
