package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, fullName, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Profile(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

// TokenVerifier checks a session token. Any failure yields (nil, false).
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, bool)
}
