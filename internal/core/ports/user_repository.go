package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create stores the user and assigns its ID. A taken username yields
	// domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// List returns users with the given role, newest first. An empty role
	// returns everyone.
	List(ctx context.Context, role string) ([]*domain.User, error)
}
