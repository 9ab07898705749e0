package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// CatalogRepository gives read access to the service catalog plus the
// insert used by the startup seed.
type CatalogRepository interface {
	// ListActive returns active services ordered by ascending ID.
	ListActive(ctx context.Context) ([]domain.Service, error)
	// List returns every service, active or not, ordered by ascending ID.
	List(ctx context.Context) ([]domain.Service, error)
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, svc *domain.Service) error
}
