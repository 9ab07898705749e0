package file

import (
	"context"
	"sort"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	s *Store
}

func NewCatalogRepository(s *Store) *CatalogRepository {
	return &CatalogRepository{s: s}
}

func (r *CatalogRepository) ListActive(_ context.Context) ([]domain.Service, error) {
	return r.list(true)
}

func (r *CatalogRepository) List(_ context.Context) ([]domain.Service, error) {
	return r.list(false)
}

func (r *CatalogRepository) list(activeOnly bool) ([]domain.Service, error) {
	services := []domain.Service{}
	err := read(r.s, fileServices, func(records []domain.Service) error {
		for _, svc := range records {
			if activeOnly && !svc.IsActive {
				continue
			}
			services = append(services, svc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (r *CatalogRepository) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	var found *domain.Service
	err := read(r.s, fileServices, func(records []domain.Service) error {
		for _, svc := range records {
			if svc.ID == id {
				found = &svc
				return nil
			}
		}
		return domain.ErrServiceNotFound
	})
	return found, err
}

func (r *CatalogRepository) Count(_ context.Context) (int64, error) {
	var n int64
	err := read(r.s, fileServices, func(records []domain.Service) error {
		n = int64(len(records))
		return nil
	})
	return n, err
}

func (r *CatalogRepository) Create(_ context.Context, svc *domain.Service) error {
	return mutate(r.s, fileServices, func(records []domain.Service) ([]domain.Service, error) {
		svc.ID = nextID(records, func(s domain.Service) int64 { return s.ID })
		return append(records, *svc), nil
	})
}
