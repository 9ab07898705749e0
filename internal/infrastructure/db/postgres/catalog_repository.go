package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	q Querier
}

func NewCatalogRepository(q Querier) *CatalogRepository {
	return &CatalogRepository{q: q}
}

const serviceColumns = `id, service_name, unit, price, is_active, description`

func (r *CatalogRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services WHERE is_active = TRUE ORDER BY id`)
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY id`)
}

func (r *CatalogRepository) list(ctx context.Context, query string) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit, &s.Price, &s.IsActive, &s.Description); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Service
	err := r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Unit, &s.Price, &s.IsActive, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) Create(ctx context.Context, s *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO services (service_name, unit, price, is_active, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, s.Name, s.Unit, s.Price, s.IsActive, s.Description).Scan(&s.ID); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}
