package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mylaundry/order-system/internal/core/domain"
)

const collectionServices = "services"

type CatalogRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db, col: db.Collection(collectionServices)}
}

type serviceDoc struct {
	ID          int64                `bson:"_id"`
	Name        string               `bson:"service_name"`
	Unit        string               `bson:"unit"`
	Price       primitive.Decimal128 `bson:"price"`
	IsActive    bool                 `bson:"is_active"`
	Description string               `bson:"description,omitempty"`
}

func (d serviceDoc) toDomain() domain.Service {
	return domain.Service{
		ID:          d.ID,
		Name:        d.Name,
		Unit:        d.Unit,
		Price:       fromDecimal128(d.Price),
		IsActive:    d.IsActive,
		Description: d.Description,
	}
}

func (r *CatalogRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.Service, error) {
	return r.find(ctx, bson.M{})
}

func (r *CatalogRepository) find(ctx context.Context, filter bson.M) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []serviceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	services := make([]domain.Service, 0, len(docs))
	for _, d := range docs {
		services = append(services, d.toDomain())
	}
	return services, nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc serviceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	svc := doc.toDomain()
	return &svc, nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *CatalogRepository) Create(ctx context.Context, svc *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	price, err := toDecimal128(svc.Price)
	if err != nil {
		return fmt.Errorf("encode price: %w", err)
	}
	id, err := nextID(ctx, r.db, collectionServices)
	if err != nil {
		return err
	}

	doc := serviceDoc{
		ID:          id,
		Name:        svc.Name,
		Unit:        svc.Unit,
		Price:       price,
		IsActive:    svc.IsActive,
		Description: svc.Description,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	svc.ID = id
	return nil
}
