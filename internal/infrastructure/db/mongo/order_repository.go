package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mylaundry/order-system/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db, col: db.Collection(collectionOrders)}
}

type orderDoc struct {
	ID            int64                `bson:"_id"`
	UserID        int64                `bson:"user_id"`
	OrderNumber   string               `bson:"order_number"`
	CustomerName  string               `bson:"customer_name"`
	PhoneNumber   string               `bson:"phone_number,omitempty"`
	ServiceID     int64                `bson:"service_id"`
	Quantity      primitive.Decimal128 `bson:"quantity"`
	TotalPrice    primitive.Decimal128 `bson:"total_price"`
	Notes         string               `bson:"notes,omitempty"`
	Status        string               `bson:"status"`
	EntryDate     time.Time            `bson:"entry_date"`
	CompletedDate *time.Time           `bson:"completed_date,omitempty"`
}

func newOrderDoc(o *domain.Order) (orderDoc, error) {
	qty, err := toDecimal128(o.Quantity)
	if err != nil {
		return orderDoc{}, fmt.Errorf("encode quantity: %w", err)
	}
	total, err := toDecimal128(o.TotalPrice)
	if err != nil {
		return orderDoc{}, fmt.Errorf("encode total: %w", err)
	}
	return orderDoc{
		ID:            o.ID,
		UserID:        o.UserID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		PhoneNumber:   o.PhoneNumber,
		ServiceID:     o.ServiceID,
		Quantity:      qty,
		TotalPrice:    total,
		Notes:         o.Notes,
		Status:        string(o.Status),
		EntryDate:     o.EntryDate.UTC(),
		CompletedDate: o.CompletedDate,
	}, nil
}

func (d orderDoc) toDomain() *domain.Order {
	o := &domain.Order{
		ID:           d.ID,
		UserID:       d.UserID,
		OrderNumber:  d.OrderNumber,
		CustomerName: d.CustomerName,
		PhoneNumber:  d.PhoneNumber,
		ServiceID:    d.ServiceID,
		Quantity:     fromDecimal128(d.Quantity),
		TotalPrice:   fromDecimal128(d.TotalPrice),
		Notes:        d.Notes,
		Status:       domain.OrderStatus(d.Status),
		EntryDate:    d.EntryDate.UTC(),
	}
	if d.CompletedDate != nil {
		completed := d.CompletedDate.UTC()
		o.CompletedDate = &completed
	}
	return o
}

// Create inserts a new order document under the next sequence id.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionOrders)
	if err != nil {
		return err
	}
	o.ID = id

	doc, err := newOrderDoc(o)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns orders matching the filter, newest entry first.
func (r *OrderRepository) List(ctx context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != 0 {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "entry_date", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

// Apply reads the order, runs fn and replaces the document only while its
// status still matches what fn saw.
func (r *OrderRepository) Apply(ctx context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	seen := o.Status
	if err := fn(o); err != nil {
		return nil, err
	}
	o.ID = id

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newOrderDoc(o)
	if err != nil {
		return nil, err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id, "status": string(seen)}, doc)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrOrderChanged
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CountByUser groups orders by owner.
func (r *OrderRepository) CountByUser(ctx context.Context) (map[int64]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		UserID int64 `bson:"_id"`
		Count  int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode order counts: %w", err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}
