package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCounterID = "orders"

type MongoRepository struct {
	client   *mongo.Client
	orders   *mongo.Collection
	counters *mongo.Collection
}

type orderDocument struct {
	Number      int64                `bson:"_id"`
	OrderNumber string               `bson:"order_number"`
	Customer    customerDocument     `bson:"customer"`
	Items       []itemDocument       `bson:"items"`
	TotalPrice  primitive.Decimal128 `bson:"total_price"`
	Status      string               `bson:"status"`
	CreatedAt   time.Time            `bson:"created_at"`
	PaymentLink string               `bson:"payment_link"`
}

type customerDocument struct {
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Phone        string `bson:"phone"`
	AddressLine1 string `bson:"address_line1"`
	AddressLine2 string `bson:"address_line2,omitempty"`
	City         string `bson:"city"`
	State        string `bson:"state"`
	PinCode      string `bson:"pin_code"`
}

type itemDocument struct {
	ID       string               `bson:"id"`
	Title    string               `bson:"title"`
	Price    primitive.Decimal128 `bson:"price"`
	Image    string               `bson:"image,omitempty"`
	Quantity int                  `bson:"quantity"`
}

type counterDocument struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

func ConnectMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{
		client:   client,
		orders:   db.Collection("orders"),
		counters: db.Collection("counters"),
	}
}

// RunMigrations creates the collection indexes. Mongo has no schema files, so
// the credentials are ignored.
func (m *MongoRepository) RunMigrations(*Credentials) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	if _, err := m.orders.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// NextOrderNumber increments the counter document in one atomic
// find-and-modify, creating it on first use.
func (m *MongoRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate order number: %w", err)
	}
	return counter.Value, nil
}

func (m *MongoRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	doc, err := toOrderDocument(order)
	if err != nil {
		return err
	}

	if _, err := m.orders.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m *MongoRepository) GetOrderByNumber(ctx context.Context, number int64) (*domain.Order, error) {
	var doc orderDocument
	err := m.orders.FindOne(ctx, bson.M{"_id": number}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoRepository) ListOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		order, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return orders, nil
}

func (m *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func toOrderDocument(order *domain.Order) (*orderDocument, error) {
	total, err := primitive.ParseDecimal128(order.TotalPrice.String())
	if err != nil {
		return nil, fmt.Errorf("encode total price: %w", err)
	}

	items := make([]itemDocument, len(order.Items))
	for i, item := range order.Items {
		price, err := primitive.ParseDecimal128(item.Price.String())
		if err != nil {
			return nil, fmt.Errorf("encode price of item %s: %w", item.ID, err)
		}
		items[i] = itemDocument{
			ID:       item.ID,
			Title:    item.Title,
			Price:    price,
			Image:    item.Image,
			Quantity: item.Quantity,
		}
	}

	c := order.Customer
	return &orderDocument{
		Number:      order.Number,
		OrderNumber: order.OrderNumber,
		Customer: customerDocument{
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			AddressLine1: c.AddressLine1,
			AddressLine2: c.AddressLine2,
			City:         c.City,
			State:        c.State,
			PinCode:      c.PinCode,
		},
		Items:       items,
		TotalPrice:  total,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt.UTC(),
		PaymentLink: order.PaymentLink,
	}, nil
}

func (d *orderDocument) toDomain() (*domain.Order, error) {
	total, err := decimal.NewFromString(d.TotalPrice.String())
	if err != nil {
		return nil, fmt.Errorf("decode total price: %w", err)
	}

	items := make([]domain.CartItem, len(d.Items))
	for i, item := range d.Items {
		price, err := decimal.NewFromString(item.Price.String())
		if err != nil {
			return nil, fmt.Errorf("decode price of item %s: %w", item.ID, err)
		}
		items[i] = domain.CartItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    price,
			Image:    item.Image,
			Quantity: item.Quantity,
		}
	}

	c := d.Customer
	return &domain.Order{
		Number:      d.Number,
		OrderNumber: d.OrderNumber,
		Customer: domain.CustomerInfo{
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			AddressLine1: c.AddressLine1,
			AddressLine2: c.AddressLine2,
			City:         c.City,
			State:        c.State,
			PinCode:      c.PinCode,
		},
		Items:       items,
		TotalPrice:  total,
		Status:      domain.OrderStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		PaymentLink: d.PaymentLink,
	}, nil
}
