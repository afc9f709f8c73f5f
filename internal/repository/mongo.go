package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ordersCollection   = "orders"
	settingsCollection = "settings"
	settingsDocumentID = "restaurant_settings"
)

// MongoStore owns the MongoDB client shared by the Mongo repositories.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and verifies the connection with a ping.
// timeout bounds every operation issued through the client.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Menu() *MongoMenuRepository {
	return &MongoMenuRepository{db: s.db}
}

func (s *MongoStore) Orders() *MongoOrderRepository {
	return &MongoOrderRepository{coll: s.db.Collection(ordersCollection)}
}

func (s *MongoStore) Settings() *MongoSettingsRepository {
	return &MongoSettingsRepository{coll: s.db.Collection(settingsCollection)}
}

// MongoMenuRepository stores each menu kind in its own collection.
type MongoMenuRepository struct {
	db *mongo.Database
}

func (r *MongoMenuRepository) collection(kind models.MenuKind) (*mongo.Collection, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return r.db.Collection(kind.Collection()), nil
}

func (r *MongoMenuRepository) List(ctx context.Context, kind models.MenuKind) ([]models.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer cursor.Close(ctx)

	items := make([]models.MenuItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return items, nil
}

func (r *MongoMenuRepository) Get(ctx context.Context, kind models.MenuKind, id string) (*models.MenuItem, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	var item models.MenuItem
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, mapMongoError(err)
	}
	return &item, nil
}

func (r *MongoMenuRepository) Insert(ctx context.Context, kind models.MenuKind, item models.MenuItem) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert into %s: %w", kind, err)
	}
	return nil
}

func (r *MongoMenuRepository) Replace(ctx context.Context, kind models.MenuKind, item models.MenuItem) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("replace in %s: %w", kind, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMenuRepository) Delete(ctx context.Context, kind models.MenuKind, id string) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", kind, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoOrderRepository stores orders in the "orders" collection.
// Listings are unsorted; legacy documents may lack createdAt.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

func (r *MongoOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, mapMongoError(err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order models.Order) error {
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) Replace(ctx context.Context, order models.Order) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("replace order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoSettingsRepository keeps the settings as a single well-known document.
type MongoSettingsRepository struct {
	coll *mongo.Collection
}

type settingsDocument struct {
	ID              string `bson:"_id"`
	models.Settings `bson:",inline"`
}

func (r *MongoSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var doc settingsDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return &doc.Settings, nil
}

func (r *MongoSettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	doc := settingsDocument{ID: settingsDocumentID, Settings: settings}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": settingsDocumentID}, doc, opts); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func mapMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
