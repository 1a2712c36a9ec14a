// internal/service/order/infrastructure/mongo_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/service/order/domain"
)

const ordersCollection = "orders"

// orderDocument 是 Order 聚合在 MongoDB 中的表示。
type orderDocument struct {
	ID        primitive.ObjectID    `bson:"_id,omitempty"`
	Products  []domain.CartItem     `bson:"products"`
	Payment   domain.PaymentOutcome `bson:"payment"`
	Buyer     string                `bson:"buyer"`
	Status    string                `bson:"status"`
	CreatedAt time.Time             `bson:"createdAt"`
	UpdatedAt time.Time             `bson:"updatedAt"`
}

func toDocument(order *domain.Order) *orderDocument {
	return &orderDocument{
		Products:  order.Products,
		Payment:   order.Payment,
		Buyer:     order.Buyer,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func toDomain(doc *orderDocument) *domain.Order {
	return &domain.Order{
		ID:        doc.ID.Hex(),
		Products:  doc.Products,
		Payment:   doc.Payment,
		Buyer:     doc.Buyer,
		Status:    domain.Status(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// NewMongoClient 建立 MongoDB 连接并做一次 ping 校验。
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}
	return client, nil
}

// MongoOrderRepository 是 domain.OrderRepository 的 MongoDB 实现。
// 每次写入都是单文档操作，原子性由存储层保证，不需要多文档事务。
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository 创建订单仓储实例。
func NewMongoOrderRepository(client *mongo.Client, database string) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: client.Database(database).Collection(ordersCollection),
	}
}

// Insert 写入一个新订单文档并返回其生成的 ID。
func (r *MongoOrderRepository) Insert(ctx context.Context, order *domain.Order) (string, error) {
	doc := toDocument(order)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", domain.NewPersistenceError("failed to insert order", err)
	}
	return doc.ID.Hex(), nil
}

// FindByID 根据 ID 查找订单。
func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewFormatError("malformed order id: " + id)
	}

	var doc orderDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.NewNotFoundError("order not found: " + id)
	}
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load order", err)
	}
	return toDomain(&doc), nil
}

// FindByBuyer 返回某个买家的全部订单，按创建时间倒序。
func (r *MongoOrderRepository) FindByBuyer(ctx context.Context, buyer string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"buyer": buyer}, opts)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to query orders", err)
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.NewPersistenceError("failed to decode order", err)
		}
		orders = append(orders, *toDomain(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.NewPersistenceError("failed to iterate orders", err)
	}
	return orders, nil
}

// UpdateStatus 覆写 status 字段并返回更新后的文档。
// 用 FindOneAndUpdate 保证读改写是一次原子的单文档操作。
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewFormatError("malformed order id: " + id)
	}

	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.NewNotFoundError("order not found: " + id)
	}
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update order status", err)
	}
	return toDomain(&doc), nil
}
