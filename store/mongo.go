package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/config"
	"storefront/models"
)

const (
	productsCollection = "products"
	ticketsCollection  = "support_tickets"
	settingsCollection = "site_settings"
)

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{client: client, db: client.Database(database)}
}

func (s *Mongo) FindProductBySlug(ctx context.Context, slug string) (models.Document, error) {
	coll := s.db.Collection(productsCollection)
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var raw bson.M
	err := coll.FindOne(ctx, bson.M{"slug": slug}, opts).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = coll.FindOne(ctx, bson.M{"_id": slug}).Decode(&raw)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Document{}, ErrNotFound
		}
		return models.Document{}, errors.Wrap(err, "find product by slug")
	}
	return bsonDocument(raw), nil
}

func (s *Mongo) ListPublishedProducts(ctx context.Context, limit int) ([]models.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.db.Collection(productsCollection).Find(ctx, bson.M{"status": "published"}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find published products")
	}
	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, errors.Wrap(err, "decode published products")
	}
	docs := make([]models.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, bsonDocument(raw))
	}
	return docs, nil
}

func (s *Mongo) CreateTicket(ctx context.Context, t models.SupportTicket) error {
	_, err := s.db.Collection(ticketsCollection).InsertOne(ctx, t)
	return errors.Wrap(err, "insert support ticket")
}

func (s *Mongo) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.SupportTicket, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(f.Limit))
	cur, err := s.db.Collection(ticketsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find support tickets")
	}
	tickets := make([]models.SupportTicket, 0, f.Limit)
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, errors.Wrap(err, "decode support tickets")
	}
	for i := range tickets {
		tickets[i].CreatedAt = tickets[i].CreatedAt.UTC()
	}
	return tickets, nil
}

type settingDoc struct {
	Key       string    `bson:"_id"`
	Value     bson.M    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (s *Mongo) GetSetting(ctx context.Context, key string) (map[string]any, error) {
	var doc settingDoc
	err := s.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find setting %s", key)
	}
	return map[string]any(doc.Value), nil
}

func (s *Mongo) PutSetting(ctx context.Context, key string, value map[string]any) error {
	update := bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()}}
	_, err := s.db.Collection(settingsCollection).UpdateOne(ctx,
		bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return errors.Wrapf(err, "upsert setting %s", key)
}

func (s *Mongo) Driver() string { return config.DriverMongo }

func (s *Mongo) Ping(ctx context.Context) error { return s.client.Ping(ctx, readpref.Primary()) }

func (s *Mongo) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// bsonDocument lifts _id out of the raw document. Object ids become their hex form.
func bsonDocument(raw bson.M) models.Document {
	var id string
	switch v := raw["_id"].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	case nil:
	default:
		id = fmt.Sprint(v)
	}
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		data[k] = v
	}
	return models.Document{ID: id, Data: data}
}
