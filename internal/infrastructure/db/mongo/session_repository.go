package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "dashboard_sessions"

// MongoSessionStorage keeps every session key of one dashboard namespace in
// a single document, so Set and Delete are single-document atomic updates.
type MongoSessionStorage struct {
	coll      *mongo.Collection
	namespace string
	now       func() time.Time
}

func NewSessionStorage(db *mongo.Database, namespace string) *MongoSessionStorage {
	return &MongoSessionStorage{
		coll:      db.Collection(sessionCollection),
		namespace: namespace,
		now:       time.Now,
	}
}

type mongoSession struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt int64             `bson:"updated_at"`
}

func (r *MongoSessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc mongoSession
	err := r.coll.FindOne(ctx, bson.M{"_id": r.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (r *MongoSessionStorage) Set(ctx context.Context, values map[string]string) error {
	set := bson.M{"updated_at": r.now().Unix()}
	for k, v := range values {
		set["values."+k] = v
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": r.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *MongoSessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": r.namespace},
		bson.M{"$unset": unset, "$set": bson.M{"updated_at": r.now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *MongoSessionStorage) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (r *MongoSessionStorage) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}
