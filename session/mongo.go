package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores one document per browser session:
// {_id: <session id>, accessToken: ..., refreshToken: ..., updatedAt: ...}
type MongoBackend struct {
	Collection *mongo.Collection
}

// ConnectMongo dials uri and returns a backend on <database>.sessions
func ConnectMongo(ctx context.Context, uri, database string) (*MongoBackend, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, errors.Wrap(err, "ping mongodb")
	}
	return NewMongoBackend(client.Database(database).Collection("sessions")), client, nil
}

func NewMongoBackend(collection *mongo.Collection) *MongoBackend {
	return &MongoBackend{Collection: collection}
}

func (m *MongoBackend) Get(ctx context.Context, sessionID, key string) (string, error) {
	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{key: 1})
	err := m.Collection.FindOne(ctx, bson.M{"_id": sessionID}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "load %s", key)
	}
	v, _ := doc[key].(string)
	return v, nil
}

func (m *MongoBackend) Set(ctx context.Context, sessionID, key, value string) error {
	update := bson.M{"$set": bson.M{key: value, "updatedAt": time.Now()}}
	_, err := m.Collection.UpdateOne(ctx, bson.M{"_id": sessionID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "store %s", key)
	}
	return nil
}

func (m *MongoBackend) Remove(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset[k] = ""
	}
	_, err := m.Collection.UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$unset": unset})
	if err != nil {
		return errors.Wrap(err, "remove session keys")
	}
	return nil
}
