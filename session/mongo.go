package session

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedValue is one key of the persisted client storage
type storedValue struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoTokens persists client storage in a MongoDB collection so sessions
// survive a restart of the storefront.
type MongoTokens struct {
	Collection *mongo.Collection
}

// NewMongoTokens stores values in the client_storage collection of database
func NewMongoTokens(client *mongo.Client, database string) *MongoTokens {
	collection := client.Database(database).Collection("client_storage")
	return &MongoTokens{
		Collection: collection,
	}
}

func (m *MongoTokens) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc storedValue
	err := m.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (m *MongoTokens) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.Collection.UpdateOne(ctx, bson.M{"_id": key}, bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
	}, options.Update().SetUpsert(true))
	return err
}

func (m *MongoTokens) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
