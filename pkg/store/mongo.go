package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// MongoStore persists payloads in a MongoDB collection, one document per
// slot, replaced wholesale on every registration.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type slotDocument struct {
	Key     Key             `bson:"key"`
	Payload *design.Payload `bson:"payload"`
}

// NewMongoStore connects to MongoDB at uri and uses the payloads collection
// of the named database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connecting to %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "pinging %s", uri)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("payloads"),
	}, nil
}

func keyFilter(key Key) bson.M {
	return bson.M{"key.owner_id": key.OwnerID, "key.slot_id": key.SlotID}
}

// Get returns the stored payload for key, or nil when absent.
func (s *MongoStore) Get(ctx context.Context, key Key) (*design.Payload, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var doc slotDocument
	err := s.coll.FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "loading slot %s", key.SlotID)
	}
	return doc.Payload, nil
}

// Set stores a payload for key via upsert.
func (s *MongoStore) Set(ctx context.Context, key Key, p *design.Payload) error {
	if err := key.Validate(); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, keyFilter(key),
		slotDocument{Key: key, Payload: p},
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "storing slot %s", key.SlotID)
	}
	return nil
}

// Delete removes the payload for key. Deleting an absent key is not an
// error.
func (s *MongoStore) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, keyFilter(key)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "deleting slot %s", key.SlotID)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
