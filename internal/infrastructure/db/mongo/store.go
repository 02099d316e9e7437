package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/ports"
)

const kvCollection = "kv_documents"

// Store is the MongoDB-backed KV store: one document per key, replaced
// whole on every write. It mirrors the Redis adapter so the two drivers are
// interchangeable behind the port.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(kvCollection)}
}

type kvDocument struct {
	Key       string `bson:"_id"`
	Value     []byte `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.observe("get", time.Now())

	var doc kvDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrKeyNotFound
		}
		return nil, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	defer s.observe("set", time.Now())

	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().Unix()}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	defer s.observe("delete", time.Now())

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *Store) observe(op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(op, "mongo").Observe(time.Since(start).Seconds())
}
