package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// MongoConfig selects the deployment and collection of a Mongo store.
type MongoConfig struct {
	URI        string
	Database   string // default "luxbin"
	Collection string // default "sessions"
	Timeout    time.Duration
}

// Mongo stores one document per result, keyed by session ID.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to cfg.URI and pings the primary.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo store requires a URI")
	}
	if cfg.Database == "" {
		cfg.Database = "luxbin"
	}
	if cfg.Collection == "" {
		cfg.Collection = "sessions"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStore, err, "ping mongo")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Mongo) Record(ctx context.Context, r entanglement.Result) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "insert session %s", r.ID)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context, limit int) ([]entanglement.Result, error) {
	// Newest first in insertion order, reversed below.
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "list sessions")
	}
	var results []entanglement.Result
	if err := cur.All(ctx, &results); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "decode sessions")
	}
	slices.Reverse(results)
	return results, nil
}

func (s *Mongo) Get(ctx context.Context, id string) (entanglement.Result, error) {
	var r entanglement.Result
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entanglement.Result{}, notFound(id)
	}
	if err != nil {
		return entanglement.Result{}, errs.Wrap(errs.ErrCodeStore, err, "get session %s", id)
	}
	return r, nil
}

func (s *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the collection. Tests use it to clean up.
func (s *Mongo) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

var _ Store = (*Mongo)(nil)
