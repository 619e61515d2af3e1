// Package store persists entanglement session history.
//
// Every backend implements [Store] and therefore [entanglement.Recorder], so a
// store can be handed straight to the engine with entanglement.WithRecorder:
//   - [Memory]: process-local, for tests and one-shot CLI runs
//   - [File]: JSON lines on disk, for the CLI
//   - [Redis]: CBOR records shared by API replicas
//   - [Mongo]: one document per result
//
// Listings are always oldest first.
package store

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/config"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Store records session results and reads them back.
type Store interface {
	entanglement.Recorder

	// List returns up to limit of the most recent results, oldest first.
	// A limit <= 0 returns everything.
	List(ctx context.Context, limit int) ([]entanglement.Result, error)

	// Get returns the result with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (entanglement.Result, error)

	Close() error
}

// Open builds the store selected by cfg.Kind.
func Open(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	kind, err := errs.ValidateOneOf(errs.ErrCodeInvalidConfig, "store kind", cfg.Kind,
		config.StoreMemory, config.StoreFile, config.StoreRedis, config.StoreMongo)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening session store", "kind", kind)

	var s Store
	switch kind {
	case config.StoreFile:
		s, err = NewFile(cfg.Path)
	case config.StoreRedis:
		s, err = NewRedis(ctx, RedisConfig{Addr: cfg.RedisAddr, Key: cfg.RedisKey})
	case config.StoreMongo:
		s, err = NewMongo(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	default:
		s = NewMemory()
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "session %s not found", id)
}

// tail returns the last limit elements of s, or all of s when limit <= 0.
func tail[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[len(s)-limit:]
	}
	return s
}
