package store

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// RedisConfig selects the server and key prefix of a Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string        // prefix, default "luxbin:sessions"
	Timeout  time.Duration // dial and command timeout, default 3s
}

// Redis keeps CBOR-encoded results in a hash keyed by session ID and their
// order in a list.
type Redis struct {
	client *redis.Client
	key    string
	enc    cbor.EncMode
}

// NewRedis connects to cfg.Addr and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "redis store requires an address")
	}
	if cfg.Key == "" {
		cfg.Key = "luxbin:sessions"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect redis %s", cfg.Addr)
	}
	return newRedis(client, cfg.Key)
}

func newRedis(client *redis.Client, key string) (*Redis, error) {
	// Nanosecond timestamps survive the round trip.
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "cbor encoder")
	}
	return &Redis{client: client, key: key, enc: enc}, nil
}

func (s *Redis) orderKey() string   { return s.key + ":order" }
func (s *Redis) recordsKey() string { return s.key + ":records" }

func (s *Redis) Record(ctx context.Context, r entanglement.Result) error {
	data, err := s.enc.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "encode session %s", r.ID)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.recordsKey(), r.ID, data)
		pipe.RPush(ctx, s.orderKey(), r.ID)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "record session %s", r.ID)
	}
	return nil
}

func (s *Redis) List(ctx context.Context, limit int) ([]entanglement.Result, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	ids, err := s.client.LRange(ctx, s.orderKey(), start, -1).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "list sessions")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	vals, err := s.client.HMGet(ctx, s.recordsKey(), ids...).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load sessions")
	}

	results := make([]entanglement.Result, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // removed from the hash behind our back
		}
		r, err := decodeResult([]byte(raw))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStore, err, "decode session %s", ids[i])
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Redis) Get(ctx context.Context, id string) (entanglement.Result, error) {
	raw, err := s.client.HGet(ctx, s.recordsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return entanglement.Result{}, notFound(id)
	}
	if err != nil {
		return entanglement.Result{}, errs.Wrap(errs.ErrCodeStore, err, "get session %s", id)
	}
	r, err := decodeResult(raw)
	if err != nil {
		return entanglement.Result{}, errs.Wrap(errs.ErrCodeStore, err, "decode session %s", id)
	}
	return r, nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}

func decodeResult(data []byte) (entanglement.Result, error) {
	var r entanglement.Result
	err := cbor.Unmarshal(data, &r)
	return r, err
}

var _ Store = (*Redis)(nil)
