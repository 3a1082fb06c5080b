package archive

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"billboard-pricing/core/quote"
	"billboard-pricing/internal/errors"
)

const keyPrefix = "billboard:quote:"

// RedisArchive stores quotes as JSON with a TTL ending at ValidUntil
type RedisArchive struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisArchive connects to Redis and checks the connection
func NewRedisArchive(ctx context.Context, addr string, db int) (*RedisArchive, error) {
	if addr == "" {
		return nil, errors.New(errors.TypeConfig, "redis archive requires an address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Storage("connect to redis", err)
	}
	return NewRedisArchiveWithClient(client), nil
}

// NewRedisArchiveWithClient wraps an existing client
func NewRedisArchiveWithClient(client *redis.Client) *RedisArchive {
	return &RedisArchive{client: client, now: time.Now}
}

func (a *RedisArchive) Put(ctx context.Context, q *quote.Quote) error {
	if q == nil || q.ID == "" {
		return errors.Input("quote must have an id")
	}
	ttl := q.ValidUntil.Sub(a.now())
	if ttl <= 0 {
		return errors.Inputf("quote %s is already expired", q.ID)
	}

	data, err := json.Marshal(q)
	if err != nil {
		return errors.Internal("encode quote", err)
	}
	if err := a.client.Set(ctx, keyPrefix+q.ID, data, ttl).Err(); err != nil {
		return errors.Storage("store quote", err).WithContext("id", q.ID)
	}
	return nil
}

func (a *RedisArchive) Get(ctx context.Context, id string) (*quote.Quote, error) {
	data, err := a.client.Get(ctx, keyPrefix+id).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Storage("load quote", err).WithContext("id", id)
	}

	var q quote.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, errors.Storage("decode stored quote", err).WithContext("id", id)
	}
	return &q, nil
}

func (a *RedisArchive) Close() error {
	return a.client.Close()
}

var _ Archive = (*RedisArchive)(nil)
