// Package redis provides a Redis-backed repository.Store and distributed locker
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/honeycarbs/plugplayers/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const defaultPrefix = "plugplayers:"

// createScript inserts a record hash and indexes it unless the key exists
var createScript = backend.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "version", 1, "data", ARGV[1], "updated_at", ARGV[2])
redis.call("ZADD", KEYS[2], 0, ARGV[3])
return 1
`)

// updateScript swaps the record when its version equals ARGV[1]
var updateScript = backend.NewScript(`
local v = redis.call("HGET", KEYS[1], "version")
if not v then
	return -1
end
if tonumber(v) ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("HSET", KEYS[1], "version", tonumber(ARGV[1]) + 1, "data", ARGV[2], "updated_at", ARGV[3])
return 1
`)

// Store keeps each record in a hash and one lexicographic ZSET index per kind
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures Store
type Option func(*Store)

// WithPrefix sets the key prefix
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New dials Redis and returns a store
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient wraps an existing client
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the underlying client so a Locker can share the connection
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(kind repository.Kind, id string) string {
	return s.prefix + "record:" + string(kind) + ":" + id
}

func (s *Store) indexKey(kind repository.Kind) string {
	return s.prefix + "index:" + string(kind)
}

// Get loads one record
func (s *Store) Get(ctx context.Context, kind repository.Kind, id string) (repository.Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key(kind, id)).Result()
	if err != nil {
		return repository.Record{}, fmt.Errorf("redis: get %s %q: %w", kind, id, err)
	}
	if len(fields) == 0 {
		return repository.Record{}, repository.ErrNotFound
	}
	return decode(kind, id, fields)
}

// Create inserts rec at version 1
func (s *Store) Create(ctx context.Context, rec repository.Record) (repository.Record, error) {
	res, err := createScript.Run(ctx, s.client,
		[]string{s.key(rec.Kind, rec.ID), s.indexKey(rec.Kind)},
		string(rec.Data), rec.UpdatedAt.UTC().UnixMilli(), rec.ID,
	).Int()
	if err != nil {
		return repository.Record{}, fmt.Errorf("redis: create %s %q: %w", rec.Kind, rec.ID, err)
	}
	if res == 0 {
		return repository.Record{}, repository.ErrConflict
	}
	rec.Version = 1
	return rec, nil
}

// Update swaps rec in atomically when the stored version equals expected
func (s *Store) Update(ctx context.Context, rec repository.Record, expected int64) (repository.Record, error) {
	res, err := updateScript.Run(ctx, s.client,
		[]string{s.key(rec.Kind, rec.ID)},
		expected, string(rec.Data), rec.UpdatedAt.UTC().UnixMilli(),
	).Int()
	if err != nil {
		return repository.Record{}, fmt.Errorf("redis: update %s %q: %w", rec.Kind, rec.ID, err)
	}
	switch res {
	case -1:
		return repository.Record{}, repository.ErrNotFound
	case 0:
		return repository.Record{}, repository.ErrVersionConflict
	}
	rec.Version = expected + 1
	return rec, nil
}

// List reads the kind index and fetches every hash in one pipeline
func (s *Store) List(ctx context.Context, kind repository.Kind) ([]repository.Record, error) {
	ids, err := s.client.ZRangeByLex(ctx, s.indexKey(kind), &backend.ZRangeBy{Min: "-", Max: "+"}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list %s: %w", kind, err)
	}
	if len(ids) == 0 {
		return []repository.Record{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*backend.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(kind, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("redis: list %s: %w", kind, err)
	}

	out := make([]repository.Record, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		rec, err := decode(kind, ids[i], fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(kind repository.Kind, id string, fields map[string]string) (repository.Record, error) {
	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return repository.Record{}, fmt.Errorf("redis: decode %s %q version: %w", kind, id, err)
	}
	millis, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return repository.Record{}, fmt.Errorf("redis: decode %s %q updated_at: %w", kind, id, err)
	}
	return repository.Record{
		Kind:      kind,
		ID:        id,
		Version:   version,
		Data:      []byte(fields["data"]),
		UpdatedAt: time.UnixMilli(millis).UTC(),
	}, nil
}
