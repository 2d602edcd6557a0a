package cache

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps translation mappings in Redis. Each mapping is a JSON
// string under prefix+"collection:"+name; prefix+"collections" is a set
// indexing the stored names.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    // TTL in seconds (0 = no expiration)
	KeyPrefix string // Prefix for all keys (default: unique per store)
}

// NewRedisStore connects to Redis and returns a store. Without a KeyPrefix
// the store gets a random one, so two backends never share entries.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "pbi18n:" + uuid.NewString() + ":"
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// KeyPrefix returns the prefix applied to every key.
func (s *RedisStore) KeyPrefix() string {
	return s.keyPrefix
}

func (s *RedisStore) collectionKey(collection string) string {
	return s.keyPrefix + "collection:" + collection
}

func (s *RedisStore) indexKey() string {
	return s.keyPrefix + "collections"
}

// Get retrieves a mapping from Redis. Redis or decoding errors count as a
// miss, so the caller reloads from the source of truth.
func (s *RedisStore) Get(collection string) (map[string]string, bool) {
	ctx := context.Background()
	val, err := s.client.Get(ctx, s.collectionKey(collection)).Bytes()
	if err != nil {
		return nil, false
	}

	translations := make(map[string]string)
	if err := json.Unmarshal(val, &translations); err != nil {
		return nil, false
	}
	return translations, true
}

// Set stores a mapping in Redis and records it in the index.
func (s *RedisStore) Set(collection string, translations map[string]string) error {
	if translations == nil {
		translations = map[string]string{}
	}

	payload, err := json.Marshal(translations)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := s.client.Set(ctx, s.collectionKey(collection), string(payload), s.ttl).Err(); err != nil {
		return err
	}
	return s.client.SAdd(ctx, s.indexKey(), collection).Err()
}

// Collections returns every indexed collection name in sorted order.
// Names whose value expired are still listed until the next Set.
func (s *RedisStore) Collections() []string {
	ctx := context.Background()
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil
	}
	slices.Sort(names)
	return names
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	return s.client.Ping(context.Background()).Err()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
