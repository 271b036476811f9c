package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// RedisCartRepository persists the cart snapshot as JSON under a single
// key. No TTL: the snapshot lives until the next write replaces it.
type RedisCartRepository struct {
	client *redis.Client
	key    string
	logger *logging.Logger
}

// NewRedisCartRepository creates a Redis-backed cart repository.
func NewRedisCartRepository(cfg config.RedisConfig, key string) *RedisCartRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCartRepository{
		client: client,
		key:    key,
		logger: logging.New("cart-repository"),
	}
}

// Load reads the persisted cart. A missing key is an empty cart, not an
// error; corrupt payloads are reported so the store can fall back to
// empty silently.
func (r *RedisCartRepository) Load(ctx context.Context) ([]models.LineItem, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		r.logger.Debug("No persisted cart", logging.Fields{"key": r.key})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// Save writes the cart snapshot.
func (r *RedisCartRepository) Save(ctx context.Context, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return err
	}

	r.logger.Debug("Cart persisted", logging.Fields{
		"key":        r.key,
		"item_count": len(items),
	})
	return nil
}

// Ping reports whether the backing store is reachable.
func (r *RedisCartRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCartRepository) Close() error {
	return r.client.Close()
}

// MemoryCartRepository keeps the snapshot in process memory. Used in
// tests and when cart persistence is disabled by feature flag.
type MemoryCartRepository struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryCartRepository creates an in-memory cart repository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{}
}

func (m *MemoryCartRepository) Load(ctx context.Context) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}

	var items []models.LineItem
	if err := json.Unmarshal(m.data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MemoryCartRepository) Save(ctx context.Context, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// SetRaw seeds the stored payload directly. Lets tests exercise the
// corrupt-snapshot path.
func (m *MemoryCartRepository) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}

// Raw returns the stored payload.
func (m *MemoryCartRepository) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}
