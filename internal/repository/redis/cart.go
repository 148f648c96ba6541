package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
)

const keyPrefix = "cart:"

// CartStore implements repository.CartStore using a Redis hash per cart:
// key "cart:{cartId}", one field per product ID holding its quantity.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a new Redis-backed cart store. ttl is the sliding
// expiration window refreshed by reads and writes (7 days in production).
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(cartID string) string {
	return keyPrefix + cartID
}

// Get reads all fields of the cart hash. An absent key is an absent cart.
// Fields whose value does not coerce to a positive integer are filtered out;
// if nothing remains the cart is treated as absent even though the hash key
// may still physically exist. A non-empty result refreshes the expiration.
func (s *CartStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.NotFound("cart", cartID)
	}

	key := cartKey(cartID)

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall cart: %w", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NotFound("cart", cartID)
	}

	items := make([]domain.CartItem, 0, len(fields))
	for productID, raw := range fields {
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		items = append(items, domain.CartItem{ProductID: productID, Quantity: qty})
	}
	if len(items) == 0 {
		return nil, apperrors.NotFound("cart", cartID)
	}

	// Redis hash iteration order is unspecified; sort for a stable render.
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis expire cart: %w", err)
	}

	return &domain.Cart{ID: cartID, Items: items}, nil
}

// AddItem atomically increments the product's quantity field, creating it at
// the given value if absent, then refreshes the expiration.
func (s *CartStore) AddItem(ctx context.Context, cartID, productID string, quantity int64) error {
	if cartID == "" || productID == "" {
		return apperrors.InvalidInput("cart id and product id are required")
	}
	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be greater than 0")
	}

	key := cartKey(cartID)

	if err := s.client.HIncrBy(ctx, key, productID, quantity).Err(); err != nil {
		return fmt.Errorf("redis hincrby cart item: %w", err)
	}

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire cart: %w", err)
	}

	return nil
}

// SetQuantity overwrites the product's quantity field with an absolute value.
// A non-positive quantity is equivalent to removal and must never be stored.
func (s *CartStore) SetQuantity(ctx context.Context, cartID, productID string, quantity int64) error {
	if cartID == "" || productID == "" {
		return apperrors.InvalidInput("cart id and product id are required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	key := cartKey(cartID)

	if err := s.client.HSet(ctx, key, productID, quantity).Err(); err != nil {
		return fmt.Errorf("redis hset cart item: %w", err)
	}

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire cart: %w", err)
	}

	return nil
}

// RemoveItem deletes the product's field. The expiration is refreshed only
// when a field was actually deleted, so removing an absent item is a no-op.
func (s *CartStore) RemoveItem(ctx context.Context, cartID, productID string) error {
	if cartID == "" || productID == "" {
		return apperrors.InvalidInput("cart id and product id are required")
	}

	key := cartKey(cartID)

	deleted, err := s.client.HDel(ctx, key, productID).Result()
	if err != nil {
		return fmt.Errorf("redis hdel cart item: %w", err)
	}

	if deleted > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis expire cart: %w", err)
		}
	}

	return nil
}

// Delete removes the whole cart hash. The session cookie is untouched; cookie
// lifecycle belongs to the transport layer so store operations stay
// composable and independently testable.
func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	if cartID == "" {
		return nil
	}

	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
