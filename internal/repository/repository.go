package repository

import (
	"context"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
)

// CartStore defines the persistence operations for session carts. The cart is
// stored as one hash per session token with a field per product ID; every
// operation below maps to a single atomic store primitive, so there is no
// cross-field consistency guarantee and none is needed.
type CartStore interface {
	// Get reads the whole cart. A missing key, or a cart whose every field
	// coerces to a non-positive quantity, yields apperrors.ErrNotFound.
	// A non-empty read refreshes the cart's expiration.
	Get(ctx context.Context, cartID string) (*domain.Cart, error)

	// AddItem atomically increments the quantity for productID by quantity,
	// creating the field if absent, and refreshes the expiration.
	AddItem(ctx context.Context, cartID, productID string, quantity int64) error

	// SetQuantity overwrites the quantity for productID. A quantity <= 0
	// delegates to RemoveItem. Refreshes the expiration.
	SetQuantity(ctx context.Context, cartID, productID string, quantity int64) error

	// RemoveItem deletes the field for productID. The expiration is
	// refreshed only when a field was actually deleted.
	RemoveItem(ctx context.Context, cartID, productID string) error

	// Delete removes the entire cart. Clearing the session cookie is the
	// caller's responsibility.
	Delete(ctx context.Context, cartID string) error
}
