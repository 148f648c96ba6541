// Package catalog defines the read-only product catalog consumed by the
// storefront. The catalog is owned by an external content repository; this
// package only describes how the storefront queries it.
package catalog

import (
	"context"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
)

// Catalog is the query surface of the external content repository. All
// methods return normalized products: malformed records (no resolvable
// image) are dropped before they reach a caller.
type Catalog interface {
	// All fetches every product in the catalog.
	All(ctx context.Context) ([]domain.Product, error)

	// BySlug fetches the single product matching the unique slug.
	// Returns apperrors.ErrNotFound when no product matches.
	BySlug(ctx context.Context, slug string) (*domain.Product, error)

	// ByIDs fetches the products whose catalog ID is in ids. An empty id
	// set short-circuits to an empty result without a network call. IDs
	// with no matching product are silently omitted from the result.
	ByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// Carousel fetches up to limit display-only records for the home page.
	Carousel(ctx context.Context, limit int) ([]domain.CarouselItem, error)
}
