package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leonardoazeredo/ecomm-poc/internal/catalog"
	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
	"github.com/leonardoazeredo/ecomm-poc/pkg/pagination"
)

// CatalogService adapts the raw catalog client for page rendering: listing
// pages get in-memory pagination and every read degrades gracefully so a
// catalog outage never fails a page.
type CatalogService struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(cat catalog.Catalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: cat,
		logger:  logger,
	}
}

// ListProducts returns one page of the catalog. The CMS collection is small
// enough to fetch whole, so paging is applied in memory. A fetch failure
// degrades to an empty page.
func (s *CatalogService) ListProducts(ctx context.Context, params pagination.Params) pagination.Result[domain.Product] {
	products, err := s.catalog.All(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog unavailable, rendering empty product listing",
			slog.String("error", err.Error()),
		)
		return pagination.NewResult([]domain.Product{}, 0, params)
	}

	total := len(products)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	return pagination.NewResult(products[start:end], total, params)
}

// ProductBySlug resolves one product for the detail page. Both a genuine
// miss and a fetch failure surface as NotFound: an absent product page is
// the degraded rendering either way.
func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.catalog.BySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "catalog unavailable, treating product as not found",
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperrors.NotFound("product", slug)
	}
	return product, nil
}

// Carousel returns the home page carousel items, empty on failure.
func (s *CatalogService) Carousel(ctx context.Context, limit int) []domain.CarouselItem {
	items, err := s.catalog.Carousel(ctx, limit)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog unavailable, rendering empty carousel",
			slog.String("error", err.Error()),
		)
		return []domain.CarouselItem{}
	}
	return items
}
