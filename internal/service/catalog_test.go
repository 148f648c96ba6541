package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
	"github.com/leonardoazeredo/ecomm-poc/pkg/pagination"
)

func listingFixture(n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:       string(rune('a' + i)),
			Name:     "Product",
			Price:    1,
			ImageURL: "https://x/p.png",
		}
	}
	return products
}

func TestListProducts_PaginatesInMemory(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("All", mock.Anything).Return(listingFixture(5), nil)
	svc := NewCatalogService(cat, newTestLogger())

	params := pagination.Params{Page: 2, PerPage: 2, Offset: 2}
	result := svc.ListProducts(context.Background(), params)

	assert.Equal(t, 5, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "c", result.Data[0].ID)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestListProducts_PageBeyondEnd(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("All", mock.Anything).Return(listingFixture(3), nil)
	svc := NewCatalogService(cat, newTestLogger())

	params := pagination.Params{Page: 9, PerPage: 20, Offset: 160}
	result := svc.ListProducts(context.Background(), params)

	assert.Empty(t, result.Data)
	assert.Equal(t, 3, result.TotalCount)
}

func TestListProducts_CatalogOutage_EmptyPage(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("All", mock.Anything).Return(nil, errors.New("timeout"))
	svc := NewCatalogService(cat, newTestLogger())

	result := svc.ListProducts(context.Background(), pagination.DefaultParams())

	assert.Empty(t, result.Data)
	assert.Zero(t, result.TotalCount)
}

func TestProductBySlug_Found(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("BySlug", mock.Anything, "bamboo-toothbrush").Return(&domain.Product{ID: "eco-101"}, nil)
	svc := NewCatalogService(cat, newTestLogger())

	product, err := svc.ProductBySlug(context.Background(), "bamboo-toothbrush")

	require.NoError(t, err)
	assert.Equal(t, "eco-101", product.ID)
}

func TestProductBySlug_OutageTreatedAsNotFound(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("BySlug", mock.Anything, "x").Return(nil, apperrors.Unavailable("contentful", errors.New("timeout")))
	svc := NewCatalogService(cat, newTestLogger())

	product, err := svc.ProductBySlug(context.Background(), "x")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCarousel_OutageYieldsEmpty(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("Carousel", mock.Anything, 8).Return(nil, errors.New("timeout"))
	svc := NewCatalogService(cat, newTestLogger())

	assert.Empty(t, svc.Carousel(context.Background(), 8))
}

func TestCarousel_PassesThrough(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("Carousel", mock.Anything, 4).Return([]domain.CarouselItem{
		{ImageURL: "https://x/a.png", Alt: "A", ContentfulID: "cf-1"},
	}, nil)
	svc := NewCatalogService(cat, newTestLogger())

	items := svc.Carousel(context.Background(), 4)

	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Alt)
}
