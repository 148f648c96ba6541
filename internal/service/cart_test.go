package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	"github.com/leonardoazeredo/ecomm-poc/internal/event"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
	pkgkafka "github.com/leonardoazeredo/ecomm-poc/pkg/kafka"
)

// --- Mock Store ---

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartStore) AddItem(ctx context.Context, cartID, productID string, quantity int64) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *mockCartStore) SetQuantity(ctx context.Context, cartID, productID string, quantity int64) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *mockCartStore) RemoveItem(ctx context.Context, cartID, productID string) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *mockCartStore) Delete(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// --- Mock Catalog ---

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) All(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalog) BySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) ByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalog) Carousel(ctx context.Context, limit int) ([]domain.CarouselItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarouselItem), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(store *mockCartStore, cat *mockCatalog) *CartService {
	logger := newTestLogger()
	// Publishing fails silently in tests (no real broker); the service must
	// treat that as non-fatal.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaCfg.BatchTimeout = time.Millisecond
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return NewCartService(store, cat, producer, logger)
}

func storedCart(cartID string) *domain.Cart {
	return &domain.Cart{
		ID: cartID,
		Items: []domain.CartItem{
			{ProductID: "eco-101", Quantity: 2},
			{ProductID: "eco-102", Quantity: 1},
		},
	}
}

// --- GetCart ---

func TestGetCart_EmptyToken_ReturnsEmptyCartWithoutStoreCall(t *testing.T) {
	store := new(mockCartStore)
	svc := newTestService(store, new(mockCatalog))

	cart, err := svc.GetCart(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	store.AssertNotCalled(t, "Get")
}

func TestGetCart_AbsentCart_ReturnsEmptyCart(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(nil, apperrors.NotFound("cart", "cart-1"))
	svc := newTestService(store, new(mockCatalog))

	cart, err := svc.GetCart(context.Background(), "cart-1")

	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Empty(t, cart.Items)
}

func TestGetCart_StoreFailure_Unavailable(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(nil, errors.New("connection refused"))
	svc := newTestService(store, new(mockCatalog))

	cart, err := svc.GetCart(context.Background(), "cart-1")

	assert.Nil(t, cart)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

// --- ViewCart ---

func TestViewCart_JoinsCatalogData(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	cat := new(mockCatalog)
	cat.On("ByIDs", mock.Anything, []string{"eco-101", "eco-102"}).Return([]domain.Product{
		{ID: "eco-101", Name: "Bamboo Toothbrush", Price: 4.50, ImageURL: "https://x/brush.png"},
		{ID: "eco-102", Name: "Reusable Bottle", Price: 18.00, ImageURL: "https://x/bottle.png"},
	}, nil)

	svc := newTestService(store, cat)

	view, err := svc.ViewCart(context.Background(), "cart-1")

	require.NoError(t, err)
	assert.Equal(t, "cart-1", view.CartID)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(3), view.ItemCount)
	assert.InDelta(t, 27.00, view.GrandTotal, 1e-9)
	assert.InDelta(t, 9.00, view.Items[0].LineTotal, 1e-9)
}

func TestViewCart_EmptyCart(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(nil, apperrors.NotFound("cart", "cart-1"))
	cat := new(mockCatalog)
	svc := newTestService(store, cat)

	view, err := svc.ViewCart(context.Background(), "cart-1")

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.GrandTotal)
	cat.AssertNotCalled(t, "ByIDs")
}

func TestViewCart_CatalogOutage_DegradesToEmptyLines(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	cat := new(mockCatalog)
	cat.On("ByIDs", mock.Anything, mock.Anything).Return(nil, apperrors.Unavailable("contentful", errors.New("timeout")))

	svc := newTestService(store, cat)

	view, err := svc.ViewCart(context.Background(), "cart-1")

	require.NoError(t, err, "a catalog outage must not fail the page")
	assert.Empty(t, view.Items)
	assert.Zero(t, view.GrandTotal)
	// The raw count is still known from the store.
	assert.Equal(t, int64(3), view.ItemCount)
}

func TestViewCart_DropsLinesMissingFromCatalog(t *testing.T) {
	store := new(mockCartStore)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	cat := new(mockCatalog)
	cat.On("ByIDs", mock.Anything, mock.Anything).Return([]domain.Product{
		{ID: "eco-101", Name: "Bamboo Toothbrush", Price: 10.00, ImageURL: "https://x/brush.png"},
	}, nil)

	svc := newTestService(store, cat)

	view, err := svc.ViewCart(context.Background(), "cart-1")

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "eco-101", view.Items[0].ProductID)
	assert.InDelta(t, 20.00, view.GrandTotal, 1e-9)
}

// --- AddItem ---

func TestAddItem_Success(t *testing.T) {
	store := new(mockCartStore)
	store.On("AddItem", mock.Anything, "cart-1", "eco-101", int64(2)).Return(nil)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	svc := newTestService(store, new(mockCatalog))

	cart, err := svc.AddItem(context.Background(), "cart-1", "eco-101", 2)

	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	store.AssertExpectations(t)
}

func TestAddItem_Validation(t *testing.T) {
	svc := newTestService(new(mockCartStore), new(mockCatalog))
	ctx := context.Background()

	tests := []struct {
		name      string
		cartID    string
		productID string
		quantity  int64
	}{
		{"missing cart id", "", "eco-101", 1},
		{"missing product id", "cart-1", "", 1},
		{"zero quantity", "cart-1", "eco-101", 0},
		{"negative quantity", "cart-1", "eco-101", -3},
		{"excessive quantity", "cart-1", "eco-101", MaxQuantityPerItem + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, tt.cartID, tt.productID, tt.quantity)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestAddItem_StoreFailure_Unavailable(t *testing.T) {
	store := new(mockCartStore)
	store.On("AddItem", mock.Anything, "cart-1", "eco-101", int64(1)).Return(errors.New("broken pipe"))

	svc := newTestService(store, new(mockCatalog))

	_, err := svc.AddItem(context.Background(), "cart-1", "eco-101", 1)

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

// --- UpdateQuantity ---

func TestUpdateQuantity_Success(t *testing.T) {
	store := new(mockCartStore)
	store.On("SetQuantity", mock.Anything, "cart-1", "eco-101", int64(5)).Return(nil)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	svc := newTestService(store, new(mockCatalog))

	_, err := svc.UpdateQuantity(context.Background(), "cart-1", "eco-101", 5)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	store := new(mockCartStore)
	store.On("SetQuantity", mock.Anything, "cart-1", "eco-101", int64(0)).Return(nil)
	store.On("Get", mock.Anything, "cart-1").Return(nil, apperrors.NotFound("cart", "cart-1"))

	svc := newTestService(store, new(mockCatalog))

	cart, err := svc.UpdateQuantity(context.Background(), "cart-1", "eco-101", 0)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_NegativeRejected(t *testing.T) {
	svc := newTestService(new(mockCartStore), new(mockCatalog))

	_, err := svc.UpdateQuantity(context.Background(), "cart-1", "eco-101", -1)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- RemoveItem ---

func TestRemoveItem_Success(t *testing.T) {
	store := new(mockCartStore)
	store.On("RemoveItem", mock.Anything, "cart-1", "eco-101").Return(nil)
	store.On("Get", mock.Anything, "cart-1").Return(storedCart("cart-1"), nil)

	svc := newTestService(store, new(mockCatalog))

	_, err := svc.RemoveItem(context.Background(), "cart-1", "eco-101")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRemoveItem_MissingProductID(t *testing.T) {
	svc := newTestService(new(mockCartStore), new(mockCatalog))

	_, err := svc.RemoveItem(context.Background(), "cart-1", "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- ClearCart ---

func TestClearCart_Success(t *testing.T) {
	store := new(mockCartStore)
	store.On("Delete", mock.Anything, "cart-1").Return(nil)

	svc := newTestService(store, new(mockCatalog))

	require.NoError(t, svc.ClearCart(context.Background(), "cart-1"))
	store.AssertExpectations(t)
}

func TestClearCart_StoreFailure_Unavailable(t *testing.T) {
	store := new(mockCartStore)
	store.On("Delete", mock.Anything, "cart-1").Return(errors.New("connection refused"))

	svc := newTestService(store, new(mockCatalog))

	err := svc.ClearCart(context.Background(), "cart-1")

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}
