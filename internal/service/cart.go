package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leonardoazeredo/ecomm-poc/internal/catalog"
	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	"github.com/leonardoazeredo/ecomm-poc/internal/event"
	"github.com/leonardoazeredo/ecomm-poc/internal/repository"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
)

// MaxQuantityPerItem is the upper bound for a single cart line, an abuse
// guard rather than an inventory constraint.
const MaxQuantityPerItem = 100

// CartView is the display-ready cart: raw lines joined with live catalog
// data. It is derived on every request and never persisted.
type CartView struct {
	CartID     string                   `json:"cart_id"`
	Items      []domain.CartItemDetails `json:"items"`
	ItemCount  int64                    `json:"item_count"`
	GrandTotal float64                  `json:"grand_total"`
}

// CartService implements the business logic for cart operations. All store
// failures other than a missing cart are wrapped as Unavailable so the
// transport layer can map them to a generic retry-suggesting message.
type CartService struct {
	store    repository.CartStore
	catalog  catalog.Catalog
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store repository.CartStore, cat catalog.Catalog, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		store:    store,
		catalog:  cat,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session token. A missing token or an
// absent cart yields an empty cart, not an error.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return &domain.Cart{Items: []domain.CartItem{}}, nil
	}

	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{ID: cartID, Items: []domain.CartItem{}}, nil
		}
		return nil, apperrors.Unavailable("cart store", err)
	}

	return cart, nil
}

// ViewCart joins the raw cart against the live catalog. A catalog outage
// degrades to a view with no resolvable lines instead of failing the page;
// lines whose product has left the catalog are dropped and logged.
func (s *CartService) ViewCart(ctx context.Context, cartID string) (*CartView, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID:    cart.ID,
		Items:     []domain.CartItemDetails{},
		ItemCount: cart.ItemCount(),
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	products, err := s.catalog.ByIDs(ctx, cart.ProductIDs())
	if err != nil {
		s.logger.WarnContext(ctx, "catalog unavailable, rendering cart without product details",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
		return view, nil
	}

	details, missing := domain.EnrichCart(cart, products)
	if len(missing) > 0 {
		s.logger.WarnContext(ctx, "dropping cart lines for products no longer in the catalog",
			slog.String("cart_id", cart.ID),
			slog.Any("product_ids", missing),
		)
	}
	if details != nil {
		view.Items = details
	}
	view.GrandTotal = domain.GrandTotal(details)

	return view, nil
}

// AddItem increments the quantity for a product in the session's cart,
// creating the line when absent.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int64) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	if err := s.store.AddItem(ctx, cartID, productID, quantity); err != nil {
		return nil, s.storeError(err)
	}

	cart := s.cartForEvent(ctx, cartID)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("cart_id", cartID),
		slog.String("product_id", productID),
		slog.Int64("quantity", quantity),
	)

	return cart, nil
}

// UpdateQuantity overwrites the quantity for a product. A quantity of 0
// removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int64) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	if err := s.store.SetQuantity(ctx, cartID, productID, quantity); err != nil {
		return nil, s.storeError(err)
	}

	cart := s.cartForEvent(ctx, cartID)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("cart_id", cartID),
		slog.String("product_id", productID),
		slog.Int64("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem deletes a product line from the cart. Removing an absent line
// succeeds silently.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if err := s.store.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, s.storeError(err)
	}

	cart := s.cartForEvent(ctx, cartID)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("cart_id", cartID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart deletes the whole cart record. The session cookie is cleared by
// the transport layer, not here.
func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return apperrors.InvalidInput("cart id is required")
	}

	if err := s.store.Delete(ctx, cartID); err != nil {
		return s.storeError(err)
	}

	if err := s.producer.PublishCartCleared(ctx, cartID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("cart_id", cartID),
	)

	return nil
}

// storeError passes validation errors through and wraps everything else as
// a store outage.
func (s *CartService) storeError(err error) error {
	if errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return apperrors.Unavailable("cart store", err)
}

// cartForEvent re-reads the cart after a mutation for the event payload. A
// read failure degrades to an empty cart; the mutation itself already
// succeeded.
func (s *CartService) cartForEvent(ctx context.Context, cartID string) *domain.Cart {
	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to re-read cart after mutation",
				slog.String("cart_id", cartID),
				slog.String("error", err.Error()),
			)
		}
		return &domain.Cart{ID: cartID, Items: []domain.CartItem{}}
	}
	return cart
}

// publishUpdated emits cart.updated; failures are logged, never surfaced.
func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}
}
