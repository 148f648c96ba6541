package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leonardoazeredo/ecomm-poc/internal/service"
	"github.com/leonardoazeredo/ecomm-poc/internal/session"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
	"github.com/leonardoazeredo/ecomm-poc/pkg/httputil"
	"github.com/leonardoazeredo/ecomm-poc/pkg/validator"
)

// CartHandler handles the cart action endpoints. Every response uses the
// uniform action result shape the page scripts consume; a store outage maps
// to success:false with a generic retry message, never a raw fault.
type CartHandler struct {
	service  *service.CartService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, sessions *session.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service:  svc,
		sessions: sessions,
		logger:   logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for setting an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"gte=0"`
}

// --- Action result ---

// actionResult is the uniform response for cart actions.
type actionResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   *actionError `json:"error,omitempty"`
	CartID  string       `json:"cartId,omitempty"`
	Data    any          `json:"data,omitempty"`
}

type actionError struct {
	FormErrors []string `json:"formErrors"`
}

// --- Handlers ---

// GetCart handles GET /api/cart. It is read-only: a browser without a cart
// cookie gets an empty view and no cookie is issued.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := h.sessions.Resolve(r)

	view, err := h.service.ViewCart(r.Context(), cartID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: "cart retrieved",
		CartID:  cartID,
		Data:    view,
	})
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFormErrors(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	// The session cookie is only ever written by mutating actions.
	cartID := h.sessions.Ensure(w, r)

	cart, err := h.service.AddItem(r.Context(), cartID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: "item added to cart",
		CartID:  cart.ID,
	})
}

// UpdateItemQuantity handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		h.writeFormErrors(w, http.StatusBadRequest, "invalid request", []string{"productId is required"})
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFormErrors(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	cartID := h.sessions.Ensure(w, r)

	cart, err := h.service.UpdateQuantity(r.Context(), cartID, productID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: "cart updated",
		CartID:  cart.ID,
	})
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		h.writeFormErrors(w, http.StatusBadRequest, "invalid request", []string{"productId is required"})
		return
	}

	cartID := h.sessions.Ensure(w, r)

	cart, err := h.service.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: "item removed from cart",
		CartID:  cart.ID,
	})
}

// ClearCart handles DELETE /api/cart. It also expires the session cookie, so
// the browser starts over with a fresh cart on the next add.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := h.sessions.Resolve(r)
	if cartID == "" {
		// Nothing to clear.
		httputil.WriteJSON(w, http.StatusOK, actionResult{Success: true, Message: "cart cleared"})
		return
	}

	if err := h.service.ClearCart(r.Context(), cartID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sessions.Clear(w)

	httputil.WriteJSON(w, http.StatusOK, actionResult{Success: true, Message: "cart cleared"})
}

// --- Helpers ---

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		var appErr *apperrors.AppError
		msg := "invalid input"
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		h.writeFormErrors(w, http.StatusBadRequest, "invalid input", []string{msg})

	case errors.Is(err, apperrors.ErrUnavailable):
		h.logger.ErrorContext(r.Context(), "cart action failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, actionResult{
			Success: false,
			Message: "something went wrong, please try again",
		})

	default:
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, actionResult{
			Success: false,
			Message: "something went wrong, please try again",
		})
	}
}

func (h *CartHandler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		fields := valErr.Fields()
		formErrors := make([]string, 0, len(fields))
		for field, msg := range fields {
			formErrors = append(formErrors, field+": "+msg)
		}
		h.writeFormErrors(w, http.StatusBadRequest, "request validation failed", formErrors)
		return
	}

	h.writeFormErrors(w, http.StatusBadRequest, "request validation failed", []string{err.Error()})
}

func (h *CartHandler) writeFormErrors(w http.ResponseWriter, status int, message string, formErrors []string) {
	httputil.WriteJSON(w, status, actionResult{
		Success: false,
		Message: message,
		Error:   &actionError{FormErrors: formErrors},
	})
}
