package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	"github.com/leonardoazeredo/ecomm-poc/internal/service"
	"github.com/leonardoazeredo/ecomm-poc/internal/session"
	"github.com/leonardoazeredo/ecomm-poc/pkg/pagination"
)

//go:embed templates/*.html
var templatesFS embed.FS

// carouselSize is how many products the home page carousel shows.
const carouselSize = 8

var templateFuncs = template.FuncMap{
	"price": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// pageTemplates parses each page together with the shared layout so pages
// can reuse the header and footer definitions without clobbering each other.
func pageTemplates() (map[string]*template.Template, error) {
	pages := []string{"home.html", "products.html", "product.html", "cart.html", "notfound.html"}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templatesFS,
			"templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

// --- Page data ---

type basePage struct {
	Title     string
	ItemCount int64
}

type homePage struct {
	basePage
	Carousel []domain.CarouselItem
}

type productsPage struct {
	basePage
	Products pagination.Result[domain.Product]
}

type productPage struct {
	basePage
	Product domain.Product
}

type cartPage struct {
	basePage
	View *service.CartView
}

type notFoundPage struct {
	basePage
	Resource string
}

// PageHandler renders the HTML storefront. Rendering is strictly read-only:
// no page handler ever creates a cart or writes the session cookie.
type PageHandler struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	sessions  *session.Manager
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewPageHandler creates the page handler, parsing the embedded templates.
func NewPageHandler(catalog *service.CatalogService, cart *service.CartService, sessions *session.Manager, logger *slog.Logger) (*PageHandler, error) {
	templates, err := pageTemplates()
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		catalog:   catalog,
		cart:      cart,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}, nil
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := homePage{
		basePage: h.base(r, "Home"),
		Carousel: h.catalog.Carousel(r.Context(), carouselSize),
	}
	h.render(w, r, http.StatusOK, "home.html", data)
}

// Products handles GET /products.
func (h *PageHandler) Products(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	data := productsPage{
		basePage: h.base(r, "Products"),
		Products: h.catalog.ListProducts(r.Context(), params),
	}
	h.render(w, r, http.StatusOK, "products.html", data)
}

// ProductDetail handles GET /products/{slug}.
func (h *PageHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		h.renderNotFound(w, r, "product")
		return
	}

	data := productPage{
		basePage: h.base(r, product.Name),
		Product:  *product,
	}
	h.render(w, r, http.StatusOK, "product.html", data)
}

// Cart handles GET /cart. Visiting the cart page with no cookie renders an
// empty cart without creating one.
func (h *PageHandler) Cart(w http.ResponseWriter, r *http.Request) {
	cartID := h.sessions.Resolve(r)

	view, err := h.cart.ViewCart(r.Context(), cartID)
	if err != nil {
		// The store is down; show an empty cart rather than an error page.
		h.logger.ErrorContext(r.Context(), "failed to load cart page",
			slog.String("error", err.Error()),
		)
		view = &service.CartView{CartID: cartID, Items: nil}
	}

	data := cartPage{
		basePage: basePage{Title: "Your Cart", ItemCount: view.ItemCount},
		View:     view,
	}
	h.render(w, r, http.StatusOK, "cart.html", data)
}

// NotFound handles unmatched routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r, "page")
}

// --- Helpers ---

// base builds the fields every page shares. The header cart badge is best
// effort: a store failure renders as zero, not an error page.
func (h *PageHandler) base(r *http.Request, title string) basePage {
	page := basePage{Title: title}

	cartID := h.sessions.Resolve(r)
	if cartID == "" {
		return page
	}
	cart, err := h.cart.GetCart(r.Context(), cartID)
	if err != nil {
		return page
	}
	page.ItemCount = cart.ItemCount()
	return page
}

func (h *PageHandler) renderNotFound(w http.ResponseWriter, r *http.Request, resource string) {
	data := notFoundPage{
		basePage: h.base(r, "Not Found"),
		Resource: resource,
	}
	h.render(w, r, http.StatusNotFound, "notfound.html", data)
}

// render executes into a buffer first so a template failure can still
// produce a clean 500 instead of a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template render failed",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
