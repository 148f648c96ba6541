// Package contentful implements the product catalog against a Contentful
// Content Delivery API space.
package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/leonardoazeredo/ecomm-poc/internal/domain"
	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
	"github.com/leonardoazeredo/ecomm-poc/pkg/httpclient"
	"github.com/leonardoazeredo/ecomm-poc/pkg/slug"
)

const (
	// DefaultBaseURL is the Content Delivery API host.
	DefaultBaseURL = "https://cdn.contentful.com"

	productContentType = "product"
	serviceName        = "contentful"
)

// Config holds the settings needed to query one Contentful space.
type Config struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
}

// Client queries the Content Delivery API. Requests go through the shared
// retrying HTTP client wrapped in a circuit breaker, so a flapping CMS trips
// open instead of piling up retries on every page render.
type Client struct {
	cfg    Config
	http   *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewClient creates a catalog client for the given space.
func NewClient(cfg Config, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	return &Client{
		cfg:    cfg,
		http:   http,
		logger: logger,
	}
}

// entriesResponse is the CDA entry collection envelope. Asset fields on
// entries are links; the actual assets arrive in the includes block.
type entriesResponse struct {
	Total    int     `json:"total"`
	Items    []entry `json:"items"`
	Includes struct {
		Asset []asset `json:"Asset"`
	} `json:"includes"`
}

type entry struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Fields entryFields `json:"fields"`
}

type entryFields struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       float64         `json:"price"`
	ImageURL    *assetLink      `json:"imageUrl"`
	Description json.RawMessage `json:"description"`
}

type assetLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type asset struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

// assetIndex maps asset ID to its file URL for link resolution.
func (r *entriesResponse) assetIndex() map[string]string {
	idx := make(map[string]string, len(r.Includes.Asset))
	for _, a := range r.Includes.Asset {
		if a.Fields.File.URL != "" {
			idx[a.Sys.ID] = a.Fields.File.URL
		}
	}
	return idx
}

// normalizeImageURL rewrites protocol-relative URLs to explicit https. All
// other forms pass through unchanged.
func normalizeImageURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// transformEntry turns a raw CDA entry into a Product. Entries without a
// resolvable image URL are rejected: the image is required for every surface
// that renders a product, even though the source schema does not enforce it.
func (c *Client) transformEntry(e entry, assets map[string]string) (domain.Product, bool) {
	var imageURL string
	if e.Fields.ImageURL != nil {
		imageURL = assets[e.Fields.ImageURL.Sys.ID]
	}
	if imageURL == "" {
		c.logger.Warn("dropping product entry without a resolvable image",
			slog.String("entry_id", e.Sys.ID),
			slog.String("name", e.Fields.Name),
		)
		return domain.Product{}, false
	}

	p := domain.Product{
		ID:           e.Fields.ID,
		ContentfulID: e.Sys.ID,
		Slug:         e.Fields.Slug,
		Name:         e.Fields.Name,
		Price:        e.Fields.Price,
		ImageURL:     normalizeImageURL(imageURL),
		Description:  richTextToPlain(e.Fields.Description),
	}
	if p.ID == "" {
		p.ID = e.Sys.ID
	}
	if p.Name == "" {
		p.Name = "Unnamed Product"
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Name)
		if p.Slug == "" {
			p.Slug = e.Sys.ID
		}
	}
	return p, true
}

// getEntries performs one CDA query and decodes the collection envelope.
func (c *Client) getEntries(ctx context.Context, query url.Values) (*entriesResponse, error) {
	query.Set("content_type", productContentType)
	query.Set("include", "1")

	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.cfg.BaseURL, c.cfg.SpaceID, c.cfg.Environment, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Unavailable(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var out entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &out, nil
}

// transformAll maps and filters a whole response, best effort.
func (c *Client) transformAll(resp *entriesResponse) []domain.Product {
	assets := resp.assetIndex()
	products := make([]domain.Product, 0, len(resp.Items))
	for _, e := range resp.Items {
		if p, ok := c.transformEntry(e, assets); ok {
			products = append(products, p)
		}
	}
	return products
}

// All fetches every product in the space.
func (c *Client) All(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.getEntries(ctx, url.Values{})
	if err != nil {
		return nil, err
	}
	return c.transformAll(resp), nil
}

// BySlug fetches the single product whose slug field matches exactly.
func (c *Client) BySlug(ctx context.Context, s string) (*domain.Product, error) {
	if s == "" {
		return nil, apperrors.NotFound("product", s)
	}

	query := url.Values{}
	query.Set("fields.slug", s)
	query.Set("limit", "1")

	resp, err := c.getEntries(ctx, query)
	if err != nil {
		return nil, err
	}

	products := c.transformAll(resp)
	if len(products) == 0 {
		return nil, apperrors.NotFound("product", s)
	}
	return &products[0], nil
}

// ByIDs fetches the products whose catalog id field is in ids.
func (c *Client) ByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("fields.id[in]", strings.Join(ids, ","))
	query.Set("limit", strconv.Itoa(len(ids)))

	resp, err := c.getEntries(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.transformAll(resp), nil
}

// Carousel fetches a lightweight name+image projection for the home page.
func (c *Client) Carousel(ctx context.Context, limit int) ([]domain.CarouselItem, error) {
	if limit <= 0 {
		limit = 8
	}

	query := url.Values{}
	query.Set("select", "fields.name,fields.imageUrl")
	query.Set("limit", strconv.Itoa(limit))

	resp, err := c.getEntries(ctx, query)
	if err != nil {
		return nil, err
	}

	assets := resp.assetIndex()
	items := make([]domain.CarouselItem, 0, len(resp.Items))
	for _, e := range resp.Items {
		name := e.Fields.Name
		if name == "" {
			name = "Unnamed Product"
		}
		var imageURL string
		if e.Fields.ImageURL != nil {
			imageURL = assets[e.Fields.ImageURL.Sys.ID]
		}
		if imageURL == "" {
			c.logger.Warn("dropping carousel entry without a resolvable image",
				slog.String("entry_id", e.Sys.ID),
				slog.String("name", name),
			)
			continue
		}
		items = append(items, domain.CarouselItem{
			ImageURL:     normalizeImageURL(imageURL),
			Alt:          name,
			ContentfulID: e.Sys.ID,
		})
	}
	return items, nil
}
