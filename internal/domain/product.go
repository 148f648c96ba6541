package domain

// Product represents a catalog product as delivered by the content
// repository. Products are read-only: the CMS owns and versions them, the
// storefront never mutates one.
type Product struct {
	// ID is the catalog-stable identifier used as the cart hash field.
	ID string `json:"id"`
	// ContentfulID is the CMS-internal entry identifier.
	ContentfulID string `json:"contentful_id"`
	// Slug is the unique URL key for the product detail page.
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	// ImageURL is always absolute; protocol-relative URLs are normalized
	// at fetch time. A product without an image never reaches this type.
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
}

// CarouselItem is the lightweight projection used by the home page carousel.
type CarouselItem struct {
	ImageURL     string `json:"image_url"`
	Alt          string `json:"alt"`
	ContentfulID string `json:"contentful_id"`
}

// ProductIndex builds a lookup map keyed by catalog product ID.
func ProductIndex(products []Product) map[string]Product {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
