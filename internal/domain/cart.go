package domain

// CartItem is one product entry within a cart.
// Quantity is always >= 1; a quantity of zero or less means the item is
// absent and must never be stored.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Cart is the server-side record of chosen products tied to a session token.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// ProductIDs returns the distinct product IDs in the cart, preserving item order.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ItemCount returns the total number of units in the cart (the header badge).
func (c *Cart) ItemCount() int64 {
	var count int64
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItemDetails is a cart line joined with live catalog data. It is derived
// at render time and never persisted.
type CartItemDetails struct {
	CartItem
	Product   Product `json:"product"`
	LineTotal float64 `json:"line_total"`
}

// EnrichCart joins the raw cart against the supplied catalog products,
// producing display-ready line items. Lines whose product is not present in
// the product list are dropped; the caller decides whether to log them via
// the returned slice of missing IDs. The output preserves the cart's item
// ordering.
func EnrichCart(cart *Cart, products []Product) (details []CartItemDetails, missing []string) {
	if cart == nil || len(cart.Items) == 0 || len(products) == 0 {
		return nil, nil
	}

	idx := ProductIndex(products)

	for _, item := range cart.Items {
		product, ok := idx[item.ProductID]
		if !ok {
			missing = append(missing, item.ProductID)
			continue
		}
		details = append(details, CartItemDetails{
			CartItem:  item,
			Product:   product,
			LineTotal: product.Price * float64(item.Quantity),
		})
	}

	return details, missing
}

// GrandTotal sums the line totals of the enriched cart. An empty or
// fully-dropped cart yields 0.
func GrandTotal(details []CartItemDetails) float64 {
	var total float64
	for _, d := range details {
		total += d.LineTotal
	}
	return total
}
