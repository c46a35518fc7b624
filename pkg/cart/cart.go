// Package cart holds a shopper's line items, keeps a persisted mirror of
// them in a Backend and notifies listeners after every change.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// StorageKey is the slot the cart snapshot is written under.
const StorageKey = "cart-storage"

// LineItem is one product or variant the shopper intends to buy.
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	VariantID   string          `json:"variantId,omitempty"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Quantity    int             `json:"quantity"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	MaxQuantity int             `json:"maxQuantity,omitempty"`
}

// Subtotal returns price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Candidate is a line item without a quantity, as passed to AddItem.
// ID is used as the merge key verbatim.
type Candidate struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	VariantID   string          `json:"variantId,omitempty"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	MaxQuantity int             `json:"maxQuantity,omitempty"`
}

// NewCandidate builds a Candidate whose ID is the variant id when one is
// given and the product id otherwise.
func NewCandidate(productID, variantID, name, slug string, price decimal.Decimal, currency string) Candidate {
	id := productID
	if variantID != "" {
		id = variantID
	}
	return Candidate{
		ID:        id,
		ProductID: productID,
		VariantID: variantID,
		Name:      name,
		Slug:      slug,
		Price:     price,
		Currency:  currency,
	}
}

func (c Candidate) lineItem(quantity int) LineItem {
	return LineItem{
		ID:          c.ID,
		ProductID:   c.ProductID,
		VariantID:   c.VariantID,
		Name:        c.Name,
		Slug:        c.Slug,
		Price:       c.Price,
		Currency:    c.Currency,
		Quantity:    quantity,
		Thumbnail:   c.Thumbnail,
		MaxQuantity: c.MaxQuantity,
	}
}

// Snapshot is an immutable view of the cart handed to listeners.
type Snapshot struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Listener is called after every mutation with the new state.
type Listener func(Snapshot)

// Backend stores the serialized cart.
type Backend interface {
	// Load returns the stored snapshot or ErrNotFound if the slot is empty.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

var (
	// ErrNotFound indicates the backend holds no snapshot.
	ErrNotFound = errors.New("cart snapshot not found")
	// ErrVersion indicates a snapshot written in an incompatible format.
	ErrVersion = errors.New("unsupported cart snapshot version")
)

// TotalItems sums the quantities of items.
func TotalItems(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums price times quantity over items, ignoring currency.
func TotalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
