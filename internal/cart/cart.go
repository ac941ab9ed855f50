package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmagtibay/tindera-backend/pkg/money"
)

// Line is one product's staged quantity prior to checkout. UnitPrice is
// snapshotted when the product first enters the cart so arithmetic stays
// stable for the rest of the session.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Cart is the session-scoped staging area for a sale. Lines keep insertion
// order so the commit pipeline walks them deterministically.
type Cart struct {
	Lines []Line `json:"lines"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Lines: []Line{}}
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID uuid.UUID) int {
	if c == nil {
		return -1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Quantity returns the staged quantity for productID (0 when absent).
func (c *Cart) Quantity(productID uuid.UUID) int {
	if i := c.Find(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

func (c *Cart) setLine(productID uuid.UUID, name string, unitPrice decimal.Decimal, quantity int) {
	line := Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Subtotal:  money.LineSubtotal(unitPrice, quantity),
	}
	if i := c.Find(productID); i >= 0 {
		c.Lines[i] = line
		return
	}
	c.Lines = append(c.Lines, line)
}

func (c *Cart) removeLine(productID uuid.UUID) {
	if i := c.Find(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Subtotal returns round(sum of line subtotals, 2).
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	if c == nil {
		return sum
	}
	for i := range c.Lines {
		sum = sum.Add(c.Lines[i].Subtotal)
	}
	return money.Round(sum)
}

// Tax returns round(subtotal * rate / 100, 2) for a percentage rate.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return money.TaxAmount(c.Subtotal(), rate)
}

// Total returns round(subtotal + tax, 2).
func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	subtotal := c.Subtotal()
	return money.Round(subtotal.Add(money.TaxAmount(subtotal, rate)))
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	if c == nil {
		return count
	}
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}
