package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a snapshot of the product taken when it was added.
type CartItem struct {
	ProductID    string  `db:"product_id" json:"productId" bson:"product_id"`
	Name         string  `db:"name" json:"name" bson:"name"`
	Image        string  `db:"image" json:"image" bson:"image"`
	Price        float64 `db:"price" json:"price" bson:"price"`
	Quantity     int     `db:"quantity" json:"quantity" bson:"quantity"`
	CategoryID   string  `db:"category_id" json:"categoryId" bson:"category_id"`
	CategoryName string  `db:"category_name" json:"categoryName" bson:"category_name"`
}

// Cart is the per-user aggregate. TotalItems and TotalAmount are derived
// from Items and recomputed by every mutating method.
type Cart struct {
	ID          string     `db:"id" json:"id" bson:"_id"`
	UserID      string     `db:"user_id" json:"userId" bson:"user_id"`
	Items       []CartItem `db:"-" json:"items" bson:"items"`
	TotalItems  int        `db:"total_items" json:"totalItems" bson:"total_items"`
	TotalAmount float64    `db:"total_amount" json:"totalAmount" bson:"total_amount"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt" bson:"updated_at"`
}

func NewCart(id, userID string) *Cart {
	return &Cart{ID: id, UserID: userID, Items: []CartItem{}}
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges item into an existing line with the same product or appends it.
func (c *Cart) Add(item CartItem) {
	if i := c.find(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.Recalculate()
}

// SetQuantity sets the quantity of a line exactly. It reports false if the
// product is not in the cart.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = qty
	c.Recalculate()
	return true
}

// Remove drops the line for productID; absent products are ignored.
func (c *Cart) Remove(productID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.Recalculate()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate derives the totals from the line items.
func (c *Cart) Recalculate() {
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	items := 0
	amount := decimal.Zero
	for _, it := range c.Items {
		items += it.Quantity
		amount = amount.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.TotalItems = items
	c.TotalAmount = amount.InexactFloat64()
}

// AmountSubunits converts TotalAmount to the smallest currency unit (paise, cents).
func (c *Cart) AmountSubunits() int64 {
	return decimal.NewFromFloat(c.TotalAmount).Shift(2).Round(0).IntPart()
}
