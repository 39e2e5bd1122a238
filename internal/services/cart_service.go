package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolstore/internal/domain"
	"toolstore/internal/metrics"
	"toolstore/internal/payment"
	"toolstore/internal/store"
)

type CartService struct {
	Carts    store.CartStore
	Payments payment.Orders
	Now      func() time.Time
}

func NewCartService(carts store.CartStore, payments payment.Orders) *CartService {
	return &CartService{Carts: carts, Payments: payments, Now: time.Now}
}

// AddItemInput is the client's snapshot of a product. Quantity defaults to 1.
type AddItemInput struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Quantity     *int    `json:"quantity"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
}

func (s *CartService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *CartService) save(ctx context.Context, c *domain.Cart, op string) error {
	c.UpdatedAt = s.now()
	if err := s.Carts.SaveCart(ctx, c); err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues(op).Inc()
	return nil
}

// existing loads the user's cart without creating one.
func (s *CartService) existing(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.Carts.CartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("cart not found")
	}
	if err != nil {
		return nil, err
	}
	c.Recalculate()
	return c, nil
}

// Get returns the user's cart, persisting an empty one on first access.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.Carts.CartByUser(ctx, userID)
	if err == nil {
		c.Recalculate()
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	c = domain.NewCart(uuid.NewString(), userID)
	if err := s.save(ctx, c, "create"); err != nil {
		// Lost a race with a concurrent first access; read the winner.
		if errors.Is(err, store.ErrDuplicate) {
			return s.existing(ctx, userID)
		}
		return nil, err
	}
	return c, nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error) {
	item := domain.CartItem{
		ProductID:    strings.TrimSpace(in.ProductID),
		Name:         strings.TrimSpace(in.Name),
		Image:        strings.TrimSpace(in.Image),
		Price:        in.Price,
		Quantity:     1,
		CategoryID:   strings.TrimSpace(in.CategoryID),
		CategoryName: strings.TrimSpace(in.CategoryName),
	}
	if item.ProductID == "" || item.Name == "" || item.Image == "" || item.Price <= 0 ||
		item.CategoryID == "" || item.CategoryName == "" {
		return nil, validation("missing required product information")
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, validation("quantity must be at least 1")
		}
		item.Quantity = *in.Quantity
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Add(item)
	if err := s.save(ctx, c, "add"); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets a line's quantity exactly.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, validation("quantity must be at least 1")
	}
	c, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(productID, qty) {
		return nil, notFound("item not found in cart")
	}
	if err := s.save(ctx, c, "update"); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem requires a cart but tolerates a missing line.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	c, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.save(ctx, c, "remove"); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.save(ctx, c, "clear"); err != nil {
		return nil, err
	}
	return c, nil
}

// Checkout opens a payment order for the cart total. The cart is left as is;
// nothing links the order back to stock.
func (s *CartService) Checkout(ctx context.Context, userID, currency string) (*payment.Order, error) {
	if s.Payments == nil {
		return nil, errors.New("payments are not configured")
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, validation("cart is empty")
	}
	ref := strings.ReplaceAll(c.ID, "-", "")
	if len(ref) > 12 {
		ref = ref[:12]
	}
	return s.Payments.CreateOrder(ctx, c.AmountSubunits(), currency, "cart_"+ref)
}
