package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"toolstore/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) CartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.db.GetContext(ctx, &c, `
	  SELECT id, user_id, total_items, total_amount, updated_at
	  FROM carts WHERE user_id = ?`, userID); err != nil {
		return nil, wrapErr(err)
	}
	c.Items = []domain.CartItem{}
	if err := r.db.SelectContext(ctx, &c.Items, `
	  SELECT product_id, name, image, price, quantity, category_id, category_name
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY position`, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCart replaces the stored cart with c in one transaction.
func (r *CartRepo) SaveCart(ctx context.Context, c *domain.Cart) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO carts(id,user_id,total_items,total_amount,updated_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		  total_items = excluded.total_items,
		  total_amount = excluded.total_amount,
		  updated_at = excluded.updated_at
	`, c.ID, c.UserID, c.TotalItems, c.TotalAmount, c.UpdatedAt.UTC()); err != nil {
		return wrapErr(err)
	}

	// Lines are rewritten wholesale; position keeps insertion order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, c.ID); err != nil {
		return err
	}
	for i, it := range c.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items(cart_id,position,product_id,name,image,price,quantity,category_id,category_name)
			VALUES(?,?,?,?,?,?,?,?,?)`,
			c.ID, i, it.ProductID, it.Name, it.Image, it.Price, it.Quantity, it.CategoryID, it.CategoryName); err != nil {
			return wrapErr(err)
		}
	}
	return tx.Commit()
}
