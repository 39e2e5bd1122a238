package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"toolstore/internal/domain"
)

func (s *Store) CartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := findOne[domain.Cart](ctx, s.col(ColCarts), bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return c, nil
}

// SaveCart upserts the cart as one document, items included.
func (s *Store) SaveCart(ctx context.Context, c *domain.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.col(ColCarts).ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, c, opts)
	return wrapError(err)
}
