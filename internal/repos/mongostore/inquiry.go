package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"toolstore/internal/domain"
)

func (s *Store) CreateInquiry(ctx context.Context, q *domain.Inquiry) error {
	return insertOne(ctx, s.col(ColInquiries), q)
}

func (s *Store) ListInquiries(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	return findMany[domain.Inquiry](ctx, s.col(ColInquiries), bson.D{}, opts)
}

func (s *Store) ResolveInquiry(ctx context.Context, id string) error {
	_, err := s.col(ColInquiries).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "resolved", Value: true}}}})
	return wrapError(err)
}

func (s *Store) DeleteInquiry(ctx context.Context, id string) error {
	_, err := s.col(ColInquiries).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return wrapError(err)
}
