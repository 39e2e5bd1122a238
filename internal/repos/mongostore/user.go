package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"toolstore/internal/domain"
	"toolstore/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return insertOne(ctx, s.col(ColUsers), u)
}

func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return findOne[domain.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) UserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return findOne[domain.User](ctx, s.col(ColUsers), bson.D{{Key: "phone", Value: phone}})
}

// UpdateUser replaces the whole document; omitempty drops cleared contacts
// so the sparse indexes stay consistent.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.col(ColUsers).ReplaceOne(ctx, bson.D{{Key: "_id", Value: u.ID}}, u)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[domain.User](ctx, s.col(ColUsers), bson.D{}, opts)
}

func (s *Store) PromoteAdmins(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	filter := bson.D{
		{Key: "email", Value: bson.D{{Key: "$in", Value: emails}}},
		{Key: "role", Value: bson.D{{Key: "$ne", Value: domain.RoleAdmin}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "role", Value: domain.RoleAdmin},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	res, err := s.col(ColUsers).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, wrapError(err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) CreatePending(ctx context.Context, p *domain.PendingUser) error {
	return insertOne(ctx, s.col(ColPendingUsers), p)
}

func (s *Store) PendingByID(ctx context.Context, id string) (*domain.PendingUser, error) {
	return findOne[domain.PendingUser](ctx, s.col(ColPendingUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) PendingByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	return findOne[domain.PendingUser](ctx, s.col(ColPendingUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) PendingByPhone(ctx context.Context, phone string) (*domain.PendingUser, error) {
	return findOne[domain.PendingUser](ctx, s.col(ColPendingUsers), bson.D{{Key: "phone", Value: phone}})
}

func (s *Store) UpdatePendingVerification(ctx context.Context, id string, v domain.Verification) error {
	return updateFields(ctx, s.col(ColPendingUsers), id, bson.D{{Key: "verification", Value: v}})
}

func (s *Store) DeletePending(ctx context.Context, id string) error {
	_, err := s.col(ColPendingUsers).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return wrapError(err)
}

func (s *Store) DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.col(ColPendingUsers).DeleteMany(ctx, bson.D{
		{Key: "verification.expires_at", Value: bson.D{{Key: "$lt", Value: now}}},
	})
	if err != nil {
		return 0, wrapError(err)
	}
	return res.DeletedCount, nil
}
