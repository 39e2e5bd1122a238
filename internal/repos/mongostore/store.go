// Package mongostore implements store.Store on MongoDB.
//
// Documents are (de)serialized through the bson tags on the domain types.
// Collection names and indexes are managed in ensureIndexes.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	applog "toolstore/internal/log"
	"toolstore/internal/store"
)

const (
	ColUsers         = "users"
	ColPendingUsers  = "pending_users"
	ColCategories    = "categories"
	ColSubcategories = "subcategories"
	ColProducts      = "products"
	ColCarts         = "carts"
	ColInquiries     = "inquiries"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// NewStore connects, pings, ensures indexes and seeds an empty catalog.
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("mongostore: ensure indexes: %w", err)
	}
	if err := s.seedIfEmpty(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("mongostore: seed: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
		sparse bool
	}

	indexes := []idx{
		// email/phone are optional but unique when present
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true, true},
		{ColUsers, bson.D{{Key: "phone", Value: 1}}, true, true},
		{ColUsers, bson.D{{Key: "created_at", Value: -1}}, false, false},

		{ColPendingUsers, bson.D{{Key: "email", Value: 1}}, true, true},
		{ColPendingUsers, bson.D{{Key: "phone", Value: 1}}, true, true},
		{ColPendingUsers, bson.D{{Key: "verification.expires_at", Value: 1}}, false, false},

		{ColCategories, bson.D{{Key: "name", Value: 1}}, true, false},

		{ColSubcategories, bson.D{{Key: "category_id", Value: 1}, {Key: "name", Value: 1}}, true, false},

		{ColProducts, bson.D{{Key: "category_id", Value: 1}}, false, false},
		{ColProducts, bson.D{{Key: "subcategory", Value: 1}}, false, false},
		{ColProducts, bson.D{{Key: "created_at", Value: -1}}, false, false},

		{ColCarts, bson.D{{Key: "user_id", Value: 1}}, true, false},

		{ColInquiries, bson.D{{Key: "created_at", Value: -1}}, false, false},
	}

	for _, i := range indexes {
		opts := options.Index()
		if i.unique {
			opts.SetUnique(true)
		}
		if i.sparse {
			opts.SetSparse(true)
		}
		model := mongo.IndexModel{Keys: i.keys, Options: opts}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}

func (s *Store) seedIfEmpty(ctx context.Context) error {
	n, err := s.col(ColCategories).CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.catalog", map[string]any{"driver": "mongo"})

	cats, subs, prods := store.DemoCatalog(time.Now().UTC())
	for i := range cats {
		if err := insertOne(ctx, s.col(ColCategories), &cats[i]); err != nil {
			return err
		}
	}
	for i := range subs {
		if err := insertOne(ctx, s.col(ColSubcategories), &subs[i]); err != nil {
			return err
		}
	}
	for i := range prods {
		if err := insertOne(ctx, s.col(ColProducts), &prods[i]); err != nil {
			return err
		}
	}
	return nil
}
