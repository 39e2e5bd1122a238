package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"toolstore/internal/domain"
)

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	return insertOne(ctx, s.col(ColCategories), c)
}

func (s *Store) CategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	return findOne[domain.Category](ctx, s.col(ColCategories), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.Category](ctx, s.col(ColCategories), bson.D{}, opts)
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return updateFields(ctx, s.col(ColCategories), c.ID, bson.D{
		{Key: "name", Value: c.Name},
		{Key: "description", Value: c.Description},
		{Key: "image", Value: c.Image},
	})
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColCategories), id)
}

func (s *Store) CreateSubcategory(ctx context.Context, sc *domain.Subcategory) error {
	return insertOne(ctx, s.col(ColSubcategories), sc)
}

func (s *Store) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.Subcategory](ctx, s.col(ColSubcategories), bson.D{{Key: "category_id", Value: categoryID}}, opts)
}

func (s *Store) DeleteSubcategory(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColSubcategories), id)
}

func productFilter(f domain.ProductFilter) bson.D {
	filter := bson.D{}
	if f.CategoryID != "" {
		filter = append(filter, bson.E{Key: "category_id", Value: f.CategoryID})
	}
	if f.Subcategory != "" {
		filter = append(filter, bson.E{Key: "subcategory", Value: f.Subcategory})
	}
	return filter
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	return insertOne(ctx, s.col(ColProducts), p)
}

func (s *Store) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return findOne[domain.Product](ctx, s.col(ColProducts), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[domain.Product](ctx, s.col(ColProducts), productFilter(f), opts)
}

func (s *Store) StockReport(ctx context.Context, f domain.ProductFilter) ([]domain.StockRow, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}, {Key: "name", Value: 1}}).
		SetProjection(bson.D{
			{Key: "name", Value: 1}, {Key: "category_id", Value: 1}, {Key: "subcategory", Value: 1},
			{Key: "price", Value: 1}, {Key: "stock", Value: 1},
		})
	return findMany[domain.StockRow](ctx, s.col(ColProducts), productFilter(f), opts)
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return updateFields(ctx, s.col(ColProducts), p.ID, bson.D{
		{Key: "name", Value: p.Name},
		{Key: "category_id", Value: p.CategoryID},
		{Key: "subcategory", Value: p.Subcategory},
		{Key: "description", Value: p.Description},
		{Key: "specifications", Value: p.Specifications},
		{Key: "price", Value: p.Price},
		{Key: "image", Value: p.Image},
		{Key: "images", Value: p.Images},
		{Key: "stock", Value: p.Stock},
	})
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColProducts), id)
}

// AddStock applies $inc and returns the post-update document.
func (s *Store) AddStock(ctx context.Context, id string, amount int64) (*domain.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Product
	err := s.col(ColProducts).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: amount}}}},
		opts,
	).Decode(&p)
	if err != nil {
		return nil, wrapError(err)
	}
	return &p, nil
}
