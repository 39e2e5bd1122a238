package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"toolstore/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories(id,name,description,image,created_at) VALUES(?,?,?,?,?)`,
		c.ID, c.Name, c.Description, c.Image, c.CreatedAt.UTC())
	return wrapErr(err)
}

func (r *CategoryRepo) CategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, `SELECT id,name,description,image,created_at FROM categories WHERE id=?`, id); err != nil {
		return nil, wrapErr(err)
	}
	return &c, nil
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, description, image, created_at
	  FROM categories
	  ORDER BY name
	`)
	return out, wrapErr(err)
}

func (r *CategoryRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name=?, description=?, image=? WHERE id=?`,
		c.Name, c.Description, c.Image, c.ID)
	return mustAffect(res, err)
}

// DeleteCategory removes only the category row. Products and subcategories
// that reference it are left in place.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	return mustAffect(res, err)
}

func (r *CategoryRepo) CreateSubcategory(ctx context.Context, s *domain.Subcategory) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO subcategories(id,category_id,name,created_at) VALUES(?,?,?,?)`,
		s.ID, s.CategoryID, s.Name, s.CreatedAt.UTC())
	return wrapErr(err)
}

func (r *CategoryRepo) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	out := []domain.Subcategory{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, category_id, name, created_at
	  FROM subcategories
	  WHERE category_id = ?
	  ORDER BY name
	`, categoryID)
	return out, wrapErr(err)
}

func (r *CategoryRepo) DeleteSubcategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id=?`, id)
	return mustAffect(res, err)
}
