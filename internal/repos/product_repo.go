package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"toolstore/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, category_id, subcategory, description, specifications, price, image, images, stock, created_at`

func (r *ProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products(`+productCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.CategoryID, p.Subcategory, p.Description, p.Specifications,
		p.Price, p.Image, p.Images, p.Stock, p.CreatedAt.UTC())
	return wrapErr(err)
}

func (r *ProductRepo) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id=?`, id); err != nil {
		return nil, wrapErr(err)
	}
	return &p, nil
}

// filterWhere builds the exact-match clause shared by listing and reporting.
func filterWhere(f domain.ProductFilter) (string, []any) {
	where := `1=1`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Subcategory != "" {
		where += ` AND subcategory = ?`
		args = append(args, f.Subcategory)
	}
	return where, args
}

func (r *ProductRepo) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	where, args := filterWhere(f)
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC`, args...)
	return out, wrapErr(err)
}

func (r *ProductRepo) StockReport(ctx context.Context, f domain.ProductFilter) ([]domain.StockRow, error) {
	where, args := filterWhere(f)
	out := []domain.StockRow{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, category_id, subcategory, price, stock
	  FROM products
	  WHERE `+where+`
	  ORDER BY stock ASC, name`, args...)
	return out, wrapErr(err)
}

func (r *ProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET name=?, category_id=?, subcategory=?, description=?, specifications=?,
		       price=?, image=?, images=?, stock=?
		WHERE id=?`,
		p.Name, p.CategoryID, p.Subcategory, p.Description, p.Specifications,
		p.Price, p.Image, p.Images, p.Stock, p.ID)
	return mustAffect(res, err)
}

func (r *ProductRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	return mustAffect(res, err)
}

// AddStock increments stock in place and returns the updated row.
func (r *ProductRepo) AddStock(ctx context.Context, id string, amount int64) (*domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE id=?`, amount, id)
	if err := mustAffect(res, err); err != nil {
		return nil, err
	}
	return r.ProductByID(ctx, id)
}
