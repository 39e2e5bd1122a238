package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolstore/internal/domain"
	"toolstore/internal/store"
)

type CatalogService struct {
	Store store.CatalogStore
	Now   func() time.Time
}

func NewCatalogService(s store.CatalogStore) *CatalogService {
	return &CatalogService{Store: s, Now: time.Now}
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ProductInput struct {
	Name           string            `json:"name"`
	CategoryID     string            `json:"categoryId"`
	Subcategory    string            `json:"subcategory"`
	Description    string            `json:"description"`
	Specifications domain.Specs      `json:"specifications"`
	Price          float64           `json:"price"`
	Image          string            `json:"image"`
	Images         domain.StringList `json:"images"`
	Stock          int64             `json:"stock"`
}

// ---------- Categories ----------

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.Store.CategoryByID(ctx, id)
	return c, storeErr(err, "category")
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation("category name is required")
	}
	c := &domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		CreatedAt:   s.now(),
	}
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

// UpdateCategory overwrites only the fields supplied non-empty.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.Store.CategoryByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(in.Image); v != "" {
		c.Image = v
	}
	if err := s.Store.UpdateCategory(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

// DeleteCategory does not cascade to products or subcategories.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return storeErr(s.Store.DeleteCategory(ctx, id), "category")
}

// ---------- Subcategories ----------

func (s *CatalogService) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	return s.Store.ListSubcategories(ctx, categoryID)
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, categoryID, name string) (*domain.Subcategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("subcategory name is required")
	}
	if _, err := s.Store.CategoryByID(ctx, categoryID); err != nil {
		return nil, storeErr(err, "category")
	}
	sc := &domain.Subcategory{ID: uuid.NewString(), CategoryID: categoryID, Name: name, CreatedAt: s.now()}
	if err := s.Store.CreateSubcategory(ctx, sc); err != nil {
		return nil, storeErr(err, "subcategory")
	}
	return sc, nil
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	return storeErr(s.Store.DeleteSubcategory(ctx, id), "subcategory")
}

// ---------- Products ----------

func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Subcategory = strings.TrimSpace(f.Subcategory)
	return s.Store.ListProducts(ctx, f)
}

func (s *CatalogService) StockReport(ctx context.Context, f domain.ProductFilter) ([]domain.StockRow, error) {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Subcategory = strings.TrimSpace(f.Subcategory)
	return s.Store.StockReport(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Store.ProductByID(ctx, id)
	return p, storeErr(err, "product")
}

func (in ProductInput) apply(p *domain.Product) error {
	p.Name = strings.TrimSpace(in.Name)
	p.CategoryID = strings.TrimSpace(in.CategoryID)
	p.Subcategory = strings.TrimSpace(in.Subcategory)
	if p.Name == "" || p.CategoryID == "" || p.Subcategory == "" {
		return validation("name, category and subcategory are required")
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return validation("price must be a non-negative number")
	}
	if in.Stock < 0 {
		return validation("stock must be a non-negative integer")
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Specifications = in.Specifications
	if p.Specifications == nil {
		p.Specifications = domain.Specs{}
	}
	p.Price = in.Price
	p.Image = strings.TrimSpace(in.Image)
	p.Images = in.Images
	if p.Images == nil {
		p.Images = domain.StringList{}
	}
	p.Stock = in.Stock
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{ID: uuid.NewString(), CreatedAt: s.now()}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.Store.CreateProduct(ctx, p); err != nil {
		return nil, storeErr(err, "product")
	}
	return p, nil
}

// UpdateProduct replaces every editable field of the product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.Store.ProductByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.Store.UpdateProduct(ctx, p); err != nil {
		return nil, storeErr(err, "product")
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return storeErr(s.Store.DeleteProduct(ctx, id), "product")
}

// AddStock atomically raises stock by amount, which must be a positive whole number.
func (s *CatalogService) AddStock(ctx context.Context, id string, amount float64) (*domain.Product, error) {
	if math.IsNaN(amount) || amount <= 0 || amount != math.Trunc(amount) || amount > math.MaxInt32 {
		return nil, validation("amount must be a positive number")
	}
	p, err := s.Store.AddStock(ctx, id, int64(amount))
	return p, storeErr(err, "product")
}

// AttachImage records an uploaded image URL on the product. The first image
// also becomes the primary one.
func (s *CatalogService) AttachImage(ctx context.Context, id, url string) (*domain.Product, error) {
	if url == "" {
		return nil, errors.New("empty image url")
	}
	p, err := s.Store.ProductByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	p.Images = append(p.Images, url)
	if p.Image == "" {
		p.Image = url
	}
	if err := s.Store.UpdateProduct(ctx, p); err != nil {
		return nil, storeErr(err, "product")
	}
	return p, nil
}
