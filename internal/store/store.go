// Package store declares the persistence contracts the services depend on.
// Drivers live in internal/repos (SQLite) and internal/repos/mongostore.
package store

import (
	"context"
	"errors"
	"time"

	"toolstore/internal/domain"
)

var (
	// ErrNotFound replaces sql.ErrNoRows / mongo.ErrNoDocuments.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate reports a unique index violation.
	ErrDuplicate = errors.New("duplicate: entity already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UserByID(ctx context.Context, id string) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	// PromoteAdmins sets role=admin on every user whose email is listed.
	PromoteAdmins(ctx context.Context, emails []string) (int64, error)
}

type PendingUserStore interface {
	CreatePending(ctx context.Context, p *domain.PendingUser) error
	PendingByID(ctx context.Context, id string) (*domain.PendingUser, error)
	PendingByEmail(ctx context.Context, email string) (*domain.PendingUser, error)
	PendingByPhone(ctx context.Context, phone string) (*domain.PendingUser, error)
	UpdatePendingVerification(ctx context.Context, id string, v domain.Verification) error
	DeletePending(ctx context.Context, id string) error
	DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error)
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	CategoryByID(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, s *domain.Subcategory) error
	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p *domain.Product) error
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	StockReport(ctx context.Context, f domain.ProductFilter) ([]domain.StockRow, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// AddStock atomically increments stock and returns the updated product.
	AddStock(ctx context.Context, id string, amount int64) (*domain.Product, error)
}

type CartStore interface {
	CartByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// SaveCart writes the whole cart document (header and lines).
	SaveCart(ctx context.Context, c *domain.Cart) error
}

type InquiryStore interface {
	CreateInquiry(ctx context.Context, q *domain.Inquiry) error
	ListInquiries(ctx context.Context, limit int) ([]domain.Inquiry, error)
	ResolveInquiry(ctx context.Context, id string) error
	DeleteInquiry(ctx context.Context, id string) error
}

// Store is implemented by each database driver.
type Store interface {
	UserStore
	PendingUserStore
	CatalogStore
	CartStore
	InquiryStore
	Close() error
}
