package repos

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	applog "toolstore/internal/log"
	"toolstore/internal/store"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: :memory: databases are per-connection and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the starter catalog if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users (email/phone are sparse-unique: NULL when absent)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  phone TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  shipping_address TEXT NOT NULL DEFAULT '{}',
  billing_address TEXT NOT NULL DEFAULT '{}',
  profile_pic TEXT NOT NULL DEFAULT '',
  is_verified INTEGER NOT NULL DEFAULT 0,
  verified_at DATETIME,
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','admin')),
  last_login DATETIME,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);

-- Registrations awaiting a verification code
CREATE TABLE IF NOT EXISTS pending_users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  phone TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  shipping_address TEXT NOT NULL DEFAULT '{}',
  billing_address TEXT NOT NULL DEFAULT '{}',
  code TEXT NOT NULL,
  expires_at DATETIME NOT NULL,
  method TEXT NOT NULL CHECK (method IN ('email','phone')),
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pending_expires ON pending_users(expires_at);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL
);

-- Subcategories keep a plain reference: deleting a category does not cascade.
CREATE TABLE IF NOT EXISTS subcategories(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  UNIQUE(category_id, name)
);
CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category_id TEXT NOT NULL,
  subcategory TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  specifications TEXT NOT NULL DEFAULT '[]',
  price REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
  image TEXT NOT NULL DEFAULT '',
  images TEXT NOT NULL DEFAULT '[]',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category    ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_subcategory ON products(subcategory);
CREATE INDEX IF NOT EXISTS idx_products_created_at  ON products(created_at);

-- Carts (one per user)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_items INTEGER NOT NULL DEFAULT 0,
  total_amount REAL NOT NULL DEFAULT 0,
  updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT NOT NULL,
  price REAL NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  category_id TEXT NOT NULL,
  category_name TEXT NOT NULL,
  PRIMARY KEY (cart_id, product_id)
);

-- Contact inquiries
CREATE TABLE IF NOT EXISTS inquiries(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  message TEXT NOT NULL,
  resolved INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inquiries_created_at ON inquiries(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.catalog", map[string]any{"driver": "sqlite"})

	cats, subs, prods := store.DemoCatalog(time.Now().UTC())
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, c := range cats {
		tx.MustExec(`INSERT INTO categories(id,name,description,image,created_at) VALUES(?,?,?,?,?)`,
			c.ID, c.Name, c.Description, c.Image, c.CreatedAt)
	}
	for _, s := range subs {
		tx.MustExec(`INSERT INTO subcategories(id,category_id,name,created_at) VALUES(?,?,?,?)`,
			s.ID, s.CategoryID, s.Name, s.CreatedAt)
	}
	for _, p := range prods {
		tx.MustExec(`INSERT INTO products(id,name,category_id,subcategory,description,specifications,price,image,images,stock,created_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			p.ID, p.Name, p.CategoryID, p.Subcategory, p.Description, p.Specifications, p.Price, p.Image, p.Images, p.Stock, p.CreatedAt)
	}
	return tx.Commit()
}

// Store bundles the SQLite repositories behind store.Store.
type Store struct {
	*UserRepo
	*PendingRepo
	*CategoryRepo
	*ProductRepo
	*CartRepo
	*InquiryRepo
	conn *sqlx.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		UserRepo:     NewUserRepo(db),
		PendingRepo:  NewPendingRepo(db),
		CategoryRepo: NewCategoryRepo(db),
		ProductRepo:  NewProductRepo(db),
		CartRepo:     NewCartRepo(db),
		InquiryRepo:  NewInquiryRepo(db),
		conn:         db,
	}
}

func (s *Store) Close() error { return s.conn.Close() }

// wrapErr maps driver errors onto the store sentinels.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case isUnique(err):
		return store.ErrDuplicate
	}
	return err
}

func isUnique(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullable stores empty strings as NULL so the sparse UNIQUE columns allow many absentees.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// mustAffect turns a zero-row write into store.ErrNotFound.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
