package domain

import "time"

type Category struct {
	ID          string    `db:"id" json:"id" bson:"_id"`
	Name        string    `db:"name" json:"name" bson:"name"`
	Description string    `db:"description" json:"description" bson:"description"`
	Image       string    `db:"image" json:"image" bson:"image"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
}

// Subcategory is a filter option inside a category, e.g. "Drill Machines".
type Subcategory struct {
	ID         string    `db:"id" json:"id" bson:"_id"`
	CategoryID string    `db:"category_id" json:"categoryId" bson:"category_id"`
	Name       string    `db:"name" json:"name" bson:"name"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
}

type Product struct {
	ID             string     `db:"id" json:"id" bson:"_id"`
	Name           string     `db:"name" json:"name" bson:"name"`
	CategoryID     string     `db:"category_id" json:"categoryId" bson:"category_id"`
	Subcategory    string     `db:"subcategory" json:"subcategory" bson:"subcategory"`
	Description    string     `db:"description" json:"description" bson:"description"`
	Specifications Specs      `db:"specifications" json:"specifications" bson:"specifications"`
	Price          float64    `db:"price" json:"price" bson:"price"`
	Image          string     `db:"image" json:"image" bson:"image"`
	Images         StringList `db:"images" json:"images" bson:"images"`
	Stock          int64      `db:"stock" json:"stock" bson:"stock"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt" bson:"created_at"`
}

// ProductFilter holds exact-match constraints; empty fields are unconstrained.
type ProductFilter struct {
	CategoryID  string
	Subcategory string
}

// StockRow is the stock-report projection of a product.
type StockRow struct {
	ID          string  `db:"id" json:"id" bson:"_id"`
	Name        string  `db:"name" json:"name" bson:"name"`
	CategoryID  string  `db:"category_id" json:"categoryId" bson:"category_id"`
	Subcategory string  `db:"subcategory" json:"subcategory" bson:"subcategory"`
	Price       float64 `db:"price" json:"price" bson:"price"`
	Stock       int64   `db:"stock" json:"stock" bson:"stock"`
}

type Inquiry struct {
	ID        string    `db:"id" json:"id" bson:"_id"`
	Name      string    `db:"name" json:"name" bson:"name"`
	Email     string    `db:"email" json:"email" bson:"email"`
	Message   string    `db:"message" json:"message" bson:"message"`
	Resolved  bool      `db:"resolved" json:"resolved" bson:"resolved"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
}
