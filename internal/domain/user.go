package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	VerifyByEmail = "email"
	VerifyByPhone = "phone"
)

// DefaultCountry fills Address.Country when the client leaves it blank.
const DefaultCountry = "India"

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// WithDefaults returns a copy with the default country applied.
func (a Address) WithDefaults() Address {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// Merge overlays the non-empty fields of patch onto a.
func (a Address) Merge(patch Address) Address {
	if patch.Street != "" {
		a.Street = patch.Street
	}
	if patch.City != "" {
		a.City = patch.City
	}
	if patch.State != "" {
		a.State = patch.State
	}
	if patch.ZipCode != "" {
		a.ZipCode = patch.ZipCode
	}
	if patch.Country != "" {
		a.Country = patch.Country
	}
	return a
}

// Value stores the address as a JSON column.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Address) Scan(src any) error {
	return scanJSON(src, a)
}

// User is a verified account. Hash is never serialized outward.
type User struct {
	ID              string     `db:"id" json:"id" bson:"_id"`
	Name            string     `db:"name" json:"name" bson:"name"`
	Email           string     `db:"email" json:"email,omitempty" bson:"email,omitempty"`
	Phone           string     `db:"phone" json:"phone,omitempty" bson:"phone,omitempty"`
	Hash            string     `db:"password_hash" json:"-" bson:"password_hash"`
	ShippingAddress Address    `db:"shipping_address" json:"shippingAddress" bson:"shipping_address"`
	BillingAddress  Address    `db:"billing_address" json:"billingAddress" bson:"billing_address"`
	ProfilePic      string     `db:"profile_pic" json:"profilePic,omitempty" bson:"profile_pic,omitempty"`
	IsVerified      bool       `db:"is_verified" json:"isVerified" bson:"is_verified"`
	VerifiedAt      *time.Time `db:"verified_at" json:"verifiedAt,omitempty" bson:"verified_at,omitempty"`
	Role            string     `db:"role" json:"role" bson:"role"`
	LastLogin       *time.Time `db:"last_login" json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt" bson:"updated_at"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// SetPassword replaces the stored hash. The plaintext is not retained.
func (u *User) SetPassword(plain string, cost int) error {
	h, err := HashPassword(plain, cost)
	if err != nil {
		return err
	}
	u.Hash = h
	return nil
}

// CheckPassword reports whether candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	if u == nil || u.Hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(candidate)) == nil
}

// HashPassword returns a salted bcrypt hash. Out-of-range costs fall back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

type Verification struct {
	Code      string    `json:"-" bson:"code"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at"`
	Method    string    `json:"method" bson:"method"`
}

func (v Verification) Expired(now time.Time) bool { return v.ExpiresAt.Before(now) }

// PendingUser stages a registration until its verification code is confirmed.
type PendingUser struct {
	ID              string       `json:"id" bson:"_id"`
	Name            string       `json:"name" bson:"name"`
	Email           string       `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Hash            string       `json:"-" bson:"password_hash"`
	ShippingAddress Address      `json:"shippingAddress" bson:"shipping_address"`
	BillingAddress  Address      `json:"billingAddress" bson:"billing_address"`
	Verification    Verification `json:"verification" bson:"verification"`
	CreatedAt       time.Time    `json:"createdAt" bson:"created_at"`
}
