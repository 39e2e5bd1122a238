package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"toolstore/internal/domain"
	"toolstore/internal/store"
)

// Claims carries only the user id; role and profile are re-read on every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Tokens issues and checks stateless HS256 bearer tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Users  store.UserStore
	Now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, users store.UserStore) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl, Users: users, Now: time.Now}
}

func (t *Tokens) Issue(userID string) (string, error) {
	now := t.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse validates signature and expiry and returns the user id.
func (t *Tokens) Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.Secret, nil
	}, jwt.WithTimeFunc(t.Now))
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

// Authenticate resolves a bearer token to the current user record.
func (t *Tokens) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	id, err := t.Parse(raw)
	if err != nil {
		return nil, err
	}
	u, err := t.Users.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
