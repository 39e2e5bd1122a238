package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"toolstore/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, name, COALESCE(email,'') AS email, COALESCE(phone,'') AS phone, password_hash,
  shipping_address, billing_address, profile_pic, is_verified, verified_at, role, last_login,
  created_at, updated_at`

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users(id,name,email,phone,password_hash,shipping_address,billing_address,
		                  profile_pic,is_verified,verified_at,role,last_login,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Name, nullable(u.Email), nullable(u.Phone), u.Hash, u.ShippingAddress, u.BillingAddress,
		u.ProfilePic, u.IsVerified, utcPtr(u.VerifiedAt), u.Role, utcPtr(u.LastLogin), u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return wrapErr(err)
}

func (r *UserRepo) userWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE `+where, arg); err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (r *UserRepo) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.userWhere(ctx, `id=?`, id)
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.userWhere(ctx, `email=?`, email)
}

func (r *UserRepo) UserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.userWhere(ctx, `phone=?`, phone)
}

func (r *UserRepo) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name=?, email=?, phone=?, password_hash=?, shipping_address=?, billing_address=?,
		       profile_pic=?, is_verified=?, verified_at=?, role=?, last_login=?, updated_at=?
		WHERE id=?`,
		u.Name, nullable(u.Email), nullable(u.Phone), u.Hash, u.ShippingAddress, u.BillingAddress,
		u.ProfilePic, u.IsVerified, utcPtr(u.VerifiedAt), u.Role, utcPtr(u.LastLogin), u.UpdatedAt.UTC(), u.ID)
	return mustAffect(res, err)
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	return out, wrapErr(err)
}

func (r *UserRepo) PromoteAdmins(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE users SET role='admin', updated_at=? WHERE role<>'admin' AND email IN (?)`,
		time.Now().UTC(), emails)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// PendingRepo stores registrations that have not confirmed their code yet.
type PendingRepo struct{ db *sqlx.DB }

func NewPendingRepo(db *sqlx.DB) *PendingRepo { return &PendingRepo{db: db} }

type pendingRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	Hash            string         `db:"password_hash"`
	ShippingAddress domain.Address `db:"shipping_address"`
	BillingAddress  domain.Address `db:"billing_address"`
	Code            string         `db:"code"`
	ExpiresAt       time.Time      `db:"expires_at"`
	Method          string         `db:"method"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (p pendingRow) toDomain() *domain.PendingUser {
	return &domain.PendingUser{
		ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Hash: p.Hash,
		ShippingAddress: p.ShippingAddress, BillingAddress: p.BillingAddress,
		Verification: domain.Verification{Code: p.Code, ExpiresAt: p.ExpiresAt, Method: p.Method},
		CreatedAt:    p.CreatedAt,
	}
}

const pendingCols = `id, name, COALESCE(email,'') AS email, COALESCE(phone,'') AS phone, password_hash,
  shipping_address, billing_address, code, expires_at, method, created_at`

func (r *PendingRepo) CreatePending(ctx context.Context, p *domain.PendingUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_users(id,name,email,phone,password_hash,shipping_address,billing_address,
		                          code,expires_at,method,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, nullable(p.Email), nullable(p.Phone), p.Hash, p.ShippingAddress, p.BillingAddress,
		p.Verification.Code, p.Verification.ExpiresAt.UTC(), p.Verification.Method, p.CreatedAt.UTC())
	return wrapErr(err)
}

func (r *PendingRepo) pendingWhere(ctx context.Context, where string, arg any) (*domain.PendingUser, error) {
	var row pendingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+pendingCols+` FROM pending_users WHERE `+where, arg); err != nil {
		return nil, wrapErr(err)
	}
	return row.toDomain(), nil
}

func (r *PendingRepo) PendingByID(ctx context.Context, id string) (*domain.PendingUser, error) {
	return r.pendingWhere(ctx, `id=?`, id)
}

func (r *PendingRepo) PendingByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	return r.pendingWhere(ctx, `email=?`, email)
}

func (r *PendingRepo) PendingByPhone(ctx context.Context, phone string) (*domain.PendingUser, error) {
	return r.pendingWhere(ctx, `phone=?`, phone)
}

func (r *PendingRepo) UpdatePendingVerification(ctx context.Context, id string, v domain.Verification) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pending_users SET code=?, expires_at=?, method=? WHERE id=?`,
		v.Code, v.ExpiresAt.UTC(), v.Method, id)
	return mustAffect(res, err)
}

func (r *PendingRepo) DeletePending(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_users WHERE id=?`, id)
	return err
}

func (r *PendingRepo) DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_users WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
