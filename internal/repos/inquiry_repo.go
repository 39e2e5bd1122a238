package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"toolstore/internal/domain"
)

type InquiryRepo struct{ db *sqlx.DB }

func NewInquiryRepo(db *sqlx.DB) *InquiryRepo { return &InquiryRepo{db: db} }

func (r *InquiryRepo) CreateInquiry(ctx context.Context, q *domain.Inquiry) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO inquiries(id,name,email,message,resolved,created_at) VALUES(?,?,?,?,?,?)`,
		q.ID, q.Name, q.Email, q.Message, q.Resolved, q.CreatedAt.UTC())
	return wrapErr(err)
}

// ListInquiries returns the newest inquiries first.
func (r *InquiryRepo) ListInquiries(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, email, message, resolved, created_at
	  FROM inquiries
	  ORDER BY created_at DESC
	  LIMIT ?`, limit)
	return out, err
}

// ResolveInquiry and DeleteInquiry succeed even when id matches nothing.
func (r *InquiryRepo) ResolveInquiry(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE inquiries SET resolved = 1 WHERE id = ?`, id)
	return err
}

func (r *InquiryRepo) DeleteInquiry(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = ?`, id)
	return err
}
