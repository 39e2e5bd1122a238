package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"toolstore/internal/domain"
	"toolstore/internal/store"
	"toolstore/internal/validate"
)

// InquiryListLimit caps how many inquiries List returns.
const InquiryListLimit = 200

type InquiryService struct {
	Store store.InquiryStore
	Now   func() time.Time
}

func NewInquiryService(s store.InquiryStore) *InquiryService {
	return &InquiryService{Store: s, Now: time.Now}
}

type InquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *InquiryService) Create(ctx context.Context, in InquiryInput) (*domain.Inquiry, error) {
	name, okName := validate.Text(in.Name, 100)
	msg, okMsg := validate.Text(in.Message, 5000)
	if !okName || !okMsg || in.Email == "" {
		return nil, validation("name, email and message are required")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, validation("please enter a valid email")
	}
	q := &domain.Inquiry{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   msg,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Store.CreateInquiry(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// List returns the newest inquiries first.
func (s *InquiryService) List(ctx context.Context) ([]domain.Inquiry, error) {
	return s.Store.ListInquiries(ctx, InquiryListLimit)
}

func (s *InquiryService) Resolve(ctx context.Context, id string) error {
	return s.Store.ResolveInquiry(ctx, id)
}

func (s *InquiryService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteInquiry(ctx, id)
}
