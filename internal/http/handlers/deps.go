package handlers

import (
	"toolstore/internal/config"
	"toolstore/internal/payment"
	"toolstore/internal/services"
	"toolstore/internal/store"
)

type Deps struct {
	Tokens *services.Tokens
	Auth   *services.AuthService

	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	PaymentHandler  *PaymentHandler
	InquiryHandler  *InquiryHandler
	AdminHandler    *AdminHandler
}

// Collaborators are the optional outside services. Nil fields disable the
// routes that need them.
type Collaborators struct {
	Mail     services.Mailer
	Payments payment.Orders
	Google   IdentityProvider
	Images   ImageStore
}

func NewDeps(st store.Store, cfg config.Config, ext Collaborators) *Deps {
	tokens := services.NewTokens(cfg.JWTSecret, cfg.TokenTTL, st)
	authSvc := &services.AuthService{
		Users:               st,
		Pending:             st,
		Tokens:              tokens,
		Mail:                ext.Mail,
		AdminEmails:         cfg.AdminEmails,
		BcryptCost:          cfg.BcryptCost,
		CodeTTL:             cfg.VerificationTTL,
		RequireVerification: cfg.RequireVerification,
	}
	payments := ext.Payments
	if payments == nil {
		payments = payment.Offline{KeyID: cfg.RazorpayKeyID}
	}
	catalogSvc := services.NewCatalogService(st)
	cartSvc := services.NewCartService(st, payments)
	inquirySvc := services.NewInquiryService(st)

	return &Deps{
		Tokens:          tokens,
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc, Google: ext.Google, FrontendURL: cfg.FrontendURL},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Images: ext.Images},
		CartHandler:     &CartHandler{Cart: cartSvc},
		PaymentHandler:  &PaymentHandler{Orders: payments},
		InquiryHandler:  &InquiryHandler{Inquiries: inquirySvc},
		AdminHandler:    &AdminHandler{Auth: authSvc},
	}
}
