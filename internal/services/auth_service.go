package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolstore/internal/domain"
	applog "toolstore/internal/log"
	"toolstore/internal/metrics"
	"toolstore/internal/store"
	"toolstore/internal/validate"
)

// Mailer delivers a templated message. Implementations live in internal/mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// Registration outcomes.
const (
	StatusRegistered           = "registered"
	StatusVerificationRequired = "verification_required"
	StatusPending              = "pending"
)

const DefaultCodeTTL = 15 * time.Minute

type AuthService struct {
	Users   store.UserStore
	Pending store.PendingUserStore
	Tokens  *Tokens
	Mail    Mailer

	Codes CodeFunc
	Now   func() time.Time

	AdminEmails         []string
	BcryptCost          int
	CodeTTL             time.Duration
	RequireVerification bool
}

type RegisterInput struct {
	Name            string          `json:"name"`
	Password        string          `json:"password"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	ShippingAddress *domain.Address `json:"shippingAddress"`
	BillingAddress  *domain.Address `json:"billingAddress"`
	Address         *domain.Address `json:"address"`
	VerifyBy        string          `json:"verifyBy"`
}

// RegisterResult describes which branch Register took. Code is only set for
// phone verification, where there is no delivery channel.
type RegisterResult struct {
	Status    string
	PendingID string
	Method    string
	Code      string
	Token     string
	User      *domain.User
}

type AuthResult struct {
	Token string
	User  *domain.User
}

type ProfileUpdate struct {
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	ProfilePic      string          `json:"profilePic"`
	ShippingAddress *domain.Address `json:"shippingAddress"`
	BillingAddress  *domain.Address `json:"billingAddress"`
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) code() string {
	if s.Codes != nil {
		return s.Codes()
	}
	return NewCode()
}

func (s *AuthService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

func (s *AuthService) roleFor(email string) string {
	if email == "" {
		return domain.RoleUser
	}
	for _, a := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return domain.RoleAdmin
		}
	}
	return domain.RoleUser
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Password == "" {
		return nil, validation("name and password are required")
	}
	if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Phone) == "" {
		return nil, validation("email or phone number is required")
	}
	if err := checkPassword(in.Password, "password"); err != nil {
		return nil, err
	}
	name, ok := validate.Name(name)
	if !ok {
		return nil, validation("name must be at least 2 characters")
	}
	var email, phone string
	if strings.TrimSpace(in.Email) != "" {
		if email, ok = validate.Email(in.Email); !ok {
			return nil, validation("please enter a valid email")
		}
	}
	if strings.TrimSpace(in.Phone) != "" {
		if phone, ok = validate.Phone(in.Phone); !ok {
			return nil, validation("please enter a valid 10-digit phone number")
		}
	}
	verifyBy := strings.ToLower(strings.TrimSpace(in.VerifyBy))
	if verifyBy != "" && verifyBy != domain.VerifyByEmail && verifyBy != domain.VerifyByPhone {
		return nil, validation("verifyBy must be email or phone")
	}

	// Email is checked before phone.
	if email != "" {
		if res, err := s.checkContact(ctx, s.Users.UserByEmail, s.Pending.PendingByEmail, email, "email"); res != nil || err != nil {
			return res, err
		}
	}
	if phone != "" {
		if res, err := s.checkContact(ctx, s.Users.UserByPhone, s.Pending.PendingByPhone, phone, "phone number"); res != nil || err != nil {
			return res, err
		}
	}

	hash, err := domain.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	// A single address stands in for whichever of the two is missing.
	shipping, billing := in.ShippingAddress, in.BillingAddress
	if shipping == nil {
		shipping = in.Address
	}
	if billing == nil {
		billing = in.Address
	}
	shippingAddr, billingAddr := addressOrEmpty(shipping), addressOrEmpty(billing)
	now := s.now()

	if (verifyBy == domain.VerifyByEmail && email != "") || (verifyBy == domain.VerifyByPhone && phone != "") {
		p := &domain.PendingUser{
			ID: uuid.NewString(), Name: name, Email: email, Phone: phone, Hash: hash,
			ShippingAddress: shippingAddr, BillingAddress: billingAddr,
			Verification: domain.Verification{Code: s.code(), ExpiresAt: now.Add(s.codeTTL()), Method: verifyBy},
			CreatedAt:    now,
		}
		if err := s.Pending.CreatePending(ctx, p); err != nil {
			return nil, storeErr(err, "registration")
		}
		metrics.Registrations.WithLabelValues(StatusVerificationRequired).Inc()
		return &RegisterResult{
			Status:    StatusVerificationRequired,
			PendingID: p.ID,
			Method:    verifyBy,
			Code:      s.dispatch(ctx, p),
		}, nil
	}

	u := &domain.User{
		ID: uuid.NewString(), Name: name, Email: email, Phone: phone, Hash: hash,
		ShippingAddress: shippingAddr, BillingAddress: billingAddr,
		IsVerified: true, VerifiedAt: &now, Role: s.roleFor(email),
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues(StatusRegistered).Inc()
	return &RegisterResult{Status: StatusRegistered, Token: token, User: u}, nil
}

// checkContact reports a conflict for an existing user, or the pending
// result for an existing registration. Both nil means the contact is free.
func (s *AuthService) checkContact(
	ctx context.Context,
	userBy func(context.Context, string) (*domain.User, error),
	pendingBy func(context.Context, string) (*domain.PendingUser, error),
	value, label string,
) (*RegisterResult, error) {
	if _, err := userBy(ctx, value); err == nil {
		metrics.Registrations.WithLabelValues("conflict").Inc()
		return nil, conflict("user already exists with this %s", label)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	p, err := pendingBy(ctx, value)
	if err == nil {
		metrics.Registrations.WithLabelValues(StatusPending).Inc()
		return &RegisterResult{Status: StatusPending, PendingID: p.ID, Method: p.Verification.Method}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

// dispatch sends the code out of band. Mail failures are logged, never
// returned: the pending record stays valid and the code can be resent.
func (s *AuthService) dispatch(ctx context.Context, p *domain.PendingUser) string {
	if p.Verification.Method == domain.VerifyByPhone {
		return p.Verification.Code
	}
	if s.Mail == nil {
		return ""
	}
	err := s.Mail.Send(ctx, p.Email, "Your verification code", "verification", map[string]any{
		"Name":    p.Name,
		"Code":    p.Verification.Code,
		"Minutes": int(s.codeTTL().Minutes()),
	})
	if err != nil {
		applog.Warn(nil, "mail.verification.fail", err, map[string]any{"pending_id": p.ID})
	}
	return ""
}

func (s *AuthService) VerifyCode(ctx context.Context, pendingID, code string) (*AuthResult, error) {
	pendingID, code = strings.TrimSpace(pendingID), strings.TrimSpace(code)
	if pendingID == "" || code == "" {
		return nil, validation("pendingId and code are required")
	}
	p, err := s.Pending.PendingByID(ctx, pendingID)
	if err != nil {
		return nil, storeErr(err, "verification request")
	}
	if p.Verification.Expired(s.now()) {
		if err := s.Pending.DeletePending(ctx, p.ID); err != nil {
			return nil, err
		}
		metrics.Verifications.WithLabelValues("expired").Inc()
		return nil, newErr(ErrExpired, "verification code has expired, please register again")
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(p.Verification.Code)) != 1 {
		metrics.Verifications.WithLabelValues("invalid").Inc()
		return nil, newErr(ErrInvalidCode, "invalid verification code")
	}

	now := s.now()
	u := &domain.User{
		ID: uuid.NewString(), Name: p.Name, Email: p.Email, Phone: p.Phone, Hash: p.Hash,
		ShippingAddress: p.ShippingAddress, BillingAddress: p.BillingAddress,
		IsVerified: true, VerifiedAt: &now, Role: s.roleFor(p.Email),
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	if err := s.Pending.DeletePending(ctx, p.ID); err != nil {
		applog.Error(nil, "pending.delete.fail", err, map[string]any{"pending_id": p.ID})
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	metrics.Verifications.WithLabelValues("verified").Inc()
	return &AuthResult{Token: token, User: u}, nil
}

// ResendCode refreshes the code and expiry on the same pending record.
func (s *AuthService) ResendCode(ctx context.Context, pendingID string) (*RegisterResult, error) {
	pendingID = strings.TrimSpace(pendingID)
	if pendingID == "" {
		return nil, validation("pendingId is required")
	}
	p, err := s.Pending.PendingByID(ctx, pendingID)
	if err != nil {
		return nil, storeErr(err, "verification request")
	}
	p.Verification.Code = s.code()
	p.Verification.ExpiresAt = s.now().Add(s.codeTTL())
	if err := s.Pending.UpdatePendingVerification(ctx, p.ID, p.Verification); err != nil {
		return nil, storeErr(err, "verification request")
	}
	return &RegisterResult{
		Status:    StatusVerificationRequired,
		PendingID: p.ID,
		Method:    p.Verification.Method,
		Code:      s.dispatch(ctx, p),
	}, nil
}

// Login accepts an email address or a 10-digit phone number as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, validation("email or phone and password are required")
	}
	var (
		u   *domain.User
		err error
	)
	if phone, ok := validate.Phone(identifier); ok {
		u, err = s.Users.UserByPhone(ctx, phone)
	} else if email, ok := validate.Email(identifier); ok {
		u, err = s.Users.UserByEmail(ctx, email)
	} else {
		return nil, ErrBadCredentials
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, ErrBadCredentials
	}
	if s.RequireVerification && !u.IsVerified {
		return nil, ErrNotVerified
	}

	now := s.now()
	u.LastLogin = &now
	u.UpdatedAt = now
	if err := s.Users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if strings.TrimSpace(in.Name) != "" {
		name, ok := validate.Name(in.Name)
		if !ok {
			return nil, validation("name must be at least 2 characters")
		}
		u.Name = name
	}
	if strings.TrimSpace(in.Phone) != "" {
		phone, ok := validate.Phone(in.Phone)
		if !ok {
			return nil, validation("please enter a valid 10-digit phone number")
		}
		u.Phone = phone
	}
	if pic := strings.TrimSpace(in.ProfilePic); pic != "" {
		u.ProfilePic = pic
	}
	if in.ShippingAddress != nil {
		u.ShippingAddress = u.ShippingAddress.Merge(*in.ShippingAddress).WithDefaults()
	}
	if in.BillingAddress != nil {
		u.BillingAddress = u.BillingAddress.Merge(*in.BillingAddress).WithDefaults()
	}
	u.UpdatedAt = s.now()
	if err := s.Users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("phone number is already in use")
		}
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return validation("current and new password are required")
	}
	if err := checkPassword(next, "new password"); err != nil {
		return err
	}
	u, err := s.Users.UserByID(ctx, userID)
	if err != nil {
		return storeErr(err, "user")
	}
	if !u.CheckPassword(current) {
		return &Error{Kind: ErrAuth, Msg: "current password is incorrect"}
	}
	if err := u.SetPassword(next, s.BcryptCost); err != nil {
		return err
	}
	u.UpdatedAt = s.now()
	return storeErr(s.Users.UpdateUser(ctx, u), "user")
}

// FederatedLogin finds or creates a verified user for an identity asserted
// by an OAuth provider.
func (s *AuthService) FederatedLogin(ctx context.Context, name, email string) (*AuthResult, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, validation("identity provider returned no usable email")
	}
	now := s.now()
	u, err := s.Users.UserByEmail(ctx, email)
	switch {
	case err == nil:
		u.LastLogin = &now
		u.UpdatedAt = now
		if err := s.Users.UpdateUser(ctx, u); err != nil {
			return nil, err
		}
	case errors.Is(err, store.ErrNotFound):
		if name, ok = validate.Name(name); !ok {
			name = strings.SplitN(email, "@", 2)[0]
		}
		u = &domain.User{
			ID: uuid.NewString(), Name: name, Email: email,
			ShippingAddress: domain.Address{}.WithDefaults(), BillingAddress: domain.Address{}.WithDefaults(),
			IsVerified: true, VerifiedAt: &now, Role: s.roleFor(email), LastLogin: &now,
			CreatedAt: now, UpdatedAt: now,
		}
		// The account has no usable password until the owner sets one.
		if err := u.SetPassword(uuid.NewString(), s.BcryptCost); err != nil {
			return nil, err
		}
		if err := s.Users.CreateUser(ctx, u); err != nil {
			return nil, storeErr(err, "user")
		}
	default:
		return nil, err
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

// SeedAdmins promotes existing users on the admin allow-list. Run once at startup.
func (s *AuthService) SeedAdmins(ctx context.Context) (int64, error) {
	emails := make([]string, 0, len(s.AdminEmails))
	for _, e := range s.AdminEmails {
		if e, ok := validate.Email(e); ok {
			emails = append(emails, e)
		}
	}
	n, err := s.Users.PromoteAdmins(ctx, emails)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		applog.Audit(nil, "admin.seed", map[string]any{"promoted": n})
	}
	return n, nil
}

// SweepExpired deletes pending registrations whose code window has passed.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	return s.Pending.DeleteExpiredPending(ctx, s.now())
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users.ListUsers(ctx)
}

func addressOrEmpty(a *domain.Address) domain.Address {
	if a == nil {
		return domain.Address{}.WithDefaults()
	}
	return a.WithDefaults()
}

func checkPassword(pw, field string) error {
	switch {
	case len(pw) > validate.MaxPasswordLen:
		return validation("%s must be at most %d bytes", field, validate.MaxPasswordLen)
	case !validate.Password(pw):
		return validation("%s must be at least %d characters", field, validate.MinPasswordLen)
	}
	return nil
}
