package handlers

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "toolstore/internal/log"
	"toolstore/internal/oauth"
	"toolstore/internal/services"
)

const stateCookie = "oauth_state"

// IdentityProvider is the OAuth sign-in flow used by the google routes.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

type AuthHandler struct {
	Auth        *services.AuthService
	Google      IdentityProvider
	FrontendURL string
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, "auth.register.fail", err)
	}
	switch res.Status {
	case services.StatusPending:
		return c.JSON(fiber.Map{
			"needsVerification": true,
			"userId":            res.PendingID,
			"method":            res.Method,
			"message":           "Verification is pending. Enter the code you received or request a new one.",
		})
	case services.StatusVerificationRequired:
		body := fiber.Map{"needsVerification": true, "userId": res.PendingID, "method": res.Method}
		if res.Code != "" {
			body["code"] = res.Code
			body["message"] = "Verification code generated for phone"
		} else {
			body["message"] = "Verification code sent to email"
		}
		applog.Audit(c, "auth.register.pending", map[string]any{"pending_id": res.PendingID, "method": res.Method})
		return c.Status(fiber.StatusCreated).JSON(body)
	}
	c.Locals(applog.UserKey, res.User.ID)
	applog.Audit(c, "auth.register.success", map[string]any{"email": res.User.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

type codeRequest struct {
	UserID    string `json:"userId"`
	PendingID string `json:"pendingId"`
	Code      string `json:"code"`
}

func (r codeRequest) id() string {
	if r.PendingID != "" {
		return r.PendingID
	}
	return r.UserID
}

func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var in codeRequest
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Auth.VerifyCode(c.UserContext(), in.id(), in.Code)
	if err != nil {
		return fail(c, "auth.verify.fail", err)
	}
	c.Locals(applog.UserKey, res.User.ID)
	applog.Audit(c, "auth.verify.success", nil)
	return c.JSON(fiber.Map{"message": "Verified successfully", "token": res.Token, "user": res.User})
}

func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	var in codeRequest
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Auth.ResendCode(c.UserContext(), in.id())
	if err != nil {
		return fail(c, "auth.resend.fail", err)
	}
	if res.Code != "" {
		return c.JSON(fiber.Map{"message": "Verification code resent for phone", "code": res.Code})
	}
	return c.JSON(fiber.Map{"message": "Verification code resent to email"})
}

type loginRequest struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r loginRequest) id() string {
	for _, v := range []string{r.Identifier, r.Email, r.Phone} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Auth.Login(c.UserContext(), in.id(), in.Password)
	if err != nil {
		return fail(c, "auth.login.fail", err)
	}
	c.Locals(applog.UserKey, res.User.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"identifier": in.id()})
	return c.JSON(fiber.Map{"message": "Login successful", "token": res.Token, "user": res.User})
}

// Me serves /me and /profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"valid": true, "user": currentUser(c)})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileUpdate
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Auth.UpdateProfile(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return fail(c, "auth.profile.fail", err)
	}
	applog.Audit(c, "auth.profile.update", nil)
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": u})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Auth.ChangePassword(c.UserContext(), currentUser(c).ID, in.CurrentPassword, in.NewPassword); err != nil {
		return fail(c, "auth.password.fail", err)
	}
	applog.Audit(c, "auth.password.change", nil)
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// Logout is client-side; the route exists so the event is logged.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) GoogleStart(c *fiber.Ctx) error {
	if h.Google == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Google sign-in is not configured"})
	}
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(h.Google.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.Google == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Google sign-in is not configured"})
	}
	state := c.Cookies(stateCookie)
	c.ClearCookie(stateCookie)
	if state == "" || c.Query("state") != state {
		applog.Security(c, "auth.google.state.mismatch", nil)
		return h.loginRedirect(c, url.Values{"error": {"oauth_state"}})
	}
	id, err := h.Google.Exchange(c.UserContext(), c.Query("code"))
	if err != nil {
		if errors.Is(err, oauth.ErrUnverifiedEmail) {
			applog.Security(c, "auth.google.unverified", nil)
		} else {
			applog.Error(c, "auth.google.exchange.fail", err, nil)
		}
		return h.loginRedirect(c, url.Values{"error": {"oauth_failed"}})
	}
	res, err := h.Auth.FederatedLogin(c.UserContext(), id.Name, id.Email)
	if err != nil {
		applog.Error(c, "auth.google.login.fail", err, map[string]any{"email": id.Email})
		return h.loginRedirect(c, url.Values{"error": {"oauth_failed"}})
	}
	c.Locals(applog.UserKey, res.User.ID)
	applog.Audit(c, "auth.google.success", map[string]any{"email": id.Email})
	return h.loginRedirect(c, url.Values{"token": {res.Token}})
}

func (h *AuthHandler) loginRedirect(c *fiber.Ctx, q url.Values) error {
	return c.Redirect(strings.TrimRight(h.FrontendURL, "/")+"/login?"+q.Encode(), fiber.StatusFound)
}
