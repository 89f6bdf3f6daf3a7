package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	"github.com/smartsec/portal-bff/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc AuthServiceInterface
	// FrontendOrigin is where federated logins land after the callback.
	FrontendOrigin string
	CookieDomain   string
	Logger         *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// userPayload is the identity shape returned to the frontend.
type userPayload struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

func toUserPayload(identity domainauth.Identity) userPayload {
	return userPayload{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       string(identity.Role),
		Department: identity.Department,
	}
}

// Login handles credential logins.
// POST /auth/login with {"email": ..., "password": ...}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  toUserPayload(result.Identity),
	})
}

// Profile returns the verified caller identity.
// GET /auth/profile (behind RequireAuth).
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := GetIdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guards this route; reaching here without identity is a wiring bug.
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(identity)})
}

// OAuthLogin initiates the federated login flow.
// GET /auth/oauth2.
func (h *AuthHandlers) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context(), h.FrontendOrigin+"/auth/callback")
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin oauth login failed", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// OAuthCallback completes the federated login flow and hands the issued
// token to the frontend via redirect.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || code == "" || state == "" || stateCookie.Value != state {
		h.redirectLoginError(w, r)
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		h.redirectLoginError(w, r)
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "oauth login completion failed", "error", err)
		h.redirectLoginError(w, r)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	u := h.FrontendOrigin + "/auth/callback?token=" + url.QueryEscape(result.Token)
	http.Redirect(w, r, u, http.StatusFound)
}

// Logout ends the cookie-flow session.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, "session_id")

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Status returns the current cookie-session authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       session.UserID,
		"expires_at":    session.ExpiresAt,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State string
	Nonce string
}

// setOAuthCookies stores OAuth state and nonce in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := isSecureRequest(r)

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    p.State,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    p.Nonce,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie stores the session ID with an expiry matching the session.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, session domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectLoginError sends the browser back to the frontend login page.
func (h *AuthHandlers) redirectLoginError(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.FrontendOrigin+"/login?error=auth_failed", http.StatusFound)
}
