// Package session ties a browser to its server-side cart via an opaque
// cookie token. Resolve is read-only and safe during page rendering; Ensure
// mutates the response and belongs only in action handlers. Keeping the two
// paths separate is what guarantees that rendering a page never creates a
// cart.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cart identity cookie.
const CookieName = "cartId"

// MaxAge is the cookie lifetime, matching the cart's store-side TTL.
const MaxAge = 7 * 24 * time.Hour

// Manager issues and reads cart identity cookies.
type Manager struct {
	secure bool
}

// NewManager creates a session manager. secure controls the cookie's Secure
// attribute and should be true outside local development.
func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// Resolve returns the cart token from the request cookie, or "" when the
// browser has none. It never writes to the response.
func (m *Manager) Resolve(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	return c.Value
}

// Ensure returns the request's cart token, generating a fresh one when
// absent. The cookie is rewritten unconditionally so every mutating action
// slides the 7 day expiration window, keeping cookie and store TTL aligned.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) string {
	token := m.Resolve(r)
	if token == "" {
		token = uuid.NewString()
	}
	http.SetCookie(w, m.cookie(token, int(MaxAge.Seconds())))
	return token
}

// Clear expires the cart cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
