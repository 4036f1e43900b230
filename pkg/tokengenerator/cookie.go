package tokengenerator

import (
	"net/http"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

// CookieName is the session cookie. jwtauth.TokenFromCookie reads the same name.
const CookieName = "jwt"

// CookieSetter interface defines methods for session cookie operations
type CookieSetter interface {
	// SetCookie writes the session token cookie
	SetCookie(w http.ResponseWriter, token domain.SessionToken, expire time.Time)

	// ClearCookie tells the client to drop the session cookie
	ClearCookie(w http.ResponseWriter)
}

// BaseCookieSetter provides a base implementation of CookieSetter
type BaseCookieSetter struct {
	Name     string
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// SetCookie sets the session cookie with the given value and expiry
func (c *BaseCookieSetter) SetCookie(w http.ResponseWriter, token domain.SessionToken, expire time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Path:     c.Path,
		Value:    token.Expose(),
		Expires:  expire,
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// ClearCookie clears the session cookie
func (c *BaseCookieSetter) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Path:     c.Path,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// NewCookieSetter creates a session cookie setter on path "/"
func NewCookieSetter(httpOnly, secure bool, sameSite http.SameSite) CookieSetter {
	return &BaseCookieSetter{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: httpOnly,
		Secure:   secure,
		SameSite: sameSite,
	}
}
