package responses

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
)

// SetSessionCookie stores the signed session token.
func SetSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken reads the session cookie, returning "" when absent.
func SessionToken(r *http.Request, cfg config.SessionConfig) string {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
