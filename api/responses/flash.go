package responses

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// FlashKind selects the styling of a notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Kind    FlashKind `json:"k"`
	Message string    `json:"m"`
}

// Flasher stores notices in a short-lived cookie and turns errors into notice plus redirect.
type Flasher struct {
	cookieName string
	secure     bool
	logg       *logger.Logger
}

func NewFlasher(cfg config.SessionConfig, logg *logger.Logger) *Flasher {
	name := strings.TrimSpace(cfg.FlashCookieName)
	if name == "" {
		name = "sf_flash"
	}
	return &Flasher{cookieName: name, secure: cfg.CookieSecure, logg: logg}
}

// Set queues a notice for the next page.
func (f *Flasher) Set(w http.ResponseWriter, kind FlashKind, message string) {
	raw, err := json.Marshal(FlashMessage{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     f.cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) *FlashMessage {
	cookie, err := r.Cookie(f.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     f.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var msg FlashMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Message == "" {
		return nil
	}
	return &msg
}

// Redirect answers with 303 See Other so a POST is followed by a GET.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectWithNotice queues a success notice and redirects.
func (f *Flasher) RedirectWithNotice(w http.ResponseWriter, r *http.Request, target, message string) {
	f.Set(w, FlashSuccess, message)
	Redirect(w, r, target)
}

// RedirectWithError logs err, queues its public message and redirects back to target.
func (f *Flasher) RedirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	LogError(r.Context(), f.logg, err)
	f.Set(w, FlashError, PublicMessage(err))
	Redirect(w, r, target)
}
