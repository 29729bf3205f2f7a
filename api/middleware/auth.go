package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	msgLoginRequired = "Please login to continue."
	msgAdminRequired = "Admin access required!"
)

// RequireAccount sends anonymous visitors to the sign-in page.
func RequireAccount(flash *responses.Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if AccountFromContext(r.Context()) == nil {
				flash.Set(w, responses.FlashError, msgLoginRequired)
				responses.Redirect(w, r, "/signin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccountJSON is the gate for endpoints called from scripts; it answers 401 instead
// of redirecting.
func RequireAccountJSON(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if AccountFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginRequired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin lets only administrators through; everyone else goes back home.
func RequireAdmin(flash *responses.Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := AccountFromContext(r.Context())
			if account == nil {
				flash.Set(w, responses.FlashError, msgLoginRequired)
				responses.Redirect(w, r, "/signin")
				return
			}
			if !account.IsAdmin {
				flash.Set(w, responses.FlashError, msgAdminRequired)
				responses.Redirect(w, r, "/")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
