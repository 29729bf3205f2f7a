package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// AccountResolver maps a session token to its active account.
type AccountResolver interface {
	CurrentAccount(ctx context.Context, token string) (*models.Account, error)
}

// Session resolves the session cookie on every request. Requests without a usable session
// continue anonymously; a rejected cookie is cleared so the browser stops sending it.
func Session(cfg config.SessionConfig, resolver AccountResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := responses.SessionToken(r, cfg)
			if token == "" || resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			account, err := resolver.CurrentAccount(ctx, token)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
					responses.ClearSessionCookie(w, cfg)
				} else if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "session.resolve_failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithAccount(ctx, account)
			if logg != nil {
				ctx = logg.WithAccountID(ctx, account.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
