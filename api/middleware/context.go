package middleware

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

type contextKey string

const ctxAccount contextKey = "account"

// AccountFromContext returns the signed-in account, or nil for anonymous requests.
func AccountFromContext(ctx context.Context) *models.Account {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAccount).(*models.Account); ok {
		return v
	}
	return nil
}

// WithAccount injects the signed-in account into the context.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccount, account)
}
