package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/wishlist"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	msgCartAdded        = "Item added to cart!"
	msgCartUpdated      = "Cart updated!"
	msgCartRemoved      = "Item removed from cart!"
	msgInvalidQuantity  = "Please enter a valid quantity."
	msgWishlistAdded    = "Item added to wishlist!"
	msgWishlistRemoved  = "Item removed from wishlist!"
	maxCartLineQuantity = 99
)

type cartManager interface {
	AddItem(ctx context.Context, accountID, productID uint) error
	SetQuantity(ctx context.Context, accountID, lineID uint, quantity int) (cart.Outcome, error)
	RemoveItem(ctx context.Context, accountID, lineID uint) (bool, error)
	Count(ctx context.Context, accountID uint) (int64, error)
	Summary(ctx context.Context, accountID uint) (*cart.Summary, error)
}

type wishlistManager interface {
	AddItem(ctx context.Context, accountID, productID uint) error
	RemoveItem(ctx context.Context, accountID, entryID uint) (bool, error)
	ListItems(ctx context.Context, accountID uint) ([]wishlist.Entry, error)
}

type wishlistData struct {
	Entries []wishlist.Entry
}

func CartPage(p *Pages, svc cartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context(), accountID(r))
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "cart", "My cart", summary)
	}
}

// CartAddItem is called from page scripts and answers JSON with the new cart count.
func CartAddItem(svc cartManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		productID, err := validators.ParseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id := accountID(r)
		if err := svc.AddItem(ctx, id, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		count, err := svc.Count(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, msgCartAdded, map[string]any{"cart_count": count})
	}
}

// CartSetQuantity applies the submitted quantity; zero or less removes the line.
func CartSetQuantity(p *Pages, svc cartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
		if err != nil || quantity > maxCartLineQuantity {
			p.Flash.RedirectWithError(w, r, "/cart", pkgerrors.New(pkgerrors.CodeValidation, msgInvalidQuantity))
			return
		}

		outcome, err := svc.SetQuantity(r.Context(), accountID(r), lineID, quantity)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		switch outcome {
		case cart.OutcomeUpdated:
			p.Flash.RedirectWithNotice(w, r, "/cart", msgCartUpdated)
		case cart.OutcomeRemoved:
			p.Flash.RedirectWithNotice(w, r, "/cart", msgCartRemoved)
		default:
			responses.Redirect(w, r, "/cart")
		}
	}
}

func CartRemove(p *Pages, svc cartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		removed, err := svc.RemoveItem(r.Context(), accountID(r), lineID)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		if removed {
			p.Flash.RedirectWithNotice(w, r, "/cart", msgCartRemoved)
			return
		}
		responses.Redirect(w, r, "/cart")
	}
}

func WishlistPage(p *Pages, svc wishlistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListItems(r.Context(), accountID(r))
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "wishlist", "My wishlist", wishlistData{Entries: entries})
	}
}

func WishlistAddItem(svc wishlistManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		productID, err := validators.ParseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.AddItem(ctx, accountID(r), productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, msgWishlistAdded, nil)
	}
}

func WishlistRemove(p *Pages, svc wishlistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/wishlist", err)
			return
		}
		removed, err := svc.RemoveItem(r.Context(), accountID(r), entryID)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/wishlist", err)
			return
		}
		if removed {
			p.Flash.RedirectWithNotice(w, r, "/wishlist", msgWishlistRemoved)
			return
		}
		responses.Redirect(w, r, "/wishlist")
	}
}
