package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/db/models"
)

const msgContactReceived = "Thank you for your message! We'll get back to you soon."

type homeLister interface {
	Home(ctx context.Context) ([]catalog.HomeSection, error)
}

type productSearcher interface {
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type collectionLister interface {
	Collection(ctx context.Context, filter string) (catalog.Listing, error)
}

type productDetailer interface {
	ProductByTitle(ctx context.Context, title string) (*catalog.ProductDetail, error)
}

type wishlistChecker interface {
	Contains(ctx context.Context, accountID, productID uint) (bool, error)
}

type homeData struct {
	Sections []catalog.HomeSection
}

type listingData struct {
	Title    string
	Query    string
	Products []models.Product
}

type productData struct {
	Detail     *catalog.ProductDetail
	InWishlist bool
}

type contactForm struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject" validate:"required"`
	Message string `form:"message" validate:"required"`
}

func Home(p *Pages, svc homeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := svc.Home(r.Context())
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "home", "", homeData{Sections: sections})
	}
}

func Search(p *Pages, svc productSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		products, err := svc.Search(r.Context(), query)
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "listing", "Search", listingData{
			Title:    "Search results",
			Query:    query,
			Products: products,
		})
	}
}

func Collection(p *Pages, svc collectionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := svc.Collection(r.Context(), r.URL.Query().Get("filter"))
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "listing", listing.Title, listingData{
			Title:    listing.Title,
			Products: listing.Products,
		})
	}
}

// ProductDetail looks the product up by its exact title. The wishlist flag is only computed
// for signed-in visitors.
func ProductDetail(p *Pages, svc productDetailer, wishlist wishlistChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		title := chi.URLParam(r, "title")
		if unescaped, err := url.PathUnescape(title); err == nil {
			title = unescaped
		}
		detail, err := svc.ProductByTitle(ctx, strings.TrimSpace(title))
		if err != nil {
			p.renderError(w, r, err)
			return
		}

		data := productData{Detail: detail}
		if id := accountID(r); id != 0 && wishlist != nil {
			inWishlist, err := wishlist.Contains(ctx, id, detail.Product.ID)
			if err != nil {
				responses.LogError(ctx, p.Logger, err)
			}
			data.InWishlist = inWishlist
		}
		p.render(w, r, http.StatusOK, "product", detail.Product.Title, data)
	}
}

func About(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, "about", "About", nil)
	}
}

func Contact(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, "contact", "Contact", nil)
	}
}

// ContactSubmit accepts the contact form. Messages are only logged; there is no mailer.
func ContactSubmit(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form contactForm
		if err := validators.DecodeForm(r, &form); err != nil {
			p.Flash.RedirectWithError(w, r, "/contact", err)
			return
		}
		ctx := p.Logger.WithFields(r.Context(), map[string]any{
			"subject":        validators.SanitizeString(form.Subject, 200),
			"message_length": len(form.Message),
		})
		p.Logger.Info(ctx, "contact.message_received")
		p.Flash.RedirectWithNotice(w, r, "/contact", msgContactReceived)
	}
}
