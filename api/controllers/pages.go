package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/views"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type cartCounter interface {
	Count(ctx context.Context, accountID uint) (int64, error)
}

// Pages bundles what every HTML handler needs to render a page.
type Pages struct {
	Views  views.Renderer
	Flash  *responses.Flasher
	Cart   cartCounter
	Logger *logger.Logger
}

// page builds the common data bag: current account, live cart count and the pending notice.
func (p *Pages) page(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	account := middleware.AccountFromContext(r.Context())
	page := views.Page{
		Title:   title,
		Account: account,
		Flash:   p.Flash.Pop(w, r),
		Data:    data,
	}
	if account != nil && p.Cart != nil {
		count, err := p.Cart.Count(r.Context(), account.ID)
		if err != nil {
			responses.LogError(r.Context(), p.Logger, err)
		} else {
			page.CartCount = count
		}
	}
	return page
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	p.renderPage(w, r, status, name, p.page(w, r, title, data))
}

func (p *Pages) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if err := p.Views.Render(w, status, name, page); err != nil {
		responses.LogError(r.Context(), p.Logger, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render page"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the not-found page for NotFound and the generic error page otherwise.
func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		p.NotFound(w, r)
		return
	}
	responses.LogError(r.Context(), p.Logger, err)
	status := http.StatusInternalServerError
	if typed := pkgerrors.As(err); typed != nil {
		status = pkgerrors.MetadataFor(typed.Code()).HTTPStatus
	}
	p.render(w, r, status, "error", "Error", errorData{Message: responses.PublicMessage(err)})
}

// NotFound renders the 404 page. It doubles as the router's fallback handler.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, "not_found", "Not found", nil)
}

type errorData struct {
	Message string
}

func accountID(r *http.Request) uint {
	if account := middleware.AccountFromContext(r.Context()); account != nil {
		return account.ID
	}
	return 0
}
