package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubCatalog struct {
	sections []catalog.HomeSection
	detail   *catalog.ProductDetail
	err      error
	titles   []string
}

func (s *stubCatalog) Home(context.Context) ([]catalog.HomeSection, error) {
	return s.sections, s.err
}

func (s *stubCatalog) ProductByTitle(_ context.Context, title string) (*catalog.ProductDetail, error) {
	s.titles = append(s.titles, title)
	return s.detail, s.err
}

type stubWishlistChecker struct {
	contains bool
	calls    int
}

func (s *stubWishlistChecker) Contains(context.Context, uint, uint) (bool, error) {
	s.calls++
	return s.contains, nil
}

func TestHomeRendersSectionsWithCartCount(t *testing.T) {
	renderer := &stubRenderer{}
	svc := &stubCatalog{sections: []catalog.HomeSection{{Section: enums.SectionPopular, Total: 1}}}
	handler := Home(newTestPages(renderer), svc)

	req := withAccount(httptest.NewRequest(http.MethodGet, "/", nil), &models.Account{ID: 4, Name: "Ada"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	call := renderer.last(t)
	if call.name != "home" || call.status != http.StatusOK {
		t.Fatalf("unexpected render %s/%d", call.name, call.status)
	}
	if call.page.CartCount != 2 {
		t.Fatalf("expected cart count 2 got %d", call.page.CartCount)
	}
	if call.page.Account == nil || call.page.Account.ID != 4 {
		t.Fatalf("expected current account on page")
	}
	data, ok := call.page.Data.(homeData)
	if !ok || len(data.Sections) != 1 {
		t.Fatalf("unexpected page data %#v", call.page.Data)
	}
}

func TestHomeAnonymousHasNoCartCount(t *testing.T) {
	renderer := &stubRenderer{}
	handler := Home(newTestPages(renderer), &stubCatalog{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	call := renderer.last(t)
	if call.page.Account != nil || call.page.CartCount != 0 {
		t.Fatalf("anonymous page should carry no account or cart count")
	}
}

func TestProductDetailUnknownTitleRendersNotFound(t *testing.T) {
	renderer := &stubRenderer{}
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductDetail(newTestPages(renderer), svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/products/Nope", nil), "title", "Nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	call := renderer.last(t)
	if call.name != "not_found" || call.status != http.StatusNotFound {
		t.Fatalf("expected not_found/404 got %s/%d", call.name, call.status)
	}
}

func TestProductDetailUnescapesTitleAndFlagsWishlist(t *testing.T) {
	renderer := &stubRenderer{}
	svc := &stubCatalog{detail: &catalog.ProductDetail{Product: models.Product{ID: 9, Title: "Black Abaya"}}}
	wishlist := &stubWishlistChecker{contains: true}
	handler := ProductDetail(newTestPages(renderer), svc, wishlist)

	req := httptest.NewRequest(http.MethodGet, "/products/Black%20Abaya", nil)
	req = withURLParam(withAccount(req, &models.Account{ID: 3}), "title", "Black%20Abaya")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if len(svc.titles) != 1 || svc.titles[0] != "Black Abaya" {
		t.Fatalf("expected unescaped title lookup, got %v", svc.titles)
	}
	data, ok := renderer.last(t).page.Data.(productData)
	if !ok || !data.InWishlist {
		t.Fatalf("expected wishlist flag set, got %#v", renderer.last(t).page.Data)
	}
}

func TestProductDetailSkipsWishlistForAnonymous(t *testing.T) {
	renderer := &stubRenderer{}
	svc := &stubCatalog{detail: &catalog.ProductDetail{Product: models.Product{ID: 9, Title: "Kaftan"}}}
	wishlist := &stubWishlistChecker{contains: true}
	handler := ProductDetail(newTestPages(renderer), svc, wishlist)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/products/Kaftan", nil), "title", "Kaftan")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if wishlist.calls != 0 {
		t.Fatalf("wishlist should not be consulted for anonymous visitors")
	}
}

func TestContactSubmitRequiresAllFields(t *testing.T) {
	handler := ContactSubmit(newTestPages(&stubRenderer{}))

	req := formRequest(http.MethodPost, "/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/contact")
	assertFlash(t, resp, responses.FlashError, "Please fill all fields.")
}

func TestContactSubmitAcceptsMessage(t *testing.T) {
	handler := ContactSubmit(newTestPages(&stubRenderer{}))

	req := formRequest(http.MethodPost, "/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {"Sizing"},
		"message": {"Do you stock XL?"},
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/contact")
	assertFlash(t, resp, responses.FlashSuccess, msgContactReceived)
}

func TestRenderFailureAnswers500(t *testing.T) {
	renderer := &stubRenderer{err: pkgerrors.New(pkgerrors.CodeInternal, "template exploded")}
	handler := About(newTestPages(renderer))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/about", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
