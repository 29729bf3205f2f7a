package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/views"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/logger"
)

var testSessionConfig = config.SessionConfig{
	Secret:          "secret",
	CookieName:      "sf_session",
	FlashCookieName: "sf_flash",
	TTLMinutes:      60,
}

type renderCall struct {
	status int
	name   string
	page   views.Page
}

type stubRenderer struct {
	calls []renderCall
	err   error
}

func (s *stubRenderer) Render(w http.ResponseWriter, status int, name string, page views.Page) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, renderCall{status: status, name: name, page: page})
	w.WriteHeader(status)
	return nil
}

func (s *stubRenderer) last(t *testing.T) renderCall {
	t.Helper()
	if len(s.calls) == 0 {
		t.Fatal("expected a page to be rendered")
	}
	return s.calls[len(s.calls)-1]
}

type stubCounter struct {
	count int64
	err   error
}

func (s stubCounter) Count(context.Context, uint) (int64, error) {
	return s.count, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestPages(renderer views.Renderer) *Pages {
	logg := testLogger()
	return &Pages{
		Views:  renderer,
		Flash:  responses.NewFlasher(testSessionConfig, logg),
		Cart:   stubCounter{count: 2},
		Logger: logg,
	}
}

func withAccount(req *http.Request, account *models.Account) *http.Request {
	return req.WithContext(middleware.WithAccount(req.Context(), account))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// flashFrom decodes the notice queued on the response, or nil when none was set.
func flashFrom(t *testing.T, resp *httptest.ResponseRecorder) *responses.FlashMessage {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name != testSessionConfig.FlashCookieName || cookie.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			t.Fatalf("decode flash cookie: %v", err)
		}
		var msg responses.FlashMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal flash cookie: %v", err)
		}
		return &msg
	}
	return nil
}

func assertRedirect(t *testing.T, resp *httptest.ResponseRecorder, target string) {
	t.Helper()
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != target {
		t.Fatalf("expected redirect to %q got %q", target, loc)
	}
}

func assertFlash(t *testing.T, resp *httptest.ResponseRecorder, kind responses.FlashKind, message string) {
	t.Helper()
	flash := flashFrom(t, resp)
	if flash == nil {
		t.Fatalf("expected flash %q, none set", message)
	}
	if flash.Kind != kind || flash.Message != message {
		t.Fatalf("expected %s flash %q got %s %q", kind, message, flash.Kind, flash.Message)
	}
}
