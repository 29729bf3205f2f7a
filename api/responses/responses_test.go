package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, "Item added to cart!", map[string]int{"count": 2})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if !body.Success || body.Message != "Item added to cart!" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestWriteErrorUsesClientMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeConflict, "Item already in cart!"))

	if got := w.Code; got != http.StatusConflict {
		t.Fatalf("expected status 409 but got %d", got)
	}
	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body.Success || body.Message != "Item already in cart!" || body.Code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("pq: connection refused"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	var body Envelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body.Message != "internal server error" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
}

func TestPublicMessageForDataIntegrity(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeDataIntegrity, "price is not a number")
	if got := PublicMessage(err); got != pkgerrors.MetadataFor(pkgerrors.CodeDataIntegrity).PublicMessage {
		t.Fatalf("expected public wording, got %q", got)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	flasher := NewFlasher(config.SessionConfig{FlashCookieName: "flash"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/lines/1", nil)
	flasher.RedirectWithError(w, req, "/cart", pkgerrors.New(pkgerrors.CodeEmptyCart, "Your cart is empty!"))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/cart" {
		t.Fatalf("unexpected redirect %q", loc)
	}

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	read := httptest.NewRecorder()
	msg := flasher.Pop(read, next)
	if msg == nil {
		t.Fatal("expected a flash message")
	}
	if msg.Kind != FlashError || msg.Message != "Your cart is empty!" {
		t.Fatalf("unexpected flash %+v", msg)
	}

	cleared := read.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected the flash cookie to be cleared, got %+v", cleared)
	}
}

func TestFlashPopIgnoresGarbage(t *testing.T) {
	flasher := NewFlasher(config.SessionConfig{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sf_flash", Value: "%%%"})
	if msg := flasher.Pop(httptest.NewRecorder(), req); msg != nil {
		t.Fatalf("expected nil for undecodable cookie, got %+v", msg)
	}
}
