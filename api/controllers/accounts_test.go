package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubAuth struct {
	signIn      *auth.SignInResult
	err         error
	adminExists bool
	registered  []auth.RegisterInput
	bootstraps  []auth.BootstrapInput
	revoked     []string
}

func (s *stubAuth) Register(_ context.Context, input auth.RegisterInput) (*models.Account, error) {
	s.registered = append(s.registered, input)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Account{ID: 1, Name: input.Name}, nil
}

func (s *stubAuth) SignIn(context.Context, string, string) (*auth.SignInResult, error) {
	return s.signIn, s.err
}

func (s *stubAuth) SignOut(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubAuth) BootstrapAdmin(_ context.Context, input auth.BootstrapInput) (*models.Account, error) {
	s.bootstraps = append(s.bootstraps, input)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Account{ID: 1, IsAdmin: true}, nil
}

func (s *stubAuth) AdminExists(context.Context) (bool, error) {
	return s.adminExists, nil
}

func TestSignInSubmitSetsCookieAndWelcomes(t *testing.T) {
	svc := &stubAuth{signIn: &auth.SignInResult{
		Account:   &models.Account{ID: 5, Name: "Ada"},
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	handler := SignInSubmit(newTestPages(&stubRenderer{}), svc, testSessionConfig)

	req := formRequest(http.MethodPost, "/signin", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/")
	assertFlash(t, resp, responses.FlashSuccess, "Welcome back, Ada!")

	var session *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == testSessionConfig.CookieName {
			session = c
		}
	}
	if session == nil || session.Value != "signed-token" {
		t.Fatalf("expected session cookie with token, got %#v", session)
	}
	if !session.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
}

func TestSignInSubmitFailureReturnsToForm(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password.")}
	handler := SignInSubmit(newTestPages(&stubRenderer{}), svc, testSessionConfig)

	req := formRequest(http.MethodPost, "/signin", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/signin")
	assertFlash(t, resp, responses.FlashError, "Invalid email or password.")
}

func TestRegisterSubmitWithoutImage(t *testing.T) {
	svc := &stubAuth{}
	handler := RegisterSubmit(newTestPages(&stubRenderer{}), svc, nil)

	req := formRequest(http.MethodPost, "/register", url.Values{
		"name":             {"Ada"},
		"email":            {"ada@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/signin")
	assertFlash(t, resp, responses.FlashSuccess, msgRegistered)
	if len(svc.registered) != 1 || svc.registered[0].ProfileImage != "" || svc.registered[0].ConfirmPassword != "secret1" {
		t.Fatalf("unexpected register input %#v", svc.registered)
	}
}

func TestRegisterSubmitSurfacesConflict(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeConflict, "Email already exists. Please use a different email.")}
	handler := RegisterSubmit(newTestPages(&stubRenderer{}), svc, nil)

	req := formRequest(http.MethodPost, "/register", url.Values{"name": {"Ada"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/register")
	assertFlash(t, resp, responses.FlashError, "Email already exists. Please use a different email.")
}

func TestRegisterSubmitConflictRemovesUploadedImage(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeConflict, "Email already exists. Please use a different email.")}
	images := &stubImageStore{ref: "uploads/profiles/ada.png"}
	handler := RegisterSubmit(newTestPages(&stubRenderer{}), svc, images)

	req := multipartRequest(t, "/register", map[string]string{
		"name":             "Ada",
		"email":            "ada@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	}, "profile_image", "ada.png", []byte("png-bytes"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/register")
	if len(svc.registered) != 1 || svc.registered[0].ProfileImage != "uploads/profiles/ada.png" {
		t.Fatalf("expected stored ref forwarded, got %#v", svc.registered)
	}
	if len(images.deleted) != 1 || images.deleted[0] != "uploads/profiles/ada.png" {
		t.Fatalf("expected orphaned upload removed, got %v", images.deleted)
	}
}

func TestSignOutRevokesAndClearsCookie(t *testing.T) {
	svc := &stubAuth{}
	handler := SignOut(newTestPages(&stubRenderer{}), svc, testSessionConfig)

	req := httptest.NewRequest(http.MethodPost, "/signout", nil)
	req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: "tok"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/")
	if len(svc.revoked) != 1 || svc.revoked[0] != "tok" {
		t.Fatalf("expected token revoked, got %v", svc.revoked)
	}
	cleared := false
	for _, c := range resp.Result().Cookies() {
		if c.Name == testSessionConfig.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}

func TestSetupAdminPageRedirectsOnceAdminExists(t *testing.T) {
	renderer := &stubRenderer{}
	handler := SetupAdminPage(newTestPages(renderer), &stubAuth{adminExists: true})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/setup/admin", nil))

	assertRedirect(t, resp, "/")
	assertFlash(t, resp, responses.FlashError, msgAdminExists)
	if len(renderer.calls) != 0 {
		t.Fatal("setup form must not render once an admin exists")
	}
}

func TestSetupAdminSubmitInvalidSecretStaysOnForm(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeForbidden, "Invalid secret key!")}
	handler := SetupAdminSubmit(newTestPages(&stubRenderer{}), svc)

	req := formRequest(http.MethodPost, "/setup/admin", url.Values{"secret_key": {"nope"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/setup/admin")
	assertFlash(t, resp, responses.FlashError, "Invalid secret key!")
	if len(svc.bootstraps) != 1 || svc.bootstraps[0].SecretKey != "nope" {
		t.Fatalf("expected secret forwarded, got %#v", svc.bootstraps)
	}
}

func TestSetupAdminSubmitSuccess(t *testing.T) {
	handler := SetupAdminSubmit(newTestPages(&stubRenderer{}), &stubAuth{})

	req := formRequest(http.MethodPost, "/setup/admin", url.Values{"secret_key": {"s"}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/signin")
	assertFlash(t, resp, responses.FlashSuccess, msgAdminCreated)
}
