package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const (
	msgRegistered   = "Registration successful! Please sign in."
	msgSignedOut    = "You have been signed out successfully."
	msgAdminCreated = "Admin account created successfully! Please sign in."
	msgAdminExists  = "Admin account already exists!"
)

type registrar interface {
	Register(ctx context.Context, input auth.RegisterInput) (*models.Account, error)
}

type signer interface {
	SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error)
}

type signerOut interface {
	SignOut(ctx context.Context, token string) error
}

type adminBootstrapper interface {
	BootstrapAdmin(ctx context.Context, input auth.BootstrapInput) (*models.Account, error)
	AdminExists(ctx context.Context) (bool, error)
}

func RegisterPage(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, "register", "Register", nil)
	}
}

// RegisterSubmit creates a customer account. The profile image is optional.
func RegisterSubmit(p *Pages, svc registrar, images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/register", err)
			return
		}
		imageRef, err := saveOptionalImage(ctx, r, images, "profile_image", storage.KindProfile)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/register", err)
			return
		}

		_, err = svc.Register(ctx, auth.RegisterInput{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			ProfileImage:    imageRef,
		})
		if err != nil {
			p.discardImage(ctx, images, imageRef)
			p.Flash.RedirectWithError(w, r, "/register", err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/signin", msgRegistered)
	}
}

func SignInPage(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, "signin", "Sign in", nil)
	}
}

// SignInSubmit verifies the credentials and stores the session token in the cookie.
func SignInSubmit(p *Pages, svc signer, cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/signin", err)
			return
		}
		result, err := svc.SignIn(r.Context(), r.FormValue("email"), r.FormValue("password"))
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/signin", err)
			return
		}
		responses.SetSessionCookie(w, cfg, result.Token, result.ExpiresAt)
		p.Flash.RedirectWithNotice(w, r, "/", fmt.Sprintf("Welcome back, %s!", result.Account.Name))
	}
}

// SignOut revokes the session even when the cookie is already stale.
func SignOut(p *Pages, svc signerOut, cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := responses.SessionToken(r, cfg); token != "" {
			if err := svc.SignOut(r.Context(), token); err != nil {
				responses.LogError(r.Context(), p.Logger, err)
			}
		}
		responses.ClearSessionCookie(w, cfg)
		p.Flash.RedirectWithNotice(w, r, "/", msgSignedOut)
	}
}

// SetupAdminPage shows the bootstrap form until the first administrator exists.
func SetupAdminPage(p *Pages, svc adminBootstrapper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exists, err := svc.AdminExists(r.Context())
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		if exists {
			p.Flash.Set(w, responses.FlashError, msgAdminExists)
			responses.Redirect(w, r, "/")
			return
		}
		p.render(w, r, http.StatusOK, "setup_admin", "Administrator setup", nil)
	}
}

func SetupAdminSubmit(p *Pages, svc adminBootstrapper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/setup/admin", err)
			return
		}
		_, err := svc.BootstrapAdmin(ctx, auth.BootstrapInput{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			SecretKey:       r.FormValue("secret_key"),
		})
		if err != nil {
			target := "/setup/admin"
			if exists, checkErr := svc.AdminExists(ctx); checkErr == nil && exists {
				target = "/"
			}
			p.Flash.RedirectWithError(w, r, target, err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/signin", msgAdminCreated)
	}
}

// discardImage removes an upload whose row was rejected. Failures are only logged.
func (p *Pages) discardImage(ctx context.Context, images storage.ImageStore, ref string) {
	if ref == "" || images == nil {
		return
	}
	if err := images.DeleteImage(ctx, ref); err != nil {
		responses.LogError(ctx, p.Logger, err)
	}
}

// saveOptionalImage stores the uploaded file under field, returning "" when none was sent.
func saveOptionalImage(ctx context.Context, r *http.Request, images storage.ImageStore, field string, kind storage.Kind) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}
	defer file.Close()
	if strings.TrimSpace(header.Filename) == "" || header.Size == 0 {
		return "", nil
	}
	if images == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "image store unavailable")
	}
	return images.SaveImage(ctx, kind, header.Filename, file)
}
