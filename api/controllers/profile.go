package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/address"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const (
	msgProfileUpdated = "Profile updated successfully!"
	msgAddressAdded   = "Address added successfully!"
	msgAddressDeleted = "Address deleted successfully!"
)

type profileUpdater interface {
	UpdateProfile(ctx context.Context, accountID uint, name, profileImage string) (*models.Account, error)
}

type addressBook interface {
	Add(ctx context.Context, accountID uint, input address.Input) (*models.Address, error)
	Remove(ctx context.Context, accountID, addressID uint) (bool, error)
	List(ctx context.Context, accountID uint) ([]models.Address, error)
}

type counter interface {
	Count(ctx context.Context, accountID uint) (int64, error)
}

// ProfileDeps are the read models shown on the profile page.
type ProfileDeps struct {
	Addresses addressBook
	Wishlist  counter
	Orders    counter
}

type profileData struct {
	Addresses     []models.Address
	CartCount     int64
	WishlistCount int64
	OrderCount    int64
}

type addressForm struct {
	Name       string `form:"name"`
	Phone      string `form:"phone"`
	Line1      string `form:"address_line1"`
	Line2      string `form:"address_line2"`
	City       string `form:"city"`
	State      string `form:"state"`
	PostalCode string `form:"pincode"`
	Landmark   string `form:"landmark"`
	Type       string `form:"address_type"`
	IsDefault  bool   `form:"is_default"`
}

func ProfilePage(p *Pages, deps ProfileDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := accountID(r)

		addresses, err := deps.Addresses.List(ctx, id)
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		wishlistCount, err := deps.Wishlist.Count(ctx, id)
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		orderCount, err := deps.Orders.Count(ctx, id)
		if err != nil {
			p.renderError(w, r, err)
			return
		}

		page := p.page(w, r, "My profile", nil)
		page.Data = profileData{
			Addresses:     addresses,
			CartCount:     page.CartCount,
			WishlistCount: wishlistCount,
			OrderCount:    orderCount,
		}
		p.renderPage(w, r, http.StatusOK, "profile", page)
	}
}

// ProfileUpdate changes the display name and, when a file is sent, the profile image.
func ProfileUpdate(p *Pages, svc profileUpdater, images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		imageRef, err := saveOptionalImage(ctx, r, images, "profile_image", storage.KindProfile)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		if _, err := svc.UpdateProfile(ctx, accountID(r), r.FormValue("name"), imageRef); err != nil {
			p.discardImage(ctx, images, imageRef)
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/profile", msgProfileUpdated)
	}
}

func AddressCreate(p *Pages, svc addressBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form addressForm
		if err := validators.DecodeForm(r, &form); err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		_, err := svc.Add(r.Context(), accountID(r), address.Input{
			Name:       form.Name,
			Phone:      form.Phone,
			Line1:      form.Line1,
			Line2:      form.Line2,
			City:       form.City,
			State:      form.State,
			PostalCode: form.PostalCode,
			Landmark:   form.Landmark,
			Type:       form.Type,
			IsDefault:  form.IsDefault,
		})
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/profile", msgAddressAdded)
	}
}

// AddressDelete removes an owned address. Unknown or foreign ids change nothing and
// show no notice.
func AddressDelete(p *Pages, svc addressBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		removed, err := svc.Remove(r.Context(), accountID(r), id)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/profile", err)
			return
		}
		if removed {
			p.Flash.RedirectWithNotice(w, r, "/profile", msgAddressDeleted)
			return
		}
		responses.Redirect(w, r, "/profile")
	}
}
