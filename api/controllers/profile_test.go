package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/address"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubAddressBook struct {
	list    []models.Address
	inputs  []address.Input
	removed bool
	err     error
}

func (s *stubAddressBook) Add(_ context.Context, _ uint, input address.Input) (*models.Address, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Address{ID: 1}, nil
}

func (s *stubAddressBook) Remove(context.Context, uint, uint) (bool, error) {
	return s.removed, s.err
}

func (s *stubAddressBook) List(context.Context, uint) ([]models.Address, error) {
	return s.list, s.err
}

type stubProfileUpdater struct {
	names  []string
	images []string
	err    error
}

func (s *stubProfileUpdater) UpdateProfile(_ context.Context, _ uint, name, image string) (*models.Account, error) {
	s.names = append(s.names, name)
	s.images = append(s.images, image)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Account{ID: 7, Name: name}, nil
}

func TestAddressCreateMapsFormFields(t *testing.T) {
	svc := &stubAddressBook{}
	handler := AddressCreate(newTestPages(&stubRenderer{}), svc)

	req := formRequest(http.MethodPost, "/addresses", url.Values{
		"name":          {"Ada"},
		"phone":         {"9999999999"},
		"address_line1": {"12 MG Road"},
		"city":          {"Pune"},
		"state":         {"MH"},
		"pincode":       {"411001"},
		"address_type":  {"work"},
		"is_default":    {"on"},
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signedIn(req))

	assertRedirect(t, resp, "/profile")
	assertFlash(t, resp, responses.FlashSuccess, msgAddressAdded)
	if len(svc.inputs) != 1 {
		t.Fatalf("expected one address added, got %d", len(svc.inputs))
	}
	in := svc.inputs[0]
	if in.Line1 != "12 MG Road" || in.PostalCode != "411001" || in.Type != "work" || !in.IsDefault {
		t.Fatalf("unexpected address input %#v", in)
	}
}

func TestAddressCreateUncheckedDefault(t *testing.T) {
	svc := &stubAddressBook{}
	handler := AddressCreate(newTestPages(&stubRenderer{}), svc)

	req := formRequest(http.MethodPost, "/addresses", url.Values{"name": {"Ada"}})
	handler.ServeHTTP(httptest.NewRecorder(), signedIn(req))

	if len(svc.inputs) != 1 || svc.inputs[0].IsDefault {
		t.Fatalf("absent checkbox must not mark the address default: %#v", svc.inputs)
	}
}

func TestAddressCreateValidationError(t *testing.T) {
	svc := &stubAddressBook{err: pkgerrors.New(pkgerrors.CodeValidation, "Please fill all required fields.")}
	handler := AddressCreate(newTestPages(&stubRenderer{}), svc)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signedIn(formRequest(http.MethodPost, "/addresses", url.Values{})))

	assertRedirect(t, resp, "/profile")
	assertFlash(t, resp, responses.FlashError, "Please fill all required fields.")
}

func TestAddressDeleteForeignIsSilent(t *testing.T) {
	handler := AddressDelete(newTestPages(&stubRenderer{}), &stubAddressBook{removed: false})

	req := withURLParam(signedIn(httptest.NewRequest(http.MethodPost, "/addresses/5/delete", nil)), "id", "5")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assertRedirect(t, resp, "/profile")
	if flash := flashFrom(t, resp); flash != nil {
		t.Fatalf("expected no notice, got %#v", flash)
	}
}

func TestProfileUpdateWithoutImage(t *testing.T) {
	svc := &stubProfileUpdater{}
	handler := ProfileUpdate(newTestPages(&stubRenderer{}), svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signedIn(formRequest(http.MethodPost, "/profile", url.Values{"name": {"Ada L"}})))

	assertRedirect(t, resp, "/profile")
	assertFlash(t, resp, responses.FlashSuccess, msgProfileUpdated)
	if len(svc.names) != 1 || svc.names[0] != "Ada L" || svc.images[0] != "" {
		t.Fatalf("unexpected update %v %v", svc.names, svc.images)
	}
}

func TestProfileUpdateStoresUploadedImage(t *testing.T) {
	svc := &stubProfileUpdater{}
	images := &stubImageStore{ref: "uploads/profiles/me.png"}
	handler := ProfileUpdate(newTestPages(&stubRenderer{}), svc, images)

	req := multipartRequest(t, "/profile", map[string]string{"name": ""}, "profile_image", "me.png", []byte("png"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signedIn(req))

	assertRedirect(t, resp, "/profile")
	if len(svc.images) != 1 || svc.images[0] != "uploads/profiles/me.png" {
		t.Fatalf("expected stored image ref, got %v", svc.images)
	}
}

func TestProfileUpdateRejectedRemovesUpload(t *testing.T) {
	svc := &stubProfileUpdater{err: pkgerrors.New(pkgerrors.CodeNotFound, "Account not found.")}
	images := &stubImageStore{ref: "uploads/profiles/me.png"}
	handler := ProfileUpdate(newTestPages(&stubRenderer{}), svc, images)

	req := multipartRequest(t, "/profile", map[string]string{"name": "Ada"}, "profile_image", "me.png", []byte("png"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signedIn(req))

	assertRedirect(t, resp, "/profile")
	assertFlash(t, resp, responses.FlashError, "Account not found.")
	if len(images.deleted) != 1 || images.deleted[0] != "uploads/profiles/me.png" {
		t.Fatalf("expected rejected upload to be removed, got %v", images.deleted)
	}
}
