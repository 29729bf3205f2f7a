package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const (
	msgProductCreated = "Item added successfully!"
	msgProductUpdated = "Product updated successfully!"
	msgProductDeleted = "Product deleted successfully!"
	msgImageRequired  = "Please fill all fields and upload a valid image."
)

type productAdmin interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, input catalog.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uint, input catalog.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type adminProductsData struct {
	Products []models.Product
}

type productFormData struct {
	Action   string
	Product  models.Product
	Sections []enums.Section
}

func AdminProducts(p *Pages, svc productAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAll(r.Context())
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "admin_products", "Products", adminProductsData{Products: products})
	}
}

func AdminProductNew(p *Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, "admin_product_form", "Add product", productFormData{
			Action:   "/admin/products/new",
			Product:  models.Product{InStock: true},
			Sections: enums.Sections,
		})
	}
}

// AdminProductCreate stores the uploaded image first and removes it again when the product is rejected.
func AdminProductCreate(p *Pages, svc productAdmin, images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/admin/products/new", err)
			return
		}
		imageRef, err := saveOptionalImage(ctx, r, images, "image", storage.KindProduct)
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/admin/products/new", err)
			return
		}
		if imageRef == "" {
			p.Flash.RedirectWithError(w, r, "/admin/products/new", pkgerrors.New(pkgerrors.CodeValidation, msgImageRequired))
			return
		}

		input := productInput(r)
		input.Image = imageRef
		if _, err := svc.Create(ctx, input); err != nil {
			p.discardImage(ctx, images, imageRef)
			p.Flash.RedirectWithError(w, r, "/admin/products/new", err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/admin/products/new", msgProductCreated)
	}
}

func AdminProductEdit(p *Pages, svc productAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		product, err := svc.ProductByID(r.Context(), id)
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "admin_product_form", "Edit product", productFormData{
			Action:   fmt.Sprintf("/admin/products/%d/edit", product.ID),
			Product:  *product,
			Sections: enums.Sections,
		})
	}
}

// AdminProductUpdate keeps the stored image unless a new one is uploaded.
func AdminProductUpdate(p *Pages, svc productAdmin, images storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/admin/products", err)
			return
		}
		back := fmt.Sprintf("/admin/products/%d/edit", id)
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, back, err)
			return
		}
		imageRef, err := saveOptionalImage(ctx, r, images, "image", storage.KindProduct)
		if err != nil {
			p.Flash.RedirectWithError(w, r, back, err)
			return
		}

		input := productInput(r)
		input.Image = imageRef
		if _, err := svc.Update(ctx, id, input); err != nil {
			p.discardImage(ctx, images, imageRef)
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				back = "/admin/products"
			}
			p.Flash.RedirectWithError(w, r, back, err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/admin/products", msgProductUpdated)
	}
}

func AdminProductDelete(p *Pages, svc productAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.Flash.RedirectWithError(w, r, "/admin/products", err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			p.Flash.RedirectWithError(w, r, "/admin/products", err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, "/admin/products", msgProductDeleted)
	}
}

func productInput(r *http.Request) catalog.ProductInput {
	_, inStock := r.Form["in_stock"]
	return catalog.ProductInput{
		Title:       r.FormValue("title"),
		Price:       r.FormValue("price"),
		Section:     r.FormValue("section"),
		Description: r.FormValue("description"),
		InStock:     &inStock,
	}
}
