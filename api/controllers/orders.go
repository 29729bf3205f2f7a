package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const msgOrderPlaced = "Order placed successfully!"

type checkoutSummarizer interface {
	Summary(ctx context.Context, accountID uint) (*checkout.View, error)
}

type orderBook interface {
	CreateOrder(ctx context.Context, accountID, addressID uint) (uint, error)
	ListOrders(ctx context.Context, accountID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, accountID, orderID uint) (*orders.Detail, error)
}

type ordersData struct {
	Orders []models.Order
}

type orderData struct {
	Detail *orders.Detail
}

// CheckoutPage shows the priced cart and the address choice. An empty cart goes back to /cart.
func CheckoutPage(p *Pages, svc checkoutSummarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Summary(r.Context(), accountID(r))
		if pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
			p.Flash.RedirectWithError(w, r, "/cart", err)
			return
		}
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "checkout", "Checkout", view)
	}
}

// OrderCreate turns the cart into an order for the chosen address and redirects to its
// confirmation page.
func OrderCreate(p *Pages, svc orderBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(r); err != nil {
			p.Flash.RedirectWithError(w, r, "/checkout", err)
			return
		}
		// Malformed ids fall through as 0, which the order engine rejects as an invalid address.
		addressID, _ := strconv.ParseUint(strings.TrimSpace(r.FormValue("address_id")), 10, 64)

		orderID, err := svc.CreateOrder(r.Context(), accountID(r), uint(addressID))
		if err != nil {
			target := "/checkout"
			if pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
				target = "/cart"
			}
			p.Flash.RedirectWithError(w, r, target, err)
			return
		}
		p.Flash.RedirectWithNotice(w, r, fmt.Sprintf("/orders/%d", orderID), msgOrderPlaced)
	}
}

func OrdersPage(p *Pages, svc orderBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListOrders(r.Context(), accountID(r))
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "orders", "My orders", ordersData{Orders: list})
	}
}

// OrderDetail is the confirmation page. Orders of other accounts render as not found.
func OrderDetail(p *Pages, svc orderBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		detail, err := svc.GetOrder(r.Context(), accountID(r), orderID)
		if err != nil {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, http.StatusOK, "order", fmt.Sprintf("Order #%d", detail.Order.ID), orderData{Detail: detail})
	}
}
