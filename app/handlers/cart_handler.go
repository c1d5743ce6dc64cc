package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
	"github.com/google/uuid"
	"github.com/unrolled/render"
)

type CartHandler struct {
	cart         *services.CartService
	sessionStore sessions.SessionStore
	render       *render.Render
}

func NewCartHandler(cart *services.CartService, sessionStore sessions.SessionStore, r *render.Render) *CartHandler {
	return &CartHandler{cart: cart, sessionStore: sessionStore, render: r}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.GetCart(r.Context(), helpers.CurrentCartID(r))
	if err != nil {
		log.Printf("GetCart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title": "Shopping cart",
		"Cart":  cart,
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Shop", URL: "/shop/"},
			{Name: "Cart", URL: "/cart/"},
		},
	})
	_ = h.render.HTML(w, http.StatusOK, "cart/summary", data)
}

// cartID returns the session's cart id, issuing one on first use.
func (h *CartHandler) cartID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id := helpers.CurrentCartID(r); id != "" {
		return id, nil
	}
	id := uuid.New().String()
	if err := h.sessionStore.SetCartID(w, r, id); err != nil {
		return "", err
	}
	return id, nil
}

func (h *CartHandler) parseLine(r *http.Request) (productID string, qty int, err error) {
	if err = r.ParseForm(); err != nil {
		return "", 0, err
	}
	productID = r.PostFormValue("product_id")
	qty, err = strconv.Atoi(r.PostFormValue("qty"))
	if err != nil {
		return productID, 0, services.FieldErrors{"qty": "Quantity must be a number."}
	}
	return productID, qty, nil
}

func (h *CartHandler) back(r *http.Request) string {
	if next := safeNext(r.PostFormValue("next")); next != "" {
		return next
	}
	return "/cart/"
}

func (h *CartHandler) fail(w http.ResponseWriter, r *http.Request, where string, err error) {
	var fieldErrs services.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		helpers.RedirectWithMessage(w, r, h.back(r), "error", fieldErrs.Error())
	case errors.Is(err, services.ErrNotFound):
		helpers.RedirectWithMessage(w, r, h.back(r), "error", "That product is not available.")
	default:
		log.Printf("%s: %v", where, err)
		helpers.RedirectWithMessage(w, r, h.back(r), "error", "Could not update your cart.")
	}
}

func (h *CartHandler) AddItemCart(w http.ResponseWriter, r *http.Request) {
	productID, qty, err := h.parseLine(r)
	if err != nil {
		h.fail(w, r, "AddItemCart", err)
		return
	}

	cartID, err := h.cartID(w, r)
	if err != nil {
		h.fail(w, r, "AddItemCart", err)
		return
	}

	if _, err := h.cart.AddItem(r.Context(), cartID, productID, qty); err != nil {
		h.fail(w, r, "AddItemCart", err)
		return
	}

	if user := helpers.CurrentUser(r); user != nil {
		if err := h.cart.ClaimCart(r.Context(), cartID, user.ID); err != nil {
			log.Printf("AddItemCart: failed to attach cart %s to user %s: %v", cartID, user.ID, err)
		}
	}

	helpers.RedirectWithMessage(w, r, h.back(r), "success", "Added to your cart.")
}

func (h *CartHandler) UpdateItemCart(w http.ResponseWriter, r *http.Request) {
	productID, qty, err := h.parseLine(r)
	if err != nil {
		h.fail(w, r, "UpdateItemCart", err)
		return
	}

	if _, err := h.cart.UpdateItemQty(r.Context(), helpers.CurrentCartID(r), productID, qty); err != nil {
		h.fail(w, r, "UpdateItemCart", err)
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart/", "success", "Cart updated.")
}

func (h *CartHandler) DeleteItemCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "DeleteItemCart", err)
		return
	}

	if _, err := h.cart.RemoveItem(r.Context(), helpers.CurrentCartID(r), r.PostFormValue("product_id")); err != nil {
		h.fail(w, r, "DeleteItemCart", err)
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart/", "success", "Item removed.")
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), helpers.CurrentCartID(r)); err != nil {
		h.fail(w, r, "ClearCart", err)
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart/", "success", "Your cart is empty.")
}
