package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/models"
	"go-storefront/store"
)

// CartController handles cart-related requests
type CartController struct {
	Catalog *store.Catalog
}

// NewCartController creates a new CartController
func NewCartController(catalog *store.Catalog) *CartController {
	return &CartController{
		Catalog: catalog,
	}
}

func cartView(cart *store.Cart) map[string]interface{} {
	return map[string]interface{}{
		"items":       cart.Lines(),
		"total_items": cart.TotalItems(),
		"total_price": cart.TotalPrice(),
		"state":       cart.State().String(),
		"loading":     cart.Loading(),
	}
}

// GetCart retrieves the session's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(ws.Cart))
}

// AddToCart adds one unit of a catalog product to the cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var req models.AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := cc.Catalog.Product(req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.Cart.AddItem(r.Context(), product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(ws.Cart))
}

// UpdateQuantity sets a line's quantity; zero removes the line
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}
	if err := ws.Cart.UpdateQuantity(r.Context(), models.ID(mux.Vars(r)["id"]), *body.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(ws.Cart))
}

// RemoveFromCart removes a product from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := ws.Cart.RemoveItem(r.Context(), models.ID(mux.Vars(r)["id"])); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(ws.Cart))
}
