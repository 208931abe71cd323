package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/models"
	"go-storefront/store"
)

// ProductController handles catalog, search and favorite requests
type ProductController struct {
	Catalog *store.Catalog
}

// NewProductController creates a new ProductController
func NewProductController(catalog *store.Catalog) *ProductController {
	return &ProductController{
		Catalog: catalog,
	}
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": pc.Catalog.Products(),
		"fallback": pc.Catalog.Fallback(),
		"loading":  pc.Catalog.Loading(),
	})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Catalog.Product(models.ID(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Search matches ?q= against product titles and descriptions
func (pc *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": pc.Catalog.Search(query),
	})
}

// GetFavorites lists the session's favorite products
func (pc *ProductController) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, favoriteProducts(pc.Catalog, ws.Favorites))
}

// ToggleFavorite flips a product in or out of the session's favorites
func (pc *ProductController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	id := models.ID(mux.Vars(r)["id"])
	if _, err := pc.Catalog.Product(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"favorite": ws.Favorites.Toggle(id),
	})
}

// favoriteProducts resolves favorite ids against the catalog, skipping
// ids the catalog no longer has
func favoriteProducts(catalog *store.Catalog, favorites *store.FavoriteSet) []models.Product {
	out := []models.Product{}
	for _, id := range favorites.IDs() {
		if p, err := catalog.Product(id); err == nil {
			out = append(out, p)
		}
	}
	return out
}
