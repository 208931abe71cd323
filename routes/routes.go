// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	User    *controllers.UserController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Item    *controllers.ItemController
	Admin   *controllers.AdminController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, workspaces middleware.Workspaces, adminPasswordHash string, metrics http.Handler) {
	withSession := func(h http.HandlerFunc) http.Handler {
		return middleware.SessionMiddleware(workspaces)(h)
	}

	// Public routes
	router.HandleFunc("/sessions", c.User.CreateSession).Methods("POST")
	router.HandleFunc("/health", c.Admin.Health).Methods("GET")
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods("GET")
	}

	// Product routes
	router.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")
	router.HandleFunc("/search", c.Product.Search).Methods("GET")

	// Lost & found routes
	router.HandleFunc("/found", c.Item.ListFound).Methods("GET")
	router.HandleFunc("/found", c.Item.CreateFound).Methods("POST")
	router.HandleFunc("/found/{id}", c.Item.GetFound).Methods("GET")
	router.HandleFunc("/lost", c.Item.ListLost).Methods("GET")
	router.HandleFunc("/lost", c.Item.CreateLost).Methods("POST")
	router.HandleFunc("/lost/{id}", c.Item.GetLost).Methods("GET")

	// Session routes
	router.Handle("/sessions", withSession(c.User.EndSession)).Methods("DELETE")
	router.Handle("/register", withSession(c.User.Register)).Methods("POST")
	router.Handle("/login", withSession(c.User.Login)).Methods("POST")
	router.Handle("/logout", withSession(c.User.Logout)).Methods("POST")
	router.Handle("/profile", withSession(c.User.GetProfile)).Methods("GET")
	router.Handle("/notices", withSession(c.User.GetNotices)).Methods("GET")
	router.Handle("/favorites", withSession(c.Product.GetFavorites)).Methods("GET")
	router.Handle("/favorites/{id}", withSession(c.Product.ToggleFavorite)).Methods("POST")

	// Cart routes
	router.Handle("/cart", withSession(c.Cart.GetCart)).Methods("GET")
	router.Handle("/cart", withSession(c.Cart.AddToCart)).Methods("POST")
	router.Handle("/cart/{id}", withSession(c.Cart.UpdateQuantity)).Methods("PUT")
	router.Handle("/cart/{id}", withSession(c.Cart.RemoveFromCart)).Methods("DELETE")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware(adminPasswordHash))
	admin.HandleFunc("/sessions", c.Admin.ListSessions).Methods("GET")
	admin.HandleFunc("/sessions/{id}", c.Admin.EndSession).Methods("DELETE")
}
