package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/session"
	"go-storefront/store"
)

// AdminController exposes operator endpoints
type AdminController struct {
	Sessions *session.Manager
	Catalog  *store.Catalog
	Logger   *zap.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(sessions *session.Manager, catalog *store.Catalog, logger *zap.Logger) *AdminController {
	return &AdminController{
		Sessions: sessions,
		Catalog:  catalog,
		Logger:   logger,
	}
}

// ListSessions summarizes the live sessions
func (ac *AdminController) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.Sessions.List())
}

// EndSession forces a session to sign out
func (ac *AdminController) EndSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := ac.Sessions.End(r.Context(), id); err != nil {
		ac.Logger.Warn("forced session end left persisted data", zap.String("session_id", id), zap.Error(err))
	}
	ac.Logger.Info("session ended by operator", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness and catalog state
func (ac *AdminController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"catalog_products": len(ac.Catalog.Products()),
		"catalog_fallback": ac.Catalog.Fallback(),
		"sessions":         ac.Sessions.Count(),
	})
}
