package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/session"
	"go-storefront/store"
	"go-storefront/utils"
)

// UserController handles session, account and profile requests
type UserController struct {
	Sessions *session.Manager
	Catalog  *store.Catalog
	Logger   *zap.Logger
}

// NewUserController creates a new UserController
func NewUserController(sessions *session.Manager, catalog *store.Catalog, logger *zap.Logger) *UserController {
	return &UserController{
		Sessions: sessions,
		Catalog:  catalog,
		Logger:   logger,
	}
}

// CreateSession starts an anonymous browser session and returns its token
func (uc *UserController) CreateSession(w http.ResponseWriter, r *http.Request) {
	ws := uc.Sessions.Create()
	token, err := utils.GenerateJWT(ws.ID)
	if err != nil {
		uc.Logger.Error("issuing session token failed", zap.Error(err))
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token, "session_id": ws.ID})
}

// EndSession signs out and discards the current session
func (uc *UserController) EndSession(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := uc.Sessions.End(r.Context(), ws.ID); err != nil {
		uc.Logger.Warn("ending session left persisted data", zap.String("session_id", ws.ID), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var reg models.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	user, err := ws.Auth.Register(r.Context(), reg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":          user,
		"authenticated": ws.Auth.Authenticated(),
	})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	var creds models.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	user, err := ws.Auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
		"cart": cartView(ws.Cart),
	})
}

// Logout ends the authenticated session; the cart is cleared
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := ws.Auth.Logout(r.Context()); err != nil {
		uc.Logger.Warn("logout left persisted data", zap.String("session_id", ws.ID), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile returns the signed-in user with their favorite products
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	user, ok := ws.Auth.User()
	if !ok {
		writeError(w, store.ErrAuthRequired)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"favorites": favoriteProducts(uc.Catalog, ws.Favorites),
	})
}

// GetNotices drains the session's pending user-facing notices
func (uc *UserController) GetNotices(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Notices.Drain())
}
