package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/session"
	"go-storefront/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the store error taxonomy onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrAuthRequired), errors.Is(err, session.ErrSessionEnded):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrRemote):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return false
	}
	return true
}

// workspace extracts the session workspace or answers 401
func workspace(w http.ResponseWriter, r *http.Request) (*session.Workspace, bool) {
	ws, ok := middleware.WorkspaceFrom(r.Context())
	if !ok {
		http.Error(w, "Could not resolve session", http.StatusUnauthorized)
		return nil, false
	}
	return ws, true
}
