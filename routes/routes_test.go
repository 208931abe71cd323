package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/client"
	"go-storefront/controllers"
	"go-storefront/models"
	"go-storefront/session"
	"go-storefront/store"
	"go-storefront/utils"
)

// remoteAPI fakes the remote storefront service
type remoteAPI struct {
	mu     sync.Mutex
	bucket []models.CartLine
}

func (f *remoteAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	write := func(v interface{}) { json.NewEncoder(w).Encode(v) }
	switch {
	case r.URL.Path == "/products":
		write([]models.Product{
			{ID: "p1", Title: "Apple MacBook Air", Description: "M2", Price: 1000},
			{ID: "p2", Title: "iPhone 15 Pro", Description: "Titanium", Price: 500},
		})
	case r.URL.Path == "/auth/login":
		write(models.AuthPayload{Token: "remote", User: models.User{ID: "u1", Name: "Aziz", Email: "a@b.uz"}})
	case r.URL.Path == "/users/u1/bucket" && r.Method == http.MethodGet:
		write(f.bucket)
	case strings.HasPrefix(r.URL.Path, "/users/u1/bucket"):
		write(map[string]string{"message": "ok"})
	case r.URL.Path == "/topilganlar/f1":
		write(map[string]interface{}{"success": true, "data": models.FoundItem{ID: "f1", Title: "Keys", Coordinates: models.Coordinates{Lat: 41.3, Lng: 69.2}}})
	case r.URL.Path == "/yoqotilganlar":
		write(map[string]interface{}{"success": true, "data": []models.LostItem{}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type harness struct {
	t      *testing.T
	router *mux.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	utils.JwtKey = []byte("test-secret")

	remote := httptest.NewServer(&remoteAPI{})
	t.Cleanup(remote.Close)

	base := client.New(remote.URL, remote.Client(), nil, nil, nil)
	catalog := store.NewCatalog(base, nil, nil)
	catalog.LoadProducts(context.Background())
	sessions := session.NewManager(base, session.NewMemoryTokens(), nil, 0)
	found := store.NewFoundBoard(base.Found(), nil, nil)
	lost := store.NewLostBoard(base.Lost(), nil, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("ops"), bcrypt.MinCost)
	require.NoError(t, err)

	router := mux.NewRouter()
	RegisterRoutes(router, Controllers{
		User:    controllers.NewUserController(sessions, catalog, zap.NewNop()),
		Product: controllers.NewProductController(catalog),
		Cart:    controllers.NewCartController(catalog),
		Item:    controllers.NewItemController(found, lost),
		Admin:   controllers.NewAdminController(sessions, catalog, zap.NewNop()),
	}, sessions, string(hash), nil)

	return &harness{t: t, router: router}
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

type cartBody struct {
	Items      []models.CartLine `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
	State      string            `json:"state"`
}

func TestShoppingFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do("POST", "/cart", "", map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do("POST", "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess struct {
		Token string `json:"token"`
	}
	decode(t, rec, &sess)
	token := sess.Token

	// anonymous sessions cannot add to the cart
	rec = h.do("POST", "/cart", token, map[string]string{"productId": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var notices []store.Notice
	decode(t, h.do("GET", "/notices", token, nil), &notices)
	require.Len(t, notices, 1)
	assert.Equal(t, "add_item", notices[0].Op)

	rec = h.do("POST", "/login", token, models.Credentials{Email: "a@b.uz", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	h.do("POST", "/cart", token, map[string]string{"productId": "p1"})
	rec = h.do("POST", "/cart", token, map[string]string{"productId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var cart cartBody
	decode(t, rec, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 2000.0, cart.TotalPrice)
	assert.Equal(t, "ready", cart.State)

	rec = h.do("POST", "/cart", token, map[string]string{"productId": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do("PUT", "/cart/p1", token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cart)
	assert.Empty(t, cart.Items)

	h.do("POST", "/cart", token, map[string]string{"productId": "p2"})
	rec = h.do("POST", "/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	decode(t, h.do("GET", "/cart", token, nil), &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "logged_out", cart.State)
}

func TestSearchAndFavorites(t *testing.T) {
	h := newHarness(t)

	var search struct {
		Results []models.Product `json:"results"`
	}
	decode(t, h.do("GET", "/search?q=MacBook", "", nil), &search)
	require.Len(t, search.Results, 1)
	assert.Equal(t, "Apple MacBook Air", search.Results[0].Title)

	var sess struct {
		Token string `json:"token"`
	}
	decode(t, h.do("POST", "/sessions", "", nil), &sess)

	var toggled struct {
		Favorite bool `json:"favorite"`
	}
	decode(t, h.do("POST", "/favorites/p2", sess.Token, nil), &toggled)
	assert.True(t, toggled.Favorite)

	var favorites []models.Product
	decode(t, h.do("GET", "/favorites", sess.Token, nil), &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, models.ID("p2"), favorites[0].ID)

	decode(t, h.do("POST", "/favorites/p2", sess.Token, nil), &toggled)
	assert.False(t, toggled.Favorite)

	assert.Equal(t, http.StatusUnauthorized, h.do("GET", "/profile", sess.Token, nil).Code)
}

func TestListings(t *testing.T) {
	h := newHarness(t)

	rec := h.do("POST", "/lost", "", models.LostItem{Title: "Bag"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do("GET", "/found/f1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Item models.FoundItem `json:"item"`
		Map  models.MapView   `json:"map"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, "Keys", detail.Item.Title)
	assert.Equal(t, models.MapZoom, detail.Map.Zoom)
	assert.Equal(t, [2]float64{41.3, 69.2}, detail.Map.Center)

	assert.Equal(t, http.StatusNotFound, h.do("GET", "/found/zzz", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do("GET", "/lost", "", nil).Code)
}

func TestAdminSessions(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/sessions", "", nil)

	req := httptest.NewRequest("GET", "/admin/sessions", nil)
	req.SetBasicAuth("admin", "ops")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []session.Summary
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusForbidden, h.do("GET", "/admin/sessions", "", nil).Code)
}
