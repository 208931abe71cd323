package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/client"
	"go-storefront/models"
)

// fakeRemote is a tiny in-memory version of the remote storefront API
type fakeRemote struct {
	mu      sync.Mutex
	buckets map[string][]models.CartLine
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/login":
		json.NewEncoder(w).Encode(models.AuthPayload{Token: "remote-token", User: models.User{ID: "u1", Name: "Aziz"}})
	case strings.HasPrefix(r.URL.Path, "/users/u1/bucket"):
		if r.Header.Get("Authorization") != "Bearer remote-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(f.buckets["u1"])
		case http.MethodPost:
			var req models.AddToCartRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.buckets["u1"] = append(f.buckets["u1"], models.CartLine{Product: models.Product{ID: req.ProductID, Price: 10}, Quantity: 1})
			w.Write([]byte(`{}`))
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestManager(t *testing.T, tokens client.TokenStore, remote *fakeRemote) *Manager {
	t.Helper()
	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)
	return NewManager(client.New(srv.URL, srv.Client(), nil, nil, nil), tokens, nil, time.Hour)
}

func TestWorkspaceLoginLoadsCart(t *testing.T) {
	remote := &fakeRemote{buckets: map[string][]models.CartLine{
		"u1": {{Product: models.Product{ID: "p1", Price: 100}, Quantity: 2}},
	}}
	m := newTestManager(t, NewMemoryTokens(), remote)
	ctx := context.Background()

	ws := m.Create()
	assert.Equal(t, 1, m.Count())

	_, err := ws.Auth.Login(ctx, models.Credentials{Email: "a@b.uz", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 2, ws.Cart.TotalItems())

	require.NoError(t, ws.Cart.AddItem(ctx, models.Product{ID: "p2", Price: 10}))
	assert.Equal(t, 3, ws.Cart.TotalItems())

	require.NoError(t, ws.Auth.Logout(ctx))
	assert.Empty(t, ws.Cart.Lines())
}

func TestGetRestoresAfterRestart(t *testing.T) {
	remote := &fakeRemote{buckets: map[string][]models.CartLine{
		"u1": {{Product: models.Product{ID: "p1", Price: 100}, Quantity: 1}},
	}}
	tokens := NewMemoryTokens()
	ctx := context.Background()

	first := newTestManager(t, tokens, remote)
	ws := first.Create()
	_, err := ws.Auth.Login(ctx, models.Credentials{Email: "a@b.uz", Password: "pw"})
	require.NoError(t, err)

	second := newTestManager(t, tokens, remote)
	rebuilt, err := second.Get(ctx, ws.ID)
	require.NoError(t, err)

	assert.True(t, rebuilt.Auth.Authenticated())
	assert.Equal(t, 1, rebuilt.Cart.TotalItems())

	again, err := second.Get(ctx, ws.ID)
	require.NoError(t, err)
	assert.Same(t, rebuilt, again)
}

func TestEndSession(t *testing.T) {
	m := newTestManager(t, NewMemoryTokens(), &fakeRemote{buckets: map[string][]models.CartLine{}})
	ctx := context.Background()

	ws := m.Create()
	require.NoError(t, m.End(ctx, ws.ID))

	_, err := m.Get(ctx, ws.ID)
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, 0, m.Count())
}

func TestList(t *testing.T) {
	m := newTestManager(t, NewMemoryTokens(), &fakeRemote{buckets: map[string][]models.CartLine{}})
	a := m.Create()
	m.Create()

	list := m.List()
	require.Len(t, list, 2)
	assert.False(t, list[0].Authenticated)
	assert.Contains(t, []string{list[0].ID, list[1].ID}, a.ID)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSweepEvictsIdleWorkspaces(t *testing.T) {
	tokens := NewMemoryTokens()
	m := newTestManager(t, tokens, &fakeRemote{buckets: map[string][]models.CartLine{}})
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.now
	ctx := context.Background()

	active := m.Create()
	idle := m.Create()
	_, err := idle.Auth.Login(ctx, models.Credentials{Email: "a@b.uz", Password: "pw"})
	require.NoError(t, err)

	clock.advance(30 * time.Minute)
	_, err = m.Get(ctx, active.ID)
	require.NoError(t, err)

	clock.advance(45 * time.Minute)
	assert.Equal(t, 1, m.Sweep(ctx))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, active.ID, m.List()[0].ID)

	assert.False(t, idle.Auth.Authenticated())
	_, ok, err := Scoped(tokens, idle.ID).Get(ctx, client.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSweepBoundsRebuiltAndEndedSessions(t *testing.T) {
	m := newTestManager(t, NewMemoryTokens(), &fakeRemote{buckets: map[string][]models.CartLine{}})
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.now
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		m.Create()
		_, err := m.Get(ctx, uuid.NewString())
		require.NoError(t, err)
	}
	ended := m.Create()
	require.NoError(t, m.End(ctx, ended.ID))
	assert.Equal(t, 200, m.Count())

	clock.advance(time.Hour + time.Second)
	assert.Equal(t, 200, m.Sweep(ctx))
	assert.Zero(t, m.Count())
	assert.Empty(t, m.ended)
	assert.Empty(t, m.lastSeen)
}

func TestRunSweepsUntilCanceled(t *testing.T) {
	m := newTestManager(t, NewMemoryTokens(), &fakeRemote{buckets: map[string][]models.CartLine{}})
	m.Create()
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestListReportsActivity(t *testing.T) {
	m := newTestManager(t, NewMemoryTokens(), &fakeRemote{buckets: map[string][]models.CartLine{}})
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.now

	ws := m.Create()
	ws.Favorites.Toggle("p1")
	clock.advance(time.Minute)
	_, err := m.Get(context.Background(), ws.ID)
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, clock.t, list[0].LastSeen)
	assert.Equal(t, 1, list[0].Favorites)
}
