package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-storefront/client"
	"go-storefront/store"
)

// ErrSessionEnded is returned for a session id that was explicitly ended
var ErrSessionEnded = errors.New("session ended")

// DefaultIdleTTL matches the lifetime of a local session token
const DefaultIdleTTL = 24 * time.Hour

// Workspace is everything one browser session sees
type Workspace struct {
	ID        string
	CreatedAt time.Time
	Auth      *Auth
	Cart      *store.Cart
	Favorites *store.FavoriteSet
	Notices   *store.NoticeLog
	Client    *client.Client
}

// Summary describes a workspace for operators
type Summary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Authenticated bool      `json:"authenticated"`
	LastSeen      time.Time `json:"last_seen"`
	UserID        string    `json:"user_id,omitempty"`
	CartItems     int       `json:"cart_items"`
	Favorites     int       `json:"favorites"`
}

// Manager owns the live workspaces
type Manager struct {
	base   *client.Client
	tokens client.TokenStore
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
	lastSeen   map[string]time.Time
	ended      map[string]time.Time
}

// NewManager builds workspaces on top of base, persisting each session's
// token under its own scope in tokens. Workspaces idle for longer than ttl
// are evicted by Sweep; zero means DefaultIdleTTL.
func NewManager(base *client.Client, tokens client.TokenStore, logger *zap.Logger, ttl time.Duration) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Manager{
		base:       base,
		tokens:     tokens,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
		lastSeen:   make(map[string]time.Time),
		ended:      make(map[string]time.Time),
	}
}

// Create starts an anonymous workspace
func (m *Manager) Create() *Workspace {
	ws := m.build(uuid.NewString())
	m.mu.Lock()
	m.workspaces[ws.ID] = ws
	m.lastSeen[ws.ID] = m.now()
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("session_id", ws.ID))
	return ws
}

// Get returns the workspace for id. A workspace unknown to this process
// (e.g. after a restart) is rebuilt and signed back in from persisted storage.
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	m.mu.Lock()
	if _, gone := m.ended[id]; gone {
		m.mu.Unlock()
		return nil, ErrSessionEnded
	}
	if ws, ok := m.workspaces[id]; ok {
		m.lastSeen[id] = m.now()
		m.mu.Unlock()
		return ws, nil
	}
	m.mu.Unlock()

	ws := m.build(id)
	restored, err := ws.Auth.Restore(ctx)
	if err != nil {
		m.logger.Warn("session restore failed", zap.String("session_id", id), zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeen[id] = m.now()
	if existing, ok := m.workspaces[id]; ok {
		return existing, nil
	}
	m.workspaces[id] = ws
	m.logger.Info("session rebuilt", zap.String("session_id", id), zap.Bool("restored", restored))
	return ws, nil
}

// End signs the workspace out and forgets it
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	ws, ok := m.workspaces[id]
	delete(m.workspaces, id)
	delete(m.lastSeen, id)
	m.ended[id] = m.now()
	m.mu.Unlock()

	if !ok {
		tokens := Scoped(m.tokens, id)
		return errors.Join(tokens.Delete(ctx, client.TokenKey), tokens.Delete(ctx, UserKey))
	}
	m.logger.Debug("session ended", zap.String("session_id", id))
	return ws.Auth.Logout(ctx)
}

// Sweep evicts workspaces idle for longer than the ttl, signing them out so
// their persisted credentials go too, and forgets ended ids older than the
// ttl, whose session tokens can no longer verify. It returns the number of
// evicted workspaces.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.ttl)

	var idle []*Workspace
	m.mu.Lock()
	for id, seen := range m.lastSeen {
		if seen.Before(cutoff) {
			idle = append(idle, m.workspaces[id])
			delete(m.workspaces, id)
			delete(m.lastSeen, id)
		}
	}
	for id, at := range m.ended {
		if at.Before(cutoff) {
			delete(m.ended, id)
		}
	}
	m.mu.Unlock()

	for _, ws := range idle {
		if err := ws.Auth.Logout(ctx); err != nil {
			m.logger.Warn("evicted session left persisted data", zap.String("session_id", ws.ID), zap.Error(err))
		}
	}
	if len(idle) > 0 {
		m.logger.Info("evicted idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run calls Sweep every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Count is the number of live workspaces
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// List summarizes live workspaces, oldest first
func (m *Manager) List() []Summary {
	m.mu.Lock()
	list := make([]*Workspace, 0, len(m.workspaces))
	seen := make(map[string]time.Time, len(m.workspaces))
	for id, ws := range m.workspaces {
		list = append(list, ws)
		seen[id] = m.lastSeen[id]
	}
	m.mu.Unlock()

	out := make([]Summary, 0, len(list))
	for _, ws := range list {
		userID, ok := ws.Auth.UserID()
		out = append(out, Summary{
			ID:            ws.ID,
			CreatedAt:     ws.CreatedAt,
			LastSeen:      seen[ws.ID],
			Authenticated: ok,
			UserID:        userID,
			CartItems:     ws.Cart.TotalItems(),
			Favorites:     ws.Favorites.Len(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *Manager) build(id string) *Workspace {
	logger := m.logger.With(zap.String("session_id", id))
	tokens := Scoped(m.tokens, id)
	c := m.base.WithTokens(tokens)
	notices := store.NewNoticeLog(50)

	auth := NewAuth(c, tokens, logger)
	cart := store.NewCart(c, auth, notices, logger)
	auth.Subscribe(cart.HandleSession)

	return &Workspace{
		ID:        id,
		CreatedAt: m.now(),
		Auth:      auth,
		Cart:      cart,
		Favorites: store.NewFavoriteSet(),
		Notices:   notices,
		Client:    c,
	}
}
