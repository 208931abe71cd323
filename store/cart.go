package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"go-storefront/models"
)

// CartAPI is the remote persistence the cart writes through
type CartAPI interface {
	Cart(ctx context.Context, userID string) ([]models.CartLine, error)
	AddToCart(ctx context.Context, userID string, productID models.ID) error
	RemoveFromCart(ctx context.Context, userID string, productID models.ID) error
}

// SessionProvider reports the signed-in user, if any
type SessionProvider interface {
	UserID() (string, bool)
}

// SessionEvent is delivered when the session signs in or out
type SessionEvent struct {
	Authenticated bool
	UserID        string
}

// CartState is the per-session lifecycle of the cart
type CartState int

const (
	CartLoggedOut CartState = iota
	CartLoading
	CartReady
)

func (s CartState) String() string {
	switch s {
	case CartLoading:
		return "loading"
	case CartReady:
		return "ready"
	default:
		return "logged_out"
	}
}

// Cart is the signed-in user's cart. Remote calls are made without holding
// the lock; the local write that follows always wins.
type Cart struct {
	api      CartAPI
	session  SessionProvider
	notices  Notifier
	logger   *zap.Logger
	inflight atomic.Int32

	mu    sync.Mutex
	lines []models.CartLine
	state CartState
}

// NewCart creates an empty, logged-out cart. notices and logger may be nil.
func NewCart(api CartAPI, session SessionProvider, notices Notifier, logger *zap.Logger) *Cart {
	if notices == nil {
		notices = discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{api: api, session: session, notices: notices, logger: logger}
}

// AddItem persists one more unit of p remotely, then increments the local
// line or inserts it with quantity 1.
func (c *Cart) AddItem(ctx context.Context, p models.Product) error {
	userID, ok := c.session.UserID()
	if !ok {
		c.notify("add_item", LevelWarning, "Please sign in to add products to the cart")
		return fmt.Errorf("add item: %w", ErrAuthRequired)
	}

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	if err := c.api.AddToCart(ctx, userID, p.ID); err != nil {
		c.logger.Error("add to cart failed", zap.String("user_id", userID), zap.String("product_id", p.ID.String()), zap.Error(err))
		c.notify("add_item", LevelError, "Could not add the product to the cart")
		return remoteError("add item", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == p.ID {
			c.lines[i].Quantity = c.lines[i].Qty() + 1
			return nil
		}
	}
	c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
	return nil
}

// RemoveItem deletes the line remotely, then drops it locally
func (c *Cart) RemoveItem(ctx context.Context, productID models.ID) error {
	userID, ok := c.session.UserID()
	if !ok {
		return fmt.Errorf("remove item: %w", ErrAuthRequired)
	}

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	if err := c.api.RemoveFromCart(ctx, userID, productID); err != nil {
		c.logger.Error("remove from cart failed", zap.String("user_id", userID), zap.String("product_id", productID.String()), zap.Error(err))
		c.notify("remove_item", LevelError, "Could not remove the product from the cart")
		return remoteError("remove item", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.ID != productID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Zero removes the line
// through RemoveItem; any other value only changes local state and is not
// written to the remote cart.
func (c *Cart) UpdateQuantity(ctx context.Context, productID models.ID, quantity int) error {
	if quantity == 0 {
		return c.RemoveItem(ctx, productID)
	}
	if quantity < 0 {
		return fmt.Errorf("update quantity: %w: quantity must not be negative", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == productID {
			c.lines[i].Quantity = quantity
			break
		}
	}
	return nil
}

// LoadCart replaces local state with the remote cart. On failure the cart
// is reset to empty. A response for a user who is no longer signed in is
// dropped; a late response for the same user still overwrites newer state.
func (c *Cart) LoadCart(ctx context.Context) error {
	userID, ok := c.session.UserID()
	if !ok {
		return fmt.Errorf("load cart: %w", ErrAuthRequired)
	}

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	c.mu.Lock()
	c.state = CartLoading
	c.mu.Unlock()

	lines, err := c.api.Cart(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.session.UserID(); !ok || current != userID {
		c.logger.Debug("discarding cart loaded for a previous session", zap.String("user_id", userID))
		return nil
	}
	c.state = CartReady
	if err != nil {
		c.lines = nil
		c.logger.Error("load cart failed", zap.String("user_id", userID), zap.Error(err))
		c.notify("load_cart", LevelError, "Could not load the cart")
		return remoteError("load cart", err)
	}
	c.lines = mergeLines(lines)
	c.logger.Debug("cart loaded", zap.String("user_id", userID), zap.Int("lines", len(c.lines)))
	return nil
}

// HandleSession loads the cart on sign-in and clears it on sign-out
func (c *Cart) HandleSession(ctx context.Context, ev SessionEvent) {
	if ev.Authenticated {
		// failures are already logged and surfaced as a notice
		_ = c.LoadCart(ctx)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.state = CartLoggedOut
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of quantities
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Qty()
	}
	return total
}

// TotalPrice is the sum of price times quantity
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether a remote cart call is in flight
func (c *Cart) Loading() bool {
	return c.inflight.Load() > 0
}

func (c *Cart) notify(op string, level Level, msg string) {
	c.notices.Notify(Notice{Op: op, Level: level, Message: msg})
}

// mergeLines keeps one line per product id, summing quantities
func mergeLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	index := make(map[models.ID]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ID]; ok {
			out[i].Quantity = out[i].Qty() + l.Qty()
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}
