package store

import (
	"context"
	"fmt"
	"html"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"go-storefront/models"
)

// Listing is a lost or found item record
type Listing[T any] interface {
	ItemID() models.ID
	Heading() string
	Contact() models.ContactInfo
	Point() models.Coordinates
	Validate() error
	WithDefaults(now time.Time) T
}

// BoardAPI is the remote collection a Board reads and writes
type BoardAPI[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id models.ID) (T, error)
	Create(ctx context.Context, item T) (T, error)
}

// Mailer sends a single email
type Mailer interface {
	SendEmail(to, subject, htmlContent string) error
}

// Board is a lost & found listing page: the cached list plus create and
// detail operations.
type Board[T Listing[T]] struct {
	name     string
	api      BoardAPI[T]
	mailer   Mailer
	logger   *zap.Logger
	prepend  bool
	now      func() time.Time
	inflight atomic.Int32

	mu    sync.RWMutex
	items []T
}

// NewFoundBoard lists found items; new listings are appended
func NewFoundBoard(api BoardAPI[models.FoundItem], mailer Mailer, logger *zap.Logger) *Board[models.FoundItem] {
	return newBoard("found", api, mailer, logger, false)
}

// NewLostBoard lists lost items; new listings are shown first
func NewLostBoard(api BoardAPI[models.LostItem], mailer Mailer, logger *zap.Logger) *Board[models.LostItem] {
	return newBoard("lost", api, mailer, logger, true)
}

func newBoard[T Listing[T]](name string, api BoardAPI[T], mailer Mailer, logger *zap.Logger, prepend bool) *Board[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board[T]{
		name:    name,
		api:     api,
		mailer:  mailer,
		logger:  logger.With(zap.String("board", name)),
		prepend: prepend,
		now:     time.Now,
	}
}

// List fetches the listings and replaces the cached list
func (b *Board[T]) List(ctx context.Context) ([]T, error) {
	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	items, err := b.api.List(ctx)
	if err != nil {
		b.logger.Error("listing fetch failed", zap.Error(err))
		return nil, remoteError("list "+b.name, err)
	}
	if items == nil {
		items = []T{}
	}

	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	return b.Items(), nil
}

// Items returns the cached listings
func (b *Board[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Get fetches a single listing
func (b *Board[T]) Get(ctx context.Context, id models.ID) (T, error) {
	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	item, err := b.api.Get(ctx, id)
	if err != nil {
		b.logger.Warn("listing detail failed", zap.String("id", id.String()), zap.Error(err))
		var zero T
		return zero, remoteError("get "+b.name, err)
	}
	return item, nil
}

// Detail is Get plus the map placement for the listing's coordinates
func (b *Board[T]) Detail(ctx context.Context, id models.ID) (T, models.MapView, error) {
	item, err := b.Get(ctx, id)
	if err != nil {
		return item, models.MapView{}, err
	}
	return item, models.NewMapView(item.Point(), item.Heading()), nil
}

// Create validates and posts a listing, then adds it to the cached list and
// emails a confirmation to the contact address.
func (b *Board[T]) Create(ctx context.Context, item T) (T, error) {
	item = item.WithDefaults(b.now())
	if err := item.Validate(); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w: %v", b.name, ErrValidation, err)
	}

	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	created, err := b.api.Create(ctx, item)
	if err != nil {
		b.logger.Error("listing create failed", zap.Error(err))
		var zero T
		return zero, remoteError("create "+b.name, err)
	}

	b.mu.Lock()
	if b.prepend {
		b.items = append([]T{created}, b.items...)
	} else {
		b.items = append(b.items, created)
	}
	b.mu.Unlock()

	b.confirm(created)
	return created, nil
}

func (b *Board[T]) Loading() bool { return b.inflight.Load() > 0 }

func (b *Board[T]) confirm(item T) {
	to := item.Contact().Email
	if b.mailer == nil || to == "" {
		return
	}
	subject := "Your listing has been published"
	content := fmt.Sprintf("<strong>%s</strong> is now listed on the %s items board (ID: %s).",
		html.EscapeString(item.Heading()), b.name, html.EscapeString(item.ItemID().String()))
	if err := b.mailer.SendEmail(to, subject, content); err != nil {
		b.logger.Warn("listing confirmation email failed", zap.String("to", to), zap.Error(err))
	}
}
