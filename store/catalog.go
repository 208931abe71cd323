package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"go-storefront/models"
)

// ProductSource lists the remote catalog
type ProductSource interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Catalog is loaded once per application run. When the remote catalog is
// unavailable it serves models.FallbackProducts instead of staying empty.
type Catalog struct {
	source  ProductSource
	notices Notifier
	logger  *zap.Logger

	once     sync.Once
	loading  atomic.Bool
	mu       sync.RWMutex
	products []models.Product
	fallback bool
}

// NewCatalog creates an empty catalog. notices and logger may be nil.
func NewCatalog(source ProductSource, notices Notifier, logger *zap.Logger) *Catalog {
	if notices == nil {
		notices = discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		source:  source,
		notices: notices,
		logger:  logger,
	}
}

// LoadProducts fetches the catalog on the first call; later calls are no-ops
func (c *Catalog) LoadProducts(ctx context.Context) {
	c.once.Do(func() {
		c.loading.Store(true)
		defer c.loading.Store(false)

		products, err := c.source.Products(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.logger.Warn("loading products failed, serving fallback catalog", zap.Error(err))
			c.notices.Notify(Notice{Op: "load_products", Level: LevelWarning, Message: "Catalog is temporarily unavailable, showing a limited selection"})
			c.products = models.FallbackProducts()
			c.fallback = true
			return
		}
		c.products = products
		c.logger.Info("catalog loaded", zap.Int("products", len(products)))
	})
}

// Products returns a copy of the loaded catalog
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up one product by id
func (c *Catalog) Product(id models.ID) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// Search matches query against the loaded catalog
func (c *Catalog) Search(query string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Search(c.products, query)
}

// Fallback reports whether the catalog is the built-in fallback list
func (c *Catalog) Fallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}

func (c *Catalog) Loading() bool { return c.loading.Load() }
