package conversation_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iyhunko/price-monitor/internal/conversation"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
)

// memoryCatalog is an in-memory repository.CatalogStore.
type memoryCatalog struct {
	mu        sync.Mutex
	nextID    int64
	products  map[int64]model.Product
	samples   map[int64][]model.PriceSample
	mutations int
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		products: make(map[int64]model.Product),
		samples:  make(map[int64][]model.PriceSample),
	}
}

func (c *memoryCatalog) AddProduct(_ context.Context, product *model.Product) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.mutations++
	product.ID = c.nextID
	c.products[product.ID] = *product
	return product.ID, nil
}

func (c *memoryCatalog) RemoveProduct(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	c.mutations++
	delete(c.products, id)
	delete(c.samples, id)
	return nil
}

func (c *memoryCatalog) Exists(_ context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.products[id]
	return ok, nil
}

func (c *memoryCatalog) ListProducts(_ context.Context) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		p.Rating = p.RoundedRating()
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *memoryCatalog) AppendPriceSample(_ context.Context, productID int64, price float64, observedAt time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[productID]; !ok {
		return 0, &repository.ForeignKeyError{}
	}
	c.mutations++
	id := int64(len(c.samples[productID]) + 1)
	c.samples[productID] = append(c.samples[productID], model.PriceSample{ID: id, ProductID: productID, Price: price, RecordedAt: observedAt})
	return id, nil
}

func (c *memoryCatalog) PriceHistory(_ context.Context, productID int64) ([]model.PriceSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.PriceSample(nil), c.samples[productID]...), nil
}

// failingSessions is a SessionStore whose every call fails.
type failingSessions struct{}

var errSessionsDown = errors.New("sessions down")

func (failingSessions) Get(context.Context, int64) (conversation.Session, error) {
	return conversation.Session{}, errSessionsDown
}

func (failingSessions) Save(context.Context, int64, conversation.Session) error {
	return errSessionsDown
}

func (failingSessions) Clear(context.Context, int64) error {
	return errSessionsDown
}

// cancelAwareSessions fails Clear on a done context, as a network-backed store would.
type cancelAwareSessions struct {
	*conversation.MemoryStore
}

func (s cancelAwareSessions) Clear(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Clear(ctx, userID)
}

// failingCatalog is a memoryCatalog whose AddProduct always fails.
type failingCatalog struct {
	*memoryCatalog
}

func (failingCatalog) AddProduct(context.Context, *model.Product) (int64, error) {
	return 0, errors.New("db down")
}
