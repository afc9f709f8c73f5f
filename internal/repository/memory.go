package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

// InMemoryMenuRepository implements MenuRepository with in-memory storage.
// Listings keep insertion order.
type InMemoryMenuRepository struct {
	mu          sync.RWMutex
	collections map[models.MenuKind]*memoryCollection[models.MenuItem]
}

// NewInMemoryMenuRepository creates an empty in-memory menu repository
func NewInMemoryMenuRepository() *InMemoryMenuRepository {
	collections := make(map[models.MenuKind]*memoryCollection[models.MenuItem], len(models.MenuKinds))
	for _, kind := range models.MenuKinds {
		collections[kind] = newMemoryCollection[models.MenuItem]()
	}
	return &InMemoryMenuRepository{collections: collections}
}

func (r *InMemoryMenuRepository) collection(kind models.MenuKind) (*memoryCollection[models.MenuItem], error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return r.collections[kind], nil
}

func (r *InMemoryMenuRepository) List(ctx context.Context, kind models.MenuKind) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	items := c.list()
	for i := range items {
		items[i] = cloneMenuItem(items[i])
	}
	return items, nil
}

func (r *InMemoryMenuRepository) Get(ctx context.Context, kind models.MenuKind, id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	item, ok := c.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	item = cloneMenuItem(item)
	return &item, nil
}

func (r *InMemoryMenuRepository) Insert(ctx context.Context, kind models.MenuKind, item models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(kind)
	if err != nil {
		return err
	}
	c.put(item.ID, cloneMenuItem(item))
	return nil
}

func (r *InMemoryMenuRepository) Replace(ctx context.Context, kind models.MenuKind, item models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(kind)
	if err != nil {
		return err
	}
	if _, ok := c.get(item.ID); !ok {
		return ErrNotFound
	}
	c.put(item.ID, cloneMenuItem(item))
	return nil
}

func (r *InMemoryMenuRepository) Delete(ctx context.Context, kind models.MenuKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(kind)
	if err != nil {
		return err
	}
	if !c.remove(id) {
		return ErrNotFound
	}
	return nil
}

// InMemoryOrderRepository implements OrderRepository with in-memory storage
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders *memoryCollection[models.Order]
}

// NewInMemoryOrderRepository creates an empty in-memory order repository
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{orders: newMemoryCollection[models.Order]()}
}

func (r *InMemoryOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders.order))
	for _, order := range r.orders.list() {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, cloneOrder(order))
	}
	return orders, nil
}

func (r *InMemoryOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	order = cloneOrder(order)
	return &order, nil
}

func (r *InMemoryOrderRepository) Insert(ctx context.Context, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders.put(order.ID, cloneOrder(order))
	return nil
}

func (r *InMemoryOrderRepository) Replace(ctx context.Context, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders.get(order.ID); !ok {
		return ErrNotFound
	}
	r.orders.put(order.ID, cloneOrder(order))
	return nil
}

func (r *InMemoryOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.orders.remove(id) {
		return ErrNotFound
	}
	return nil
}

// InMemorySettingsRepository implements SettingsRepository with in-memory storage
type InMemorySettingsRepository struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func NewInMemorySettingsRepository() *InMemorySettingsRepository {
	return &InMemorySettingsRepository{}
}

func (r *InMemorySettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, ErrNotFound
	}
	s := *r.settings
	return &s, nil
}

func (r *InMemorySettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = &settings
	return nil
}

// InMemoryStore bundles the in-memory repositories behind one handle, like MongoStore.
type InMemoryStore struct {
	Menu     *InMemoryMenuRepository
	Orders   *InMemoryOrderRepository
	Settings *InMemorySettingsRepository
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Menu:     NewInMemoryMenuRepository(),
		Orders:   NewInMemoryOrderRepository(),
		Settings: NewInMemorySettingsRepository(),
	}
}

// Ping always succeeds for the in-memory store.
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

// memoryCollection is an insertion-ordered map. Callers hold the owning lock.
type memoryCollection[T any] struct {
	docs  map[string]T
	order []string
}

func newMemoryCollection[T any]() *memoryCollection[T] {
	return &memoryCollection[T]{docs: make(map[string]T)}
}

func (c *memoryCollection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

func (c *memoryCollection[T]) get(id string) (T, bool) {
	doc, ok := c.docs[id]
	return doc, ok
}

func (c *memoryCollection[T]) put(id string, doc T) {
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}

func (c *memoryCollection[T]) remove(id string) bool {
	if _, exists := c.docs[id]; !exists {
		return false
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func cloneMenuItem(item models.MenuItem) models.MenuItem {
	if item.Reviews != nil {
		item.Reviews = append([]string{}, item.Reviews...)
	}
	if item.PreparationTime != nil {
		v := *item.PreparationTime
		item.PreparationTime = &v
	}
	return item
}

func cloneOrder(order models.Order) models.Order {
	if order.Items != nil {
		order.Items = append([]models.OrderItem{}, order.Items...)
	}
	if order.TableNumber != nil {
		v := *order.TableNumber
		order.TableNumber = &v
	}
	return order
}
