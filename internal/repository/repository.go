package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnknownKind = errors.New("unknown menu kind")
)

// MenuRepository defines the interface for menu item data access.
// Every call is scoped to one of the three menu collections.
type MenuRepository interface {
	List(ctx context.Context, kind models.MenuKind) ([]models.MenuItem, error)
	Get(ctx context.Context, kind models.MenuKind, id string) (*models.MenuItem, error)
	Insert(ctx context.Context, kind models.MenuKind, item models.MenuItem) error
	Replace(ctx context.Context, kind models.MenuKind, item models.MenuItem) error
	Delete(ctx context.Context, kind models.MenuKind, id string) error
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Insert(ctx context.Context, order models.Order) error
	Replace(ctx context.Context, order models.Order) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository stores the singleton settings record.
// Get returns ErrNotFound until the first Save.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
