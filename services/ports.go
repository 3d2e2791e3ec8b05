package services

import (
	"context"
	"time"

	"github.com/yeremiapane/weekly-menu/models"
)

// MenuFilter narrows ListOfferings. A WeekID also matches legacy rows without one.
type MenuFilter struct {
	WeekID        string
	Day           string
	AvailableOnly bool
}

// CatalogStore is the read side of the weekly menu owned by the catalog store.
type CatalogStore interface {
	ListOfferings(ctx context.Context, filter MenuFilter) ([]models.MenuOffering, error)
	GetOffering(ctx context.Context, id uint) (*models.MenuOffering, error)
}

// CartStore is the explicit load/save boundary of customer carts.
type CartStore interface {
	Create(ctx context.Context) (*models.Cart, error)
	Load(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
}

type OrderFilter struct {
	Status models.OrderStatus
}

// OrderStore persists orders. Create must report unique violations as ErrDuplicateKey.
// UpdateStatus with a non-empty from only applies while the order still has that status
// and reports ErrStatusChanged otherwise.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	Get(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus, at time.Time) (*models.Order, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
}

// IdempotencyGuard reserves submission keys. Reserve returns false when the key was seen.
type IdempotencyGuard interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Broadcaster pushes events to connected staff screens.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{}) {}

// Staff push events.
const (
	EventOrderCreated = "order_created"
	EventOrderUpdated = "order_updated"
	EventOrderDeleted = "order_deleted"
	EventMenuUpdated  = "menu_updated"
)
