package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/datatypes"
)

var ict = time.FixedZone("ICT", 7*3600)

func phoChay() models.MenuOffering {
	return models.MenuOffering{
		ID:          7,
		Name:        "Phở chay",
		Day:         "Thứ Hai",
		WeekID:      "2025-46",
		IsAvailable: true,
		BasePrice:   decimal.NewFromInt(45000),
		SizeOptions: datatypes.JSONSlice[models.SizeOption]{
			{Name: "Phần 1 người", Servings: 1, Price: decimal.NewFromInt(45000)},
		},
	}
}

type memCatalog struct {
	offerings []models.MenuOffering
	err       error
}

func (m *memCatalog) ListOfferings(_ context.Context, f services.MenuFilter) ([]models.MenuOffering, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.MenuOffering
	for _, o := range m.offerings {
		if f.WeekID != "" && o.WeekID != "" && o.WeekID != f.WeekID {
			continue
		}
		if f.Day != "" && o.Day != f.Day {
			continue
		}
		if f.AvailableOnly && !o.IsAvailable {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memCatalog) GetOffering(_ context.Context, id uint) (*models.MenuOffering, error) {
	for _, o := range m.offerings {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, services.ErrOfferingNotFound
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]models.Cart{}}
}

func (m *memCarts) Create(context.Context) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Cart{ID: uuid.NewString()}
	m.carts[c.ID] = c
	return &c, nil
}

func (m *memCarts) Load(_ context.Context, id string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[id]
	if !ok {
		return nil, services.ErrCartNotFound
	}
	c.Lines = append([]models.CartLine(nil), c.Lines...)
	return &c, nil
}

func (m *memCarts) Save(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.Lines = append([]models.CartLine(nil), c.Lines...)
	m.carts[c.ID] = cp
	return nil
}

func (m *memCarts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[id]; !ok {
		return services.ErrCartNotFound
	}
	delete(m.carts, id)
	return nil
}

type memOrders struct {
	mu        sync.Mutex
	nextID    uint
	orders    map[uint]models.Order
	createErr error

	// beforeUpdate runs inside UpdateStatus ahead of the status check.
	beforeUpdate func(orders map[uint]models.Order)
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[uint]models.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return services.ErrDuplicateKey
		}
		if o.IdempotencyKey != nil && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *o.IdempotencyKey {
			return services.ErrDuplicateKey
		}
	}
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) OrderNumberExists(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memOrders) FindByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (m *memOrders) Get(_ context.Context, id uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, services.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrders) List(_ context.Context, f services.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id uint, from, st models.OrderStatus, at time.Time) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate(m.orders)
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, services.ErrOrderNotFound
	}
	if from != "" && o.Status != from {
		return nil, services.ErrStatusChanged
	}
	o.Status = st
	o.UpdatedAt = at
	m.orders[id] = o
	return &o, nil
}

func (m *memOrders) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return services.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memOrders) CountByStatus(context.Context) (map[models.OrderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[models.OrderStatus]int64{}
	for _, o := range m.orders {
		out[o.Status]++
	}
	return out, nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Broadcast(event string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

var errDiskFull = errors.New("disk full")
