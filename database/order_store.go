package database

import (
	"context"
	"time"

	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/gorm"
)

type OrderStore struct {
	DB *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{DB: db}
}

// Create inserts the order and its items together. Unique violations on the order number
// or idempotency key come back as services.ErrDuplicateKey.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	return translate(err, services.ErrOrderNotFound)
}

func (s *OrderStore) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&n).Error
	return n > 0, err
}

// FindByIdempotencyKey returns nil without error when no order carries key.
func (s *OrderStore) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).Preload("Items").Where("idempotency_key = ?", key).Limit(1).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err, services.ErrOrderNotFound)
	}
	return &order, nil
}

// List returns orders newest first.
func (s *OrderStore) List(ctx context.Context, f services.OrderFilter) ([]models.Order, error) {
	q := s.DB.WithContext(ctx).Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	orders := []models.Order{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status. A non-empty from turns the write into a compare-and-set
// on the current status.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if from != "" {
		q = q.Where("status = ?", from)
	}
	res := q.Updates(map[string]interface{}{"status": to, "updated_at": at})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if from == "" {
			return nil, services.ErrOrderNotFound
		}
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, services.ErrStatusChanged
	}
	return s.Get(ctx, id)
}

func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrOrderNotFound
		}
		return nil
	})
}

func (s *OrderStore) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
