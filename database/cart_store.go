package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/gorm"
)

// CartStore keeps carts server side so a cart survives reloads and devices.
type CartStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{DB: db, Now: time.Now}
}

func (s *CartStore) Create(ctx context.Context) (*models.Cart, error) {
	now := s.now()
	cart := &models.Cart{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := s.DB.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	cart.Lines = []models.CartLine{}
	return cart, nil
}

// Load returns the cart with its lines in insertion order.
func (s *CartStore) Load(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := s.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&cart, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, services.ErrCartNotFound)
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// Save replaces the stored lines with cart.Lines in one transaction.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("updated_at", s.now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrCartNotFound
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		if len(cart.Lines) == 0 {
			return nil
		}

		lines := make([]models.CartLine, len(cart.Lines))
		for i, l := range cart.Lines {
			l.ID = 0
			l.CartID = cart.ID
			l.Position = i
			lines[i] = l
		}
		return tx.Create(&lines).Error
	})
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Cart{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrCartNotFound
		}
		return nil
	})
}

func (s *CartStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
