package database

import (
	"context"

	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/gorm"
)

// MenuStore keeps weekly menu offerings.
type MenuStore struct {
	DB *gorm.DB
}

func NewMenuStore(db *gorm.DB) *MenuStore {
	return &MenuStore{DB: db}
}

// ListOfferings filters by week, day and availability. A week filter also returns rows
// stored before offerings carried a week id.
func (s *MenuStore) ListOfferings(ctx context.Context, f services.MenuFilter) ([]models.MenuOffering, error) {
	q := s.DB.WithContext(ctx).Model(&models.MenuOffering{})
	if f.WeekID != "" {
		q = q.Where("week_id = ? OR week_id = '' OR week_id IS NULL", f.WeekID)
	}
	if f.Day != "" {
		q = q.Where("day = ?", f.Day)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}

	out := []models.MenuOffering{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MenuStore) GetOffering(ctx context.Context, id uint) (*models.MenuOffering, error) {
	var o models.MenuOffering
	if err := s.DB.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err, services.ErrOfferingNotFound)
	}
	return &o, nil
}

func (s *MenuStore) CreateOffering(ctx context.Context, o *models.MenuOffering) error {
	return translate(s.DB.WithContext(ctx).Create(o).Error, services.ErrOfferingNotFound)
}

// SaveOffering writes every column, including zero values.
func (s *MenuStore) SaveOffering(ctx context.Context, o *models.MenuOffering) error {
	if _, err := s.GetOffering(ctx, o.ID); err != nil {
		return err
	}
	return translate(s.DB.WithContext(ctx).Save(o).Error, services.ErrOfferingNotFound)
}

func (s *MenuStore) SetAvailability(ctx context.Context, id uint, available bool) (*models.MenuOffering, error) {
	o, err := s.GetOffering(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(o).Update("is_available", available).Error; err != nil {
		return nil, err
	}
	o.IsAvailable = available
	return o, nil
}

func (s *MenuStore) DeleteOffering(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.MenuOffering{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrOfferingNotFound
	}
	return nil
}
