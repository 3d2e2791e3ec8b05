package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/utils"
)

// CartService loads a cart, applies one aggregation step and saves it back.
type CartService struct {
	carts   CartStore
	catalog CatalogStore
}

func NewCartService(carts CartStore, catalog CatalogStore) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

func (s *CartService) Create(ctx context.Context) (*models.Cart, error) {
	cart, err := s.carts.Create(ctx)
	if err != nil {
		return nil, persistence("create cart", err)
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.load(ctx, cartID)
}

// AddItemRequest adds an offering while the customer browses BrowsingDay.
type AddItemRequest struct {
	OfferingID  uint
	SizeName    string
	Quantity    int
	BrowsingDay string
}

func (s *CartService) AddItem(ctx context.Context, cartID string, req AddItemRequest) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	offering, err := s.catalog.GetOffering(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, ErrOfferingNotFound) {
			return nil, err
		}
		return nil, persistence("load offering", err)
	}

	line, err := cart.AddOrMerge(*offering, req.SizeName, req.Quantity, req.BrowsingDay)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, persistence("save cart", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"cart_id":  cart.ID,
		"line_id":  line.LineID,
		"quantity": line.Quantity,
	}).Info("cart line added")
	return cart, nil
}

func (s *CartService) ChangeQuantity(ctx context.Context, cartID, lineID string, delta int) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := cart.ChangeQuantity(lineID, delta); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, persistence("save cart", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, lineID string) (*models.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Remove(lineID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, persistence("save cart", err)
	}
	return cart, nil
}

func (s *CartService) Delete(ctx context.Context, cartID string) error {
	if err := s.carts.Delete(ctx, cartID); err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return err
		}
		return persistence("delete cart", err)
	}
	return nil
}

func (s *CartService) load(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil, err
		}
		return nil, persistence("load cart", err)
	}
	return cart, nil
}
