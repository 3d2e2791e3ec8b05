package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
)

func TestCartServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(newMemCarts(), &memCatalog{offerings: []models.MenuOffering{phoChay()}})

	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	add := services.AddItemRequest{OfferingID: 7, Quantity: 1, BrowsingDay: "Thứ Hai"}
	_, err = svc.AddItem(ctx, cart.ID, add)
	require.NoError(t, err)
	cart, err = svc.AddItem(ctx, cart.ID, add)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	lineID := cart.Lines[0].LineID
	cart, err = svc.ChangeQuantity(ctx, cart.ID, lineID, -5)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	loaded, err := svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	_, err = svc.RemoveItem(ctx, cart.ID, lineID)
	assert.ErrorIs(t, err, models.ErrLineNotFound)

	require.NoError(t, svc.Delete(ctx, cart.ID))
	_, err = svc.Get(ctx, cart.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)
}

func TestCartServiceAddItemRejections(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(newMemCarts(), &memCatalog{offerings: []models.MenuOffering{phoChay()}})
	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, services.AddItemRequest{OfferingID: 99, Quantity: 1, BrowsingDay: "Thứ Hai"})
	assert.ErrorIs(t, err, services.ErrOfferingNotFound)

	_, err = svc.AddItem(ctx, cart.ID, services.AddItemRequest{OfferingID: 7, Quantity: 1, BrowsingDay: "Thứ Ba"})
	var wrongDay *models.WrongDayError
	assert.True(t, errors.As(err, &wrongDay))

	_, err = svc.AddItem(ctx, cart.ID, services.AddItemRequest{OfferingID: 7, SizeName: "Phần gia đình", Quantity: 1, BrowsingDay: "Thứ Hai"})
	assert.ErrorIs(t, err, models.ErrUnknownSize)

	loaded, err := svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
