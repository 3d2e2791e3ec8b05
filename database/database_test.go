package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/weekly-menu/database"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func offering(name, day, week string) models.MenuOffering {
	return models.MenuOffering{
		Name:        name,
		Day:         day,
		WeekID:      week,
		IsAvailable: true,
		BasePrice:   decimal.NewFromInt(45000),
		SizeOptions: datatypes.JSONSlice[models.SizeOption]{
			{Name: "Phần 1 người", Servings: 1, Price: decimal.NewFromInt(45000)},
			{Name: "Phần 2 người", Servings: 2, Price: decimal.NewFromInt(85000)},
		},
	}
}

func TestMenuStoreListOfferings(t *testing.T) {
	db := setupTestDB(t)
	store := database.NewMenuStore(db)
	ctx := context.Background()

	rows := []models.MenuOffering{
		offering("Phở chay", "Thứ Hai", "2025-46"),
		offering("Cơm chiên", "Thứ Ba", "2025-46"),
		offering("Bún riêu", "Thứ Hai", "2025-47"),
		offering("Canh nấm", "Thứ Hai", ""),
	}
	hidden := offering("Lẩu nấm", "Thứ Hai", "2025-46")
	for i := range rows {
		require.NoError(t, store.CreateOffering(ctx, &rows[i]))
	}
	require.NoError(t, store.CreateOffering(ctx, &hidden))
	_, err := store.SetAvailability(ctx, hidden.ID, false)
	require.NoError(t, err)

	all, err := store.ListOfferings(ctx, services.MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	week, err := store.ListOfferings(ctx, services.MenuFilter{WeekID: "2025-46"})
	require.NoError(t, err)
	assert.Len(t, week, 4)

	monday, err := store.ListOfferings(ctx, services.MenuFilter{WeekID: "2025-46", Day: "Thứ Hai", AvailableOnly: true})
	require.NoError(t, err)
	names := []string{}
	for _, o := range monday {
		names = append(names, o.Name)
	}
	assert.ElementsMatch(t, []string{"Phở chay", "Canh nấm"}, names)

	got, err := store.GetOffering(ctx, rows[0].ID)
	require.NoError(t, err)
	require.Len(t, got.SizeOptions, 2)
	assert.True(t, decimal.NewFromInt(85000).Equal(got.SizeOptions[1].Price))

	stored, err := store.GetOffering(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestMenuStoreSaveAndDelete(t *testing.T) {
	db := setupTestDB(t)
	store := database.NewMenuStore(db)
	ctx := context.Background()

	o := offering("Phở chay", "Thứ Hai", "2025-46")
	require.NoError(t, store.CreateOffering(ctx, &o))

	o.Name = "Phở chay đặc biệt"
	o.IsFeatured = true
	require.NoError(t, store.SaveOffering(ctx, &o))

	got, err := store.GetOffering(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phở chay đặc biệt", got.Name)
	assert.True(t, got.IsFeatured)

	require.NoError(t, store.DeleteOffering(ctx, o.ID))
	assert.ErrorIs(t, store.DeleteOffering(ctx, o.ID), services.ErrOfferingNotFound)
	_, err = store.GetOffering(ctx, o.ID)
	assert.ErrorIs(t, err, services.ErrOfferingNotFound)

	missing := offering("x", "Thứ Hai", "")
	missing.ID = 404
	assert.ErrorIs(t, store.SaveOffering(ctx, &missing), services.ErrOfferingNotFound)
}

func TestCartStoreRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := database.NewCartStore(db)
	ctx := context.Background()

	cart, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(cart.ID)
	require.NoError(t, err)

	o := offering("Phở chay", "Thứ Hai", "2025-46")
	o.ID = 7
	b := offering("Bánh xèo", "Thứ Hai", "2025-46")
	b.ID = 3
	_, err = cart.AddOrMerge(o, "Phần 2 người", 1, "Thứ Hai")
	require.NoError(t, err)
	_, err = cart.AddOrMerge(b, "", 2, "Thứ Hai")
	require.NoError(t, err)
	_, err = cart.AddOrMerge(o, "Phần 1 người", 1, "Thứ Hai")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, cart))

	loaded, err := store.Load(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 3)
	assert.Equal(t, "7-Phần 2 người", loaded.Lines[0].LineID)
	assert.Equal(t, "3-Phần 1 người", loaded.Lines[1].LineID)
	assert.Equal(t, 2, loaded.Lines[1].Quantity)
	assert.True(t, decimal.NewFromInt(85000+90000+45000).Equal(loaded.Total()))

	require.NoError(t, loaded.Remove("7-Phần 2 người"))
	require.NoError(t, store.Save(ctx, loaded))
	again, err := store.Load(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, again.Lines, 2)

	require.NoError(t, store.Delete(ctx, cart.ID))
	_, err = store.Load(ctx, cart.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)
	assert.ErrorIs(t, store.Delete(ctx, cart.ID), services.ErrCartNotFound)
	assert.ErrorIs(t, store.Save(ctx, &models.Cart{ID: "gone"}), services.ErrCartNotFound)
}

func sampleOrder(number string, status models.OrderStatus, created time.Time) *models.Order {
	return &models.Order{
		OrderNumber:  number,
		CustomerName: "Lan",
		Phone:        "0901234567",
		Address:      "12 Lê Lợi",
		DeliveryDate: "2025-11-10",
		DeliveryTime: "11:00 - 13:00",
		DeliveryDay:  "Thứ Hai",
		WeekID:       "2025-46",
		Status:       status,
		TotalAmount:  decimal.NewFromInt(90000),
		Items: []models.OrderItem{{
			OfferingID:   7,
			Name:         "Phở chay",
			SelectedSize: models.SizeOption{Name: "Phần 1 người", Servings: 1, Price: decimal.NewFromInt(45000)},
			Quantity:     2,
			Subtotal:     decimal.NewFromInt(90000),
		}},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestOrderStoreLifecycle(t *testing.T) {
	db := setupTestDB(t)
	store := database.NewOrderStore(db)
	ctx := context.Background()
	base := time.Date(2025, 11, 10, 6, 0, 0, 0, time.UTC)

	first := sampleOrder("#000001", models.StatusPending, base)
	second := sampleOrder("#000002", models.StatusConfirmed, base.Add(time.Minute))
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	exists, err := store.OrderNumberExists(ctx, "#000001")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.OrderNumberExists(ctx, "#999999")
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := store.List(ctx, services.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "#000002", list[0].OrderNumber)
	require.Len(t, list[1].Items, 1)
	assert.Equal(t, "Phần 1 người", list[1].Items[0].SelectedSize.Name)

	pending, err := store.List(ctx, services.OrderFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	updatedAt := base.Add(time.Hour)
	updated, err := store.UpdateStatus(ctx, first.ID, "", models.StatusCompleted, updatedAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(updatedAt))

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusCompleted])
	assert.Equal(t, int64(1), counts[models.StatusConfirmed])

	_, err = store.UpdateStatus(ctx, 999, "", models.StatusCompleted, updatedAt)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	_, err = store.UpdateStatus(ctx, second.ID, models.StatusPending, models.StatusPreparing, updatedAt)
	assert.ErrorIs(t, err, services.ErrStatusChanged)
	_, err = store.UpdateStatus(ctx, 999, models.StatusPending, models.StatusPreparing, updatedAt)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	guarded, err := store.UpdateStatus(ctx, second.ID, models.StatusConfirmed, models.StatusPreparing, updatedAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, guarded.Status)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	assert.ErrorIs(t, store.Delete(ctx, first.ID), services.ErrOrderNotFound)

	var items int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", first.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestOrderStoreUniqueConstraints(t *testing.T) {
	db := setupTestDB(t)
	store := database.NewOrderStore(db)
	ctx := context.Background()
	now := time.Now()

	key := "checkout-1"
	first := sampleOrder("#123456", models.StatusPending, now)
	first.IdempotencyKey = &key
	require.NoError(t, store.Create(ctx, first))

	again := sampleOrder("#123456", models.StatusPending, now)
	assert.ErrorIs(t, store.Create(ctx, again), services.ErrDuplicateKey)

	sameKey := sampleOrder("#123457", models.StatusPending, now)
	sameKey.IdempotencyKey = &key
	assert.ErrorIs(t, store.Create(ctx, sameKey), services.ErrDuplicateKey)

	found, err := store.FindByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "#123456", found.OrderNumber)

	none, err := store.FindByIdempotencyKey(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, none)

	noKey := sampleOrder("#123458", models.StatusPending, now)
	require.NoError(t, store.Create(ctx, noKey))
	alsoNoKey := sampleOrder("#123459", models.StatusPending, now)
	require.NoError(t, store.Create(ctx, alsoNoKey))
}

func TestSeedMenu(t *testing.T) {
	db := setupTestDB(t)

	items, err := database.SeedMenu(db, "2025-46")
	require.NoError(t, err)
	require.Len(t, items, 3)

	offerings, err := database.NewMenuStore(db).ListOfferings(context.Background(), services.MenuFilter{WeekID: "2025-46", Day: "Thứ Hai"})
	require.NoError(t, err)
	assert.Len(t, offerings, 3)
	for _, o := range offerings {
		assert.True(t, o.IsAvailable)
		assert.Len(t, o.Sizes(), 1)
	}
}

func TestSubmitAgainstSqlite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	loc := time.FixedZone("ICT", 7*3600)
	now := time.Date(2025, 11, 10, 6, 0, 0, 0, loc)

	menu := database.NewMenuStore(db)
	carts := database.NewCartStore(db)
	orders := database.NewOrderStore(db)

	o := offering("Phở chay", "Thứ Hai", "2025-46")
	require.NoError(t, menu.CreateOffering(ctx, &o))

	cartSvc := services.NewCartService(carts, menu)
	cart, err := cartSvc.Create(ctx)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, cart.ID, services.AddItemRequest{OfferingID: o.ID, SizeName: "Phần 1 người", Quantity: 2, BrowsingDay: "Thứ Hai"})
	require.NoError(t, err)

	validator := services.NewOrderValidator(2*time.Hour, loc)
	validator.Now = func() time.Time { return now }
	svc := services.NewOrderService(orders, carts, menu, validator)
	svc.Now = func() time.Time { return now }

	res, err := svc.Submit(ctx, services.SubmitRequest{
		CartID:         cart.ID,
		IdempotencyKey: "k-1",
		CustomerName:   "Lan",
		Phone:          "0901234567",
		Address:        "12 Lê Lợi",
		DeliveryDate:   "2025-11-10",
		DeliveryTime:   "9:00 - 11:00",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90000).Equal(res.Order.TotalAmount))

	stored, err := orders.Get(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	require.Len(t, stored.Items, 1)

	_, err = carts.Load(ctx, cart.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)
}

func TestRedisIdempotency(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	guard := database.NewRedisIdempotency(addr, time.Minute)
	defer guard.Close()
	ctx := context.Background()
	require.NoError(t, guard.Ping(ctx))

	key := uuid.NewString()
	fresh, err := guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, fresh)

	require.NoError(t, guard.Release(ctx, key))
	fresh, err = guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, fresh)
	require.NoError(t, guard.Release(ctx, key))
}
