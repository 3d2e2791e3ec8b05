package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/weekly-menu/controllers"
	"github.com/yeremiapane/weekly-menu/database"
	"github.com/yeremiapane/weekly-menu/kds"
	"github.com/yeremiapane/weekly-menu/middlewares"
	"github.com/yeremiapane/weekly-menu/services"
	"gorm.io/gorm"
)

// Options carries the wired dependencies the HTTP surface needs.
type Options struct {
	DB          *gorm.DB
	Menu        *database.MenuStore
	Carts       *services.CartService
	Orders      *services.OrderService
	Hub         *kds.Hub
	Location    *time.Location
	CORSOrigin  string
	RateLimiter *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	if opts.Hub == nil {
		opts.Hub = kds.NewHub()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	categoryCtrl := controllers.NewMenuCategoryController(opts.DB)
	dishCtrl := controllers.NewDishController(opts.DB)
	menuCtrl := controllers.NewMenuController(opts.DB, opts.Menu, opts.Hub, opts.Location)
	cartCtrl := controllers.NewCartController(opts.Carts)
	orderCtrl := controllers.NewOrderController(opts.Orders)
	kdsCtrl := controllers.NewKDSController(opts.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Storefront
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/weeks", menuCtrl.GetWeek)

	carts := r.Group("/carts")
	{
		carts.POST("", cartCtrl.CreateCart)
		carts.GET("/:cart_id", cartCtrl.GetCart)
		carts.DELETE("/:cart_id", cartCtrl.DeleteCart)
		carts.POST("/:cart_id/items", cartCtrl.AddItem)
		carts.PATCH("/:cart_id/items/:line_id", cartCtrl.ChangeQuantity)
		carts.DELETE("/:cart_id/items/:line_id", cartCtrl.RemoveItem)
	}

	r.POST("/orders/validate", orderCtrl.ValidateOrder)
	r.POST("/orders", orderCtrl.SubmitOrder)

	// Staff
	admin := r.Group("/admin")
	{
		admin.GET("/ws", kdsCtrl.KDSHandler)

		admin.GET("/dishes", dishCtrl.GetAllDishes)
		admin.POST("/dishes", dishCtrl.CreateDish)
		admin.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
		admin.PUT("/dishes/:dish_id", dishCtrl.UpdateDish)
		admin.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)

		admin.GET("/categories", categoryCtrl.GetAllCategories)
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
		admin.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.GET("/menu", menuCtrl.GetMenu)
		admin.POST("/menu", menuCtrl.CreateOffering)
		admin.GET("/menu/:menu_id", menuCtrl.GetOfferingByID)
		admin.PUT("/menu/:menu_id", menuCtrl.UpdateOffering)
		admin.PATCH("/menu/:menu_id/availability", menuCtrl.SetAvailability)
		admin.DELETE("/menu/:menu_id", menuCtrl.DeleteOffering)
		admin.POST("/seed-menu", menuCtrl.SeedMenu)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/stats", orderCtrl.GetOrderStats)
		admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	}

	return r
}
