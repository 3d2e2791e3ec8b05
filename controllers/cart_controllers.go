package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
)

type CartController struct {
	Service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{Service: service}
}

type cartView struct {
	*models.Cart
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func viewOf(cart *models.Cart) cartView {
	return cartView{Cart: cart, Total: cart.Total(), ItemCount: cart.ItemCount()}
}

func (cc *CartController) CreateCart(c *gin.Context) {
	cart, err := cc.Service.Create(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cart created", viewOf(cart))
}

func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.Service.Get(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart detail", viewOf(cart))
}

func (cc *CartController) DeleteCart(c *gin.Context) {
	if err := cc.Service.Delete(c.Request.Context(), c.Param("cart_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", gin.H{"cart_id": c.Param("cart_id")})
}

// AddItem adds an offering while the customer browses day.
func (cc *CartController) AddItem(c *gin.Context) {
	var body struct {
		OfferingID uint   `json:"offering_id" binding:"required"`
		SizeName   string `json:"size_name"`
		Quantity   int    `json:"quantity"`
		Day        string `json:"day" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	cart, err := cc.Service.AddItem(c.Request.Context(), c.Param("cart_id"), services.AddItemRequest{
		OfferingID:  body.OfferingID,
		SizeName:    body.SizeName,
		Quantity:    body.Quantity,
		BrowsingDay: body.Day,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added", viewOf(cart))
}

// ChangeQuantity applies {"delta": n}. A line reaching zero is removed.
func (cc *CartController) ChangeQuantity(c *gin.Context) {
	var body struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Service.ChangeQuantity(c.Request.Context(), c.Param("cart_id"), c.Param("line_id"), *body.Delta)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Quantity updated", viewOf(cart))
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	cart, err := cc.Service.RemoveItem(c.Request.Context(), c.Param("cart_id"), c.Param("line_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", viewOf(cart))
}
