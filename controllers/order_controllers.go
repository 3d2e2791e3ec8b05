package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
)

// IdempotencyHeader lets a storefront retry a checkout without creating a second order.
const IdempotencyHeader = "Idempotency-Key"

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

type checkoutBody struct {
	CartID       string           `json:"cart_id" binding:"required"`
	CustomerName string           `json:"customer_name"`
	Phone        string           `json:"phone"`
	Province     string           `json:"province"`
	District     string           `json:"district"`
	Ward         string           `json:"ward"`
	Address      string           `json:"address"`
	DeliveryDate string           `json:"delivery_date"`
	DeliveryTime string           `json:"delivery_time"`
	Notes        string           `json:"notes"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
}

func (b checkoutBody) request(key string) services.SubmitRequest {
	return services.SubmitRequest{
		CartID:         b.CartID,
		IdempotencyKey: key,
		CustomerName:   b.CustomerName,
		Phone:          b.Phone,
		Province:       b.Province,
		District:       b.District,
		Ward:           b.Ward,
		Address:        b.Address,
		DeliveryDate:   b.DeliveryDate,
		DeliveryTime:   b.DeliveryTime,
		Notes:          b.Notes,
		ClientTotal:    b.TotalAmount,
	}
}

func (oc *OrderController) bind(c *gin.Context) (services.SubmitRequest, bool) {
	var body checkoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return services.SubmitRequest{}, false
	}
	return body.request(c.GetHeader(IdempotencyHeader)), true
}

// SubmitOrder checks out a cart. The response carries the order and its text summary.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	req, ok := oc.bind(c)
	if !ok {
		return
	}

	res, err := oc.Service.Submit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":   res.Order,
		"summary": res.Summary,
	})
}

// ValidateOrder runs every checkout check without storing anything.
func (oc *OrderController) ValidateOrder(c *gin.Context) {
	req, ok := oc.bind(c)
	if !ok {
		return
	}

	accepted, err := oc.Service.Validate(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order is valid", gin.H{
		"delivery_day":          accepted.DeliveryDay,
		"week_id":               accepted.WeekID,
		"delivery_at":           accepted.DeliveryAt,
		"items":                 accepted.Items,
		"total_amount":          accepted.TotalAmount,
		"client_total_mismatch": accepted.ClientTotalMismatch,
	})
}

// GetAllOrders lists orders newest first, optionally for one ?status=.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var filter services.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		filter.Status = status
	}

	orders, err := oc.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order":   order,
		"summary": services.OrderSummary(order),
	})
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := models.ParseOrderStatus(body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := oc.Service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	if err := oc.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetOrderStats counts orders per status for the staff dashboard.
func (oc *OrderController) GetOrderStats(c *gin.Context) {
	stats, err := oc.Service.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var total int64
	for _, n := range stats {
		total += n
	}
	utils.RespondJSON(c, http.StatusOK, "Order statistics", gin.H{
		"total":     total,
		"by_status": stats,
	})
}
