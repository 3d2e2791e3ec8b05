package services

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/utils"
)

// OrderSummary renders the confirmation text a customer forwards to the kitchen over chat.
func OrderSummary(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ĐƠN ĐẶT HÀNG\n\n")
	fmt.Fprintf(&b, "Mã đơn: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Tên: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "SĐT: %s\n", order.Phone)
	fmt.Fprintf(&b, "Địa chỉ: %s\n", order.FullAddress())
	fmt.Fprintf(&b, "Ngày giao: %s\n", order.DeliveryDate)
	fmt.Fprintf(&b, "Giờ giao: %s\n\n", order.DeliveryTime)
	fmt.Fprintf(&b, "DANH SÁCH MÓN:\n")

	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s (%s) x%d - %s\n",
			i+1, item.Name, item.SelectedSize.Name, item.Quantity, utils.FormatCurrencyVND(item.Subtotal))
	}

	fmt.Fprintf(&b, "\nTỔNG: %s\n", utils.FormatCurrencyVND(order.TotalAmount))
	if order.Notes != "" {
		fmt.Fprintf(&b, "\nGhi chú: %s", order.Notes)
	}
	return b.String()
}
