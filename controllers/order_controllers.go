package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/kds"
	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/services"
	"github.com/ordira-app/backend/utils"
)

type OrderController struct {
	DB     *gorm.DB
	orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, orders: services.NewOrderService(db)}
}

// CreateOrder -> customer membuat order dari meja, tanpa login
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableNumber   string                      `json:"table_number" binding:"required"`
		Items         []services.OrderItemRequest `json:"items" binding:"required"`
		PaymentMethod string                      `json:"payment_method"`
		CustomerEmail *string                     `json:"customer_email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.CreateOrder(services.CreateOrderInput{
		TableNumber:   body.TableNumber,
		Items:         body.Items,
		PaymentMethod: body.PaymentMethod,
		CustomerEmail: body.CustomerEmail,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	kds.BroadcastOrderCreated(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	orders, err := oc.orders.GetOrdersByTable(c.Param("table_number"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// ListOrders -> halaman order dengan filter status (ADMIN/KASIR)
func (oc *OrderController) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	result, err := oc.orders.ListOrders(services.OrderFilter{
		OrderStatus:   c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", result)
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.orders.CancelOrder(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	kds.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// UpdateOrderStatus -> KOKI menggerakkan antrian dapur
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		OrderStatus string `json:"order_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.UpdateOrderStatus(uint(id), body.OrderStatus)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	kds.BroadcastOrderUpdate(*order)
	if order.OrderStatus == models.OrderReady {
		kds.BroadcastKitchenMessage(fmt.Sprintf("Order #%d siap disajikan", order.ID))
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// UpdatePaymentStatus -> KASIR menandai pembayaran manual (cash). Status
// yang sukses dicatat juga ke payment log dengan atribusi kasir.
func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.UpdatePaymentStatus(uint(id), body.PaymentStatus, body.PaymentMethod)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if body.PaymentStatus == models.PaymentPaid {
		userID, _ := c.Get("user_id")
		detail := fmt.Sprintf(`{"updated_by":%v,"timestamp":%q}`, userID, time.Now().Format(time.RFC3339))
		method := body.PaymentMethod
		if method == "" {
			method = order.PaymentMethod
		}
		if _, err := oc.orders.AddPaymentLog(order.ID, method, models.PaymentLogSuccess, detail); err != nil {
			utils.ErrorLogger.Printf("failed to append payment log for order %d: %v", order.ID, err)
		}
	}

	kds.BroadcastPaymentUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", order)
}

// GetKitchenQueue -> antrian dapur untuk KOKI, order terlama dulu
func (oc *OrderController) GetKitchenQueue(c *gin.Context) {
	var orders []models.Order
	err := oc.DB.
		Preload("Items.Menu").
		Where("order_status IN ?", []string{models.OrderPending, models.OrderProcessing, models.OrderReady}).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", orders)
}

// GetOrderStats -> ringkasan untuk dashboard admin
func (oc *OrderController) GetOrderStats(c *gin.Context) {
	stats := gin.H{}

	var totalOrders int64
	oc.DB.Model(&models.Order{}).Count(&totalOrders)
	stats["total_orders"] = totalOrders

	byStatus := gin.H{}
	for _, status := range []string{models.OrderPending, models.OrderProcessing, models.OrderReady, models.OrderDone} {
		var count int64
		oc.DB.Model(&models.Order{}).Where("order_status = ?", status).Count(&count)
		byStatus[status] = count
	}
	stats["orders_by_status"] = byStatus

	var unpaid int64
	oc.DB.Model(&models.Order{}).Where("payment_status = ?", models.PaymentUnpaid).Count(&unpaid)
	stats["unpaid_orders"] = unpaid

	startOfDay := time.Now().Truncate(24 * time.Hour)
	var todayRevenue float64
	oc.DB.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentPaid, startOfDay).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&todayRevenue)
	stats["today_revenue"] = todayRevenue

	utils.RespondJSON(c, http.StatusOK, "Order statistics", stats)
}
