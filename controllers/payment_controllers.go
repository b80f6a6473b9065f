package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/kds"
	"github.com/ordira-app/backend/services"
	"github.com/ordira-app/backend/utils"
)

type PaymentController struct {
	payments *services.PaymentService
	orders   *services.OrderService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService) *PaymentController {
	return &PaymentController{
		payments: payments,
		orders:   services.NewOrderService(db),
	}
}

// CreatePayment -> menyiapkan transaksi Snap untuk order yang belum dibayar
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var body struct {
		OrderID       uint   `json:"order_id" binding:"required"`
		CustomerEmail string `json:"customer_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx, err := pc.payments.CreatePayment(body.OrderID, body.CustomerEmail)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment transaction created", tx)
}

// HandleNotification -> webhook callback dari payment gateway. Gateway
// melakukan retry sendiri; rekonsiliasi idempoten terhadap retry.
func (pc *PaymentController) HandleNotification(c *gin.Context) {
	rawPayload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.payments.HandleNotification(rawPayload)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	kds.BroadcastPaymentUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Notification processed", gin.H{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}

// CheckPaymentStatus -> status pembayaran sebuah order
func (pc *PaymentController) CheckPaymentStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := pc.orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", gin.H{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
		"payment_method": order.PaymentMethod,
		"total":          order.Total,
	})
}
