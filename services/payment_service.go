package services

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// PaymentService merekonsiliasi notifikasi gateway ke status internal:
// update payment status yang otoritatif, lalu audit log best-effort, lalu
// email struk best-effort.
type PaymentService struct {
	orders  *OrderService
	gateway *MidtransService
	mailer  Mailer
}

func NewPaymentService(db *gorm.DB, gateway *MidtransService, mailer Mailer) *PaymentService {
	return &PaymentService{
		orders:  NewOrderService(db),
		gateway: gateway,
		mailer:  mailer,
	}
}

// CreatePayment menyiapkan transaksi Snap untuk sebuah order yang belum
// dibayar dan menyimpan email customer untuk struk.
func (ps *PaymentService) CreatePayment(orderID uint, customerEmail string) (*PaymentTransaction, error) {
	if customerEmail == "" {
		return nil, utils.NewValidation("customer email is required for e-payment")
	}

	order, err := ps.orders.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentPaid {
		return nil, utils.NewInvalidTransition("order already paid")
	}

	order.CustomerEmail = &customerEmail
	if err := ps.orders.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("customer_email", customerEmail).Error; err != nil {
		return nil, err
	}

	return ps.gateway.CreateTransaction(order)
}

// HandleNotification memverifikasi payload callback gateway lalu menerapkan
// hasil rekonsiliasinya.
func (ps *PaymentService) HandleNotification(rawPayload []byte) (*models.Order, error) {
	result, err := ps.gateway.VerifyAndParseNotification(rawPayload)
	if err != nil {
		return nil, err
	}
	return ps.ApplyReconciliation(result)
}

// ApplyReconciliation menerapkan hasil rekonsiliasi: status update dulu
// (otoritatif), lalu append payment log. Kegagalan log tidak membatalkan
// status update; kegagalan email hanya dicatat, tidak pernah menggagalkan
// rekonsiliasi.
func (ps *PaymentService) ApplyReconciliation(result *ReconcileResult) (*models.Order, error) {
	method := strings.ToUpper(result.PaymentType)

	order, err := ps.orders.UpdatePaymentStatus(result.OrderID, result.PaymentStatus, method)
	if err != nil {
		return nil, err
	}

	logStatus := models.PaymentLogFailed
	if result.PaymentStatus == models.PaymentPaid {
		logStatus = models.PaymentLogSuccess
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"transaction_id":   result.TransactionID,
		"transaction_time": result.TransactionTime,
		"gross_amount":     result.GrossAmount,
	})
	if _, err := ps.orders.AddPaymentLog(result.OrderID, method, logStatus, string(detail)); err != nil {
		utils.ErrorLogger.Printf("failed to append payment log for order %d: %v", result.OrderID, err)
	}

	if result.PaymentStatus == models.PaymentPaid && order.CustomerEmail != nil && *order.CustomerEmail != "" {
		if err := ps.mailer.SendReceipt(order, *order.CustomerEmail); err != nil {
			utils.ErrorLogger.Printf("failed to send receipt email for order %d: %v", order.ID, err)
		}
	}

	return ps.orders.GetOrderByID(order.ID)
}
