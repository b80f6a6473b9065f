package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// stubMailer merekam panggilan dan bisa dipaksa gagal.
type stubMailer struct {
	sent []string
	err  error
}

func (m *stubMailer) SendReceipt(order *models.Order, toAddress string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toAddress)
	return nil
}

func newTestPaymentService(t *testing.T, mailer Mailer) (*PaymentService, *OrderService) {
	db := setupOrderTestDB(t)
	gateway := NewMidtransService(MidtransConfig{ServerKey: "SB-Mid-server-test", ClientKey: "SB-Mid-client-test"})
	return NewPaymentService(db, gateway, mailer), NewOrderService(db)
}

func TestApplyReconciliationMarksPaidAndLogs(t *testing.T) {
	mailer := &stubMailer{}
	ps, orders := newTestPaymentService(t, mailer)

	email := "customer@example.com"
	order, err := orders.CreateOrder(CreateOrderInput{
		TableNumber:   "T5",
		CustomerEmail: &email,
		Items: []OrderItemRequest{
			{MenuID: 1, Qty: 2},
			{MenuID: 3, Qty: 1},
		},
	})
	assert.NoError(t, err)

	updated, err := ps.ApplyReconciliation(&ReconcileResult{
		OrderID:         order.ID,
		PaymentStatus:   models.PaymentPaid,
		TransactionID:   "trx-1",
		PaymentType:     "qris",
		TransactionTime: "2025-11-14 10:00:00",
		GrossAmount:     61000,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "QRIS", updated.PaymentMethod)

	assert.Len(t, updated.PaymentLogs, 1)
	assert.Equal(t, models.PaymentLogSuccess, updated.PaymentLogs[0].Status)
	assert.Contains(t, updated.PaymentLogs[0].Detail, "trx-1")

	// Struk terkirim ke email customer
	assert.Equal(t, []string{email}, mailer.sent)
}

func TestApplyReconciliationEmailFailureIsSwallowed(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp timeout")}
	ps, orders := newTestPaymentService(t, mailer)

	email := "customer@example.com"
	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber:   "T1",
		CustomerEmail: &email,
		Items:         []OrderItemRequest{{MenuID: 1, Qty: 1}},
	})

	// Kegagalan email tidak menggagalkan rekonsiliasi
	updated, err := ps.ApplyReconciliation(&ReconcileResult{
		OrderID:       order.ID,
		PaymentStatus: models.PaymentPaid,
		PaymentType:   "gopay",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Len(t, updated.PaymentLogs, 1)
}

func TestApplyReconciliationFailedPaymentLogsFailure(t *testing.T) {
	mailer := &stubMailer{}
	ps, orders := newTestPaymentService(t, mailer)

	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber: "T1",
		Items:       []OrderItemRequest{{MenuID: 2, Qty: 1}},
	})

	updated, err := ps.ApplyReconciliation(&ReconcileResult{
		OrderID:       order.ID,
		PaymentStatus: models.PaymentCancelled,
		PaymentType:   "bank_transfer",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCancelled, updated.PaymentStatus)
	assert.Len(t, updated.PaymentLogs, 1)
	assert.Equal(t, models.PaymentLogFailed, updated.PaymentLogs[0].Status)

	// Tidak ada email untuk pembayaran gagal
	assert.Empty(t, mailer.sent)
}

func TestApplyReconciliationRespectsTerminalState(t *testing.T) {
	mailer := &stubMailer{}
	ps, orders := newTestPaymentService(t, mailer)

	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber: "T1",
		Items:       []OrderItemRequest{{MenuID: 1, Qty: 1}},
	})
	_, err := orders.UpdatePaymentStatus(order.ID, models.PaymentPaid, "QRIS")
	assert.NoError(t, err)

	// Notifikasi terlambat yang mencoba membatalkan order PAID ditolak
	// dan tidak meninggalkan log baru
	_, err = ps.ApplyReconciliation(&ReconcileResult{
		OrderID:       order.ID,
		PaymentStatus: models.PaymentCancelled,
		PaymentType:   "qris",
	})
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindInvalidTransition, appErr.Kind)

	fresh, _ := orders.GetOrderByID(order.ID)
	assert.Equal(t, models.PaymentPaid, fresh.PaymentStatus)
	assert.Empty(t, fresh.PaymentLogs)
}

func TestApplyReconciliationIdempotentRetry(t *testing.T) {
	mailer := &stubMailer{}
	ps, orders := newTestPaymentService(t, mailer)

	email := "customer@example.com"
	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber:   "T1",
		CustomerEmail: &email,
		Items:         []OrderItemRequest{{MenuID: 1, Qty: 1}},
	})

	result := &ReconcileResult{
		OrderID:       order.ID,
		PaymentStatus: models.PaymentPaid,
		TransactionID: "trx-9",
		PaymentType:   "qris",
	}

	_, err := ps.ApplyReconciliation(result)
	assert.NoError(t, err)

	// Gateway mengirim ulang notifikasi yang sama: tetap sukses
	updated, err := ps.ApplyReconciliation(result)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Len(t, updated.PaymentLogs, 2)
}

func TestCreatePaymentRequiresEmail(t *testing.T) {
	ps, orders := newTestPaymentService(t, &stubMailer{})

	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber: "T1",
		Items:       []OrderItemRequest{{MenuID: 1, Qty: 1}},
	})

	_, err := ps.CreatePayment(order.ID, "")
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}

func TestCreatePaymentRejectsPaidOrder(t *testing.T) {
	ps, orders := newTestPaymentService(t, &stubMailer{})

	order, _ := orders.CreateOrder(CreateOrderInput{
		TableNumber: "T1",
		Items:       []OrderItemRequest{{MenuID: 1, Qty: 1}},
	})
	_, err := orders.UpdatePaymentStatus(order.ID, models.PaymentPaid, "CASH")
	assert.NoError(t, err)

	_, err = ps.CreatePayment(order.ID, "customer@example.com")
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindInvalidTransition, appErr.Kind)
}
