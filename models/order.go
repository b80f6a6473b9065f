package models

import (
	"fmt"
	"time"
)

// Payment status values. PAID dan CANCELLED bersifat terminal.
const (
	PaymentUnpaid    = "UNPAID"
	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentFailed    = "FAILED"
	PaymentCancelled = "CANCELLED"
)

// Kitchen-facing order status values.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderReady      = "READY"
	OrderDone       = "DONE"
	OrderCancelled  = "CANCELLED"
)

type Order struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TableNumber   string  `gorm:"type:varchar(50);not null;index" json:"table_number"`
	CustomerEmail *string `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	PaymentMethod string  `gorm:"type:varchar(30);not null;default:'NONE'" json:"payment_method"`
	PaymentStatus string  `gorm:"type:varchar(20);not null;default:'UNPAID';index" json:"payment_status"`
	OrderStatus   string  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"order_status"`
	// Total dihitung dari subtotal item saat order dibuat, bukan dari client
	Total       float64      `gorm:"type:decimal(12,2);not null;default:0.00" json:"total"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
	Items       []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	PaymentLogs []PaymentLog `gorm:"foreignKey:OrderID" json:"payment_logs,omitempty"`
}

// GatewayOrderRef menghasilkan referensi transaksi untuk payment gateway.
// Format: ORDER-<id>-<timestamp ms>; field tengah adalah order id internal.
func (o *Order) GatewayOrderRef() string {
	return fmt.Sprintf("ORDER-%d-%d", o.ID, time.Now().UnixMilli())
}
