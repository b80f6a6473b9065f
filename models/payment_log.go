package models

import "time"

// Payment log outcome values.
const (
	PaymentLogSuccess = "SUCCESS"
	PaymentLogFailed  = "FAILED"
)

// PaymentLog adalah audit trail pembayaran, append-only.
// Terpisah dari Order.PaymentStatus: log tidak pernah di-update atau dihapus.
type PaymentLog struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Method  string `gorm:"type:varchar(30);not null" json:"method"`
	Status  string `gorm:"type:varchar(10);not null" json:"status"`
	// Detail berisi JSON bebas: transaction id, waktu transaksi, gross amount, aktor
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
