package models

import "time"

// OrderItem dibuat hanya saat order dibuat dan tidak pernah diubah.
// Price adalah snapshot harga menu pada saat itu; perubahan harga menu
// setelahnya tidak mengubah order yang sudah ada.
type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID  uint  `gorm:"not null" json:"menu_id"`
	Menu    Menu  `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Qty     int   `gorm:"not null" json:"qty"`
	// Price = harga menu saat order dibuat, Subtotal = Price * Qty
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal  float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
