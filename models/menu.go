package models

import "time"

type Menu struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CategoryID  uint     `gorm:"not null" json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string   `gorm:"type:text" json:"description"`
	// Path ke file gambar di uploads/menus, nil jika belum ada
	Image       *string   `gorm:"type:varchar(255)" json:"image,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
