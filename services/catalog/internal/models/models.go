package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;index"           json:"name"`
	Category  string    `gorm:"not null"                 json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stock is the single inventory record of a product. It only becomes
// visible to buyers once an admin has set it (Completed).
type Stock struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"              json:"id"`
	ProductID uint            `gorm:"not null;uniqueIndex"                  json:"product_id"`
	Product   *Product        `gorm:"constraint:OnDelete:CASCADE"           json:"product,omitempty"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Quantity  int             `gorm:"not null;default:0"                    json:"quantity"`
	Completed bool            `gorm:"not null;default:false"                json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
