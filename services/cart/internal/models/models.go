package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Username  string     `gorm:"uniqueIndex;not null"                          json:"username"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"shopping_items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a copy of the catalog entry taken when the item was added.
// Price is the line total; UnitPrice is the catalog price at that moment.
type CartItem struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	CartID          uint            `gorm:"not null;index"              json:"shopping_cart_id"`
	ProductID       uint            `gorm:"not null"                    json:"product_id"`
	ProductName     string          `gorm:"not null"                    json:"product_name"`
	ProductCategory string          `gorm:"not null"                    json:"product_category"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Price           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Quantity        int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
