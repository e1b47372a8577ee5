package transport

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SetStockRequest accepts price as a JSON number or string.
type SetStockRequest struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type ProductEvent struct {
	ProductID uint             `json:"product_id"`
	Name      string           `json:"name,omitempty"`
	Category  string           `json:"category,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
}
