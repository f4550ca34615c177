// model/cart.go
package model

import "time"

type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with live book data and priced.
type CartLine struct {
	ItemID    int64   `json:"item_id"`
	BookID    int64   `json:"book_id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	InStock   bool    `json:"in_stock"`
}

type CartSummary struct {
	Lines              []CartLine `json:"items"`
	ItemCount          int64      `json:"item_count"`
	Subtotal           float64    `json:"subtotal"`
	DiscountAmount     float64    `json:"discount_amount"`
	Total              float64    `json:"total"`
	HasVolumeDiscount  bool       `json:"has_volume_discount"`
	HasLoyaltyDiscount bool       `json:"has_loyalty_discount"`
}
