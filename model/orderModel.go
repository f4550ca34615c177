// model/order.go
package model

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	OrderNumber     string      `json:"order_number"`
	ClaimCode       string      `json:"-"`
	Status          OrderStatus `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	DiscountAmount  float64     `json:"discount_amount"`
	ShippingCost    float64     `json:"shipping_cost"`
	Total           float64     `json:"total"`
	ShippingName    string      `json:"shipping_name"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingPhone   string      `json:"shipping_phone"`
	CreatedAt       time.Time   `json:"created_at"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem captures the unit price at order time; later price or sale
// changes on the book never touch it.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	BookID    int64   `json:"book_id"`
	Title     string  `json:"title"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}
