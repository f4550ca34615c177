package order

type OrderItemReq struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderReq struct {
	Items           []OrderItemReq `json:"items" validate:"required,min=1,dive"`
	ShippingName    string         `json:"shipping_name" validate:"required"`
	ShippingAddress string         `json:"shipping_address" validate:"required"`
	ShippingPhone   string         `json:"shipping_phone"`
}

type FulfillReq struct {
	ClaimCode string `json:"claim_code" validate:"required"`
}
