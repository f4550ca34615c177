package cart

type AddItemReq struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type UpdateItemReq struct {
	// zero or negative removes the line
	Quantity int64 `json:"quantity"`
}
