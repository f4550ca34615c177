package book

import (
	"time"

	bookrepo "bookstore/repository/book"
)

type CreateBookReq struct {
	Title              string     `json:"title" validate:"required"`
	Author             string     `json:"author" validate:"required"`
	ISBN               string     `json:"isbn" validate:"required"`
	Description        string     `json:"description"`
	Publisher          string     `json:"publisher"`
	Price              float64    `json:"price" validate:"gte=0"`
	OriginalPrice      float64    `json:"original_price" validate:"gte=0"`
	Stock              int64      `json:"stock" validate:"gte=0"`
	Language           string     `json:"language"`
	Format             string     `json:"format"`
	Genre              string     `json:"genre"`
	Pages              int        `json:"pages" validate:"gte=0"`
	Dimensions         string     `json:"dimensions"`
	WeightGrams        int        `json:"weight_grams" validate:"gte=0"`
	PublicationDate    *time.Time `json:"publication_date"`
	IsBestseller       bool       `json:"is_bestseller"`
	IsNewRelease       bool       `json:"is_new_release"`
	IsOnSale           bool       `json:"is_on_sale"`
	IsAwardWinner      bool       `json:"is_award_winner"`
	DiscountPercentage float64    `json:"discount_percentage" validate:"gte=0,lte=100"`
	DiscountStart      *time.Time `json:"discount_start"`
	DiscountEnd        *time.Time `json:"discount_end"`
}

// UpdateBookReq is a patch: absent fields leave the stored value alone.
type UpdateBookReq struct {
	Title              *string    `json:"title"`
	Author             *string    `json:"author"`
	ISBN               *string    `json:"isbn"`
	Description        *string    `json:"description"`
	Publisher          *string    `json:"publisher"`
	Price              *float64   `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice      *float64   `json:"original_price" validate:"omitempty,gte=0"`
	Stock              *int64     `json:"stock" validate:"omitempty,gte=0"`
	Language           *string    `json:"language"`
	Format             *string    `json:"format"`
	Genre              *string    `json:"genre"`
	Pages              *int       `json:"pages" validate:"omitempty,gte=0"`
	Dimensions         *string    `json:"dimensions"`
	WeightGrams        *int       `json:"weight_grams" validate:"omitempty,gte=0"`
	PublicationDate    *time.Time `json:"publication_date"`
	IsBestseller       *bool      `json:"is_bestseller"`
	IsNewRelease       *bool      `json:"is_new_release"`
	IsOnSale           *bool      `json:"is_on_sale"`
	IsAwardWinner      *bool      `json:"is_award_winner"`
	DiscountPercentage *float64   `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	DiscountStart      *time.Time `json:"discount_start"`
	DiscountEnd        *time.Time `json:"discount_end"`
}

func (r UpdateBookReq) patch() bookrepo.Patch {
	return bookrepo.Patch{
		Title:              r.Title,
		Author:             r.Author,
		ISBN:               r.ISBN,
		Description:        r.Description,
		Publisher:          r.Publisher,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice,
		Stock:              r.Stock,
		Language:           r.Language,
		Format:             r.Format,
		Genre:              r.Genre,
		Pages:              r.Pages,
		Dimensions:         r.Dimensions,
		WeightGrams:        r.WeightGrams,
		PublicationDate:    r.PublicationDate,
		IsBestseller:       r.IsBestseller,
		IsNewRelease:       r.IsNewRelease,
		IsOnSale:           r.IsOnSale,
		IsAwardWinner:      r.IsAwardWinner,
		DiscountPercentage: r.DiscountPercentage,
		DiscountStart:      r.DiscountStart,
		DiscountEnd:        r.DiscountEnd,
	}
}

type UpdateInventoryReq struct {
	Stock *int64 `json:"stock" validate:"required,gte=0"`
}
