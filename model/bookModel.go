// model/book.go
package model

import "time"

type Book struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Author             string     `json:"author"`
	ISBN               string     `json:"isbn"`
	Description        string     `json:"description"`
	Publisher          string     `json:"publisher"`
	Price              float64    `json:"price"`
	OriginalPrice      float64    `json:"original_price"`
	Stock              int64      `json:"stock"`
	Language           string     `json:"language"`
	Format             string     `json:"format"`
	Genre              string     `json:"genre"`
	Pages              int        `json:"pages"`
	Dimensions         string     `json:"dimensions,omitempty"`
	WeightGrams        int        `json:"weight_grams,omitempty"`
	PublicationDate    *time.Time `json:"publication_date,omitempty"`
	IsBestseller       bool       `json:"is_bestseller"`
	IsNewRelease       bool       `json:"is_new_release"`
	IsOnSale           bool       `json:"is_on_sale"`
	IsAwardWinner      bool       `json:"is_award_winner"`
	DiscountPercentage float64    `json:"discount_percentage"`
	DiscountStart      *time.Time `json:"discount_start,omitempty"`
	DiscountEnd        *time.Time `json:"discount_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// BookDetail is Book plus fields computed per request.
type BookDetail struct {
	Book
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
	OnSaleNow     bool    `json:"on_sale_now"`
	NewRelease    bool    `json:"new_release"`
	NewArrival    bool    `json:"new_arrival"`
	ComingSoon    bool    `json:"coming_soon"`
	Bookmarked    bool    `json:"bookmarked"`
}
