package bookrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookstore/model"
)

// Filter is the catalog listing filter. Zero values mean "no constraint".
type Filter struct {
	Search     string
	Authors    []string
	Genres     []string
	Languages  []string
	Publishers []string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	OnSale     bool
	NewRelease bool
	NewArrival bool
	ComingSoon bool
	AwardWin   bool
	MinRating  *float64
	SortBy     string
	Descending bool
	Page       int
	PageSize   int
}

// Patch carries partial-update fields; nil means "leave unchanged".
type Patch struct {
	Title              *string
	Author             *string
	ISBN               *string
	Description        *string
	Publisher          *string
	Price              *float64
	OriginalPrice      *float64
	Stock              *int64
	Language           *string
	Format             *string
	Genre              *string
	Pages              *int
	Dimensions         *string
	WeightGrams        *int
	PublicationDate    *time.Time
	IsBestseller       *bool
	IsNewRelease       *bool
	IsOnSale           *bool
	IsAwardWinner      *bool
	DiscountPercentage *float64
	DiscountStart      *time.Time
	DiscountEnd        *time.Time
}

type Repo interface {
	List(ctx context.Context, f Filter, now time.Time) ([]model.Book, int64, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	RatingSummary(ctx context.Context, bookID int64) (avg float64, count int64, err error)
	Create(ctx context.Context, b *model.Book) (int64, error)
	Update(ctx context.Context, id int64, p Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetStock(ctx context.Context, id int64, stock int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, isbn, description, publisher, price, original_price,
	stock, language, format, genre, pages, dimensions, weight_grams, publication_date,
	is_bestseller, is_new_release, is_on_sale, is_award_winner,
	discount_percentage, discount_start, discount_end, created_at, updated_at`

func scanBook(s interface{ Scan(...any) error }, b *model.Book) error {
	return s.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Publisher,
		&b.Price, &b.OriginalPrice, &b.Stock, &b.Language, &b.Format, &b.Genre,
		&b.Pages, &b.Dimensions, &b.WeightGrams, &b.PublicationDate,
		&b.IsBestseller, &b.IsNewRelease, &b.IsOnSale, &b.IsAwardWinner,
		&b.DiscountPercentage, &b.DiscountStart, &b.DiscountEnd,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

var sortCols = map[string]string{
	"title":           "title",
	"author":          "author",
	"price":           "price",
	"publicationDate": "publication_date",
	"popularity": `(SELECT COALESCE(SUM(oi.quantity),0)
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.book_id = b.id AND o.status <> 'CANCELLED')`,
}

// buildConds turns a Filter into WHERE fragments plus their placeholder
// args, numbered from $1.
func buildConds(f Filter, now time.Time) ([]string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR author ILIKE %[1]s OR isbn ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}
	if len(f.Authors) > 0 {
		conds = append(conds, "author = ANY("+arg(f.Authors)+")")
	}
	if len(f.Genres) > 0 {
		conds = append(conds, "genre = ANY("+arg(f.Genres)+")")
	}
	if len(f.Languages) > 0 {
		conds = append(conds, "language = ANY("+arg(f.Languages)+")")
	}
	if len(f.Publishers) > 0 {
		conds = append(conds, "publisher = ANY("+arg(f.Publishers)+")")
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	if f.InStock {
		conds = append(conds, "stock > 0")
	}
	if f.OnSale {
		p := arg(now)
		conds = append(conds, fmt.Sprintf(
			"(is_on_sale AND discount_percentage > 0 AND discount_start <= %[1]s AND (discount_end IS NULL OR discount_end >= %[1]s))", p))
	}
	if f.NewRelease {
		// flag, or published within the last three months; future dates
		// belong to comingSoon
		conds = append(conds, fmt.Sprintf(
			"(is_new_release OR (publication_date >= %s AND publication_date <= %s))",
			arg(now.AddDate(0, -3, 0)), arg(now)))
	}
	if f.NewArrival {
		conds = append(conds, "created_at >= "+arg(now.AddDate(0, -1, 0)))
	}
	if f.ComingSoon {
		conds = append(conds, "publication_date > "+arg(now))
	}
	if f.AwardWin {
		conds = append(conds, "is_award_winner")
	}
	if f.MinRating != nil {
		conds = append(conds,
			"(SELECT COALESCE(AVG(rv.rating),0) FROM reviews rv WHERE rv.book_id = b.id) >= "+arg(*f.MinRating))
	}
	return conds, args
}

func (r *repo) List(ctx context.Context, f Filter, now time.Time) ([]model.Book, int64, error) {
	conds, args := buildConds(f, now)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books b"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortCols[f.SortBy]
	if !ok {
		sortCol = "title"
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	q := fmt.Sprintf("SELECT %s FROM books b%s ORDER BY %s %s, id ASC LIMIT %s OFFSET %s",
		bookCols, where, sortCol, dir, arg(size), arg((page-1)*size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	err := scanBook(r.db.QueryRowContext(ctx,
		"SELECT "+bookCols+" FROM books b WHERE id = $1", id), &b)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repo) RatingSummary(ctx context.Context, bookID int64) (float64, int64, error) {
	const q = `
		SELECT COALESCE(AVG(rating),0), COUNT(*)
		FROM reviews
		WHERE book_id = $1`
	var avg float64
	var n int64
	err := r.db.QueryRowContext(ctx, q, bookID).Scan(&avg, &n)
	return avg, n, err
}

func (r *repo) Create(ctx context.Context, b *model.Book) (int64, error) {
	const q = `
INSERT INTO books (title, author, isbn, description, publisher, price, original_price,
	stock, language, format, genre, pages, dimensions, weight_grams, publication_date,
	is_bestseller, is_new_release, is_on_sale, is_award_winner,
	discount_percentage, discount_start, discount_end)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.ISBN, b.Description, b.Publisher, b.Price, b.OriginalPrice,
		b.Stock, b.Language, b.Format, b.Genre, b.Pages, b.Dimensions, b.WeightGrams,
		b.PublicationDate, b.IsBestseller, b.IsNewRelease, b.IsOnSale, b.IsAwardWinner,
		b.DiscountPercentage, b.DiscountStart, b.DiscountEnd,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies only the non-nil patch fields and bumps updated_at.
// Returns false when the book does not exist.
func (r *repo) Update(ctx context.Context, id int64, p Patch) (bool, error) {
	var sets []string
	var args []any

	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Author != nil {
		set("author", *p.Author)
	}
	if p.ISBN != nil {
		set("isbn", *p.ISBN)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Publisher != nil {
		set("publisher", *p.Publisher)
	}
	if p.Price != nil {
		set("price", *p.Price)
	}
	if p.OriginalPrice != nil {
		set("original_price", *p.OriginalPrice)
	}
	if p.Stock != nil {
		set("stock", *p.Stock)
	}
	if p.Language != nil {
		set("language", *p.Language)
	}
	if p.Format != nil {
		set("format", *p.Format)
	}
	if p.Genre != nil {
		set("genre", *p.Genre)
	}
	if p.Pages != nil {
		set("pages", *p.Pages)
	}
	if p.Dimensions != nil {
		set("dimensions", *p.Dimensions)
	}
	if p.WeightGrams != nil {
		set("weight_grams", *p.WeightGrams)
	}
	if p.PublicationDate != nil {
		set("publication_date", *p.PublicationDate)
	}
	if p.IsBestseller != nil {
		set("is_bestseller", *p.IsBestseller)
	}
	if p.IsNewRelease != nil {
		set("is_new_release", *p.IsNewRelease)
	}
	if p.IsOnSale != nil {
		set("is_on_sale", *p.IsOnSale)
	}
	if p.IsAwardWinner != nil {
		set("is_award_winner", *p.IsAwardWinner)
	}
	if p.DiscountPercentage != nil {
		set("discount_percentage", *p.DiscountPercentage)
	}
	if p.DiscountStart != nil {
		set("discount_start", *p.DiscountStart)
	}
	if p.DiscountEnd != nil {
		set("discount_end", *p.DiscountEnd)
	}

	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	q := fmt.Sprintf("UPDATE books SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) SetStock(ctx context.Context, id int64, stock int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET stock = $2, updated_at = NOW() WHERE id = $1`, id, stock)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
