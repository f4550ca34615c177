package announcementrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookstore/model"
)

// Patch carries partial-update fields; nil means "leave unchanged".
type Patch struct {
	Title    *string
	Content  *string
	StartsAt *time.Time
	EndsAt   *time.Time
	IsActive *bool
}

type Repo interface {
	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, id int64, p Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleActive(ctx context.Context, id int64) (*model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Announcement, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const cols = `id, title, content, starts_at, ends_at, is_active, created_at, updated_at`

func (r *repo) Create(ctx context.Context, a *model.Announcement) error {
	const q = `
		INSERT INTO announcements (title, content, starts_at, ends_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q, a.Title, a.Content, a.StartsAt, a.EndsAt, a.IsActive).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

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
	if p.Content != nil {
		set("content", *p.Content)
	}
	if p.StartsAt != nil {
		set("starts_at", *p.StartsAt)
	}
	if p.EndsAt != nil {
		set("ends_at", *p.EndsAt)
	}
	if p.IsActive != nil {
		set("is_active", *p.IsActive)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	q := fmt.Sprintf("UPDATE announcements SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ToggleActive(ctx context.Context, id int64) (*model.Announcement, error) {
	const q = `
		UPDATE announcements
		SET is_active = NOT is_active,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + cols
	a := &model.Announcement{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Title, &a.Content, &a.StartsAt, &a.EndsAt, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repo) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return r.list(ctx, `SELECT `+cols+` FROM announcements ORDER BY created_at DESC, id DESC`)
}

func (r *repo) ListActive(ctx context.Context, now time.Time) ([]model.Announcement, error) {
	const q = `
		SELECT ` + cols + `
		FROM announcements
		WHERE is_active
		AND starts_at <= $1
		AND (ends_at IS NULL OR ends_at >= $1)
		ORDER BY starts_at DESC, id DESC`
	return r.list(ctx, q, now)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.StartsAt, &a.EndsAt,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
