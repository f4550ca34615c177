package announcementsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/model"
	announcementrepo "bookstore/repository/announcement"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Patch = announcementrepo.Patch

type Repo interface {
	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, id int64, p Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleActive(ctx context.Context, id int64) (*model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Announcement, error)
}

type Service interface {
	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, id int64, p Patch) error
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (*model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	// ActiveNow is the public banner feed.
	ActiveNow(ctx context.Context) ([]model.Announcement, error)
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service { return &service{r: r, now: time.Now} }

func (s *service) Create(ctx context.Context, a *model.Announcement) error {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return makeErr(ErrBadInput)
	}
	// default before validating, so an omitted start can't smuggle in
	// a window that ends before it begins
	if a.StartsAt.IsZero() {
		a.StartsAt = s.now()
	}
	if a.EndsAt != nil && a.EndsAt.Before(a.StartsAt) {
		return makeErr(ErrBadInput)
	}
	return s.r.Create(ctx, a)
}

func (s *service) Update(ctx context.Context, id int64, p Patch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.Update(ctx, id, p)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Toggle(ctx context.Context, id int64) (*model.Announcement, error) {
	a, err := s.r.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, makeErr(ErrNotFound)
	}
	return a, nil
}

func (s *service) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return s.r.ListAll(ctx)
}

func (s *service) ActiveNow(ctx context.Context) ([]model.Announcement, error) {
	return s.r.ListActive(ctx, s.now())
}
