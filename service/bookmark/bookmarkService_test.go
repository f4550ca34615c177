package bookmarksvc_test

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"bookstore/model"
	bookmarksvc "bookstore/service/bookmark"
)

type repoMock struct {
	pairs   map[[2]int64]bool
	removed [][2]int64
	addErr  error
}

func newRepoMock() *repoMock { return &repoMock{pairs: map[[2]int64]bool{}} }

func (m *repoMock) Add(ctx context.Context, userID, bookID int64) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	k := [2]int64{userID, bookID}
	if m.pairs[k] {
		return false, nil
	}
	m.pairs[k] = true
	return true, nil
}

func (m *repoMock) Remove(ctx context.Context, userID, bookID int64) error {
	m.removed = append(m.removed, [2]int64{userID, bookID})
	delete(m.pairs, [2]int64{userID, bookID})
	return nil
}

func (m *repoMock) List(ctx context.Context, userID int64) ([]model.BookmarkRow, error) {
	var out []model.BookmarkRow
	for k := range m.pairs {
		if k[0] == userID {
			out = append(out, model.BookmarkRow{BookID: k[1]})
		}
	}
	return out, nil
}

func TestAdd_Idempotent(t *testing.T) {
	m := newRepoMock()
	s := bookmarksvc.New(m)

	created, err := s.Add(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, created)

	// second add: no duplicate row, reported as existing
	created, err = s.Add(context.Background(), 1, 2)
	require.NoError(t, err)
	require.False(t, created)

	rows, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestAdd_UnknownBook(t *testing.T) {
	m := newRepoMock()
	m.addErr = &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	s := bookmarksvc.New(m)

	_, err := s.Add(context.Background(), 1, 999)
	require.Equal(t, bookmarksvc.ErrBookNotFound, bookmarksvc.Code(err))
}

func TestRemove_MissingIsFine(t *testing.T) {
	m := newRepoMock()
	s := bookmarksvc.New(m)

	if err := s.Remove(context.Background(), 1, 42); err != nil {
		t.Fatalf("removing a missing bookmark should succeed, got %v", err)
	}
	require.Len(t, m.removed, 1)
}
