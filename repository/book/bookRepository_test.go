package bookrepo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildConds_NewReleaseExcludesFutureDates(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	conds, args := buildConds(Filter{NewRelease: true}, now)
	require.Len(t, conds, 1)

	// the window is bounded on both sides: unpublished books are
	// comingSoon, not newRelease
	require.Contains(t, conds[0], "publication_date >=")
	require.Contains(t, conds[0], "publication_date <=")
	require.Equal(t, []any{now.AddDate(0, -3, 0), now}, args)
}

func TestBuildConds_EmptyFilter(t *testing.T) {
	conds, args := buildConds(Filter{}, time.Now())
	require.Empty(t, conds)
	require.Empty(t, args)
}

func TestPopularitySortIgnoresCancelledOrders(t *testing.T) {
	col, ok := sortCols["popularity"]
	if !ok {
		t.Fatal("popularity sort key missing")
	}
	if !strings.Contains(col, "JOIN orders") || !strings.Contains(col, "'CANCELLED'") {
		t.Fatalf("popularity sort must exclude cancelled orders, got: %s", col)
	}
}
