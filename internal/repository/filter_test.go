package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClause_Basic(t *testing.T) {
	t.Parallel()

	q := SearchQuery{
		Fields: []string{"title", "id"},
		Ops:    []string{"like", ">="},
		Values: []string{"%note%", "5"},
	}
	cond, args, err := q.whereClause()
	require.NoError(t, err)
	assert.Equal(t, "title LIKE ? AND id >= ?", cond)
	assert.Equal(t, []any{"%note%", "5"}, args)
}

func TestWhereClause_InExpandsPipeValues(t *testing.T) {
	t.Parallel()

	q := SearchQuery{
		Fields: []string{"id"},
		Ops:    []string{"in"},
		Values: []string{"1|2|3"},
	}
	cond, args, err := q.whereClause()
	require.NoError(t, err)
	assert.Equal(t, "id IN (?,?,?)", cond)
	assert.Equal(t, []any{"1", "2", "3"}, args)
}

func TestWhereClause_Empty(t *testing.T) {
	t.Parallel()

	cond, args, err := SearchQuery{}.whereClause()
	require.NoError(t, err)
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestWhereClause_RejectsUnknownFieldAndOperator(t *testing.T) {
	t.Parallel()

	_, _, err := SearchQuery{
		Fields: []string{"user_id"}, // not whitelisted on purpose
		Ops:    []string{"="},
		Values: []string{"2"},
	}.whereClause()
	assert.ErrorIs(t, err, ErrBadFilter)

	_, _, err = SearchQuery{
		Fields: []string{"title"},
		Ops:    []string{"regexp"},
		Values: []string{".*"},
	}.whereClause()
	assert.ErrorIs(t, err, ErrBadFilter)

	_, _, err = SearchQuery{
		Fields: []string{"title"},
		Ops:    []string{"="},
	}.whereClause()
	assert.ErrorIs(t, err, ErrBadFilter)
}

func TestOrderClause(t *testing.T) {
	t.Parallel()

	order, err := SearchQuery{
		SortFields: []string{"created_at", "id"},
		SortDirs:   []string{"desc", "asc"},
	}.orderClause()
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY created_at DESC, id ASC", order)

	order, err = SearchQuery{}.orderClause()
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY id", order)

	_, err = SearchQuery{
		SortFields: []string{"title"},
		SortDirs:   []string{"sideways"},
	}.orderClause()
	assert.ErrorIs(t, err, ErrBadFilter)
}

func TestPage_Defaults(t *testing.T) {
	t.Parallel()

	limit, offset := SearchQuery{}.page()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = SearchQuery{Page: 3, PageSize: 20}.page()
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	limit, _ = SearchQuery{PageSize: 1000}.page()
	assert.Equal(t, 10, limit)
}
