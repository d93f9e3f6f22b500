package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"title", "extra", "date"},
		[][]string{
			{"First", "e1", "4 October 2021"},
			{"Second", "e2"},
		},
	)
	require.NoError(t, err)
	return table
}

func TestNewTable(t *testing.T) {
	t.Run("pads short rows", func(t *testing.T) {
		table := newTestTable(t)
		v, ok := table.Get(1, "date")
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("rejects long rows", func(t *testing.T) {
		_, err := NewTable([]string{"a"}, [][]string{{"1", "2"}})
		assert.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("rejects duplicate columns", func(t *testing.T) {
		_, err := NewTable([]string{"a", "a"}, nil)
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})
}

func TestTable_GetSet(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.Set(0, "title", "Changed"))
	v, ok := table.Get(0, "title")
	assert.True(t, ok)
	assert.Equal(t, "Changed", v)

	assert.ErrorIs(t, table.Set(0, "missing", "x"), ErrColumnNotFound)
	assert.ErrorIs(t, table.Set(5, "title", "x"), ErrRowOutOfRange)

	_, ok = table.Get(0, "missing")
	assert.False(t, ok)
}

func TestTable_TypedAccessors(t *testing.T) {
	table, err := NewTable([]string{"x", "cluster"}, [][]string{{"1.5", "3.0"}, {"abc", "2"}})
	require.NoError(t, err)

	x, err := table.Float(0, "x")
	require.NoError(t, err)
	assert.Equal(t, 1.5, x)

	_, err = table.Float(1, "x")
	assert.Error(t, err)

	c, err := table.Int(0, "cluster")
	require.NoError(t, err)
	assert.Equal(t, 3, c)

	c, err = table.Int(1, "cluster")
	require.NoError(t, err)
	assert.Equal(t, 2, c)

	_, err = table.Int(0, "nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestTable_SetColumn(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.SetColumn("year", []string{"2021", ""}))
	assert.True(t, table.HasColumn("year"))
	assert.Equal(t, []string{"title", "extra", "date", "year"}, table.Columns())

	require.NoError(t, table.SetColumn("title", []string{"A", "B"}))
	col, ok := table.Column("title")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, col)

	assert.ErrorIs(t, table.SetColumn("title", []string{"only one"}), ErrLengthMismatch)
}

func TestTable_DropColumns(t *testing.T) {
	table := newTestTable(t)
	table.DropColumns("extra", "absent")

	assert.Equal(t, []string{"title", "date"}, table.Columns())
	v, _ := table.Get(0, "date")
	assert.Equal(t, "4 October 2021", v)
}

func TestTable_IsColumnBlank(t *testing.T) {
	table := newTestTable(t)
	require.NoError(t, table.SetColumn("year", []string{" ", ""}))

	assert.True(t, table.IsColumnBlank("year"))
	assert.True(t, table.IsColumnBlank("absent"))
	assert.False(t, table.IsColumnBlank("title"))
}

func TestTable_CloneIsDeep(t *testing.T) {
	table := newTestTable(t)
	clone := table.Clone()

	require.NoError(t, clone.Set(0, "title", "Mutated"))
	v, _ := table.Get(0, "title")
	assert.Equal(t, "First", v)
}

func TestTable_Reorder(t *testing.T) {
	table, err := NewTable(
		[]string{"zeta", "target", "title", "alpha", "date"},
		[][]string{{"z", "t", "ti", "a", "d"}},
	)
	require.NoError(t, err)

	ordered := table.Reorder(PreferredOrder)
	assert.Equal(t, []string{"date", "title", "target", "zeta", "alpha"}, ordered.Columns())

	records := ordered.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"d", "ti", "t", "z", "a"}, records[1])

	// Original is untouched.
	assert.Equal(t, []string{"zeta", "target", "title", "alpha", "date"}, table.Columns())
}

func TestValidateTable(t *testing.T) {
	t.Run("nil table", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTable(nil), ErrInvalidTable)
	})

	t.Run("missing required columns", func(t *testing.T) {
		table, err := NewTable([]string{"title", "date"}, nil)
		require.NoError(t, err)

		err = ValidateTable(table)
		assert.ErrorIs(t, err, ErrInvalidTable)
		assert.ErrorIs(t, err, ErrMissingRequiredColumn)
		assert.True(t, errors.Is(err, ErrMissingRequiredColumn))
		assert.Contains(t, err.Error(), "summary")
		assert.Contains(t, err.Error(), "article_text")
	})

	t.Run("valid", func(t *testing.T) {
		table, err := NewTable(RequiredColumns, nil)
		require.NoError(t, err)
		assert.NoError(t, ValidateTable(table))
	})
}
