package xlreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSheet builds a detached sheet with one string cell per row in column A.
func memSheet(rows map[int]string, merges ...MergedRegion) *Sheet {
	s := &Sheet{Name: testSheet, DefaultHeight: defaultRowHeight, rows: make(map[int]*RowData)}
	for r, v := range rows {
		s.GetOrCreateCell(r, 0).SetValue(v)
	}
	s.merges = append(s.merges, merges...)
	return s
}

func colA(s *Sheet) map[int]any {
	res := make(map[int]any)
	for r := range s.rows {
		if cd := s.Cell(r, 0); cd != nil {
			res[r] = cd.Value
		}
	}
	return res
}

func TestSheet_ShiftRowsDown(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b", 2: "c"}, NewMergedRegion(1, 1, 0, 2))
	s.Row(2).Height = 30

	s.ShiftRows(1, 2, 2, false)

	assert.Equal(t, map[int]any{0: "a", 3: "b", 4: "c"}, colA(s))
	assert.Nil(t, s.Row(1))
	assert.Equal(t, 30.0, s.RowHeight(4))
	assert.Equal(t, []MergedRegion{NewMergedRegion(3, 3, 0, 2)}, s.MergedRegions())
}

func TestSheet_ShiftRowsUpReplaces(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "style", 2: "b", 3: "c"},
		NewMergedRegion(1, 1, 0, 1), NewMergedRegion(3, 3, 0, 1))
	s.Row(3).Height = 20

	s.ShiftRows(2, 3, -1, true)

	assert.Equal(t, map[int]any{0: "a", 1: "b", 2: "c"}, colA(s))
	assert.Equal(t, defaultRowHeight, s.RowHeight(2))
	assert.Equal(t, []MergedRegion{NewMergedRegion(2, 2, 0, 1)}, s.MergedRegions())
}

func TestSheet_ShiftRowsAboveFirstRow(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b", 2: "c"})
	s.ShiftRows(0, 2, -2, false)
	assert.Equal(t, map[int]any{0: "c"}, colA(s))
	assert.Equal(t, 0, s.LastRowNum())
}

func TestSheet_ShiftRowsNoop(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b"})
	s.ShiftRows(0, 1, 0, false)
	s.ShiftRows(5, 2, 1, false)
	assert.Equal(t, map[int]any{0: "a", 1: "b"}, colA(s))
}

func TestSheet_InsertRows(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b"})
	s.InsertRows(1, 2)
	assert.Equal(t, map[int]any{0: "a", 3: "b"}, colA(s))
	s.InsertRows(10, 1)
	assert.Equal(t, 3, s.LastRowNum())
}

func TestSheet_CopyRow(t *testing.T) {
	s := memSheet(map[int]string{0: "style", 4: "old"},
		NewMergedRegion(0, 1, 0, 2), NewMergedRegion(4, 4, 1, 3))
	s.Row(0).Height = 25
	s.Cell(0, 0).StyleID = 7

	s.CopyRow(0, 4)

	require.NotNil(t, s.Cell(4, 0))
	assert.Equal(t, "style", s.Cell(4, 0).Value)
	assert.Equal(t, 7, s.Cell(4, 0).StyleID)
	assert.Equal(t, 25.0, s.RowHeight(4))
	assert.ElementsMatch(t, []MergedRegion{NewMergedRegion(0, 1, 0, 2), NewMergedRegion(4, 5, 0, 2)}, s.MergedRegions())

	s.Cell(4, 0).SetValue("changed")
	assert.Equal(t, "style", s.Cell(0, 0).Value)
}

func TestSheet_CopyRowFromEmpty(t *testing.T) {
	s := memSheet(map[int]string{2: "x"})
	s.CopyRow(0, 2)
	require.NotNil(t, s.Row(2))
	assert.Nil(t, s.Cell(2, 0))
}

func TestSheet_CopyRowTo(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b"})
	s.CopyRowTo(1, 0)
	assert.Equal(t, map[int]any{0: "b", 1: "a", 2: "b"}, colA(s))
}

func TestSheet_CopyCell(t *testing.T) {
	s := memSheet(map[int]string{0: "a", 1: "b"})
	s.CopyCell(0, 0, 1, 2)
	assert.Equal(t, "a", s.Cell(1, 2).Value)
	s.CopyCell(5, 5, 1, 0)
	assert.Nil(t, s.Cell(1, 0))
}

func TestSheet_AddMergedRegion(t *testing.T) {
	s := memSheet(nil, NewMergedRegion(0, 0, 0, 1), NewMergedRegion(2, 2, 0, 1))

	assert.False(t, s.AddMergedRegion(NewMergedRegion(0, 0, 0, 1)), "duplicate")
	assert.False(t, s.AddMergedRegion(NewMergedRegion(3, 3, 2, 2)), "single cell")
	assert.False(t, s.AddMergedRegion(NewMergedRegion(-1, 0, 0, 1)), "negative")

	assert.True(t, s.AddMergedRegion(NewMergedRegion(2, 3, 1, 2)))
	assert.Equal(t, []MergedRegion{NewMergedRegion(0, 0, 0, 1), NewMergedRegion(2, 3, 1, 2)}, s.MergedRegions())
}

func TestSheet_MergedRegionLookup(t *testing.T) {
	s := memSheet(nil, NewMergedRegion(0, 0, 0, 1), NewMergedRegion(2, 2, 0, 1), NewMergedRegion(2, 3, 3, 4))

	i, ok := s.MergedRegionAt(3, 4)
	require.True(t, ok)
	assert.Equal(t, NewMergedRegion(2, 3, 3, 4), s.MergedRegion(i))
	_, ok = s.MergedRegionAt(1, 0)
	assert.False(t, ok)

	assert.Len(t, s.anchoredAt(2), 2)
	assert.Equal(t, 1, s.DeleteMergedRegionsAt(2, 2))
	assert.Equal(t, 2, s.NumMergedRegions())
	assert.Equal(t, 1, s.DeleteMergedRegionsAt(2, 10))

	s.RemoveMergedRegion(5)
	s.RemoveMergedRegion(0)
	assert.Equal(t, 0, s.NumMergedRegions())
}
