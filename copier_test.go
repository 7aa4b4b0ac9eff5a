package xlreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFiller_CopyColumn(t *testing.T) {
	tmpl := newTemplate(t, func(f *excelize.File) {
		set(t, f, "C1", 1234.5)
		set(t, f, "C2", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		set(t, f, "C3", "text")
		require.NoError(t, f.SetCellFormula(testSheet, "C4", "SUM(1,2)"))
		require.NoError(t, f.AddComment(testSheet, excelize.Comment{Cell: "C3", Author: "qa", Text: "note"}))
		require.NoError(t, f.SetColWidth(testSheet, "C", "C", 20))
	})
	f := loadFiller(t, tmpl)
	sp := addSheet(t, f, SheetSpec{FirstDataRow: 4, StyleRowsCount: 1})
	s := sp.Sheet()

	require.NoError(t, f.CopyColumn(2, 5))

	assert.Equal(t, "1234,5", s.Cell(0, 5).Value)
	assert.Equal(t, CellString, s.Cell(0, 5).Type)
	assert.Equal(t, CellNumber, s.Cell(1, 5).Type, "dates stay numeric")
	assert.Equal(t, "text", s.Cell(2, 5).Value)
	require.NotNil(t, s.Cell(2, 5).Comment)
	assert.Equal(t, "note", s.Cell(2, 5).Comment.Text)
	assert.Equal(t, "SUM(1,2)", s.Cell(3, 5).Formula)
	assert.Equal(t, 20.0, s.ColumnWidth(5))
	assert.Equal(t, 1234.5, s.Cell(0, 2).Value, "source untouched")
}

func TestFiller_CopyRange(t *testing.T) {
	tmpl := newTemplate(t, func(f *excelize.File) {
		set(t, f, "A1", "a")
		set(t, f, "B1", "b")
		set(t, f, "C1", "c")
	})
	f := loadFiller(t, tmpl)
	sp := addSheet(t, f, SheetSpec{FirstDataRow: 1, StyleRowsCount: 1})
	s := sp.Sheet()

	require.NoError(t, f.CopyRange(0, 1, 1))
	assert.Equal(t, "a", s.Cell(0, 0).Value)
	assert.Equal(t, "a", s.Cell(0, 1).Value)
	assert.Equal(t, "b", s.Cell(0, 2).Value)

	require.NoError(t, f.CopyRange(1, 2, 0))
	assert.Equal(t, "a", s.Cell(0, 0).Value)
	assert.Equal(t, "b", s.Cell(0, 1).Value)

	assert.Error(t, f.CopyRange(2, 1, 0))
}

func TestFiller_FillColumnsNumbering(t *testing.T) {
	tmpl := newTemplate(t, func(f *excelize.File) {
		require.NoError(t, f.SetColVisible(testSheet, "C", false))
		require.NoError(t, f.MergeCell(testSheet, "E1", "F1"))
		set(t, f, "A2", "data")
		require.NoError(t, f.SetCellFormula(testSheet, "C2", "A1*2"))
		set(t, f, "D2", "")
	})
	f := loadFiller(t, tmpl)
	sp := addSheet(t, f, SheetSpec{FirstDataRow: 1, StyleRowsCount: 1})

	require.NoError(t, f.FillColumnsNumbering(0, 1, 0, 6))

	s := sp.Sheet()
	assert.Equal(t, 1.0, s.Cell(0, 0).Value)
	assert.Equal(t, 2.0, s.Cell(0, 1).Value)
	assert.Nil(t, s.Cell(0, 2))
	assert.Equal(t, 3.0, s.Cell(0, 3).Value)
	assert.Equal(t, 4.0, s.Cell(0, 4).Value)
	assert.Nil(t, s.Cell(0, 5))
	assert.Equal(t, 5.0, s.Cell(0, 6).Value)

	assert.Equal(t, []int{0, 1, 3, 4, 6}, f.DataColumns(0))
	assert.Equal(t, []int{0, 2}, f.DataColumns(1))
	assert.Nil(t, f.DataColumns(40))
}

func TestFiller_RowBorders(t *testing.T) {
	f := loadFiller(t, taskTemplate(t, fill("FF0000")))
	sp := addSheet(t, f, SheetSpec{FirstDataRow: 2, StyleRowsCount: 1})
	require.NoError(t, f.AddRow(0, "x", "y"))

	require.NoError(t, f.SetRowBorderBottom(0, 1))
	require.NoError(t, f.SetRowBorderTop(0, 0))

	s := sp.Sheet()
	st, err := f.Workbook().Style(s.Cell(3, 0).StyleID)
	require.NoError(t, err)
	var sides []string
	for _, b := range st.Border {
		sides = append(sides, b.Type)
	}
	assert.ElementsMatch(t, []string{"bottom", "top"}, sides)

	st, err = f.Workbook().Style(s.Cell(3, 1).StyleID)
	require.NoError(t, err)
	require.Len(t, st.Border, 1)
	assert.Equal(t, "bottom", st.Border[0].Type)

	styled := s.Cell(2, 0).StyleID
	id1, err := f.Workbook().StyleWithBorder(styled, "left")
	require.NoError(t, err)
	id2, err := f.Workbook().StyleWithBorder(styled, "left")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestFiller_CopierWithoutSheet(t *testing.T) {
	f := loadFiller(t, taskTemplate(t))
	assert.ErrorIs(t, f.CopyColumn(0, 1), ErrNoSheet)
	assert.ErrorIs(t, f.FillColumnsNumbering(0, 1, 0, 2), ErrNoSheet)
	assert.ErrorIs(t, f.SetRowBorderBottom(0, 1), ErrNoSheet)
	assert.Nil(t, f.DataColumns(0))
}
