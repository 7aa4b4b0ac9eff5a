package xlreport

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CopyColumn copies column src of the current sheet into column dst for
// every row, with comments, hyperlinks, styles and the column width.
// Numbers that are not dates are re-rendered as locale formatted text.
// Formula cells keep their formula text.
func (f *Filler) CopyColumn(src, dst int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	f.copyColumn(sp.sheet, src, dst)
	return nil
}

func (f *Filler) copyColumn(s *Sheet, src, dst int) {
	for _, r := range s.rowIndexes() {
		cd := s.Cell(r, src)
		if cd == nil {
			continue
		}
		c := cd.Clone()
		if num, ok := c.Value.(float64); ok && c.Type == CellNumber && !s.wb.IsDateStyle(c.StyleID) {
			c.set(f.FormatNumber(num), CellString)
		}
		s.GetOrCreateRow(r).Cells[dst] = c
	}
	if w := s.ColumnWidth(src); w > 0 {
		if err := s.SetColumnWidth(dst, w); err != nil {
			f.log.Sugar().Debugf("copy width of column %s: %v", ColToName(src), err)
		}
	}
}

// CopyRange copies columns [first, last] so that first lands on dst.
func (f *Filler) CopyRange(first, last, dst int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	if last < first {
		return fmt.Errorf("copy range: last column %d before first %d", last, first)
	}
	n := last - first
	if dst > first {
		for i := n; i >= 0; i-- {
			f.copyColumn(sp.sheet, first+i, dst+i)
		}
		return nil
	}
	for i := 0; i <= n; i++ {
		f.copyColumn(sp.sheet, first+i, dst+i)
	}
	return nil
}

// FillColumnsNumbering writes consecutive numbers starting at first into
// row, one per visible column in [firstCol, lastCol]. Columns hidden in the
// sheet and columns covered by a merged region anchored further left are
// skipped.
func (f *Filler) FillColumnsNumbering(row, first, firstCol, lastCol int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	s := sp.sheet
	n := first
	for c := firstCol; c <= lastCol; c++ {
		if s.IsColumnHidden(c) {
			continue
		}
		if i, ok := s.MergedRegionAt(row, c); ok && s.MergedRegion(i).FirstCol != c {
			continue
		}
		s.GetOrCreateCell(row, c).SetValue(n)
		n++
	}
	return nil
}

// DataColumns returns the columns of row numberingRow that hold a
// non-empty value or a formula, in ascending order. Reports number their
// data columns in a header row.
func (f *Filler) DataColumns(numberingRow int) []int {
	if f.current == nil {
		return nil
	}
	rd := f.current.sheet.Row(numberingRow)
	if rd == nil {
		return nil
	}
	var cols []int
	for c := 0; c <= rd.LastCellNum(); c++ {
		if cd := rd.Cells[c]; cd != nil && (cd.IsFormulaCell() || renderText(cd.Value) != "") {
			cols = append(cols, c)
		}
	}
	return cols
}

// SetRowBorderBottom draws a thin bottom border under columns
// [firstCol, lastCol] of the current row.
func (f *Filler) SetRowBorderBottom(firstCol, lastCol int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	return f.setBorder(sp.sheet, sp.CurrentRow, firstCol, lastCol, "bottom")
}

// SetRowBorderTop draws a thin top border over columns [firstCol, lastCol]
// of the first data row of the current sheet.
func (f *Filler) SetRowBorderTop(firstCol, lastCol int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	return f.setBorder(sp.sheet, sp.FirstDataRow+sp.StyleRowsCount, firstCol, lastCol, "top")
}

func (f *Filler) setBorder(s *Sheet, row, firstCol, lastCol int, side string) error {
	for c := firstCol; c <= lastCol; c++ {
		cd := s.GetOrCreateCell(row, c)
		id, err := s.wb.StyleWithBorder(cd.StyleID, side)
		if err != nil {
			return fmt.Errorf("border %s of %s: %w", side, cellName(row, c), err)
		}
		cd.StyleID = id
	}
	return nil
}

// StyleWithBorder returns a style identical to id with a thin border on
// side ("top", "bottom", "left" or "right").
func (wb *Workbook) StyleWithBorder(id int, side string) (int, error) {
	key := styleKey{id: id, format: "border:" + side}
	if cached, ok := wb.styles[key]; ok {
		return cached, nil
	}
	st, err := wb.file.GetStyle(id)
	if err != nil {
		return 0, fmt.Errorf("get style %d: %w", id, err)
	}
	clone := *st
	clone.Border = nil
	for _, b := range st.Border {
		if b.Type != side {
			clone.Border = append(clone.Border, b)
		}
	}
	clone.Border = append(clone.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
	newID, err := wb.file.NewStyle(&clone)
	if err != nil {
		return 0, fmt.Errorf("clone style %d with %s border: %w", id, side, err)
	}
	wb.styles[key] = newID
	return newID, nil
}
