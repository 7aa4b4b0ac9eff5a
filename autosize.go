package xlreport

import (
	"math"
	"unicode/utf8"
)

// Row height estimation constants: approximate character width at 11pt
// and approximate width of one column, in the same units.
const (
	symbolWidth = 2.0
	cellWidth   = 20.0
	lineSpacing = 1.3
)

// extraColumnWidth is what AutoSizeColumns adds after fitting, in
// characters (2500 units of 1/256 character).
const extraColumnWidth = 2500.0 / 256

// AutoSizeRow estimates the height of row r from the text in merged
// regions wider than one column among columns [0, lastCol]. The row is
// reset to the sheet default when no region needs more than the default
// height plus one point.
func (s *Sheet) AutoSizeRow(r, lastCol int) {
	rd := s.rows[r]
	if rd == nil {
		return
	}

	tallest := -1.0
	for _, m := range s.mergedRegionsOnRow(r, lastCol) {
		if m.FirstCol == m.LastCol {
			continue
		}
		lines := 1
		cd := rd.Cells[m.FirstCol]
		if cd == nil {
			continue
		}
		if text, ok := cd.Value.(string); ok && cd.Type == CellString {
			if n := utf8.RuneCountInString(text); n > 0 {
				valWidth := symbolWidth * float64(n)
				regWidth := cellWidth * float64(m.NumberOfCells())
				if valWidth > regWidth {
					lines += int(math.Ceil(valWidth / regWidth))
				}
			}
		}
		if h := s.rowHeightFor(s.wb.FontSize(cd.StyleID), lines); h > tallest {
			tallest = h
		}
	}

	if tallest < s.DefaultHeight+1 {
		rd.Height = 0
		return
	}
	rd.Height = tallest
}

// rowHeightFor returns the height for lines of text at fontSize, rounded
// to a quarter point and never below the default row height.
func (s *Sheet) rowHeightFor(fontSize float64, lines int) float64 {
	h := math.Round(lineSpacing*fontSize*float64(lines)*4) / 4
	return math.Max(h, s.DefaultHeight)
}

// mergedRegionsOnRow returns the distinct regions covering row r within
// columns [0, lastCol].
func (s *Sheet) mergedRegionsOnRow(r, lastCol int) []MergedRegion {
	var res []MergedRegion
	seen := make(map[int]bool)
	for c := 0; c <= lastCol; c++ {
		if i, ok := s.MergedRegionAt(r, c); ok && !seen[i] {
			seen[i] = true
			res = append(res, s.merges[i])
		}
	}
	return res
}

// AutoSizeColumn fits the width of column c to its longest rendered value.
func (s *Sheet) AutoSizeColumn(c int) error {
	width := 0.0
	for r, rd := range s.rows {
		cd := rd.Cells[c]
		if cd == nil {
			continue
		}
		if i, ok := s.MergedRegionAt(r, c); ok && s.merges[i].Width() > 1 {
			continue
		}
		n := float64(utf8.RuneCountInString(renderText(cd.Value)))
		w := n * s.wb.FontSize(cd.StyleID) / 11
		if w > width {
			width = w
		}
	}
	if width == 0 {
		return nil
	}
	return s.SetColumnWidth(c, width+1)
}

// AutoSizeRow estimates the height of row r of the current sheet.
func (f *Filler) AutoSizeRow(r, lastCol int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	sp.sheet.AutoSizeRow(r, lastCol)
	return nil
}

// AutoSizeCurrentRow estimates the height of the current row up to the
// widest column written so far.
func (f *Filler) AutoSizeCurrentRow() error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	sp.sheet.AutoSizeRow(sp.CurrentRow, sp.LastModifiedCol)
	return nil
}

// AutoSizeColumns fits every column used by the first row of each sheet
// and adds a fixed margin.
func (f *Filler) AutoSizeColumns() error {
	for _, s := range f.wb.sheets {
		idx := s.rowIndexes()
		if len(idx) == 0 {
			continue
		}
		for c := range s.rows[idx[0]].Cells {
			if err := s.AutoSizeColumn(c); err != nil {
				return err
			}
			if err := s.SetColumnWidth(c, s.ColumnWidth(c)+extraColumnWidth); err != nil {
				return err
			}
		}
	}
	return nil
}
