package xlreport

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef is a 0-based cell position, optionally qualified by sheet name
// for messages.
type CellRef struct {
	Sheet string
	Row   int
	Col   int
}

// NewCellRef creates a CellRef.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a plain cell name such as "B5", the form excelize
// reports for comments, merges and dimensions.
func ParseCellRef(name string) (CellRef, error) {
	name = strings.TrimSpace(name)
	split := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return CellRef{}, fmt.Errorf("invalid cell name %q", name)
	}
	col, err := NameToCol(name[:split])
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell name %q: %w", name, err)
	}
	row, err := strconv.Atoi(name[split:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell name %q", name)
	}
	return CellRef{Row: row - 1, Col: col}, nil
}

// String returns "Sheet!B5", or "B5" without a sheet.
func (c CellRef) String() string {
	if c.Sheet == "" {
		return c.CellName()
	}
	return c.Sheet + "!" + c.CellName()
}

// CellName returns the cell name without the sheet.
func (c CellRef) CellName() string {
	return cellName(c.Row, c.Col)
}

func cellName(row, col int) string {
	return ColToName(col) + strconv.Itoa(row+1)
}

// ColToName converts a 0-based column index to letters: 0 is "A", 26 is "AA".
func ColToName(col int) string {
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// NameToCol converts column letters, in either case, to a 0-based index.
func NameToCol(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	n := 0
	for _, ch := range strings.ToUpper(name) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, nil
}

// MergedRegion is a rectangular block of cells displayed as one cell.
// Bounds are 0-based and inclusive.
type MergedRegion struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// ParseMergedRegion parses a range like "A1:C2".
func ParseMergedRegion(s string) (MergedRegion, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return MergedRegion{}, fmt.Errorf("invalid range (missing ':'): %q", s)
	}
	first, err := ParseCellRef(parts[0])
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return NewMergedRegion(first.Row, last.Row, first.Col, last.Col), nil
}

// NewMergedRegion builds a region, normalizing reversed bounds.
func NewMergedRegion(firstRow, lastRow, firstCol, lastCol int) MergedRegion {
	if lastRow < firstRow {
		firstRow, lastRow = lastRow, firstRow
	}
	if lastCol < firstCol {
		firstCol, lastCol = lastCol, firstCol
	}
	return MergedRegion{FirstRow: firstRow, LastRow: lastRow, FirstCol: firstCol, LastCol: lastCol}
}

// String formats the region as "A1:C2".
func (m MergedRegion) String() string {
	return m.TopLeft() + ":" + m.BottomRight()
}

// TopLeft returns the anchor cell name.
func (m MergedRegion) TopLeft() string { return cellName(m.FirstRow, m.FirstCol) }

// BottomRight returns the last cell name.
func (m MergedRegion) BottomRight() string { return cellName(m.LastRow, m.LastCol) }

// Width returns the number of columns spanned.
func (m MergedRegion) Width() int { return m.LastCol - m.FirstCol + 1 }

// Height returns the number of rows spanned.
func (m MergedRegion) Height() int { return m.LastRow - m.FirstRow + 1 }

// NumberOfCells returns Width*Height.
func (m MergedRegion) NumberOfCells() int { return m.Width() * m.Height() }

// Contains reports whether the cell at (row, col) lies within the region.
func (m MergedRegion) Contains(row, col int) bool {
	return row >= m.FirstRow && row <= m.LastRow && col >= m.FirstCol && col <= m.LastCol
}

// Overlaps reports whether two regions share at least one cell.
func (m MergedRegion) Overlaps(o MergedRegion) bool {
	return m.FirstRow <= o.LastRow && o.FirstRow <= m.LastRow &&
		m.FirstCol <= o.LastCol && o.FirstCol <= m.LastCol
}

// IntersectsRows reports whether the region touches any row in [first, last].
func (m MergedRegion) IntersectsRows(first, last int) bool {
	return m.FirstRow <= last && first <= m.LastRow
}

// Offset returns the region moved by n rows.
func (m MergedRegion) Offset(n int) MergedRegion {
	m.FirstRow += n
	m.LastRow += n
	return m
}

// IsSingleCell reports whether the region covers just one cell.
func (m MergedRegion) IsSingleCell() bool {
	return m.FirstRow == m.LastRow && m.FirstCol == m.LastCol
}
