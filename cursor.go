package xlreport

import (
	"fmt"
	"sort"
)

// DefaultSumFormat is the number format applied to sum columns.
const DefaultSumFormat = "#,##0.00"

// SheetSpec describes a sheet a report writes to.
type SheetSpec struct {
	SheetNum       int     // 0-based sheet index in the template
	FirstDataRow   int     // 0-based row of the first style row
	StyleRowsCount int     // number of style rows starting at FirstDataRow
	Divider        float64 // unit scaling for sum columns; 0 means 1
	SumColumns     []int   // columns eligible for scaling and SumFormat
	SumFormat      string  // default DefaultSumFormat
}

// SheetParams is the cursor of one registered sheet.
type SheetParams struct {
	SheetNum       int
	FirstDataRow   int
	StyleRowsCount int

	CurrentRow       int // physical row of the current logical row
	CurrentCell      int // last column written, -1 before the first paste
	CurrentRowStyle  int // style row used by the current row
	CurrentRowHeight int // physical rows occupied by the current logical row
	rowStart         int // first physical row of the current logical row

	Divider    float64
	SumFormat  string
	sumColumns map[int]bool

	// CountMergedRegionsAtStart is the number of template regions on the
	// sheet when it was registered.
	CountMergedRegionsAtStart int
	// LastModifiedCol is the widest column written so far.
	LastModifiedCol int

	sheet     *Sheet
	completed bool
}

// position is a saved cursor location.
type position struct {
	row, cell int
}

func newSheetParams(spec SheetSpec, sheet *Sheet) *SheetParams {
	sp := &SheetParams{
		SheetNum:                  spec.SheetNum,
		FirstDataRow:              spec.FirstDataRow,
		StyleRowsCount:            spec.StyleRowsCount,
		CurrentRow:                spec.FirstDataRow + spec.StyleRowsCount - 1,
		CurrentCell:               -1,
		CurrentRowHeight:          1,
		rowStart:                  spec.FirstDataRow + spec.StyleRowsCount - 1,
		SumFormat:                 spec.SumFormat,
		sumColumns:                make(map[int]bool),
		CountMergedRegionsAtStart: sheet.NumMergedRegions(),
		LastModifiedCol:           -1,
		sheet:                     sheet,
	}
	if sp.SumFormat == "" {
		sp.SumFormat = DefaultSumFormat
	}
	sp.SetDivider(spec.Divider)
	return sp
}

// Sheet returns the sheet the cursor writes to.
func (sp *SheetParams) Sheet() *Sheet {
	return sp.sheet
}

// StyleRow returns the physical row of style row i.
func (sp *SheetParams) StyleRow(i int) int {
	return sp.FirstDataRow + i
}

// SetDivider sets the unit scaling factor. Zero is treated as 1.
func (sp *SheetParams) SetDivider(d float64) {
	if d == 0 {
		d = 1
	}
	sp.Divider = d
}

// SumColumns returns the sum columns in ascending order.
func (sp *SheetParams) SumColumns() []int {
	cols := make([]int, 0, len(sp.sumColumns))
	for c := range sp.sumColumns {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// IsSumColumn reports whether col is a sum column.
func (sp *SheetParams) IsSumColumn(col int) bool {
	return sp.sumColumns[col]
}

// SetSumColumns marks cols as sum columns and applies SumFormat to every
// style row cell in those columns.
func (sp *SheetParams) SetSumColumns(cols ...int) error {
	for _, c := range cols {
		sp.sumColumns[c] = true
	}
	return sp.applySumFormat()
}

func (sp *SheetParams) applySumFormat() error {
	wb := sp.sheet.wb
	for i := 0; i < sp.StyleRowsCount; i++ {
		rd := sp.sheet.Row(sp.StyleRow(i))
		if rd == nil {
			continue
		}
		for c := range sp.sumColumns {
			cd := rd.Cells[c]
			if cd == nil {
				continue
			}
			id, err := wb.StyleWithNumFmt(cd.StyleID, sp.SumFormat)
			if err != nil {
				return fmt.Errorf("format sum column %d of style row %d: %w", c, i, err)
			}
			cd.StyleID = id
		}
	}
	return nil
}

// scale applies the divider to floating point values in sum columns.
func (sp *SheetParams) scale(col int, v any) any {
	if !sp.sumColumns[col] || sp.Divider == 1 {
		return v
	}
	switch f := v.(type) {
	case float64:
		return f / sp.Divider
	case float32:
		return float64(f) / sp.Divider
	}
	return v
}

func (sp *SheetParams) save() position {
	return position{row: sp.CurrentRow, cell: sp.CurrentCell}
}

func (sp *SheetParams) restore(p position) {
	sp.CurrentRow = p.row
	sp.CurrentCell = p.cell
}

// writeAt writes v at (row, col) applying the divider rule.
func (sp *SheetParams) writeAt(row, col int, v any) {
	cd := sp.sheet.Cell(row, col)
	fresh := cd == nil
	if fresh {
		cd = &CellData{}
	}
	if !cd.SetValue(sp.scale(col, v)) {
		return
	}
	if fresh {
		sp.sheet.GetOrCreateRow(row).Cells[col] = cd
	}
	if col > sp.LastModifiedCol {
		sp.LastModifiedCol = col
	}
}
