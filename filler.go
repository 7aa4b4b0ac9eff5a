package xlreport

import (
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// Filler drives one report generation: it owns the workbook loaded from
// the template, the registered sheet cursors and the pending token
// replacements. A Filler can be reused for several generations, one at a
// time; each starts from a freshly loaded template.
type Filler struct {
	opts *Options
	log  *zap.Logger

	mu       sync.Mutex // held for the duration of one generation
	template []byte     // pristine template content, read once

	wb           *Workbook
	params       map[int]*SheetParams
	order        []int
	current      *SheetParams
	replacements []replacement
	replaced     bool
	fileName     string
	printer      *message.Printer
}

// NewFiller creates a Filler with the given options.
func NewFiller(opts ...Option) *Filler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Filler{
		opts:    o,
		log:     o.logger,
		printer: message.NewPrinter(o.locale),
	}
}

// reset prepares the Filler for a generation over wb.
func (f *Filler) reset(wb *Workbook) {
	wb.log = f.log
	f.wb = wb
	f.params = make(map[int]*SheetParams)
	f.order = nil
	f.current = nil
	f.replacements = nil
	f.replaced = false
	f.fileName = f.opts.fileName
}

// Workbook returns the workbook of the running generation.
func (f *Filler) Workbook() *Workbook {
	return f.wb
}

// Logger returns the configured logger.
func (f *Filler) Logger() *zap.Logger {
	return f.log
}

// SetFileName sets the name reported in the Result.
func (f *Filler) SetFileName(name string) {
	f.fileName = name
}

// FileName returns the name reported in the Result.
func (f *Filler) FileName() string {
	return f.fileName
}

// AddSheet registers a sheet for writing and makes it current. Registering
// the same sheet again only makes it current.
func (f *Filler) AddSheet(spec SheetSpec) (*SheetParams, error) {
	if f.wb == nil {
		return nil, fmt.Errorf("add sheet %d: %w", spec.SheetNum, ErrNoSheet)
	}
	if sp, ok := f.params[spec.SheetNum]; ok {
		f.current = sp
		return sp, nil
	}
	available := f.wb.SheetCount()
	if available <= len(f.params) || spec.SheetNum < 0 || spec.SheetNum >= available {
		return nil, &TemplateSheetsError{Required: max(len(f.params), spec.SheetNum) + 1, Available: available}
	}

	sp := newSheetParams(spec, f.wb.Sheet(spec.SheetNum))
	if len(spec.SumColumns) > 0 {
		if err := sp.SetSumColumns(spec.SumColumns...); err != nil {
			return nil, fmt.Errorf("add sheet %d: %w", spec.SheetNum, err)
		}
	}
	f.params[spec.SheetNum] = sp
	f.order = append(f.order, spec.SheetNum)
	f.current = sp

	f.log.Debug("sheet registered",
		zap.String("sheet", sp.sheet.Name),
		zap.Int("first_data_row", sp.FirstDataRow),
		zap.Int("style_rows", sp.StyleRowsCount),
		zap.Int("merged_regions", sp.CountMergedRegionsAtStart))
	return sp, nil
}

// SetCurrentSheet makes a previously registered sheet current.
func (f *Filler) SetCurrentSheet(sheetNum int) error {
	sp, ok := f.params[sheetNum]
	if !ok {
		return fmt.Errorf("select sheet %d: %w", sheetNum, ErrNoSheet)
	}
	f.current = sp
	return nil
}

// Current returns the cursor of the current sheet, or nil.
func (f *Filler) Current() *SheetParams {
	return f.current
}

// Params returns the cursor of a registered sheet, or nil.
func (f *Filler) Params(sheetNum int) *SheetParams {
	return f.params[sheetNum]
}

func (f *Filler) active() (*SheetParams, error) {
	if f.current == nil {
		return nil, ErrNoSheet
	}
	if f.current.completed {
		return nil, ErrAlreadyCompleted
	}
	return f.current, nil
}

// AddRow appends a data row shaped like style row styleIndex below the
// current row and pastes values into it from column 0. Without values a
// single nil is pasted. An unknown style index skips the row; with
// WithStrictStyleRows it returns ErrStyleRowOutOfRange instead.
func (f *Filler) AddRow(styleIndex int, values ...any) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	if styleIndex < 0 || styleIndex >= sp.StyleRowsCount {
		f.log.Warn("row skipped: unknown style row",
			zap.String("sheet", sp.sheet.Name),
			zap.Int("style_row", styleIndex),
			zap.Int("style_rows", sp.StyleRowsCount))
		if f.opts.strictStyles {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrStyleRowOutOfRange, styleIndex, sp.StyleRowsCount)
		}
		return nil
	}

	sp.CurrentRow += sp.CurrentRowHeight
	sp.CurrentRowHeight = 1
	sp.rowStart = sp.CurrentRow
	sp.CurrentCell = -1
	sp.CurrentRowStyle = styleIndex

	sheet := sp.sheet
	sheet.ShiftRows(sp.CurrentRow, sheet.LastRowNum(), 1, false)
	sheet.CopyRow(sp.StyleRow(styleIndex), sp.CurrentRow)

	if len(values) == 0 {
		sp.Paste(nil)
		return nil
	}
	for _, v := range values {
		sp.Paste(v)
	}
	return nil
}

// AddCells pastes values at the cursor of the current row. Without values
// a single nil is pasted.
func (f *Filler) AddCells(values ...any) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	if len(values) == 0 {
		sp.Paste(nil)
		return nil
	}
	for _, v := range values {
		sp.Paste(v)
	}
	return nil
}

// AddRowLines makes the current logical row at least n physical rows tall.
func (f *Filler) AddRowLines(n int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	sp.AddRowLines(n)
	return nil
}

// Complete removes the style rows of every registered sheet by pulling the
// rows below them up. It runs once per sheet; afterwards the cursors only
// answer reads and writing returns ErrAlreadyCompleted.
func (f *Filler) Complete() {
	for _, num := range f.order {
		sp := f.params[num]
		if sp.completed {
			continue
		}
		sheet := sp.sheet
		k := sp.StyleRowsCount
		last := sheet.LastRowNum()
		if k > 0 && last > 0 {
			start := sp.FirstDataRow + k
			end := last + 16
			if start < end {
				sheet.ShiftRows(start, end, -k, false)
			}
		}
		sp.completed = true
		f.log.Debug("sheet completed",
			zap.String("sheet", sheet.Name),
			zap.Int("last_row", sheet.LastRowNum()),
			zap.Int("merged_regions", sheet.NumMergedRegions()))
	}
}

// MergeCellsUp merges count rows of column col ending at the current row.
func (f *Filler) MergeCellsUp(col, count int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	return f.MergeCellsUpFrom(col, sp.CurrentRow, count)
}

// MergeCellsUpFrom merges count rows of column col ending at lastRow.
func (f *Filler) MergeCellsUpFrom(col, lastRow, count int) error {
	return f.MergeCells(col, col, lastRow, count)
}

// MergeCells merges columns [firstCol, lastCol] over count rows ending at
// lastRow. A count below 2 does nothing.
func (f *Filler) MergeCells(firstCol, lastCol, lastRow, count int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	if count <= 1 {
		return nil
	}
	sp.sheet.AddMergedRegion(NewMergedRegion(lastRow-count+1, lastRow, firstCol, lastCol))
	return nil
}

// SetCellValue writes v at (row, col) of the current sheet with the divider
// rule of sum columns.
func (f *Filler) SetCellValue(row, col int, v any) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	sp.writeAt(row, col, v)
	return nil
}

// CellValue returns the value at (row, col) of the current sheet.
func (f *Filler) CellValue(row, col int) any {
	if f.current == nil {
		return nil
	}
	cd := f.current.sheet.Cell(row, col)
	if cd == nil {
		return nil
	}
	if cd.IsFormulaCell() {
		return Formula(cd.Formula)
	}
	return cd.Value
}

// currentCell returns the cell under the cursor, creating it if absent.
func (f *Filler) currentCell() (*CellData, error) {
	sp, err := f.active()
	if err != nil {
		return nil, err
	}
	return sp.sheet.GetOrCreateCell(sp.CurrentRow, max(sp.CurrentCell, 0)), nil
}

// AddComment attaches a note to the current cell. font may be nil.
func (f *Filler) AddComment(text string, font *excelize.Font) error {
	cd, err := f.currentCell()
	if err != nil {
		return err
	}
	cd.Comment = &Comment{Text: text, Font: font}
	return nil
}

// SetCellStyleCurrent sets the style of the current cell.
func (f *Filler) SetCellStyleCurrent(styleID int) error {
	cd, err := f.currentCell()
	if err != nil {
		return err
	}
	cd.StyleID = styleID
	return nil
}

// SetAutoHeightCurrentRow resets the height of every physical row of the
// current logical row so the spreadsheet application sizes it.
func (f *Filler) SetAutoHeightCurrentRow() error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	for r := sp.CurrentRow; r < sp.CurrentRow+sp.CurrentRowHeight; r++ {
		if rd := sp.sheet.Row(r); rd != nil {
			rd.Height = 0
		}
	}
	return nil
}

// IsEmptyRow reports whether row r of the current sheet has no non-blank
// value.
func (f *Filler) IsEmptyRow(r int) bool {
	if f.current == nil {
		return true
	}
	rd := f.current.sheet.Row(r)
	if rd == nil {
		return true
	}
	for _, cd := range rd.Cells {
		if cd.IsFormulaCell() {
			return false
		}
		if cd.Type != CellBlank && renderText(cd.Value) != "" {
			return false
		}
	}
	return true
}

// SetFreezeArea freezes the columns left of col and the rows above row of
// the current sheet.
func (f *Filler) SetFreezeArea(col, row int) error {
	sp, err := f.active()
	if err != nil {
		return err
	}
	pane := "bottomRight"
	switch {
	case col == 0:
		pane = "bottomLeft"
	case row == 0:
		pane = "topRight"
	}
	return f.wb.file.SetPanes(sp.sheet.Name, &excelize.Panes{
		Freeze:      true,
		XSplit:      col,
		YSplit:      row,
		TopLeftCell: cellName(row, col),
		ActivePane:  pane,
	})
}
