package xlreport

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const defaultRowHeight = 15.0

// Workbook is the in-memory document a report is generated into. It is read
// from a template once, mutated in memory and written back once.
type Workbook struct {
	file   *excelize.File
	sheets []*Sheet
	styles map[styleKey]int
	log    *zap.Logger
}

type styleKey struct {
	id     int
	format string
}

// Sheet holds the rows and merged regions of one worksheet.
type Sheet struct {
	wb            *Workbook
	Name          string
	Index         int
	DefaultHeight float64

	rows   map[int]*RowData
	merges []MergedRegion
	orig   snapshot
}

// snapshot remembers what the template contained so Write can clear it.
type snapshot struct {
	cells    map[CellRef]bool // cells present in the template, keyed without sheet
	formulas map[CellRef]bool
	comments []string
	links    []string
	merges   []MergedRegion
	heights  map[int]bool // rows with a custom height
	lastRow  int
}

// OpenWorkbook reads a template from r.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return NewWorkbook(f)
}

// OpenWorkbookFile reads a template from disk.
func OpenWorkbookFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrInvalidTemplate, path, err)
	}
	return NewWorkbook(f)
}

// NewWorkbook loads every sheet of an already opened excelize file.
func NewWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{
		file:   f,
		styles: make(map[styleKey]int),
		log:    zap.NewNop(),
	}
	for i, name := range f.GetSheetList() {
		s, err := wb.readSheet(i, name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidTemplate, name, err)
		}
		wb.sheets = append(wb.sheets, s)
	}
	return wb, nil
}

// readSheet reads all cell data of one sheet into memory.
func (wb *Workbook) readSheet(index int, name string) (*Sheet, error) {
	f := wb.file
	s := &Sheet{
		wb:            wb,
		Name:          name,
		Index:         index,
		DefaultHeight: defaultRowHeight,
		rows:          make(map[int]*RowData),
		orig: snapshot{
			cells:    make(map[CellRef]bool),
			formulas: make(map[CellRef]bool),
			heights:  make(map[int]bool),
			lastRow:  -1,
		},
	}
	if props, err := f.GetSheetProps(name); err == nil && props.DefaultRowHeight != nil && *props.DefaultRowHeight > 0 {
		s.DefaultHeight = *props.DefaultRowHeight
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	maxRow, maxCol := len(rows)-1, -1
	for _, row := range rows {
		if len(row)-1 > maxCol {
			maxCol = len(row) - 1
		}
	}
	if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
		if m, err := ParseMergedRegion(dim); err == nil {
			maxRow = max(maxRow, m.LastRow)
			maxCol = max(maxCol, m.LastCol)
		} else if ref, err := ParseCellRef(dim); err == nil {
			maxRow = max(maxRow, ref.Row)
			maxCol = max(maxCol, ref.Col)
		}
	}

	// Merged regions
	mcs, err := f.GetMergeCells(name)
	if err != nil {
		return nil, fmt.Errorf("read merged cells: %w", err)
	}
	for _, mc := range mcs {
		m, err := ParseMergedRegion(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			continue
		}
		s.merges = append(s.merges, m)
		maxRow = max(maxRow, m.LastRow)
		maxCol = max(maxCol, m.LastCol)
	}
	s.orig.merges = append([]MergedRegion(nil), s.merges...)

	// Comments
	comments := make(map[CellRef]*Comment)
	if cms, err := f.GetComments(name); err == nil {
		for _, c := range cms {
			ref, err := ParseCellRef(c.Cell)
			if err != nil {
				continue
			}
			comments[ref] = &Comment{Author: c.Author, Text: commentText(c)}
			s.orig.comments = append(s.orig.comments, ref.CellName())
			maxRow = max(maxRow, ref.Row)
			maxCol = max(maxCol, ref.Col)
		}
	}

	for r := 0; r <= maxRow; r++ {
		for c := 0; c <= maxCol; c++ {
			ref := NewCellRef("", r, c)
			cd, err := wb.readCell(name, ref)
			if err != nil {
				return nil, err
			}
			cd.Comment = comments[ref]
			if cd.IsBlank() && cd.StyleID == 0 && cd.Comment == nil && cd.Hyperlink == nil {
				continue
			}
			if cd.Hyperlink != nil {
				s.orig.links = append(s.orig.links, ref.CellName())
			}
			if cd.IsFormulaCell() {
				s.orig.formulas[ref] = true
			}
			s.orig.cells[ref] = true
			s.GetOrCreateRow(r).Cells[c] = cd
		}
		if h, err := f.GetRowHeight(name, r+1); err == nil && math.Abs(h-s.DefaultHeight) > 0.001 {
			s.GetOrCreateRow(r).Height = h
			s.orig.heights[r] = true
		}
	}
	s.orig.lastRow = maxRow
	return s, nil
}

// readCell reads the value, style and hyperlink of a cell.
func (wb *Workbook) readCell(sheet string, ref CellRef) (*CellData, error) {
	f := wb.file
	name := ref.CellName()
	cd := &CellData{}

	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("read style of %s: %w", name, err)
	}
	cd.StyleID = styleID

	if ok, target, err := f.GetCellHyperLink(sheet, name); err == nil && ok {
		cd.Hyperlink = &Hyperlink{Target: target, Type: "External"}
		if !strings.Contains(target, "://") && !strings.HasPrefix(target, "mailto:") {
			cd.Hyperlink.Type = "Location"
		}
	}

	if formula, err := f.GetCellFormula(sheet, name); err == nil && formula != "" {
		cd.Type = CellFormula
		cd.Formula = formula
		return cd, nil
	}

	raw, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read value of %s: %w", name, err)
	}
	typ, _ := f.GetCellType(sheet, name)
	switch typ {
	case excelize.CellTypeBool:
		cd.set(raw == "1" || strings.EqualFold(raw, "true"), CellBoolean)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			cd.set(t, CellDate)
		} else {
			cd.set(raw, CellString)
		}
	case excelize.CellTypeError:
		cd.set(raw, CellError)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		if runs, err := f.GetCellRichText(sheet, name); err == nil && isRichText(runs) {
			cd.set(RichText(runs), CellRichText)
		} else if raw != "" {
			cd.set(raw, CellString)
		}
	default:
		if raw == "" {
			break
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cd.set(v, CellNumber)
		} else {
			cd.set(raw, CellString)
		}
	}
	return cd, nil
}

func isRichText(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}

// commentText returns the note text without the "Author:" run excelize
// prepends when writing.
func commentText(c excelize.Comment) string {
	text := c.Text
	for _, run := range c.Paragraph {
		text += run.Text
	}
	if c.Author != "" {
		text = strings.TrimPrefix(text, c.Author+":")
	}
	return strings.TrimLeft(text, "\r\n")
}

// File returns the underlying excelize file for advanced operations.
func (wb *Workbook) File() *excelize.File {
	return wb.file
}

// SheetCount returns the number of sheets.
func (wb *Workbook) SheetCount() int {
	return len(wb.sheets)
}

// Sheet returns the sheet at index i or nil.
func (wb *Workbook) Sheet(i int) *Sheet {
	if i < 0 || i >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[i]
}

// SheetByName returns the named sheet or nil.
func (wb *Workbook) SheetByName(name string) *Sheet {
	for _, s := range wb.sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Style returns the style definition for a style handle.
func (wb *Workbook) Style(id int) (*excelize.Style, error) {
	return wb.file.GetStyle(id)
}

// StyleWithNumFmt returns a style identical to id but with a custom number
// format. Results are cached per (id, format).
func (wb *Workbook) StyleWithNumFmt(id int, format string) (int, error) {
	key := styleKey{id: id, format: format}
	if cached, ok := wb.styles[key]; ok {
		return cached, nil
	}
	st, err := wb.file.GetStyle(id)
	if err != nil {
		return 0, fmt.Errorf("get style %d: %w", id, err)
	}
	clone := *st
	clone.NumFmt = 0
	clone.CustomNumFmt = &format
	newID, err := wb.file.NewStyle(&clone)
	if err != nil {
		return 0, fmt.Errorf("clone style %d with format %q: %w", id, format, err)
	}
	wb.styles[key] = newID
	wb.styles[styleKey{id: newID, format: format}] = newID
	return newID, nil
}

// FontSize returns the font size of a style, or 11 when none is set.
func (wb *Workbook) FontSize(id int) float64 {
	st, err := wb.file.GetStyle(id)
	if err != nil || st.Font == nil || st.Font.Size <= 0 {
		return 11
	}
	return st.Font.Size
}

// IsDateStyle reports whether a style renders numbers as dates.
func (wb *Workbook) IsDateStyle(id int) bool {
	if id == 0 {
		return false
	}
	st, err := wb.file.GetStyle(id)
	if err != nil {
		return false
	}
	if st.CustomNumFmt != nil {
		return isDateFormat(*st.CustomNumFmt)
	}
	return isBuiltInDateFormat(st.NumFmt)
}

func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateFormat detects date tokens outside quoted literals and brackets.
func isDateFormat(format string) bool {
	inQuote, inBracket := false, false
	for _, ch := range strings.ToLower(format) {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'y' || ch == 'd' || ch == 'h' || ch == 's' || ch == 'm':
			return true
		}
	}
	return false
}

// Write serializes the in-memory document through excelize to w.
func (wb *Workbook) Write(w io.Writer) error {
	for _, s := range wb.sheets {
		if err := s.flush(); err != nil {
			return fmt.Errorf("write sheet %q: %w", s.Name, err)
		}
	}
	return wb.file.Write(w)
}

// Bytes serializes the document into memory.
func (wb *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close closes the underlying excelize file.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// flush replaces the template content of the sheet with the in-memory rows.
func (s *Sheet) flush() error {
	f := s.wb.file
	name := s.Name

	for _, m := range s.orig.merges {
		if err := f.UnmergeCell(name, m.TopLeft(), m.BottomRight()); err != nil {
			return fmt.Errorf("unmerge %s: %w", m, err)
		}
	}
	for _, cell := range s.orig.comments {
		if err := f.DeleteComment(name, cell); err != nil {
			return fmt.Errorf("delete comment at %s: %w", cell, err)
		}
	}
	for _, cell := range s.orig.links {
		if err := f.SetCellHyperLink(name, cell, "", "None"); err != nil {
			return fmt.Errorf("remove hyperlink at %s: %w", cell, err)
		}
	}
	for ref := range s.orig.formulas {
		if err := f.SetCellFormula(name, ref.CellName(), ""); err != nil {
			return fmt.Errorf("clear formula at %s: %w", ref.CellName(), err)
		}
	}
	for ref := range s.orig.cells {
		if s.Cell(ref.Row, ref.Col) != nil {
			continue
		}
		cell := ref.CellName()
		if err := f.SetCellValue(name, cell, nil); err != nil {
			return fmt.Errorf("clear %s: %w", cell, err)
		}
		if err := f.SetCellStyle(name, cell, cell, 0); err != nil {
			return fmt.Errorf("clear style of %s: %w", cell, err)
		}
	}

	for _, r := range s.rowIndexes() {
		rd := s.rows[r]
		cols := make([]int, 0, len(rd.Cells))
		for c := range rd.Cells {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			if err := s.writeCell(NewCellRef("", r, c), rd.Cells[c]); err != nil {
				return err
			}
		}
	}

	for _, m := range s.merges {
		if err := f.MergeCell(name, m.TopLeft(), m.BottomRight()); err != nil {
			return fmt.Errorf("merge %s: %w", m, err)
		}
	}

	last := max(s.orig.lastRow, s.LastRowNum())
	for r := 0; r <= last; r++ {
		rd := s.rows[r]
		switch {
		case rd != nil && rd.Height > 0:
			if err := f.SetRowHeight(name, r+1, math.Min(rd.Height, excelize.MaxRowHeight)); err != nil {
				return fmt.Errorf("set height of row %d: %w", r+1, err)
			}
		case s.orig.heights[r]:
			if err := f.SetRowHeight(name, r+1, -1); err != nil {
				return fmt.Errorf("reset height of row %d: %w", r+1, err)
			}
		}
	}
	return nil
}

// writeCell writes one in-memory cell. The style goes first so that a
// date value does not replace it with the default date format.
func (s *Sheet) writeCell(ref CellRef, cd *CellData) error {
	f := s.wb.file
	name := s.Name
	cell := ref.CellName()

	if err := f.SetCellStyle(name, cell, cell, cd.StyleID); err != nil {
		return fmt.Errorf("set style of %s: %w", cell, err)
	}

	var err error
	switch cd.Type {
	case CellFormula:
		if err = f.SetCellValue(name, cell, nil); err == nil {
			err = f.SetCellFormula(name, cell, cd.Formula)
		}
	case CellRichText:
		rt, _ := cd.Value.(RichText)
		err = f.SetCellRichText(name, cell, []excelize.RichTextRun(rt))
	case CellBlank:
		err = f.SetCellValue(name, cell, nil)
	default:
		err = f.SetCellValue(name, cell, cd.Value)
	}
	if err != nil {
		return fmt.Errorf("set value of %s: %w", cell, err)
	}

	if cd.Hyperlink != nil && cd.Hyperlink.Target != "" {
		linkType := cd.Hyperlink.Type
		if linkType == "" {
			linkType = "External"
		}
		target := cd.Hyperlink.Target
		if linkType == "Location" {
			target = strings.TrimPrefix(target, "#")
		}
		if err := f.SetCellHyperLink(name, cell, target, linkType); err != nil {
			return fmt.Errorf("set hyperlink of %s: %w", cell, err)
		}
	}

	if cd.Comment != nil && cd.Comment.Text != "" {
		c := excelize.Comment{Cell: cell, Author: cd.Comment.Author, Text: cd.Comment.Text}
		if cd.Comment.Font != nil {
			c.Text = ""
			c.Paragraph = []excelize.RichTextRun{{Text: cd.Comment.Text, Font: cd.Comment.Font}}
		}
		if err := f.AddComment(name, c); err != nil {
			return fmt.Errorf("add comment to %s: %w", cell, err)
		}
	}
	return nil
}

// Row returns the row at index r or nil.
func (s *Sheet) Row(r int) *RowData {
	return s.rows[r]
}

// GetOrCreateRow returns the row at index r, creating it if absent.
func (s *Sheet) GetOrCreateRow(r int) *RowData {
	rd, ok := s.rows[r]
	if !ok {
		rd = newRowData()
		s.rows[r] = rd
	}
	return rd
}

// Cell returns the cell at (r, c) or nil.
func (s *Sheet) Cell(r, c int) *CellData {
	rd := s.rows[r]
	if rd == nil {
		return nil
	}
	return rd.Cells[c]
}

// GetOrCreateCell returns the cell at (r, c), creating row and cell if absent.
func (s *Sheet) GetOrCreateCell(r, c int) *CellData {
	rd := s.GetOrCreateRow(r)
	cd, ok := rd.Cells[c]
	if !ok {
		cd = &CellData{}
		rd.Cells[c] = cd
	}
	return cd
}

// RemoveRow drops row r and its cells.
func (s *Sheet) RemoveRow(r int) {
	delete(s.rows, r)
}

// LastRowNum returns the highest row index present, or -1 for an empty sheet.
func (s *Sheet) LastRowNum() int {
	last := -1
	for r := range s.rows {
		if r > last {
			last = r
		}
	}
	return last
}

// rowIndexes returns the present row indexes in ascending order.
func (s *Sheet) rowIndexes() []int {
	idx := make([]int, 0, len(s.rows))
	for r := range s.rows {
		idx = append(idx, r)
	}
	sort.Ints(idx)
	return idx
}

// RowHeight returns the display height of row r.
func (s *Sheet) RowHeight(r int) float64 {
	if rd := s.rows[r]; rd != nil && rd.Height > 0 {
		return rd.Height
	}
	return s.DefaultHeight
}

// ColumnWidth returns the width of column c in characters.
func (s *Sheet) ColumnWidth(c int) float64 {
	w, err := s.wb.file.GetColWidth(s.Name, ColToName(c))
	if err != nil {
		return 0
	}
	return w
}

// SetColumnWidth sets the width of column c in characters.
func (s *Sheet) SetColumnWidth(c int, width float64) error {
	name := ColToName(c)
	return s.wb.file.SetColWidth(s.Name, name, name, math.Min(width, excelize.MaxColumnWidth))
}

// IsColumnHidden reports whether column c is hidden.
func (s *Sheet) IsColumnHidden(c int) bool {
	visible, err := s.wb.file.GetColVisible(s.Name, ColToName(c))
	return err == nil && !visible
}
