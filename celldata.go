package xlreport

import "github.com/xuri/excelize/v2"

// CellType represents the type of data in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellDate
	CellFormula
	CellError
	CellRichText
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellDate:
		return "Date"
	case CellFormula:
		return "Formula"
	case CellError:
		return "Error"
	case CellRichText:
		return "RichText"
	default:
		return "Unknown"
	}
}

// Comment is a cell note.
type Comment struct {
	Author string
	Text   string
	Font   *excelize.Font // optional font for the whole note
}

// Hyperlink is a link attached to a cell.
type Hyperlink struct {
	Target string
	Type   string // "External" or "Location"
}

// CellData holds everything the engine tracks about one cell.
type CellData struct {
	Value     any        // float64, string, bool, time.Time, RichText or nil
	Type      CellType   // value type
	Formula   string     // formula text without the leading "="
	StyleID   int        // excelize style handle
	Comment   *Comment   // optional note
	Hyperlink *Hyperlink // optional link
}

// IsFormulaCell returns true if this cell contains a formula.
func (cd *CellData) IsFormulaCell() bool {
	return cd.Type == CellFormula || cd.Formula != ""
}

// IsBlank reports whether the cell carries no value.
func (cd *CellData) IsBlank() bool {
	return cd.Type == CellBlank && cd.Formula == ""
}

// Clone returns a deep copy of the cell.
func (cd *CellData) Clone() *CellData {
	c := *cd
	if cd.Comment != nil {
		cm := *cd.Comment
		c.Comment = &cm
	}
	if cd.Hyperlink != nil {
		h := *cd.Hyperlink
		c.Hyperlink = &h
	}
	if rt, ok := cd.Value.(RichText); ok {
		c.Value = append(RichText(nil), rt...)
	}
	return &c
}

// SetBlank clears the value and formula, keeping style, comment and link.
func (cd *CellData) SetBlank() {
	cd.Value = nil
	cd.Type = CellBlank
	cd.Formula = ""
}

// RowData holds one physical row.
type RowData struct {
	Height float64 // 0 = sheet default
	Cells  map[int]*CellData
}

func newRowData() *RowData {
	return &RowData{Cells: make(map[int]*CellData)}
}

// Clone returns a deep copy of the row.
func (rd *RowData) Clone() *RowData {
	c := &RowData{Height: rd.Height, Cells: make(map[int]*CellData, len(rd.Cells))}
	for col, cd := range rd.Cells {
		c.Cells[col] = cd.Clone()
	}
	return c
}

// LastCellNum returns the highest populated column index, or -1.
func (rd *RowData) LastCellNum() int {
	last := -1
	for col := range rd.Cells {
		if col > last {
			last = col
		}
	}
	return last
}
