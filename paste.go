package xlreport

// SkipValue advances the cursor without writing when pasted.
type SkipValue int

// Skip returns a value that, when pasted, moves the cursor n columns to the
// right and past any merged region it lands in.
func Skip(n int) SkipValue {
	return SkipValue(n)
}

// Paste writes v at the cursor and advances it. The pasteable kinds are
// SkipValue, *Matrix, *TotalRow, TotalValue and LastTotalValue; anything
// else is written as a scalar.
func (sp *SheetParams) Paste(v any) {
	switch p := v.(type) {
	case SkipValue:
		sp.pasteSkip(int(p))
	case *Matrix:
		if p == nil {
			sp.pasteScalar(nil)
			return
		}
		sp.pasteMatrix(p)
	case *TotalRow:
		if p == nil {
			sp.pasteScalar(nil)
			return
		}
		sp.pasteTotalRow(p)
	case TotalValue:
		sp.pasteTotalValue(p)
	case LastTotalValue:
		sp.pasteLastTotalValue(p)
	default:
		sp.pasteScalar(v)
	}
}

// pasteScalar advances one column and writes v there. Unsupported kinds
// leave the cell untouched but still consume the column.
func (sp *SheetParams) pasteScalar(v any) {
	sp.CurrentCell++
	sp.writeAt(sp.CurrentRow, sp.CurrentCell, v)
}

func (sp *SheetParams) pasteSkip(n int) {
	sp.CurrentCell += n
	if i, ok := sp.sheet.MergedRegionAt(sp.CurrentRow, sp.CurrentCell); ok {
		sp.CurrentCell += sp.sheet.MergedRegion(i).Width() - 1
	}
}

// pasteMatrix writes m as a block whose top-left corner follows the cursor.
// Afterwards the cursor is on the block's first row at its widest column.
func (sp *SheetParams) pasteMatrix(m *Matrix) {
	sp.AddRowLines(m.Height())
	start := sp.save()
	maxCell := sp.CurrentCell
	for _, row := range m.rows {
		for _, v := range row {
			sp.Paste(v)
		}
		maxCell = max(maxCell, sp.CurrentCell)
		sp.CurrentRow++
		sp.CurrentCell = start.cell
	}
	sp.restore(position{row: start.row, cell: maxCell})
}

func (sp *SheetParams) pasteTotalRow(t *TotalRow) {
	t.sp = sp
	t.row = sp.CurrentRow
	for _, col := range t.Columns() {
		sp.writeAt(t.row, col, t.values[col])
	}
}

func (sp *SheetParams) pasteTotalValue(p TotalValue) {
	if m, ok := p.Value.(*Matrix); ok && m != nil {
		sp.Paste(m.mapValues(func(v any) any { return TotalValue{Row: p.Row, Value: v} }))
		return
	}
	if p.Row != nil {
		p.Row.Add(sp.CurrentCell+1, p.Value)
	}
	sp.Paste(p.Value)
}

func (sp *SheetParams) pasteLastTotalValue(p LastTotalValue) {
	if m, ok := p.Value.(*Matrix); ok && m != nil {
		sp.Paste(m.mapValues(func(v any) any { return LastTotalValue{Row: p.Row, Value: v} }))
		return
	}
	if p.Row != nil {
		p.Row.AddLast(sp.CurrentCell+1, p.Value)
	}
	sp.Paste(p.Value)
}

// AddRowLines makes sure n physical rows are available from the cursor row
// down, growing the current logical row by duplicating its style row below
// the rows it already occupies. A matrix nested in a lower row of another
// matrix starts below the logical row's first line, so the need is counted
// from there.
func (sp *SheetParams) AddRowLines(n int) {
	src := sp.StyleRow(sp.CurrentRowStyle)
	need := sp.CurrentRow - sp.rowStart + n
	for sp.CurrentRowHeight < need {
		sp.sheet.CopyRowTo(src, sp.rowStart+sp.CurrentRowHeight)
		sp.CurrentRowHeight++
	}
}
