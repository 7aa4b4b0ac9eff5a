package xlreport

import "sort"

// TotalRow accumulates per-column totals. Once pasted it remembers where it
// was written, and later additions update the written cells immediately.
type TotalRow struct {
	values map[int]any
	sp     *SheetParams
	row    int
}

// NewTotalRow creates an empty, not yet pasted total row.
func NewTotalRow() *TotalRow {
	return &TotalRow{values: make(map[int]any), row: -1}
}

// Add accumulates v into column col with NullSum.
func (t *TotalRow) Add(col int, v any) *TotalRow {
	t.values[col] = NullSum(t.values[col], v)
	t.render(col)
	return t
}

// AddLast overwrites column col with v.
func (t *TotalRow) AddLast(col int, v any) *TotalRow {
	t.values[col] = v
	t.render(col)
	return t
}

// Merge adds every column of o into t.
func (t *TotalRow) Merge(o *TotalRow) *TotalRow {
	if o == nil {
		return t
	}
	for _, col := range o.Columns() {
		t.Add(col, o.values[col])
	}
	return t
}

// Value returns the accumulated value of column col.
func (t *TotalRow) Value(col int) any {
	return t.values[col]
}

// Columns returns the populated columns in ascending order.
func (t *TotalRow) Columns() []int {
	cols := make([]int, 0, len(t.values))
	for c := range t.values {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// Pasted reports whether the row has been written to a sheet.
func (t *TotalRow) Pasted() bool {
	return t.row >= 0
}

// PastedRow returns the physical row the totals were written to, or -1.
func (t *TotalRow) PastedRow() int {
	return t.row
}

// Total binds v to t: pasting the result writes v and adds it to the
// column it lands in.
func (t *TotalRow) Total(v any) TotalValue {
	return TotalValue{Row: t, Value: v}
}

// LastTotal binds v to t: pasting the result writes v and overwrites the
// column it lands in.
func (t *TotalRow) LastTotal(v any) LastTotalValue {
	return LastTotalValue{Row: t, Value: v}
}

// render rewrites one column of an already pasted row. Once the sheet is
// completed the recorded row no longer points at the totals.
func (t *TotalRow) render(col int) {
	if t.row < 0 || t.sp == nil || t.sp.completed {
		return
	}
	t.sp.writeAt(t.row, col, t.values[col])
}

// TotalValue is a value that adds itself to a TotalRow when pasted.
type TotalValue struct {
	Row   *TotalRow
	Value any
}

// LastTotalValue is a value that overwrites its column of a TotalRow when
// pasted.
type LastTotalValue struct {
	Row   *TotalRow
	Value any
}
