package xlreport

// MatrixRow is one row of a Matrix.
type MatrixRow []any

// Matrix is a ragged-tolerant grid of values that pastes as a block. Its
// elements may be any pasteable value, including nested matrices and
// total-bound values.
type Matrix struct {
	rows []MatrixRow
}

// NewMatrix creates a matrix from rows. The rows are copied.
func NewMatrix(rows ...[]any) *Matrix {
	m := &Matrix{}
	for _, r := range rows {
		m.AddRow(r...)
	}
	return m
}

// Height returns the number of rows.
func (m *Matrix) Height() int {
	return len(m.rows)
}

// Width returns the length of the widest row.
func (m *Matrix) Width() int {
	w := 0
	for _, r := range m.rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Row returns row i, or nil when out of range.
func (m *Matrix) Row(i int) MatrixRow {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// Rows returns the rows of the matrix.
func (m *Matrix) Rows() []MatrixRow {
	return m.rows
}

// At returns the value at (i, j), or nil when absent.
func (m *Matrix) At(i, j int) any {
	r := m.Row(i)
	if j < 0 || j >= len(r) {
		return nil
	}
	return r[j]
}

// Set stores v at (i, j), growing the matrix with nils as needed.
func (m *Matrix) Set(i, j int, v any) {
	for len(m.rows) <= i {
		m.rows = append(m.rows, nil)
	}
	for len(m.rows[i]) <= j {
		m.rows[i] = append(m.rows[i], nil)
	}
	m.rows[i][j] = v
}

// AddRow appends a row and returns the matrix for chaining.
func (m *Matrix) AddRow(values ...any) *Matrix {
	m.rows = append(m.rows, append(MatrixRow(nil), values...))
	return m
}

// InsertRow inserts a row before index i.
func (m *Matrix) InsertRow(i int, values ...any) *Matrix {
	if i < 0 {
		i = 0
	}
	if i >= len(m.rows) {
		return m.AddRow(values...)
	}
	m.rows = append(m.rows, nil)
	copy(m.rows[i+1:], m.rows[i:])
	m.rows[i] = append(MatrixRow(nil), values...)
	return m
}

// Append adds values to the end of row i, creating rows as needed.
func (m *Matrix) Append(i int, values ...any) *Matrix {
	for len(m.rows) <= i {
		m.rows = append(m.rows, nil)
	}
	m.rows[i] = append(m.rows[i], values...)
	return m
}

// AddColumn appends column values, one per row. Rows are padded so that
// the new column lines up; extra values create new rows.
func (m *Matrix) AddColumn(values ...any) *Matrix {
	m.Justify(len(values) - len(m.rows))
	for i, v := range values {
		m.rows[i] = append(m.rows[i], v)
	}
	for i := len(values); i < len(m.rows); i++ {
		m.rows[i] = append(m.rows[i], nil)
	}
	return m
}

// AddMatrix combines o into m element-wise with NullSum. Rows and cells
// present only in o are appended.
func (m *Matrix) AddMatrix(o *Matrix) *Matrix {
	if o == nil {
		return m
	}
	for i, row := range o.rows {
		if i >= len(m.rows) {
			m.rows = append(m.rows, append(MatrixRow(nil), row...))
			continue
		}
		for j, v := range row {
			if j >= len(m.rows[i]) {
				m.rows[i] = append(m.rows[i], v)
				continue
			}
			m.rows[i][j] = NullSum(m.rows[i][j], v)
		}
	}
	return m
}

// Justify pads every row with nils to the common width and appends
// furtherRows rows of nils.
func (m *Matrix) Justify(furtherRows int) *Matrix {
	for i := 0; i < furtherRows; i++ {
		m.rows = append(m.rows, nil)
	}
	w := m.Width()
	for i, r := range m.rows {
		for len(r) < w {
			r = append(r, nil)
		}
		m.rows[i] = r
	}
	return m
}

// Extend pads the matrix to at least width columns.
func (m *Matrix) Extend(width int) *Matrix {
	if len(m.rows) == 0 {
		m.rows = append(m.rows, nil)
	}
	for len(m.rows[0]) < width {
		m.rows[0] = append(m.rows[0], nil)
	}
	return m.Justify(0)
}

// SumRow returns the column totals with absent values counted as zero.
func (m *Matrix) SumRow() MatrixRow {
	sum := make(MatrixRow, m.Width())
	for j := range sum {
		var col []any
		for _, r := range m.rows {
			if j < len(r) {
				col = append(col, r[j])
			}
		}
		sum[j] = ZeroSum(col...)
	}
	return sum
}

// mapValues returns a copy of m with f applied to every element.
func (m *Matrix) mapValues(f func(any) any) *Matrix {
	c := &Matrix{rows: make([]MatrixRow, len(m.rows))}
	for i, r := range m.rows {
		c.rows[i] = make(MatrixRow, len(r))
		for j, v := range r {
			c.rows[i][j] = f(v)
		}
	}
	return c
}
