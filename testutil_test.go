package xlreport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "Sheet1"

// newTemplate builds a one-sheet workbook with build and returns its content.
func newTemplate(t *testing.T, build func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if build != nil {
		build(f)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// taskTemplate is a report layout with a title, a heading row, style rows
// at rows 3..2+len(styles) holding one style per row, and a footer.
func taskTemplate(t *testing.T, styles ...*excelize.Style) []byte {
	t.Helper()
	return newTemplate(t, func(f *excelize.File) {
		set(t, f, "A1", "Tasks")
		set(t, f, "A2", "No")
		set(t, f, "B2", "Name")
		set(t, f, "C2", "Amount")
		set(t, f, "D2", "Note")
		for i, st := range styles {
			id, err := f.NewStyle(st)
			require.NoError(t, err)
			row := 3 + i
			require.NoError(t, f.SetCellStyle(testSheet, cellName(row-1, 0), cellName(row-1, 3), id))
		}
		set(t, f, cellName(2+len(styles), 0), "Footer")
	})
}

func set(t *testing.T, f *excelize.File, cell string, v any) {
	t.Helper()
	require.NoError(t, f.SetCellValue(testSheet, cell, v))
}

// loadFiller opens tmpl and prepares a generation without running a report.
func loadFiller(t *testing.T, tmpl []byte, opts ...Option) *Filler {
	t.Helper()
	f := NewFiller(append([]Option{WithTemplateBytes(tmpl)}, opts...)...)
	require.NoError(t, f.start())
	wb := f.wb
	t.Cleanup(func() { wb.Close() })
	return f
}

// addSheet registers sheet 0 with the given layout.
func addSheet(t *testing.T, f *Filler, spec SheetSpec) *SheetParams {
	t.Helper()
	sp, err := f.AddSheet(spec)
	require.NoError(t, err)
	return sp
}

// render completes the generation and reopens the serialized document.
func render(t *testing.T, f *Filler) *excelize.File {
	t.Helper()
	f.Complete()
	body, err := f.wb.Bytes()
	require.NoError(t, err)
	out, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return out
}

func get(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(testSheet, cell)
	require.NoError(t, err)
	return v
}

func styleOf(t *testing.T, f *excelize.File, cell string) int {
	t.Helper()
	id, err := f.GetCellStyle(testSheet, cell)
	require.NoError(t, err)
	return id
}

func merges(t *testing.T, f *excelize.File) []string {
	t.Helper()
	mcs, err := f.GetMergeCells(testSheet)
	require.NoError(t, err)
	var res []string
	for _, mc := range mcs {
		res = append(res, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	return res
}

func fill(color string) *excelize.Style {
	return &excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}}
}
