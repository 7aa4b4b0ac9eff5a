package xlreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestNullSum(t *testing.T) {
	assert.Nil(t, NullSum(nil, nil))
	assert.Nil(t, NullSum())
	assert.Equal(t, 5.0, NullSum(nil, 5.0))
	assert.Equal(t, 7.0, NullSum(3.0, 4.0))
	assert.Equal(t, 7.0, NullSum(3, int64(4), "ignored"))
}

func TestZeroSum(t *testing.T) {
	assert.Equal(t, 0.0, ZeroSum(nil, nil))
	assert.Equal(t, 5.5, ZeroSum(nil, 5.5))
	assert.Equal(t, 3.0, ZeroSum(uint8(1), float32(2)))
}

func TestFloatAndNullList(t *testing.T) {
	assert.Equal(t, 0.0, Float(nil))
	assert.Equal(t, 0.0, Float("1"))
	assert.Equal(t, 12.0, Float(int16(12)))
	assert.Equal(t, []any{nil, nil, nil}, NullList(3))
	assert.Empty(t, NullList(-1))
}

func TestCellData_SetValue(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		in    any
		ok    bool
		typ   CellType
		value any
	}{
		{"nil", nil, false, CellBlank, nil},
		{"string", "text", true, CellString, "text"},
		{"bool", true, true, CellBoolean, true},
		{"int", 7, true, CellNumber, 7.0},
		{"uint64", uint64(9), true, CellNumber, 9.0},
		{"float32", float32(1.5), true, CellNumber, 1.5},
		{"time", now, true, CellDate, now},
		{"time pointer", &now, true, CellDate, now},
		{"nil time pointer", (*time.Time)(nil), false, CellBlank, nil},
		{"link", Link("#Sheet2!A1", "go"), true, CellString, "go"},
		{"unsupported", []int{1}, false, CellBlank, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := &CellData{}
			assert.Equal(t, tt.ok, cd.SetValue(tt.in))
			assert.Equal(t, tt.typ, cd.Type)
			assert.Equal(t, tt.value, cd.Value)
		})
	}
}

func TestCellData_SetValueFormulaAndRichText(t *testing.T) {
	cd := &CellData{Value: "old", Type: CellString}
	assert.True(t, cd.SetValue(Formula("A1*2")))
	assert.True(t, cd.IsFormulaCell())
	assert.Nil(t, cd.Value)

	runs := RichText{{Text: "bold", Font: &excelize.Font{Bold: true}}, {Text: " plain"}}
	assert.True(t, cd.SetValue(runs))
	assert.False(t, cd.IsFormulaCell())
	assert.Equal(t, CellRichText, cd.Type)
	assert.Equal(t, "bold plain", renderText(cd.Value))
}

func TestCellData_SetValueLinkType(t *testing.T) {
	cd := &CellData{}
	cd.SetValue(Link("#Sheet2!A1", ""))
	assert.Equal(t, "Location", cd.Hyperlink.Type)
	assert.Equal(t, "#Sheet2!A1", cd.Value)

	cd.SetValue(Link("https://example.com", "site"))
	assert.Equal(t, "External", cd.Hyperlink.Type)
}

func TestCellData_Clone(t *testing.T) {
	cd := &CellData{Value: "v", Type: CellString, StyleID: 3,
		Comment: &Comment{Text: "note"}, Hyperlink: &Hyperlink{Target: "x"}}
	c := cd.Clone()
	c.Comment.Text = "changed"
	c.Hyperlink.Target = "y"
	assert.Equal(t, "note", cd.Comment.Text)
	assert.Equal(t, "x", cd.Hyperlink.Target)
	assert.Equal(t, 3, c.StyleID)

	cd.SetBlank()
	assert.True(t, cd.IsBlank())
	assert.Equal(t, 3, cd.StyleID)
}
