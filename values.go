package xlreport

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// Formula is formula text written to a cell as-is, without the leading "=".
// Formulas are never evaluated.
type Formula string

// RichText is a run-formatted text value.
type RichText []excelize.RichTextRun

// SetValue writes v into the cell according to its runtime kind and reports
// whether anything was written. Unsupported kinds and nil are silently
// ignored: drivers paste heterogeneous data and rely on that.
func (cd *CellData) SetValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		cd.set(x, CellString)
	case bool:
		cd.set(x, CellBoolean)
	case time.Time:
		cd.set(x, CellDate)
	case *time.Time:
		if x == nil {
			return false
		}
		cd.set(*x, CellDate)
	case Formula:
		cd.Value = nil
		cd.Type = CellFormula
		cd.Formula = string(x)
	case RichText:
		cd.set(append(RichText(nil), x...), CellRichText)
	case HyperlinkValue:
		cd.set(x.String(), CellString)
		cd.Hyperlink = &Hyperlink{Target: x.URL, Type: x.linkType()}
	default:
		f, ok := toFloat(v)
		if !ok {
			return false
		}
		cd.set(f, CellNumber)
	}
	return true
}

func (cd *CellData) set(v any, t CellType) {
	cd.Value = v
	cd.Type = t
	cd.Formula = ""
}

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// NullSum adds the numeric operands. Absent (nil) operands do not
// contribute and an all-absent input yields nil. Non-numeric operands
// count as absent.
func NullSum(values ...any) any {
	var sum float64
	present := false
	for _, v := range values {
		if f, ok := toFloat(v); ok {
			sum += f
			present = true
		}
	}
	if !present {
		return nil
	}
	return sum
}

// ZeroSum is like NullSum but an all-absent input yields 0.
func ZeroSum(values ...any) float64 {
	var sum float64
	for _, v := range values {
		if f, ok := toFloat(v); ok {
			sum += f
		}
	}
	return sum
}

// Float returns v as float64 and 0 for nil or non-numeric values.
func Float(v any) float64 {
	f, _ := toFloat(v)
	return f
}

// NullList returns a slice of n nils.
func NullList(n int) []any {
	if n < 0 {
		n = 0
	}
	return make([]any, n)
}
