package xlreport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/number"
)

// Number formats by decimal precision.
var precisionFormats = []string{"#,##0", "#,##0.0", "#,##0.00", "#,##0.000"}

// Divider measures: rubles, thousands, millions, billions.
var (
	dividers     = []float64{1, 1e3, 1e6, 1e9}
	dividerTexts = []string{"руб.", "тыс. руб.", "млн. руб.", "млрд. руб."}
)

const unknownMeasure = "Неизвестные единицы"

// PrecisionFormat returns the number format with p decimals. A negative p
// means the default of two decimals and anything above 3 is capped at 3.
func PrecisionFormat(p int) string {
	if p < 0 {
		p = 2
	}
	return precisionFormats[min(p, len(precisionFormats)-1)]
}

// PercentFormat is PrecisionFormat for percentages.
func PercentFormat(p int) string {
	return PrecisionFormat(p) + "%"
}

// Divider returns the divider and its unit text for a measure code.
func Divider(measure int) (float64, string) {
	if measure < 0 || measure >= len(dividers) {
		return 1, unknownMeasure
	}
	return dividers[measure], dividerTexts[measure]
}

// DividerText returns the unit text of a divider.
func DividerText(d float64) string {
	for i, v := range dividers {
		if v == d {
			return dividerTexts[i]
		}
	}
	return fmt.Sprintf("1/{%s} руб.", strconv.FormatFloat(d, 'f', -1, 64))
}

// Divide returns value/divider, multiplied by 100 when percent is set. It
// returns nil when either operand is absent or the divider is zero.
func Divide(value, divider any, percent bool) any {
	d, ok := toFloat(divider)
	if !ok || d == 0 {
		return nil
	}
	v, ok := toFloat(value)
	if !ok {
		return nil
	}
	res := v / d
	if percent {
		res *= 100
	}
	return res
}

// FormatNumber renders v the way a spreadsheet's General format shows it,
// with the locale's decimal separator and no grouping.
func (f *Filler) FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return f.printer.Sprint(number.Decimal(v, number.NoSeparator(), number.MaxFractionDigits(10)))
}

// renderText returns the plain text of a cell value.
func renderText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.Format("02.01.2006")
	case RichText:
		var b strings.Builder
		for _, r := range x {
			b.WriteString(r.Text)
		}
		return b.String()
	default:
		return fmt.Sprint(x)
	}
}
