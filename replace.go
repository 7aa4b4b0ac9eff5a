package xlreport

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type replacement struct {
	token string
	value any
}

// AddReplacement records a literal token to replace in the string cells of
// every registered sheet. Replacements run in the order they were added,
// so a longer token sharing a prefix ("MONTH+1") must come before the
// shorter one ("MONTH").
func (f *Filler) AddReplacement(token string, value any) {
	f.replacements = append(f.replacements, replacement{token: token, value: value})
}

// ApplyReplacements performs the recorded replacements once. Later calls
// do nothing.
func (f *Filler) ApplyReplacements() {
	if f.replaced || len(f.replacements) == 0 {
		return
	}
	f.replaced = true

	replaced := 0
	for _, num := range f.order {
		s := f.params[num].sheet
		for _, rd := range s.rows {
			for _, cd := range rd.Cells {
				text, ok := cd.Value.(string)
				if !ok || cd.Type != CellString {
					continue
				}
				out := text
				for _, r := range f.replacements {
					out = strings.ReplaceAll(out, r.token, replacementText(r.value))
				}
				if out != text {
					cd.Value = out
					replaced++
				}
			}
		}
	}
	f.log.Debug("replacements applied", zap.Int("tokens", len(f.replacements)), zap.Int("cells", replaced))
}

func replacementText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
