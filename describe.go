package xlreport

import (
	"fmt"
	"sort"
	"strings"
)

// Describe opens a template and returns a human-readable overview of its
// sheets. For every spec the style rows, their cells and the merged
// regions anchored on them are listed. Useful while authoring templates.
func Describe(templatePath string, specs ...SheetSpec) (string, error) {
	return NewFiller(WithTemplate(templatePath)).Describe(specs...)
}

// Describe returns an overview of the configured template.
func (f *Filler) Describe(specs ...SheetSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wb, err := f.openTemplate()
	if err != nil {
		return "", err
	}
	defer wb.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", f.templateName())
	for _, s := range wb.sheets {
		fmt.Fprintf(&b, "#%d %s rows=%d merged=%d\n", s.Index, s.Name, s.LastRowNum()+1, s.NumMergedRegions())
	}

	for _, spec := range specs {
		s := wb.Sheet(spec.SheetNum)
		if s == nil {
			fmt.Fprintf(&b, "#%d: missing\n", spec.SheetNum)
			continue
		}
		fmt.Fprintf(&b, "%s style rows %d..%d\n", s.Name, spec.FirstDataRow+1, spec.FirstDataRow+spec.StyleRowsCount)
		for i := 0; i < spec.StyleRowsCount; i++ {
			r := spec.FirstDataRow + i
			fmt.Fprintf(&b, "  [%d] row %d height=%.2f\n", i, r+1, s.RowHeight(r))
			describeRow(&b, s, r)
			for _, m := range s.anchoredAt(r) {
				fmt.Fprintf(&b, "      merged %s (%dx%d)\n", m, m.Width(), m.Height())
			}
		}
	}
	return b.String(), nil
}

// describeRow writes one line per non-empty cell of row r.
func describeRow(b *strings.Builder, s *Sheet, r int) {
	rd := s.Row(r)
	if rd == nil {
		return
	}
	cols := make([]int, 0, len(rd.Cells))
	for c := range rd.Cells {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	for _, c := range cols {
		cd := rd.Cells[c]
		var parts []string
		switch {
		case cd.IsFormulaCell():
			parts = append(parts, "="+cd.Formula)
		case !cd.IsBlank():
			parts = append(parts, fmt.Sprintf("%s %q", cd.Type, renderText(cd.Value)))
		}
		if cd.StyleID != 0 {
			parts = append(parts, fmt.Sprintf("style=%d", cd.StyleID))
		}
		if cd.Comment != nil {
			parts = append(parts, fmt.Sprintf("comment=%q", cd.Comment.Text))
		}
		if cd.Hyperlink != nil {
			parts = append(parts, "link="+cd.Hyperlink.Target)
		}
		if len(parts) == 0 {
			continue
		}
		fmt.Fprintf(b, "    %s: %s\n", cellName(r, c), strings.Join(parts, " "))
	}
}
