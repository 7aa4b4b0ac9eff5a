package xlreport

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // generation will fail or skip rows
	SeverityWarning                 // output may look unexpected
)

// ValidationIssue represents a single problem found during template validation.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// Validate checks that the sheet layouts fit a template without generating
// anything. A non-nil error means the template could not be opened.
func Validate(templatePath string, specs ...SheetSpec) ([]ValidationIssue, error) {
	return NewFiller(WithTemplate(templatePath)).Validate(specs...)
}

// Validate checks the sheet layouts against the configured template.
func (f *Filler) Validate(specs ...SheetSpec) ([]ValidationIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wb, err := f.openTemplate()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var issues []ValidationIssue
	for _, spec := range specs {
		issues = append(issues, validateSheet(wb, spec)...)
	}
	return issues, nil
}

func validateSheet(wb *Workbook, spec SheetSpec) []ValidationIssue {
	s := wb.Sheet(spec.SheetNum)
	if s == nil {
		return []ValidationIssue{{
			Severity: SeverityError,
			Message:  (&TemplateSheetsError{Required: spec.SheetNum + 1, Available: wb.SheetCount()}).Error(),
		}}
	}

	var issues []ValidationIssue
	at := func(r, c int) CellRef { return NewCellRef(s.Name, r, c) }

	if spec.FirstDataRow < 0 || spec.StyleRowsCount < 0 {
		return append(issues, ValidationIssue{
			Severity: SeverityError,
			CellRef:  at(0, 0),
			Message:  fmt.Sprintf("invalid layout: first data row %d, style rows %d", spec.FirstDataRow, spec.StyleRowsCount),
		})
	}

	lastStyle := spec.FirstDataRow + spec.StyleRowsCount - 1
	if lastStyle > s.LastRowNum() {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			CellRef:  at(lastStyle, 0),
			Message:  fmt.Sprintf("style rows end at row %d but the sheet ends at row %d", lastStyle+1, s.LastRowNum()+1),
		})
	}

	for i := 0; i < spec.StyleRowsCount; i++ {
		r := spec.FirstDataRow + i
		if s.Row(r) == nil {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  at(r, 0),
				Message:  fmt.Sprintf("style row %d is empty", i),
			})
		}
	}

	for _, m := range s.merges {
		if m.FirstRow <= lastStyle && m.LastRow > lastStyle && m.FirstRow >= spec.FirstDataRow {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  at(m.FirstRow, m.FirstCol),
				Message:  fmt.Sprintf("merged region %s extends below the style rows", m),
			})
		}
	}

	for _, c := range spec.SumColumns {
		found := false
		for r := spec.FirstDataRow; r <= lastStyle; r++ {
			if s.Cell(r, c) != nil {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  at(spec.FirstDataRow, c),
				Message:  fmt.Sprintf("sum column %s has no cells in the style rows", ColToName(c)),
			})
		}
	}
	return issues
}
