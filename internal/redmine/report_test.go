package redmine

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/javajack/xlreport"
	"github.com/javajack/xlreport/internal/config"
)

var headings = []string{"№", "Пункт", "Задача", "ID", "Вид работ", "Исполнитель", "Результат"}

// exportTemplate builds the monthly report template: a title, column
// headings, ten style rows and a footer.
func exportTemplate(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	require.NoError(t, f.SetCellValue(sheet, "A1", "Отчёт за MOUNTH YEAR"))
	for c, h := range headings {
		require.NoError(t, f.SetCellValue(sheet, xlreport.ColToName(c)+"2", h))
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	border, err := f.NewStyle(&excelize.Style{
		Border:    []excelize.Border{{Type: "left", Color: "000000", Style: 1}},
		Alignment: &excelize.Alignment{WrapText: true},
	})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		cell := fmt.Sprintf("A%d", 3+i)
		require.NoError(t, f.SetCellValue(sheet, cell, fmt.Sprintf("group %d", i)))
		require.NoError(t, f.SetCellStyle(sheet, cell, cell, bold))
		require.NoError(t, f.MergeCell(sheet, cell, fmt.Sprintf("G%d", 3+i)))
	}
	require.NoError(t, f.SetCellValue(sheet, "A11", "План"))
	require.NoError(t, f.SetCellStyle(sheet, "A12", "G12", border))
	require.NoError(t, f.SetRowHeight(sheet, 12, 30))
	require.NoError(t, f.SetCellValue(sheet, "A13", "План на MOUNTH+1 YEAR+1"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func testIssues() []Issue {
	cf := func(item, result string) []CustomField {
		return []CustomField{
			{ID: 1, Name: "Пункт", Values: []string{item}},
			{ID: 6, Name: "Результат", Multiple: true, Values: []string{result}},
		}
	}
	ivanov := &Ref{ID: 5, Name: "Иванов И.И."}
	return []Issue{
		{ID: 101, Project: Ref{ID: 17}, Tracker: Ref{Name: "Bug"}, Subject: "Fix export", AssignedTo: ivanov,
			DoneRatio: 100, CustomFields: cf("П.1", "build 7"), Journals: []Journal{closedIn(5, day(2024, time.March, 10))}},
		{ID: 102, Project: Ref{ID: 7}, Tracker: Ref{Name: "Feature"}, Subject: "Index tuning", AssignedTo: ivanov,
			DoneRatio: 50, CustomFields: cf("П.2", "patch 3"), Journals: []Journal{closedIn(5, day(2024, time.March, 20))}},
		{ID: 103, Project: Ref{ID: 2}, Tracker: Ref{Name: "Task"}, Subject: "Done last year", AssignedTo: ivanov,
			DoneRatio: 100},
		{ID: 104, Project: Ref{ID: 63}, Tracker: Ref{Name: "Patch"}, Subject: "Refactor forms", AssignedTo: ivanov,
			DoneRatio: 30, CustomFields: cf("П.3", "")},
		{ID: 105, Project: Ref{ID: 17}, Tracker: Ref{Name: "Support"}, Subject: "Answer questions", AssignedTo: ivanov,
			Journals: []Journal{closedIn(9, day(2024, time.March, 2))}},
		{ID: 106, Project: Ref{ID: 999}, Tracker: Ref{Name: "Bug"}, Subject: "Other project", AssignedTo: ivanov},
	}
}

func generate(t *testing.T, issues []Issue, date time.Time, opts ...xlreport.Option) (*xlreport.Result, *excelize.File) {
	t.Helper()
	report, err := NewExportReport(config.DefaultConfig())
	require.NoError(t, err)

	opts = append([]xlreport.Option{xlreport.WithTemplateBytes(exportTemplate(t))}, opts...)
	res, err := xlreport.Generate(report, NewParams(issues, date, 5), opts...)
	require.NoError(t, err)

	out, err := excelize.OpenReader(bytes.NewReader(res.Body))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return res, out
}

func rowValues(t *testing.T, f *excelize.File, row int) []string {
	t.Helper()
	vals := make([]string, len(headings))
	for c := range headings {
		v, err := f.GetCellValue("Sheet1", fmt.Sprintf("%s%d", xlreport.ColToName(c), row))
		require.NoError(t, err)
		vals[c] = v
	}
	return vals
}

func cell(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	v, err := f.GetCellValue("Sheet1", name)
	require.NoError(t, err)
	return v
}

func TestExportReport_Generate(t *testing.T) {
	res, out := generate(t, testIssues(), day(2024, time.March, 15))

	assert.Equal(t, "Иванов И.И._отчёт за март.xlsx", res.FileName)
	assert.Equal(t, xlreport.MimeType, res.MimeType)

	assert.Equal(t, "Отчёт за март 2024", cell(t, out, "A1"))
	assert.Equal(t, headings, rowValues(t, out, 2))

	assert.Equal(t, "group 0", cell(t, out, "A3"))
	assert.Equal(t, []string{"1", "П.1", "Fix export", "101", "Исправление ошибок (fix)", "Иванов И.И.", "build 7"}, rowValues(t, out, 4))
	assert.Equal(t, "group 1", cell(t, out, "A5"))
	assert.Equal(t, []string{"2", "П.2", "Index tuning", "102", "Доработка (chg)", "Иванов И.И.", "patch 3"}, rowValues(t, out, 6))
	assert.Equal(t, "План", cell(t, out, "A7"))

	assert.Equal(t, "group 0", cell(t, out, "A8"))
	assert.Equal(t, []string{"1", "", "Answer questions", "105", "Доработка (chg)", "", ""}, rowValues(t, out, 9))
	assert.Equal(t, "group 2", cell(t, out, "A10"))
	assert.Equal(t, []string{"2", "П.3", "Refactor forms", "104", "Доработка (chg), Рефакторинг (refact)", "", ""}, rowValues(t, out, 11))

	assert.Equal(t, "План на апрель 2024", cell(t, out, "A12"))
	assert.Equal(t, "", cell(t, out, "A13"))
	assert.Equal(t, "", cell(t, out, "A14"))
}

func TestExportReport_HeadingsStayMerged(t *testing.T) {
	_, out := generate(t, testIssues(), day(2024, time.March, 15))

	mcs, err := out.GetMergeCells("Sheet1")
	require.NoError(t, err)
	var got []string
	for _, mc := range mcs {
		got = append(got, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"A3:G3", "A5:G5", "A8:G8", "A10:G10"}, got)
}

func TestExportReport_IssueRowsAutoHeight(t *testing.T) {
	_, out := generate(t, testIssues(), day(2024, time.March, 15))

	h, err := out.GetRowHeight("Sheet1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, 30.0, h)
}

func TestExportReport_NoIssues(t *testing.T) {
	res, out := generate(t, nil, day(2024, time.December, 5))

	assert.Equal(t, "отчёт за декабрь.xlsx", res.FileName)
	assert.Equal(t, "Отчёт за декабрь 2024", cell(t, out, "A1"))
	assert.Equal(t, "План", cell(t, out, "A3"))
	assert.Equal(t, "План на январь 2024", cell(t, out, "A4"))
	assert.Equal(t, "", cell(t, out, "A5"))
}

func TestExportReport_NovemberPlansNextYear(t *testing.T) {
	_, out := generate(t, nil, day(2024, time.November, 5))
	assert.Equal(t, "Отчёт за ноябрь 2025", cell(t, out, "A1"))
	assert.Equal(t, "План на декабрь 2025", cell(t, out, "A4"))
}

func TestExportReport_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	generate(t, testIssues(), day(2024, time.March, 15), xlreport.WithLogger(zap.New(core)))

	split := logs.FilterMessage("issues split").All()
	require.Len(t, split, 1)
	fields := split[0].ContextMap()
	assert.EqualValues(t, 2, fields["finished"])
	assert.EqualValues(t, 3, fields["planned"])
}

func TestExportReport_SetupErrors(t *testing.T) {
	report, err := NewExportReport(config.DefaultConfig())
	require.NoError(t, err)
	tmpl := xlreport.WithTemplateBytes(exportTemplate(t))

	_, err = xlreport.Generate(report, xlreport.Params{xlreport.P(ParamIssues, []Issue{})}, tmpl)
	assert.ErrorContains(t, err, `parameter "date" is required`)

	_, err = xlreport.Generate(report, xlreport.Params{
		xlreport.P(ParamIssues, "nope"),
		xlreport.P(ParamDate, day(2024, time.March, 1)),
		xlreport.P(ParamUser, 5),
	}, tmpl)
	assert.ErrorContains(t, err, "unexpected type string")

	cfg := config.DefaultConfig()
	cfg.Template.Sheet = 3
	report, err = NewExportReport(cfg)
	require.NoError(t, err)
	_, err = xlreport.Generate(report, NewParams(nil, day(2024, time.March, 1), 5), tmpl)
	var sheetsErr *xlreport.TemplateSheetsError
	assert.ErrorAs(t, err, &sheetsErr)
	assert.ErrorIs(t, err, xlreport.ErrInvalidTemplate)
}

func TestNewExportReport_BadPredicate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DoneWhen = "DoneRatio =="
	_, err := NewExportReport(cfg)
	assert.ErrorContains(t, err, "done_when")
}

func TestFileName(t *testing.T) {
	date := day(2024, time.May, 1)
	assert.Equal(t, "отчёт за май.xlsx", FileName(nil, date))
	assert.Equal(t, "отчёт за май.xlsx", FileName([]Issue{{ID: 1}}, date))
	assert.Equal(t, "Петров_отчёт за май.xlsx", FileName([]Issue{{AssignedTo: &Ref{Name: "Петров"}}}, date))
}
