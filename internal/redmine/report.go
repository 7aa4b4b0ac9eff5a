package redmine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javajack/xlreport"
	"github.com/javajack/xlreport/internal/config"
)

// Parameter names of the export report.
const (
	ParamIssues = "issues"
	ParamDate   = "date"
	ParamUser   = "user"
)

// Custom fields written to the report.
const (
	fieldWorkItem = 1 // plan item the issue belongs to
	fieldResult   = 6 // delivered artifact
)

// ExportReport is the monthly work report: the issues a user finished in
// the report month grouped by project, followed by the issues still
// planned.
type ExportReport struct {
	cfg  *config.Config
	done *Predicate

	issues []Issue
	date   time.Time
	user   int
}

// NewExportReport creates the report for cfg.
func NewExportReport(cfg *config.Config) (*ExportReport, error) {
	done, err := CompilePredicate(cfg.DoneWhen)
	if err != nil {
		return nil, fmt.Errorf("done_when: %w", err)
	}
	return &ExportReport{cfg: cfg, done: done}, nil
}

// NewParams builds the report parameters.
func NewParams(issues []Issue, date time.Time, userID int) xlreport.Params {
	return xlreport.Params{
		xlreport.P(ParamIssues, issues),
		xlreport.P(ParamDate, date),
		xlreport.P(ParamUser, userID),
	}
}

// FileName returns the document name for a report over issues in the month
// of date.
func FileName(issues []Issue, date time.Time) string {
	name := fmt.Sprintf("отчёт за %s.xlsx", MonthName(int(date.Month()), false))
	if len(issues) > 0 && issues[0].Assignee() != "" {
		return issues[0].Assignee() + "_" + name
	}
	return name
}

func (r *ExportReport) Setup(f *xlreport.Filler, params xlreport.Params) (bool, error) {
	v, _ := params.Get(ParamIssues)
	issues, ok := v.([]Issue)
	if !ok && v != nil {
		return false, fmt.Errorf("parameter %q: unexpected type %T", ParamIssues, v)
	}
	date, ok := params.Time(ParamDate)
	if !ok {
		return false, fmt.Errorf("parameter %q is required", ParamDate)
	}
	user, ok := params.Int(ParamUser)
	if !ok {
		return false, fmt.Errorf("parameter %q is required", ParamUser)
	}
	r.issues, r.date, r.user = issues, date, user

	t := r.cfg.Template
	if _, err := f.AddSheet(xlreport.SheetSpec{
		SheetNum:       t.Sheet,
		FirstDataRow:   t.FirstDataRow,
		StyleRowsCount: t.StyleRows,
	}); err != nil {
		return false, err
	}

	f.SetFileName(FileName(issues, date))
	f.AddReplacement("MOUNTH+1", CurrentMonthName(date, 1))
	f.AddReplacement("MOUNTH", CurrentMonthName(date, 0))
	f.AddReplacement("YEAR+1", CurrentYear(date))
	f.AddReplacement("YEAR", CurrentYear(date))
	return true, nil
}

func (r *ExportReport) Fill(f *xlreport.Filler) error {
	finished, planned, err := split(r.issues, r.done, r.user, r.date)
	if err != nil {
		return err
	}
	f.Logger().Debug("issues split",
		zap.Int("user", r.user),
		zap.Int("finished", len(finished)),
		zap.Int("planned", len(planned)))

	if err := r.writeGroups(f, finished, false); err != nil {
		return err
	}
	if err := f.AddRow(r.cfg.SeparatorStyle); err != nil {
		return err
	}
	return r.writeGroups(f, planned, true)
}

// writeGroups emits a heading row per configured group that has issues,
// each followed by its issue rows. Issues are numbered from 1 across
// groups. Planned issues carry no assignee.
func (r *ExportReport) writeGroups(f *xlreport.Filler, issues []*Issue, plan bool) error {
	index := 1
	for _, g := range r.cfg.Groups {
		members := inProjects(issues, g.Projects)
		if len(members) == 0 {
			continue
		}
		if err := f.AddRow(g.Style); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		for _, i := range members {
			assignee := i.Assignee()
			if plan {
				assignee = ""
			}
			err := f.AddRow(r.cfg.IssueStyle,
				index,
				fieldValue(i, fieldWorkItem),
				i.Subject,
				i.ID,
				r.cfg.Trackers.Label(i.Tracker.Name),
				assignee,
				i.CustomField(fieldResult).Value(),
			)
			if err != nil {
				return fmt.Errorf("issue %d: %w", i.ID, err)
			}
			if err := f.SetAutoHeightCurrentRow(); err != nil {
				return err
			}
			index++
		}
	}
	return nil
}

func inProjects(issues []*Issue, projects []int) []*Issue {
	var out []*Issue
	for _, i := range issues {
		for _, p := range projects {
			if i.Project.ID == p {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// fieldValue returns the value of a custom field, or nil when the issue
// has none.
func fieldValue(i *Issue, id int) any {
	cf := i.CustomField(id)
	if cf == nil || len(cf.Values) == 0 {
		return nil
	}
	return cf.Values[0]
}
