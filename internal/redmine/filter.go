package redmine

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/javajack/xlreport/internal/config"
)

// Predicate is a compiled boolean expression over an issue.
type Predicate struct {
	source  string
	program *vm.Program
}

// issueEnv is the environment a predicate sees.
func issueEnv(i *Issue) map[string]any {
	fields := make(map[string]any, len(i.CustomFields))
	for _, cf := range i.CustomFields {
		fields[cf.Name] = cf.Value()
	}
	return map[string]any{
		"ID":           i.ID,
		"Project":      i.Project.Name,
		"ProjectID":    i.Project.ID,
		"Tracker":      i.Tracker.Name,
		"Status":       i.Status.Name,
		"Subject":      i.Subject,
		"Assignee":     i.Assignee(),
		"DoneRatio":    i.DoneRatio,
		"CustomFields": fields,
	}
}

// CompilePredicate compiles source against the issue environment. An
// empty source never matches.
func CompilePredicate(source string) (*Predicate, error) {
	if source == "" {
		return &Predicate{}, nil
	}
	program, err := expr.Compile(source, expr.Env(issueEnv(&Issue{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", source, err)
	}
	return &Predicate{source: source, program: program}, nil
}

// Match evaluates the predicate for an issue.
func (p *Predicate) Match(i *Issue) (bool, error) {
	if p.program == nil {
		return false, nil
	}
	out, err := expr.Run(p.program, issueEnv(i))
	if err != nil {
		return false, fmt.Errorf("evaluate predicate %q for issue %d: %w", p.source, i.ID, err)
	}
	b, _ := out.(bool)
	return b, nil
}

// String returns the predicate source.
func (p *Predicate) String() string {
	return p.source
}

// ValidateConfig checks that the expressions of cfg compile.
func ValidateConfig(cfg *config.Config) error {
	if _, err := CompilePredicate(cfg.DoneWhen); err != nil {
		return fmt.Errorf("done_when: %w", err)
	}
	return nil
}

// closedBy reports whether a journal entry made by userID within
// [from, to) set the done ratio of the issue to 100.
func closedBy(i *Issue, userID int, from, to time.Time) bool {
	for _, j := range i.Journals {
		if j.User.ID != userID || j.CreatedOn.Before(from) || !j.CreatedOn.Before(to) {
			continue
		}
		for _, d := range j.Details {
			if d.Name == "done_ratio" && d.NewValue == "100" {
				return true
			}
		}
	}
	return false
}

// split divides issues into those the user finished in the month of date
// and those still planned. An issue counts as finished when a journal of
// the user in that month set its done ratio to 100. Issues matching done
// but without such a journal were finished elsewhere and are left out.
func split(issues []Issue, done *Predicate, userID int, date time.Time) (finished, planned []*Issue, err error) {
	from, to := monthBounds(date)
	for k := range issues {
		i := &issues[k]
		if closedBy(i, userID, from, to) {
			finished = append(finished, i)
			continue
		}
		ok, err := done.Match(i)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			planned = append(planned, i)
		}
	}
	return finished, planned, nil
}
