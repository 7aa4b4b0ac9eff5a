// Package redmine builds the monthly work report of a Redmine user from an
// issue export.
package redmine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Ref is a named reference to another Redmine object.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CustomField is a custom field value of an issue. Multi-value fields carry
// their values in Values; single-value fields have one entry.
type CustomField struct {
	ID       int
	Name     string
	Multiple bool
	Values   []string
}

// Value returns the first value of the field, or "".
func (c *CustomField) Value() string {
	if c == nil || len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

func (c *CustomField) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       int             `json:"id"`
		Name     string          `json:"name"`
		Multiple bool            `json:"multiple"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ID, c.Name, c.Multiple = raw.ID, raw.Name, raw.Multiple
	c.Values = nil

	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
	case v[0] == '[':
		if err := json.Unmarshal(v, &c.Values); err != nil {
			return fmt.Errorf("custom field %d: %w", raw.ID, err)
		}
	default:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("custom field %d: %w", raw.ID, err)
		}
		c.Values = []string{s}
	}
	return nil
}

// JournalDetail is one attribute change recorded in a journal.
type JournalDetail struct {
	Property string `json:"property"`
	Name     string `json:"name"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Journal is one history entry of an issue.
type Journal struct {
	ID        int             `json:"id"`
	User      Ref             `json:"user"`
	CreatedOn time.Time       `json:"created_on"`
	Details   []JournalDetail `json:"details"`
}

// Issue is a Redmine issue as returned by the REST API with
// include=journals.
type Issue struct {
	ID           int           `json:"id"`
	Project      Ref           `json:"project"`
	Tracker      Ref           `json:"tracker"`
	Status       Ref           `json:"status"`
	Subject      string        `json:"subject"`
	AssignedTo   *Ref          `json:"assigned_to"`
	DoneRatio    int           `json:"done_ratio"`
	CustomFields []CustomField `json:"custom_fields"`
	Journals     []Journal     `json:"journals"`
}

// Assignee returns the name of the assigned user, or "".
func (i *Issue) Assignee() string {
	if i.AssignedTo == nil {
		return ""
	}
	return i.AssignedTo.Name
}

// CustomField returns the custom field with the given id, or nil.
func (i *Issue) CustomField(id int) *CustomField {
	for k := range i.CustomFields {
		if i.CustomFields[k].ID == id {
			return &i.CustomFields[k]
		}
	}
	return nil
}

// LoadIssues decodes issues from r. Both the API envelope
// {"issues": [...]} and a bare array are accepted.
func LoadIssues(r io.Reader) ([]Issue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read issues: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var issues []Issue
	if data[0] == '[' {
		if err := json.Unmarshal(data, &issues); err != nil {
			return nil, fmt.Errorf("decode issues: %w", err)
		}
		return issues, nil
	}
	var env struct {
		Issues []Issue `json:"issues"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return env.Issues, nil
}

// LoadIssuesFile decodes issues from a file.
func LoadIssuesFile(path string) ([]Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open issues %q: %w", path, err)
	}
	defer f.Close()
	return LoadIssues(f)
}
