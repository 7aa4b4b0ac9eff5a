// Package config holds the settings of the monthly Redmine export.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the export configuration.
type Config struct {
	Template TemplateConfig `yaml:"template"`
	Groups   []GroupConfig  `yaml:"groups"`

	// SeparatorStyle is the style row emitted between done and planned issues.
	SeparatorStyle int `yaml:"separator_style"`
	// IssueStyle is the style row of a single issue line.
	IssueStyle int `yaml:"issue_style"`

	Trackers TrackerConfig `yaml:"trackers"`

	// DoneWhen is an expression over an issue that marks it as done
	// regardless of its journal, e.g. "DoneRatio == 100".
	DoneWhen string `yaml:"done_when"`

	Logging LoggingConfig `yaml:"logging"`
}

// TemplateConfig describes the workbook template.
type TemplateConfig struct {
	Path         string `yaml:"path"`
	Sheet        int    `yaml:"sheet"`
	FirstDataRow int    `yaml:"first_data_row"`
	StyleRows    int    `yaml:"style_rows"`
}

// GroupConfig is one block of issues in the report: the projects it
// collects and the style row of its heading.
type GroupConfig struct {
	Name     string `yaml:"name"`
	Style    int    `yaml:"style"`
	Projects []int  `yaml:"projects"`
}

// TrackerConfig maps Redmine tracker names to the work type text.
type TrackerConfig struct {
	Labels  map[string]string `yaml:"labels"`
	Default string            `yaml:"default"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"`  // debug, info, warn, error
	Format      string `yaml:"format"` // json, console
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration of the stock monthly report
// template.
func DefaultConfig() *Config {
	return &Config{
		Template: TemplateConfig{
			Path:         "templates/export.xlsx",
			Sheet:        0,
			FirstDataRow: 2,
			StyleRows:    10,
		},
		Groups: []GroupConfig{
			{Name: "RIA", Style: 0, Projects: []int{17}},
			{Name: "WorkPlace, СУБД", Style: 1, Projects: []int{2, 7}},
			{Name: "Отчёты", Style: 2, Projects: []int{63}},
			{Name: "Web-сборы", Style: 3, Projects: []int{70}},
			{Name: "FM-Web", Style: 5, Projects: []int{187}},
			{Name: "Система автообновления", Style: 7, Projects: []int{39}},
		},
		SeparatorStyle: 8,
		IssueStyle:     9,
		Trackers: TrackerConfig{
			Labels: map[string]string{
				"Feature": "Доработка (chg)",
				"Task":    "Разработка (add)",
				"Bug":     "Исправление ошибок (fix)",
				"Patch":   "Доработка (chg), Рефакторинг (refact)",
			},
			Default: "Доработка (chg)",
		},
		DoneWhen: "DoneRatio == 100",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("XLREPORT_TEMPLATE"); p != "" {
		c.Template.Path = p
	}
	if lvl := os.Getenv("XLREPORT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Label returns the work type text of a tracker.
func (t TrackerConfig) Label(tracker string) string {
	if l, ok := t.Labels[tracker]; ok {
		return l
	}
	return t.Default
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	t := c.Template
	if t.Path == "" {
		return fmt.Errorf("template path not configured (set template.path or XLREPORT_TEMPLATE)")
	}
	if t.Sheet < 0 {
		return fmt.Errorf("invalid template sheet: %d", t.Sheet)
	}
	if t.FirstDataRow < 0 {
		return fmt.Errorf("invalid first data row: %d", t.FirstDataRow)
	}
	if t.StyleRows <= 0 {
		return fmt.Errorf("invalid style rows count: %d", t.StyleRows)
	}

	inRange := func(what string, style int) error {
		if style < 0 || style >= t.StyleRows {
			return fmt.Errorf("%s style row %d not in [0, %d)", what, style, t.StyleRows)
		}
		return nil
	}
	for _, g := range c.Groups {
		if err := inRange(fmt.Sprintf("group %q", g.Name), g.Style); err != nil {
			return err
		}
		if len(g.Projects) == 0 {
			return fmt.Errorf("group %q has no projects", g.Name)
		}
	}
	if err := inRange("separator", c.SeparatorStyle); err != nil {
		return err
	}
	if err := inRange("issue", c.IssueStyle); err != nil {
		return err
	}

	valid := false
	for _, l := range validLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, validLevels)
	}
	return nil
}
