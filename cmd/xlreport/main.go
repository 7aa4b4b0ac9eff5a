// Command xlreport generates the monthly Redmine work report from an xlsx
// template.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javajack/xlreport"
	"github.com/javajack/xlreport/internal/config"
	"github.com/javajack/xlreport/internal/redmine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by the commands of one invocation.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "xlreport",
		Short:         "Fill xlsx report templates",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Logging.Level = "debug"
			}
			c.cfg = cfg
			c.logger, err = newLogger(cfg.Logging)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "xlreport.yaml", "configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(c.generateCmd(), c.describeCmd(), c.validateCmd())
	return root
}

func (c *cli) generateCmd() *cobra.Command {
	var (
		issuesPath string
		userID     int
		month      string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the monthly report of a user",
		Long: `Reads a Redmine issue export (the JSON of /issues.json with
include=journals) and writes the report of the issues the user finished
in the given month, followed by the issues still planned.

Example:
  xlreport generate --issues issues.json --user 42 --date 2024-03 --out reports/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			date, err := parseMonth(month)
			if err != nil {
				return err
			}
			issues, err := redmine.LoadIssuesFile(issuesPath)
			if err != nil {
				return err
			}
			report, err := redmine.NewExportReport(c.cfg)
			if err != nil {
				return err
			}

			res, err := xlreport.Generate(report, redmine.NewParams(issues, date, userID),
				xlreport.WithTemplate(c.cfg.Template.Path),
				xlreport.WithLogger(c.logger))
			if err != nil {
				return fmt.Errorf("generate report: %w", err)
			}

			path := outputPath(out, res.FileName)
			if err := os.WriteFile(path, res.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			c.logger.Info("report written", zap.String("path", path), zap.Int("issues", len(issues)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&issuesPath, "issues", "i", "", "Redmine issues JSON file")
	cmd.Flags().IntVarP(&userID, "user", "u", 0, "Redmine user id")
	cmd.Flags().StringVarP(&month, "date", "d", "", "report month, YYYY-MM or YYYY-MM-DD (default: current month)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default: report file name in the working directory)")
	_ = cmd.MarkFlagRequired("issues")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (c *cli) describeCmd() *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the sheets, style rows and merged regions of a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if template == "" {
				template = c.cfg.Template.Path
			}
			f := xlreport.NewFiller(xlreport.WithTemplate(template), xlreport.WithLogger(c.logger))
			text, err := f.Describe(c.sheetSpec())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "template file (default: from config)")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and its template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := redmine.ValidateConfig(c.cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			f := xlreport.NewFiller(xlreport.WithTemplate(c.cfg.Template.Path), xlreport.WithLogger(c.logger))
			issues, err := f.Validate(c.sheetSpec())
			if err != nil {
				return err
			}
			failed := false
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), issue)
				if issue.Severity == xlreport.SeverityError {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("template %s has errors", c.cfg.Template.Path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func (c *cli) sheetSpec() xlreport.SheetSpec {
	t := c.cfg.Template
	return xlreport.SheetSpec{SheetNum: t.Sheet, FirstDataRow: t.FirstDataRow, StyleRowsCount: t.StyleRows}
}

// newLogger builds a zap logger from the logging section.
func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Format != "" {
		zc.Encoding = lc.Format
	}
	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// parseMonth parses YYYY-MM or YYYY-MM-DD. An empty string means today.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM or YYYY-MM-DD)", s)
}

// outputPath resolves --out: a directory receives the report under its own
// name.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
