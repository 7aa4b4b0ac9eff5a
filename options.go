package xlreport

import (
	"io"
	"io/fs"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Options holds configuration for the Filler.
type Options struct {
	templatePath   string
	templateReader io.Reader
	templateBytes  []byte
	templateFS     fs.FS
	templateName   string
	fileName       string
	locale         language.Tag
	strictStyles   bool
	logger         *zap.Logger
}

func defaultOptions() *Options {
	return &Options{
		fileName: DefaultFileName,
		locale:   language.Russian,
		logger:   zap.NewNop(),
	}
}

// Option configures the Filler.
type Option func(*Options)

// WithTemplate sets the template file path.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithTemplateReader sets the template as an io.Reader. The reader is
// drained on first use and kept in memory, so later generations still start
// from the pristine template.
func WithTemplateReader(r io.Reader) Option {
	return func(o *Options) { o.templateReader = r }
}

// WithTemplateBytes sets the template content directly.
func WithTemplateBytes(b []byte) Option {
	return func(o *Options) { o.templateBytes = b }
}

// WithTemplateFS reads the template named name from fsys, typically an
// embed.FS packaged alongside the report.
func WithTemplateFS(fsys fs.FS, name string) Option {
	return func(o *Options) {
		o.templateFS = fsys
		o.templateName = name
	}
}

// WithFileName sets the default output file name (default: "report.xlsx").
func WithFileName(name string) Option {
	return func(o *Options) { o.fileName = name }
}

// WithLocale sets the locale used when numbers are re-rendered as text
// (default: Russian).
func WithLocale(tag language.Tag) Option {
	return func(o *Options) { o.locale = tag }
}

// WithStrictStyleRows makes AddRow return ErrStyleRowOutOfRange for an
// unknown style row instead of skipping the row.
func WithStrictStyleRows(strict bool) Option {
	return func(o *Options) { o.strictStyles = strict }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
