package xlreport

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// MimeType is the content type of generated documents.
	MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// DefaultFileName is the file name used when a report sets none.
	DefaultFileName = "report.xlsx"
)

// Report is a report body. Setup registers sheets, sets the file name and
// records token replacements; it returns false when there is nothing to
// fill. Fill emits the data rows.
type Report interface {
	Setup(f *Filler, params Params) (bool, error)
	Fill(f *Filler) error
}

// Result is a generated document.
type Result struct {
	Body     []byte
	FileName string
	MimeType string
}

// Param is one named report parameter.
type Param struct {
	Name  string
	Value any
}

// P creates a Param.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Params is the ordered parameter list passed to a report.
type Params []Param

// At returns the value at position i, or nil.
func (p Params) At(i int) any {
	if i < 0 || i >= len(p) {
		return nil
	}
	return p[i].Value
}

// Get returns the value of the first parameter named name.
func (p Params) Get(name string) (any, bool) {
	for _, prm := range p {
		if prm.Name == name {
			return prm.Value, true
		}
	}
	return nil, false
}

// String returns a string parameter, or "".
func (p Params) String(name string) string {
	v, _ := p.Get(name)
	s, _ := v.(string)
	return s
}

// Int returns an integer parameter.
func (p Params) Int(name string) (int, bool) {
	v, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	return int(f), ok
}

// Time returns a time parameter.
func (p Params) Time(name string) (time.Time, bool) {
	v, _ := p.Get(name)
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

// Generate produces a report from the configured template.
func Generate(report Report, params Params, opts ...Option) (*Result, error) {
	return NewFiller(opts...).Generate(report, params)
}

// GenerateFile produces a report from templatePath and writes it to outputPath.
func GenerateFile(report Report, params Params, templatePath, outputPath string, opts ...Option) error {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	res, err := NewFiller(allOpts...).Generate(report, params)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, res.Body, 0o644); err != nil {
		return fmt.Errorf("write output file %q: %w", outputPath, err)
	}
	return nil
}

// Generate loads a fresh copy of the template, runs the report and returns
// the serialized document. On any error no document is produced.
func (f *Filler) Generate(report Report, params Params) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.start(); err != nil {
		return nil, err
	}
	wb := f.wb
	defer func() {
		wb.Close()
		f.wb = nil
	}()

	ok, err := report.Setup(f, params)
	if err != nil {
		return nil, fmt.Errorf("setup report: %w", err)
	}
	f.ApplyReplacements()
	if ok {
		if err := report.Fill(f); err != nil {
			return nil, fmt.Errorf("fill report: %w", err)
		}
	}
	f.Complete()

	body, err := wb.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	f.log.Info("report generated", zap.String("file", f.fileName), zap.Int("bytes", len(body)))
	return &Result{Body: body, FileName: f.fileName, MimeType: MimeType}, nil
}

// start loads a fresh workbook and clears all generation state.
func (f *Filler) start() error {
	wb, err := f.openTemplate()
	if err != nil {
		return err
	}
	f.reset(wb)
	f.log.Info("template loaded", zap.String("template", f.templateName()), zap.Int("sheets", wb.SheetCount()))
	return nil
}

// openTemplate loads a fresh workbook from the configured template source.
func (f *Filler) openTemplate() (*Workbook, error) {
	if f.template == nil {
		b, err := f.readTemplate()
		if err != nil {
			return nil, err
		}
		f.template = b
	}
	return OpenWorkbook(bytes.NewReader(f.template))
}

func (f *Filler) readTemplate() ([]byte, error) {
	o := f.opts
	switch {
	case o.templateBytes != nil:
		return o.templateBytes, nil
	case o.templateReader != nil:
		b, err := io.ReadAll(o.templateReader)
		if err != nil {
			return nil, fmt.Errorf("%w: read template reader: %v", ErrInvalidTemplate, err)
		}
		return b, nil
	case o.templateFS != nil:
		b, err := fs.ReadFile(o.templateFS, o.templateName)
		if err != nil {
			return nil, fmt.Errorf("%w: read template %q: %v", ErrInvalidTemplate, o.templateName, err)
		}
		return b, nil
	case o.templatePath != "":
		b, err := os.ReadFile(o.templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: read template %q: %v", ErrInvalidTemplate, o.templatePath, err)
		}
		return b, nil
	}
	return nil, ErrNoTemplate
}

func (f *Filler) templateName() string {
	switch {
	case f.opts.templatePath != "":
		return f.opts.templatePath
	case f.opts.templateName != "":
		return f.opts.templateName
	}
	return "<reader>"
}

// Layout is a Report with a fixed set of sheets and a function body.
type Layout struct {
	Sheets   []SheetSpec
	FileName string
	Body     func(f *Filler, params Params) error

	params Params
}

// Setup registers the sheets in order and leaves the first one current.
func (l *Layout) Setup(f *Filler, params Params) (bool, error) {
	l.params = params
	for _, spec := range l.Sheets {
		if _, err := f.AddSheet(spec); err != nil {
			return false, err
		}
	}
	if len(l.Sheets) > 0 {
		if err := f.SetCurrentSheet(l.Sheets[0].SheetNum); err != nil {
			return false, err
		}
	}
	if l.FileName != "" {
		f.SetFileName(l.FileName)
	}
	return l.Body != nil, nil
}

// Fill runs the body.
func (l *Layout) Fill(f *Filler) error {
	return l.Body(f, l.params)
}
