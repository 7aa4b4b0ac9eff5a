package xlreport

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTemplate is returned when no template source was configured.
	ErrNoTemplate = errors.New("no template specified: use WithTemplate, WithTemplateReader, WithTemplateBytes or WithTemplateFS")
	// ErrInvalidTemplate wraps failures to load or parse the template resource.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrStyleRowOutOfRange is returned in strict mode for a style index
	// outside the registered style rows.
	ErrStyleRowOutOfRange = errors.New("style row index out of range")
	// ErrNoSheet is returned when an operation needs an active sheet and
	// none has been registered.
	ErrNoSheet = errors.New("no sheet registered")
	// ErrAlreadyCompleted is returned when rows are added after Complete.
	ErrAlreadyCompleted = errors.New("report already completed")
)

// TemplateSheetsError reports a template with fewer sheets than a report
// tries to register.
type TemplateSheetsError struct {
	Required  int
	Available int
}

func (e *TemplateSheetsError) Error() string {
	return fmt.Sprintf("template error: required sheet #%d, template has only %d", e.Required, e.Available)
}

// Unwrap lets errors.Is match ErrInvalidTemplate.
func (e *TemplateSheetsError) Unwrap() error {
	return ErrInvalidTemplate
}
