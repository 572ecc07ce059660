package render

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is returned when the configured template file
	// does not exist. No document is produced.
	ErrTemplateNotFound = errors.New("template file not found")

	// ErrUnsupportedTemplate is returned for template file kinds the
	// renderer has no strategy for.
	ErrUnsupportedTemplate = errors.New("unsupported template file kind")

	// ErrMalformedTemplate is returned when the template file exists but
	// cannot be opened or parsed.
	ErrMalformedTemplate = errors.New("malformed template file")
)

// RenderError wraps errors with context about the failed render.
type RenderError struct {
	// Op is the operation that failed (e.g. "RenderXLSX").
	Op string

	// Template is the template file involved.
	Template string

	// Err is the underlying error.
	Err error
}

func (e *RenderError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("render: %s failed (template: %s): %v", e.Op, e.Template, e.Err)
	}
	return fmt.Sprintf("render: %s failed: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newRenderError(op, template string, err error) *RenderError {
	return &RenderError{Op: op, Template: template, Err: err}
}
