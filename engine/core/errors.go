package core

import (
	"errors"
	"fmt"
)

var (
	ErrIO              = errors.New("source unreadable")
	ErrMalformedVertex = errors.New("malformed vertex")
	ErrMalformedFace   = errors.New("malformed face")
	ErrNumericParse    = errors.New("numeric parse failure")
)

// ParseError reports a failed geometry load. Kind is one of the sentinel
// errors above; Line is 1-based and zero when the failure is not tied to
// a line (opening the source, for instance).
type ParseError struct {
	Kind   error
	Source string
	Line   int
	Text   string
	Err    error
}

func NewParseError(kind error, source string, line int, text string, err error) *ParseError {
	return &ParseError{
		Kind:   kind,
		Source: source,
		Line:   line,
		Text:   text,
		Err:    err,
	}
}

func (e *ParseError) Error() string {
	var msg string
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Kind, e.Text)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause so errors.Is matches either.
func (e *ParseError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
