package due

import "fmt"

type ParseKind string

const (
	ParseUnsupportedLength ParseKind = "unsupported timestamp length"
	ParseMalformed         ParseKind = "malformed"
)

type ParseError struct {
	Raw  string
	Kind ParseKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Kind == ParseUnsupportedLength {
		return fmt.Sprintf("parse due date %q: %s (%d)", e.Raw, e.Kind, len(e.Raw))
	}
	if e.Err != nil {
		return fmt.Sprintf("parse due date %q: %s: %v", e.Raw, e.Kind, e.Err)
	}
	return fmt.Sprintf("parse due date %q: %s", e.Raw, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type TimezoneError struct {
	Name string
	Err  error
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q", e.Name)
}

func (e *TimezoneError) Unwrap() error {
	return e.Err
}
