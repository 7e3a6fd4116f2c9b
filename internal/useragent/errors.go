package useragent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOption is wrapped by every ConfigurationError.
	ErrInvalidOption = errors.New("invalid option")

	// ErrNoMatch is wrapped by ResolutionError when no record satisfies the filters.
	ErrNoMatch = errors.New("no matching user agent")

	// ErrSafeAttr is returned by Get for names listed in Options.SafeAttrs.
	ErrSafeAttr = errors.New("name is reserved")
)

// ConfigurationError reports an invalid construction option. Construction is
// rejected as a whole; no partially configured engine is returned.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("useragent: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrInvalidOption, e.Err}
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// ResolutionError is returned when a requested browser matches no record and
// fallback is disabled. Key holds the name exactly as requested.
type ResolutionError struct {
	Key        string
	Normalized string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("useragent: error occurred during getting browser: %s", e.Key)
}

func (e *ResolutionError) Unwrap() error {
	return ErrNoMatch
}

// LoadError reports a malformed dataset line.
type LoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("useragent: %s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
