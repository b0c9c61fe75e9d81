package walk

import (
	"errors"
	"fmt"
)

// Domain errors for walk operations.
var (
	// ErrInvalidConfig indicates setup parameters that cannot start a simulation.
	ErrInvalidConfig = errors.New("walk: invalid configuration")

	// ErrSourceUnavailable indicates an entropy source could not produce a direction.
	ErrSourceUnavailable = errors.New("walk: entropy source unavailable")

	// ErrInvalidDirection indicates a value outside the four known directions.
	ErrInvalidDirection = errors.New("walk: invalid direction")
)

// ConfigurationError reports a rejected setup parameter. It is fatal at
// construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("walk: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// InvalidConfig builds a ConfigurationError for field.
func InvalidConfig(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SourceUnavailableError wraps a failed draw from a Source. It is
// recoverable: the affected tick is skipped.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("walk: source %q unavailable", e.Source)
	}
	return fmt.Sprintf("walk: source %q unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceUnavailable}
	}
	return []error{ErrSourceUnavailable, e.Err}
}

// Unavailable wraps err as a SourceUnavailableError unless it already is one.
func Unavailable(source string, err error) error {
	var sue *SourceUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return &SourceUnavailableError{Source: source, Err: err}
}
