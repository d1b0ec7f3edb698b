package veil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownDomain indicates a domain name that is not registered.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrInvalidConfig indicates the obfuscator configuration is unusable.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrMalformedToken indicates a token without the expected prefix or with
	// a body that does not decode to a single identifier.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidValue indicates numeric input that is not a non-negative integer.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidParam indicates a boundary parameter could not be transformed.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrMissingParam indicates a marked parameter position has no value.
	ErrMissingParam = errors.New("missing parameter")

	// ErrTransform indicates a field of a result could not be transformed.
	ErrTransform = errors.New("transform failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents a configuration error detected at startup.
// It wraps a sentinel error with context about the field and domain.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrUnknownDomain, etc.)
	Field  string // Field name that triggered the error
	Domain string // Domain name that was missing/invalid
	Reason string // Extra detail, if any
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Domain != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Domain)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Field)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error during field transformation.
// It wraps a sentinel error with context about which field failed.
type TransformError struct {
	Err    error  // Underlying sentinel error (ErrTransform)
	Field  string // Field path that failed
	Domain string // Domain applied to the field
	Cause  error  // Original error from the obfuscator
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transform field %s (%s): %v", e.Field, e.Domain, e.Cause)
	}
	return fmt.Sprintf("transform field %s (%s)", e.Field, e.Domain)
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *TransformError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// ParamError represents a boundary parameter that could not be prepared
// for the handler. It always classifies as a client error.
type ParamError struct {
	Err      error  // Underlying sentinel error (ErrInvalidParam, ErrMissingParam)
	Position int    // Argument position
	Domain   string // Domain applied to the argument
	Cause    error  // Original error, if any
}

func (e *ParamError) Error() string {
	msg := fmt.Sprintf("%s at position %d", e.Err.Error(), e.Position)
	if e.Domain != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Domain)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *ParamError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// IsClientError reports whether err was caused by caller input: a parameter
// that could not be decoded or a body that could not be unmarshaled.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParam) ||
		errors.Is(err, ErrMissingParam) ||
		errors.Is(err, ErrUnmarshal)
}

// newTransformError creates a TransformError for field transformation failures.
func newTransformError(field string, d Domain, cause error) error {
	return &TransformError{
		Err:    ErrTransform,
		Field:  field,
		Domain: d.Name,
		Cause:  cause,
	}
}

// newParamError creates a ParamError for a boundary argument.
func newParamError(sentinel error, position int, d Domain, cause error) error {
	return &ParamError{
		Err:      sentinel,
		Position: position,
		Domain:   d.Name,
		Cause:    cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
