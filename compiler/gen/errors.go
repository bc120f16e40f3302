package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is on the structured errors below.
var (
	// ErrInvalidSchema matches every SchemaError.
	ErrInvalidSchema = errors.New("stepgen: invalid buildable type")
	// ErrMissingConfig matches every ConfigError.
	ErrMissingConfig = errors.New("stepgen: bad configuration")
	// ErrGenerationFailed matches every GenerationError.
	ErrGenerationFailed = errors.New("stepgen: generation failed")
	// ErrValidationFailed matches every ValidationError.
	ErrValidationFailed = errors.New("stepgen: invalid builder protocol")
)

// SchemaError is returned for struct types that cannot get a builder: a
// duplicated field or type, a broken directive, an unparsable source file.
// Type and Field are empty when the problem is not tied to one of them.
type SchemaError struct {
	Type    string
	Field   string
	Message string
	Cause   error
}

// Error formats the error as "stepgen: Type.Field: message: cause".
func (e *SchemaError) Error() string {
	subject := e.Type
	if e.Field != "" {
		subject += "." + e.Field
	}
	if subject == "" {
		subject = "buildable type"
	}
	return join("stepgen: "+subject, e.Message, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Is matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError returns a SchemaError for the given type and field.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{Type: typeName, Field: fieldName, Message: message, Cause: cause}
}

// ConfigError is returned for an option, flag or project file entry that
// holds an unusable value.
type ConfigError struct {
	// Option names the rejected setting, e.g. "Strategy" or "stepgen.yaml".
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	subject := "stepgen: bad " + e.Option
	if e.Value != nil {
		subject += fmt.Sprintf(" %v", e.Value)
	}
	return join(subject, e.Message, nil)
}

// Is matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a ConfigError. value may be nil.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError is returned when a builder file cannot be emitted,
// formatted or written. Phase is one of "emit", "render", "format" and
// "write".
type GenerationError struct {
	Phase   string
	File    string
	Message string
	Cause   error
}

// Error formats the error as "stepgen: phase file: message: cause".
func (e *GenerationError) Error() string {
	subject := "stepgen: "
	if e.Phase != "" {
		subject += e.Phase
	} else {
		subject += "generate"
	}
	if e.File != "" {
		subject += " " + e.File
	}
	return join(subject, e.Message, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Is matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError returns a GenerationError for file.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// ValidationError is returned by Descriptor.Validate when field names make
// two interfaces or methods of a protocol collide. Value holds the colliding
// name.
type ValidationError struct {
	Type    string
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("stepgen: ")
	if e.Type != "" {
		b.WriteString(e.Type)
		b.WriteString(" builder")
	} else {
		b.WriteString("builder")
	}
	if e.Field != "" {
		b.WriteString(", field ")
		b.WriteString(e.Field)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (%v)", e.Value)
	}
	return join(b.String(), e.Message, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError returns a ValidationError for a name collision.
func NewValidationError(typeName, field string, value any, message string) *ValidationError {
	return &ValidationError{Type: typeName, Field: field, Value: value, Message: message}
}

// join appends the non-empty message and cause to subject, separated by ": ".
func join(subject, message string, cause error) string {
	if message != "" {
		subject += ": " + message
	}
	if cause != nil {
		subject += ": " + cause.Error()
	}
	return subject
}

// IsSchemaError reports whether err wraps a SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsGenerationError reports whether err wraps a GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
