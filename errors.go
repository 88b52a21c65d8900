package schematic

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeConstruction ErrorType = "construction"
	ErrorTypeGeneration   ErrorType = "generation"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeRegistry     ErrorType = "registry"
	ErrorTypeApply        ErrorType = "apply"
)

// Error codes for fatal (non-diagnostic) failures.
const (
	ErrCodeMalformedDocument = "MALFORMED_DOCUMENT"
	ErrCodeUnknownColumnType = "UNKNOWN_COLUMN_TYPE"
	ErrCodeUnvalidatedSchema = "UNVALIDATED_SCHEMA"
	ErrCodeDocumentNotFound  = "DOCUMENT_NOT_FOUND"
	ErrCodeApplyFailed       = "APPLY_FAILED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// SchematicError represents unified errors across construction, generation,
// registry lookup and apply. Validation findings are never reported through
// this type; they are returned as Diagnostic data.
type SchematicError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Table   string    `json:"table,omitempty"`
	Column  string    `json:"column,omitempty"`
	Cause   error     `json:"-"`
}

func (e *SchematicError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("[%s:%s] table '%s', column '%s': %s", e.Type, e.Code, e.Table, e.Column, e.Message)
	case e.Table != "":
		return fmt.Sprintf("[%s:%s] table '%s': %s", e.Type, e.Code, e.Table, e.Message)
	default:
		return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
	}
}

func (e *SchematicError) Unwrap() error {
	return e.Cause
}

// WithTable adds table context to a SchematicError
func (e *SchematicError) WithTable(table string) *SchematicError {
	e.Table = table
	return e
}

// WithColumn adds column context to a SchematicError
func (e *SchematicError) WithColumn(column string) *SchematicError {
	e.Column = column
	return e
}

// WithCause adds a cause to a SchematicError
func (e *SchematicError) WithCause(cause error) *SchematicError {
	e.Cause = cause
	return e
}

// NewSchematicError creates a new SchematicError
func NewSchematicError(errorType ErrorType, code, message string) *SchematicError {
	return &SchematicError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// NewMalformedDocumentError creates a construction-time error for input that
// cannot be bound to the schema model.
func NewMalformedDocumentError(message string) *SchematicError {
	return &SchematicError{
		Type:    ErrorTypeConstruction,
		Code:    ErrCodeMalformedDocument,
		Message: message,
	}
}

// NewUnknownColumnTypeError creates a construction-time error for a column
// whose declared type is not in the allowed enumeration.
func NewUnknownColumnTypeError(table, column, rawType string) *SchematicError {
	return &SchematicError{
		Type:    ErrorTypeConstruction,
		Code:    ErrCodeUnknownColumnType,
		Message: fmt.Sprintf("unknown column type '%s'", rawType),
		Table:   table,
		Column:  column,
	}
}

// NewUnvalidatedSchemaError creates a generation-time contract error: DDL was
// requested for a document that carries error-severity diagnostics.
func NewUnvalidatedSchemaError(errorCount int) *SchematicError {
	return &SchematicError{
		Type:    ErrorTypeGeneration,
		Code:    ErrCodeUnvalidatedSchema,
		Message: fmt.Sprintf("document has %d outstanding error diagnostic(s); generation refused", errorCount),
	}
}

// NewDocumentNotFoundError creates a registry lookup error
func NewDocumentNotFoundError(name string) *SchematicError {
	return &SchematicError{
		Type:    ErrorTypeRegistry,
		Code:    ErrCodeDocumentNotFound,
		Message: fmt.Sprintf("schema document '%s' not found", name),
	}
}

// NewApplyError creates an apply-time error
func NewApplyError(message string, cause error) *SchematicError {
	return &SchematicError{
		Type:    ErrorTypeApply,
		Code:    ErrCodeApplyFailed,
		Message: message,
		Cause:   cause,
	}
}

// IsMalformedDocument checks if an error is a construction-time malformed
// document error (unknown column types included).
func IsMalformedDocument(err error) bool {
	var se *SchematicError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeConstruction
	}
	return false
}

// IsUnvalidatedSchema checks if an error is the generation-contract violation.
func IsUnvalidatedSchema(err error) bool {
	var se *SchematicError
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnvalidatedSchema
	}
	return false
}

// IsDocumentNotFound checks if an error is a registry miss.
func IsDocumentNotFound(err error) bool {
	var se *SchematicError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDocumentNotFound
	}
	return false
}
