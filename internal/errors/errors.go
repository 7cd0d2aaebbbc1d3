package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies pipeline errors for logging and exit handling.
type Code string

const (
	// CodeSchema indicates a required input column is absent.
	CodeSchema Code = "SCHEMA_ERROR"
	// CodeMissingFile indicates an input file could not be found.
	CodeMissingFile Code = "MISSING_FILE"
	// CodeParse indicates an input cell could not be interpreted.
	CodeParse Code = "PARSE_ERROR"
	// CodeValidation indicates input data violated a split invariant.
	CodeValidation Code = "VALIDATION_FAILED"
	// CodeStageFailed indicates a pipeline stage aborted the run.
	CodeStageFailed Code = "STAGE_FAILED"
)

// PipelineError is a structured error carrying a classification code and the
// input table it relates to.
type PipelineError struct {
	Code    Code
	Table   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	msg := e.Message
	if e.Table != "" {
		msg = fmt.Sprintf("%s: %s", e.Table, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", msg, e.Code, e.Err)
	}
	return fmt.Sprintf("%s [%s]", msg, e.Code)
}

// Unwrap returns the wrapped cause, if any.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// New creates a new PipelineError with the given code and message.
func New(code Code, table, message string) *PipelineError {
	return &PipelineError{Code: code, Table: table, Message: message}
}

// Wrap creates a new PipelineError wrapping an underlying cause.
func Wrap(code Code, table, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Table: table, Message: message, Err: err}
}

// NewSchemaError reports required columns missing from an input table.
// Schema errors are fatal: the run aborts before any output is written.
func NewSchemaError(table string, missing []string) *PipelineError {
	return &PipelineError{
		Code:    CodeSchema,
		Table:   table,
		Message: fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", ")),
	}
}

// NewMissingFileError reports an input file that could not be located.
func NewMissingFileError(table, path string, err error) *PipelineError {
	return &PipelineError{
		Code:    CodeMissingFile,
		Table:   table,
		Message: fmt.Sprintf("input file not found: %s", path),
		Err:     err,
	}
}

// NewParseError reports a cell that could not be converted to its column type.
func NewParseError(table string, row int, column string, err error) *PipelineError {
	return &PipelineError{
		Code:    CodeParse,
		Table:   table,
		Message: fmt.Sprintf("row %d, column %s: cannot parse value", row, column),
		Err:     err,
	}
}

// NewValidationError reports a violated split invariant, such as a duplicate
// applicant identifier or a label column on the test split.
func NewValidationError(table, message string) *PipelineError {
	return &PipelineError{Code: CodeValidation, Table: table, Message: message}
}

// CodeOf extracts the classification code from an error chain, or empty string
// if the chain contains no PipelineError.
func CodeOf(err error) Code {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsSchemaError reports whether the error chain contains a schema error.
func IsSchemaError(err error) bool {
	return CodeOf(err) == CodeSchema
}
