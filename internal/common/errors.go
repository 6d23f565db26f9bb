package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes surfaced to the CLI.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeExtraction     = "EXTRACTION_ERROR"
	CodeConfig         = "CONFIG_ERROR"
	CodeResponseFormat = "RESPONSE_FORMAT_ERROR"
	CodeResponseShape  = "RESPONSE_SHAPE_ERROR"
)

// Common application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrExtraction     = errors.New("pdf could not be opened")
	ErrResponseFormat = errors.New("completion is not valid json")
	ErrResponseShape  = errors.New("completion does not describe a catalog")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDatabase       = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NotFoundError reports a missing input path.
func NotFoundError(path string) error {
	return NewAppError(CodeNotFound, "file not found: "+path, ErrNotFound)
}

// ExtractionError reports a PDF no backend could open.
func ExtractionError(path string, cause error) error {
	return NewAppError(CodeExtraction, "cannot read pdf "+path, errors.Join(ErrExtraction, cause))
}

// ResponseFormatError reports model output that failed strict and repaired parsing.
func ResponseFormatError(cause error) error {
	return NewAppError(CodeResponseFormat, "invalid model response", errors.Join(ErrResponseFormat, cause))
}

// ResponseShapeError reports valid JSON that cannot be read as the expected
// document, such as a top-level list or string.
func ResponseShapeError(cause error) error {
	return NewAppError(CodeResponseShape, "unexpected model response shape", errors.Join(ErrResponseShape, cause))
}

// IsResponseError reports whether err came from decoding model output.
func IsResponseError(err error) bool {
	return errors.Is(err, ErrResponseFormat) || errors.Is(err, ErrResponseShape)
}

// IsFatal reports whether err must reach the top-level caller.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExtraction)
}
