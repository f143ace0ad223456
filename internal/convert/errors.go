package convert

import (
	"errors"
	"fmt"
)

// Failure reasons a conversion can report. Callers match them with
// errors.Is against the error returned by Convert.
var (
	ErrSourceNotFound     = errors.New("source file not found")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrMissingOCRFunc     = errors.New("OCR conversion requested but no OCR function was provided")
	ErrNoExtractableText  = errors.New("no usable text extracted")
	ErrQualityCheckFailed = errors.New("extracted text failed quality check")
	ErrBackendUnavailable = errors.New("extraction backend unavailable")
)

// ConversionError is the typed failure for a single document. It always
// carries the offending source path and one of the reason sentinels above.
type ConversionError struct {
	Path   string
	Reason error
	cause  error
}

func newError(reason error, path string, cause error) *ConversionError {
	return &ConversionError{Path: path, Reason: reason, cause: cause}
}

func (e *ConversionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("convert %s: %v: %v", e.Path, e.Reason, e.cause)
	}
	return fmt.Sprintf("convert %s: %v", e.Path, e.Reason)
}

func (e *ConversionError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Reason, e.cause}
	}
	return []error{e.Reason}
}
