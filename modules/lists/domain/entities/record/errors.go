package record

import (
	"fmt"

	"github.com/iota-uz/agentlists/pkg/serrors"
)

// Logical field names as they appear in uploads.
const (
	FieldFirstName = "firstName"
	FieldPhone     = "phone"
	FieldNotes     = "notes"
)

var ErrValidation = serrors.NewError(
	"LISTS_VALIDATION_FAILED",
	"file validation failed",
	"Lists.Errors.ValidationFailed",
)

// ValidationError rejects a whole upload. Row is zero for structural
// defects (a required column is missing) and otherwise the 1-based line
// number of the offending row, with the header on line 1.
type ValidationError struct {
	Field  string
	Row    int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("missing required field: %s", e.Field)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func MissingColumn(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "missing required column"}
}

func InvalidRow(row int, field string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Row:    row,
		Reason: fmt.Sprintf("%s is required", field),
	}
}

func (e *ValidationError) ErrorCode() string {
	return ErrValidation.Code
}
