package services

import (
	"errors"
	"io"

	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/pkg/tabular"
)

// Normalize turns raw rows into validated records. Required columns are
// checked before any row is read, and the first invalid row rejects the
// whole file: the caller gets either every record or none.
func Normalize(r tabular.Reader) ([]record.Record, error) {
	headers := r.Headers()

	firstNameKey, ok := tabular.HeaderIndex(headers, record.FieldFirstName)
	if !ok {
		return nil, record.MissingColumn(record.FieldFirstName)
	}
	phoneKey, ok := tabular.HeaderIndex(headers, record.FieldPhone)
	if !ok {
		return nil, record.MissingColumn(record.FieldPhone)
	}
	notesKey, hasNotes := tabular.HeaderIndex(headers, record.FieldNotes)

	var records []record.Record
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		notes := ""
		if hasNotes {
			notes = tabular.Stringify(row[notesKey])
		}
		rec := record.New(
			tabular.Stringify(row[firstNameKey]),
			tabular.Stringify(row[phoneKey]),
			notes,
		)
		if field, ok := rec.Validate(); !ok {
			return nil, record.InvalidRow(r.Line(), field)
		}
		records = append(records, rec)
	}
	return records, nil
}
