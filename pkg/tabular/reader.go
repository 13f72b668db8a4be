package tabular

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Row maps original header text to a cell value. Values are strings for
// every built-in reader; numbers are accepted by Stringify for callers that
// build rows by hand.
type Row map[string]any

// Reader yields the rows of one uploaded file. Headers is available as soon
// as the reader is opened; Next returns io.EOF after the last row. Line is
// the 1-based position in the source of the row last returned by Next:
// the physical line for CSV, the sheet row number for spreadsheets.
type Reader interface {
	Format() Format
	Headers() []string
	Next() (Row, error)
	Line() int
}

// Open returns a Reader for the given format. CSV input is streamed;
// spreadsheets are loaded whole and only their first sheet is read.
func Open(format Format, r io.Reader) (Reader, error) {
	switch format {
	case FormatCSV:
		return newCSVReader(r)
	case FormatXLSX:
		return newXLSXReader(r)
	case FormatXLS:
		return newXLSReader(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadAll drains r.
func ReadAll(r Reader) ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// HeaderIndex resolves a logical field name against headers ignoring case
// and surrounding whitespace. The first match wins.
func HeaderIndex(headers []string, field string) (string, bool) {
	field = strings.TrimSpace(field)
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), field) {
			return h, true
		}
	}
	return "", false
}

// Stringify renders a cell value as text.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// buildRow keys cells by header text; blank headers are dropped and, for
// repeated headers, the first column wins.
func buildRow(headers []string, cells []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" || i >= len(cells) {
			continue
		}
		if _, exists := row[h]; exists {
			continue
		}
		row[h] = cells[i]
	}
	return row
}

// checkEncoding rejects cells that are not valid UTF-8. Stored items are
// JSON, which would silently replace such bytes.
func checkEncoding(cells []string, line int) error {
	for _, c := range cells {
		if !utf8.ValidString(c) {
			return malformed("line %d: invalid text encoding", line)
		}
	}
	return nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
