package tabular

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const (
	zipMIME = "application/zip"
	oleMIME = "application/x-ole-storage"
)

// sheetRow is one row of a sheet with its 1-based row number.
type sheetRow struct {
	line  int
	cells []string
}

// sheetReader serves rows of a fully loaded sheet.
type sheetReader struct {
	format  Format
	headers []string
	rows    []sheetRow
	pos     int
	line    int
}

func (s *sheetReader) Format() Format {
	return s.format
}

func (s *sheetReader) Headers() []string {
	return s.headers
}

func (s *sheetReader) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	current := s.rows[s.pos]
	s.pos++
	s.line = current.line
	if err := checkEncoding(current.cells, current.line); err != nil {
		return nil, err
	}
	return buildRow(s.headers, current.cells), nil
}

func (s *sheetReader) Line() int {
	return s.line
}

// newSheetReader takes the first non-blank row as the header and keeps the
// non-blank rows below it, each with its original row number.
func newSheetReader(format Format, raw []sheetRow) (*sheetReader, error) {
	var (
		headers []string
		rows    []sheetRow
	)
	for _, r := range raw {
		if isBlank(r.cells) {
			continue
		}
		if headers == nil {
			headers = r.cells
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil, malformed("spreadsheet is empty")
	}
	return &sheetReader{format: format, headers: headers, rows: rows}, nil
}

func newXLSXReader(src io.Reader) (*sheetReader, error) {
	data, err := readContainer(src, zipMIME)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("open xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed("spreadsheet has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, malformed("read sheet %q: %v", sheets[0], err)
	}
	// GetRows keeps empty rows in between, so the index is the row number
	raw := make([]sheetRow, 0, len(grid))
	for i, cells := range grid {
		raw = append(raw, sheetRow{line: i + 1, cells: cells})
	}
	return newSheetReader(FormatXLSX, raw)
}

func newXLSReader(src io.Reader) (r *sheetReader, err error) {
	data, err := readContainer(src, oleMIME)
	if err != nil {
		return nil, err
	}

	// The BIFF decoder panics on some truncated inputs.
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, malformed("decode xls: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, malformed("open xls: %v", err)
	}
	if wb.NumSheets() == 0 {
		return nil, malformed("spreadsheet has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, malformed("spreadsheet has no sheets")
	}

	raw := make([]sheetRow, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		raw = append(raw, sheetRow{line: i + 1, cells: cells})
	}
	return newSheetReader(FormatXLS, raw)
}

// readContainer loads src and checks that its content sniffs as the
// expected container type.
func readContainer(src io.Reader, want string) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, malformed("read upload: %v", err)
	}
	if len(data) == 0 {
		return nil, malformed("spreadsheet is empty")
	}
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(want) {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: content looks like %s", ErrMalformedInput, detected.String())
}
